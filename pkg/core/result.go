package core

// ResultSet is a fully materialized query result. Columns keep the order
// reported by the server and every row has exactly len(Columns) values.
type ResultSet struct {
	Columns []string
	Rows    [][]ColumnValue
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}
