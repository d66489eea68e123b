// Package dbname normalizes user-supplied database identifiers.
package dbname

// CodePrefix is prepended to a database code to form the full database name.
const CodePrefix = "acgapplication_"

// IsCode reports whether s is a database code: exactly five bytes, three
// ASCII letters followed by two ASCII digits.
func IsCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < 3; i++ {
		if !isASCIILetter(s[i]) {
			return false
		}
	}
	return isASCIIDigit(s[3]) && isASCIIDigit(s[4])
}

// Resolve expands a database code to its full name. Any other input is
// returned unchanged. Letter case is preserved.
func Resolve(s string) string {
	if IsCode(s) {
		return CodePrefix + s
	}
	return s
}

func isASCIILetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isASCIIDigit(b byte) bool {
	return '0' <= b && b <= '9'
}
