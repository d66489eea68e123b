// Package registry provides server registration and name resolution.
// It maps the server names declared in the config file to the host and
// port a connection should be opened against.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/tdb/pkg/core"
)

// DefaultPort is the standard SQL Server port.
const DefaultPort uint16 = 1433

// ServerEntry is a named database endpoint. Port is always concrete.
type ServerEntry struct {
	Name string
	Host string
	Port uint16
}

// Addr returns host:port.
func (e ServerEntry) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// serverTable is the expanded config form: { url = "...", port = 1433 }.
type serverTable struct {
	URL  string `koanf:"url"`
	Port *int64 `koanf:"port"`
}

// ParseEntry converts one raw config value into a ServerEntry.
// The compact form is a bare host string; the expanded form is a table with
// a required url and an optional port. Both forms default to DefaultPort.
func ParseEntry(name string, raw any) (ServerEntry, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return ServerEntry{}, fmt.Errorf("server %q: host is empty", name)
		}
		return ServerEntry{Name: name, Host: v, Port: DefaultPort}, nil

	case map[string]any:
		var tbl serverTable
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:           "koanf",
			ErrorUnused:       true,
			ErrorUnset:        true,
			AllowUnsetPointer: true,
			Result:            &tbl,
		})
		if err != nil {
			return ServerEntry{}, err
		}
		if err := dec.Decode(v); err != nil {
			return ServerEntry{}, fmt.Errorf("server %q: %w", name, err)
		}
		if tbl.URL == "" {
			return ServerEntry{}, fmt.Errorf("server %q: url is empty", name)
		}

		port := DefaultPort
		if tbl.Port != nil {
			if *tbl.Port < 1 || *tbl.Port > 65535 {
				return ServerEntry{}, fmt.Errorf("server %q: port %d out of range", name, *tbl.Port)
			}
			port = uint16(*tbl.Port)
		}
		return ServerEntry{Name: name, Host: tbl.URL, Port: port}, nil

	default:
		return ServerEntry{}, fmt.Errorf("server %q: expected a host string or a table, got %T", name, raw)
	}
}

// ServerRegistry maps server names to their entries. It is built once after
// config load and never mutated, so it is safe for concurrent reads.
type ServerRegistry struct {
	byName map[string]ServerEntry
}

// NewServerRegistry creates a registry from the given entries.
// Entry names are taken from the map keys.
func NewServerRegistry(entries map[string]ServerEntry) *ServerRegistry {
	byName := make(map[string]ServerEntry, len(entries))
	for name, e := range entries {
		e.Name = name
		if e.Port == 0 {
			e.Port = DefaultPort
		}
		byName[name] = e
	}
	return &ServerRegistry{byName: byName}
}

// Resolve returns the entry registered under name.
func (r *ServerRegistry) Resolve(name string) (ServerEntry, error) {
	e, ok := r.byName[name]
	if !ok {
		return ServerEntry{}, fmt.Errorf("server %q (known servers: %s): %w",
			name, strings.Join(r.Names(), ", "), core.ErrNotFound)
	}
	return e, nil
}

// Names returns all registered server names, sorted.
func (r *ServerRegistry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns all entries sorted by name.
func (r *ServerRegistry) Entries() []ServerEntry {
	names := r.Names()
	entries := make([]ServerEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, r.byName[name])
	}
	return entries
}

// Len returns the number of registered servers.
func (r *ServerRegistry) Len() int {
	return len(r.byName)
}
