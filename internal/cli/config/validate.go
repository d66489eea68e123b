package config

import (
	"fmt"
	"strings"
)

// reservedNames cannot be server names because cobra owns them.
var reservedNames = map[string]bool{
	"help":       true,
	"completion": true,
}

// Validate checks that every server name can be used as a subcommand.
func (c *Config) Validate() error {
	if c.Servers == nil {
		return fmt.Errorf("no [%s] section loaded", SectionServers)
	}
	for _, name := range c.Servers.Names() {
		switch {
		case name == "":
			return fmt.Errorf("[%s]: empty server name", SectionServers)
		case strings.HasPrefix(name, "-"):
			return fmt.Errorf("[%s]: server name %q must not start with '-'", SectionServers, name)
		case strings.ContainsAny(name, " \t\r\n"):
			return fmt.Errorf("[%s]: server name %q must not contain whitespace", SectionServers, name)
		case reservedNames[strings.ToLower(name)]:
			return fmt.Errorf("[%s]: server name %q is reserved", SectionServers, name)
		}
	}
	return nil
}
