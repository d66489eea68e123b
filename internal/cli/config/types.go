// Package config loads the tdb config file and the bootstrap settings that
// locate it.
//
// The config file is TOML (or YAML, chosen by extension) with three
// top-level sections:
//
//	[Servers]
//	PROD = "db1.example.com"
//	QA = { url = "qa.example.com", port = 14330 }
//
//	[Staff]
//	LoginUserId = "..."
//	PIN = "..."
//	...
//
//	[StaffBadges]
//	BadgeData = "..."
package config

import (
	"github.com/leapstack-labs/tdb/internal/registry"
)

// Default configuration values.
const (
	DefaultFileName = "tdb.toml"
	DefaultLogLevel = "warn"
	EnvPrefix       = "TDB_"
	EnvFileName     = ".env"
)

// Section names in the config file.
const (
	SectionServers     = "Servers"
	SectionStaff       = "Staff"
	SectionStaffBadges = "StaffBadges"
)

// Config is the loaded config file. It is read-only after Load returns.
type Config struct {
	// File is the path the config was read from.
	File string

	Servers     *registry.ServerRegistry
	Staff       Staff
	StaffBadges StaffBadges
}

// Staff identifies the operator running tdb.
type Staff struct {
	LoginUserID  string `koanf:"LoginUserId"`
	PIN          string `koanf:"PIN"`
	FirstName    string `koanf:"FirstName"`
	LastName     string `koanf:"LastName"`
	NTUserName   string `koanf:"NTUserName"`
	EmailAddress string `koanf:"EmailAddress"`
	SSOUserID    string `koanf:"SSOUserId"`
}

// StaffBadges holds the operator's badge record.
type StaffBadges struct {
	LoginUserID *string `koanf:"LoginUserId"`
	BadgeData   string  `koanf:"BadgeData"`
}

// Credentials are the optional SQL login used for every server.
// Empty means the driver's default authentication.
type Credentials struct {
	Username string
	Password string
}

// Settings are resolved before the config file is read: where the file
// lives and how verbose logging is.
type Settings struct {
	ConfigPath string `koanf:"config"`
	LogLevel   string `koanf:"log"`
}
