package core

import "time"

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	// AppName is reported to the server as the client application name.
	AppName string
	// ConnectTimeout bounds the dial and login phase. Zero means no bound.
	ConnectTimeout time.Duration
	Options        map[string]string
}
