package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/tdb/internal/registry"
	"github.com/leapstack-labs/tdb/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staffTOML = `
[Staff]
LoginUserId = "jdoe"
PIN = "1234"
FirstName = "Jane"
LastName = "Doe"
NTUserName = "CORP\\jdoe"
EmailAddress = "jdoe@example.com"
SSOUserId = "sso-42"

[StaffBadges]
BadgeData = "0xBADGE"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ServerForms(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tdb.toml", `
[Servers]
PROD = "host.example.com"
QA = { url = "host.example.com" }
DEV = { url = "dev.example.com", port = 14330 }
`+staffTOML)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, []string{"DEV", "PROD", "QA"}, cfg.Servers.Names())

	prod, err := cfg.Servers.Resolve("PROD")
	require.NoError(t, err)
	qa, err := cfg.Servers.Resolve("QA")
	require.NoError(t, err)
	dev, err := cfg.Servers.Resolve("DEV")
	require.NoError(t, err)

	assert.Equal(t, registry.DefaultPort, prod.Port)
	assert.Equal(t, prod.Host, qa.Host)
	assert.Equal(t, prod.Port, qa.Port, "compact and table forms must agree")
	assert.Equal(t, registry.ServerEntry{Name: "DEV", Host: "dev.example.com", Port: 14330}, dev)
}

func TestLoad_Staff(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tdb.toml", "[Servers]\nPROD = \"db1\"\n"+staffTOML)

	cfg, err := Load(path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	assert.Equal(t, Staff{
		LoginUserID:  "jdoe",
		PIN:          "1234",
		FirstName:    "Jane",
		LastName:     "Doe",
		NTUserName:   `CORP\jdoe`,
		EmailAddress: "jdoe@example.com",
		SSOUserID:    "sso-42",
	}, cfg.Staff)
	assert.Nil(t, cfg.StaffBadges.LoginUserID)
	assert.Equal(t, "0xBADGE", cfg.StaffBadges.BadgeData)
}

func TestLoad_StaffBadgesLoginUserID(t *testing.T) {
	content := "[Servers]\nPROD = \"db1\"\n" + staffTOML + "LoginUserId = \"jdoe\"\n"
	path := writeFile(t, t.TempDir(), "tdb.toml", content)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.StaffBadges.LoginUserID)
	assert.Equal(t, "jdoe", *cfg.StaffBadges.LoginUserID)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tdb.yaml", `
Servers:
  PROD: db1.example.com
  QA:
    url: qa.example.com
    port: 2000
Staff:
  LoginUserId: jdoe
  PIN: "1234"
  FirstName: Jane
  LastName: Doe
  NTUserName: jdoe
  EmailAddress: jdoe@example.com
  SSOUserId: sso-42
StaffBadges:
  BadgeData: abc
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	qa, err := cfg.Servers.Resolve("QA")
	require.NoError(t, err)
	assert.Equal(t, uint16(2000), qa.Port)

	prod, err := cfg.Servers.Resolve("PROD")
	require.NoError(t, err)
	assert.Equal(t, registry.DefaultPort, prod.Port)
}

func TestLoad_EmptyServers(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tdb.toml", "[Servers]\n"+staffTOML)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Servers.Len())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{
			name:      "missing servers",
			content:   staffTOML,
			errSubstr: "missing [Servers] section",
		},
		{
			name:      "servers not a table",
			content:   "Servers = \"db1\"\n" + staffTOML,
			errSubstr: "[Servers] must be a table",
		},
		{
			name:      "unknown key in server table",
			content:   "[Servers]\nPROD = { url = \"db1\", user = \"sa\" }\n" + staffTOML,
			errSubstr: "invalid keys: user",
		},
		{
			name:      "server table without url",
			content:   "[Servers]\nPROD = { port = 1433 }\n" + staffTOML,
			errSubstr: "unset fields: url",
		},
		{
			name:      "server with bad port",
			content:   "[Servers]\nPROD = { url = \"db1\", port = 0 }\n" + staffTOML,
			errSubstr: "out of range",
		},
		{
			name:      "missing staff",
			content:   "[Servers]\nPROD = \"db1\"\n[StaffBadges]\nBadgeData = \"x\"\n",
			errSubstr: "missing [Staff] section",
		},
		{
			name:      "unknown staff key",
			content:   "[Servers]\nPROD = \"db1\"\n" + staffTOML + "\n[Staff.Extra]\n",
			errSubstr: "invalid keys: Extra",
		},
		{
			name: "missing staff field",
			content: `[Servers]
PROD = "db1"
[Staff]
LoginUserId = "jdoe"
FirstName = "Jane"
LastName = "Doe"
NTUserName = "jdoe"
EmailAddress = "jdoe@example.com"
SSOUserId = "sso"
[StaffBadges]
BadgeData = "x"
`,
			errSubstr: "unset fields: PIN",
		},
		{
			name: "staff key with wrong case",
			content: `[Servers]
PROD = "db1"
[Staff]
LoginUserId = "jdoe"
Pin = "1234"
FirstName = "Jane"
LastName = "Doe"
NTUserName = "jdoe"
EmailAddress = "jdoe@example.com"
SSOUserId = "sso"
[StaffBadges]
BadgeData = "x"
`,
			errSubstr: "invalid keys: Pin",
		},
		{
			name:      "missing badge data",
			content:   "[Servers]\nPROD = \"db1\"\n" + staffTOML[:len(staffTOML)-len("BadgeData = \"0xBADGE\"\n")],
			errSubstr: "unset fields: BadgeData",
		},
		{
			name:      "reserved server name",
			content:   "[Servers]\nhelp = \"db1\"\n" + staffTOML,
			errSubstr: `server name "help" is reserved`,
		},
		{
			name:      "malformed toml",
			content:   "[Servers\nPROD = ",
			errSubstr: "reading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "tdb.toml", tt.content)

			cfg, err := Load(path, nil)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, core.ErrConfig)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfig)
	assert.Contains(t, err.Error(), path)
}

func TestParserFor(t *testing.T) {
	assert.NotNil(t, parserFor("tdb.toml"))
	assert.IsType(t, parserFor("a.yaml"), parserFor("b.YML"))
	assert.IsType(t, parserFor("a.toml"), parserFor("no-extension"))
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	assert.Equal(t, DefaultFileName, filepath.Base(path))
}

func TestLoadCredentials(t *testing.T) {
	t.Run("no env file", func(t *testing.T) {
		t.Setenv("TDB_USER", "")
		os.Unsetenv("TDB_USER")
		t.Setenv("TDB_PASSWORD", "")
		os.Unsetenv("TDB_PASSWORD")

		creds, err := LoadCredentials(filepath.Join(t.TempDir(), "tdb.toml"))
		require.NoError(t, err)
		assert.Equal(t, Credentials{}, creds)
	})

	t.Run("env file beside config", func(t *testing.T) {
		t.Setenv("TDB_USER", "")
		os.Unsetenv("TDB_USER")
		t.Setenv("TDB_PASSWORD", "")
		os.Unsetenv("TDB_PASSWORD")

		dir := t.TempDir()
		writeFile(t, dir, ".env", "TDB_USER=svc\nTDB_PASSWORD='s3cret value'\n")

		creds, err := LoadCredentials(filepath.Join(dir, "tdb.toml"))
		require.NoError(t, err)
		assert.Equal(t, Credentials{Username: "svc", Password: "s3cret value"}, creds)
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("TDB_USER", "override")
		t.Setenv("TDB_PASSWORD", "")
		os.Unsetenv("TDB_PASSWORD")

		dir := t.TempDir()
		writeFile(t, dir, ".env", "TDB_USER=svc\nTDB_PASSWORD=fromfile\n")

		creds, err := LoadCredentials(filepath.Join(dir, "tdb.toml"))
		require.NoError(t, err)
		assert.Equal(t, Credentials{Username: "override", Password: "fromfile"}, creds)
	})
}
