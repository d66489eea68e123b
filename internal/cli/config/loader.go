package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/tdb/internal/registry"
	"github.com/leapstack-labs/tdb/pkg/core"
)

// DefaultConfigPath returns tdb.toml in the directory of the running
// executable, or tdb.toml in the working directory if that cannot be
// determined.
func DefaultConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

// parserFor picks the koanf parser from the file extension. Anything that is
// not YAML is read as TOML.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// Load reads and decodes the config file at path. Every failure wraps
// core.ErrConfig.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrConfig, path, err)
	}

	cfg, err := decode(k)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrConfig, path, err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrConfig, path, err)
	}

	logger.Info("config loaded", slog.String("file", path), slog.Int("servers", cfg.Servers.Len()))
	logger.Log(context.Background(), LevelTrace, "config", slog.Any("servers", cfg.Servers.Names()), slog.String("login", cfg.Staff.LoginUserID))
	return cfg, nil
}

func decode(k *koanf.Koanf) (*Config, error) {
	raw := k.Raw()
	cfg := &Config{}

	serversRaw, ok := raw[SectionServers]
	if !ok {
		return nil, fmt.Errorf("missing [%s] section", SectionServers)
	}
	servers, ok := serversRaw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("[%s] must be a table, got %T", SectionServers, serversRaw)
	}
	entries := make(map[string]registry.ServerEntry, len(servers))
	for name, v := range servers {
		entry, err := registry.ParseEntry(name, v)
		if err != nil {
			return nil, fmt.Errorf("[%s]: %w", SectionServers, err)
		}
		entries[name] = entry
	}
	cfg.Servers = registry.NewServerRegistry(entries)

	if err := unmarshalStrict(k, raw, SectionStaff, &cfg.Staff); err != nil {
		return nil, err
	}
	if err := unmarshalStrict(k, raw, SectionStaffBadges, &cfg.StaffBadges); err != nil {
		return nil, err
	}
	return cfg, nil
}

// unmarshalStrict decodes one section. Keys must match field tags exactly,
// unknown keys are rejected and every non-pointer field is required.
func unmarshalStrict(k *koanf.Koanf, raw map[string]any, section string, out any) error {
	if _, ok := raw[section]; !ok {
		return fmt.Errorf("missing [%s] section", section)
	}
	err := k.UnmarshalWithConf(section, out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:       true,
			ErrorUnset:        true,
			AllowUnsetPointer: true,
			MatchName:         func(mapKey, fieldName string) bool { return mapKey == fieldName },
		},
	})
	if err != nil {
		return fmt.Errorf("[%s]: %w", section, err)
	}
	return nil
}

// LoadCredentials returns the SQL login from TDB_USER and TDB_PASSWORD. Values
// missing from the environment are looked up in a .env file next to the
// config file; the process environment wins.
func LoadCredentials(configPath string) (Credentials, error) {
	envFile := filepath.Join(filepath.Dir(configPath), EnvFileName)

	fileVals, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, fmt.Errorf("%w: reading %s: %w", core.ErrConfig, envFile, err)
		}
		fileVals = map[string]string{}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVals[key]
	}

	return Credentials{
		Username: lookup(EnvPrefix + "USER"),
		Password: lookup(EnvPrefix + "PASSWORD"),
	}, nil
}
