package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/tdb/pkg/core"
	"github.com/spf13/pflag"
)

// Flag names shared by the bootstrap pass and the cobra root command.
const (
	FlagConfig = "config"
	FlagInfo   = "info"
	FlagTrace  = "trace"
)

// BindGlobalFlags defines --config, --info and --trace on fs.
func BindGlobalFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "config file (default: "+DefaultFileName+" next to the executable)")
	fs.Bool(FlagInfo, false, "use info output")
	fs.Bool(FlagTrace, false, "use trace output")
}

// LoadSettings resolves Settings from args before any command tree exists.
// The server subcommands are built from the config file, so the file must be
// located first. Precedence (highest to lowest): flags > env vars > defaults.
// Arguments other than the global flags are ignored here.
func LoadSettings(args []string) (Settings, error) {
	fs := pflag.NewFlagSet("tdb", pflag.ContinueOnError)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.Usage = func() {}
	BindGlobalFlags(fs)
	fs.BoolP("help", "h", false, "")

	if err := fs.Parse(args); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", core.ErrConfig, err)
	}

	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"config": DefaultConfigPath(),
		"log":    DefaultLogLevel,
	}, "."), nil); err != nil {
		return Settings{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Environment: TDB_CONFIG -> config, TDB_LOG -> log
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		switch key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix)); key {
		case "config", "log":
			return key
		default:
			return ""
		}
	}), nil); err != nil {
		return Settings{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 3. Flags: --info and --trace both map onto the log level; --trace wins.
	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
		if !f.Changed {
			return "", nil
		}
		switch f.Name {
		case FlagConfig:
			return "config", posflag.FlagVal(fs, f)
		case FlagInfo:
			if v, _ := fs.GetBool(FlagTrace); v {
				return "", nil
			}
			if v, _ := fs.GetBool(FlagInfo); v {
				return "log", "info"
			}
		case FlagTrace:
			if v, _ := fs.GetBool(FlagTrace); v {
				return "log", "trace"
			}
		}
		return "", nil
	}), nil); err != nil {
		return Settings{}, fmt.Errorf("failed to load flags: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("unable to decode settings: %w", err)
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return Settings{}, fmt.Errorf("%w: %s%s: %w", core.ErrConfig, EnvPrefix, "LOG", err)
	}
	return s, nil
}
