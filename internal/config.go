package internal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type ElemSQLConfig struct {
	AppName string `mapstructure:"app_name"`

	Database struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"database"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Server struct {
		Addr           string `mapstructure:"addr"`
		Debug          bool   `mapstructure:"debug"`
		StatementCache int    `mapstructure:"statement_cache"`
	} `mapstructure:"server"`

	REPL struct {
		History    string `mapstructure:"history"`
		HistoryMax int    `mapstructure:"history_max"`
		Prompt     string `mapstructure:"prompt"`
		Color      bool   `mapstructure:"color"`
	} `mapstructure:"repl"`
}

// EnvPrefix prefixes environment overrides: ELEMSQL_SERVER_ADDR sets
// server.addr.
const EnvPrefix = "ELEMSQL"

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"database.name":          "database",
	"log.level":              "log-level",
	"server.addr":            "addr",
	"server.debug":           "debug",
	"server.statement_cache": "statement-cache",
	"repl.history":           "history",
	"repl.color":             "color",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "elemsql")
	v.SetDefault("database.name", "untitled")
	v.SetDefault("log.level", "warn")
	v.SetDefault("server.addr", "127.0.0.1:8866")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.statement_cache", 128)
	v.SetDefault("repl.history", "")
	v.SetDefault("repl.history_max", 2000)
	v.SetDefault("repl.prompt", "elemsql> ")
	v.SetDefault("repl.color", true)
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (*ElemSQLConfig, error) {
	return Load(path, nil)
}

// Load resolves the configuration from defaults, the optional YAML file at
// path, ELEMSQL_* environment variables and the flags in fs that were set
// explicitly, in increasing priority.
func Load(path string, fs *pflag.FlagSet) (*ElemSQLConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, name := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg ElemSQLConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SlogLevel parses Log.Level, falling back to warn.
func (c *ElemSQLConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}
