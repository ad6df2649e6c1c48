package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type SafeenConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Path   string `mapstructure:"path"`
		Strict bool   `mapstructure:"strict"`
	} `mapstructure:"storage"`

	Shell struct {
		Prompt     string `mapstructure:"prompt"`
		History    string `mapstructure:"history"`
		HistoryMax int    `mapstructure:"history_max"`
	} `mapstructure:"shell"`

	Log struct {
		Level string `mapstructure:"level"`
		Color string `mapstructure:"color"` // auto | always | never
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "sfn")
	v.SetDefault("storage.path", "./data/db.sfn")
	v.SetDefault("storage.strict", false)
	v.SetDefault("shell.prompt", "sfn> ")
	v.SetDefault("shell.history", "~/.sfn_history")
	v.SetDefault("shell.history_max", 2000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.color", "auto")
}

// LoadConfig reads a YAML config file. An empty path yields the defaults.
// SFN_* environment variables override both, e.g. SFN_STORAGE_PATH.
func LoadConfig(path string) (*SafeenConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SFN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg SafeenConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Shell.History = expandHome(cfg.Shell.History)
	return &cfg, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/")
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
