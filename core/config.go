package core

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr          = "0.0.0.0:8000"
	DefaultEnv           = "dev"
	DefaultPublicDir     = "public"
	DefaultAllowedOrigin = "http://localhost:3000"
	DefaultConfigFile    = "greet.config.yml"
)

type Config struct {
	Addr          string `yaml:"addr" json:"addr"`
	Env           string `yaml:"env" json:"env"`
	PublicDir     string `yaml:"publicDir" json:"publicDir"`
	AllowedOrigin string `yaml:"allowedOrigin" json:"allowedOrigin"`
	DebugHeaders  bool   `yaml:"debugHeaders" json:"debugHeaders"`
	DebugLogs     bool   `yaml:"debugLogs" json:"debugLogs"`
	MinifyHTML    bool   `yaml:"minifyHTML" json:"minifyHTML"`
	Compress      bool   `yaml:"compress" json:"compress"`
}

func DefaultConfig() Config {
	return Config{
		Addr:          DefaultAddr,
		Env:           DefaultEnv,
		PublicDir:     DefaultPublicDir,
		AllowedOrigin: DefaultAllowedOrigin,
	}
}

// LoadConfig reads a YAML config file. A missing file yields the defaults;
// a file that does not parse is an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.Env == "" {
		c.Env = def.Env
	}
	if c.PublicDir == "" {
		c.PublicDir = def.PublicDir
	}
	if c.AllowedOrigin == "" {
		c.AllowedOrigin = def.AllowedOrigin
	}
}

func (c Config) Validate() error {
	if c.Env != "dev" && c.Env != "prod" {
		return errors.Errorf("config: env must be dev or prod, got %q", c.Env)
	}
	return nil
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}
