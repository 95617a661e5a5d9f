// Package config reads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ServerEnv holds the defaults the server binary's flags start from.
type ServerEnv struct {
	Addr      string `env:"GEMGRID_ADDR" envDefault:":8080"`
	DataDir   string `env:"GEMGRID_DATA_DIR" envDefault:"./data"`
	DisableDB bool   `env:"GEMGRID_DISABLE_DB"`
	Tuning    string `env:"GEMGRID_TUNING" envDefault:"./configs/tuning.yaml"`
	Level     string `env:"GEMGRID_LEVEL" envDefault:"level1"`
}

// LoadDotEnv loads the first .env file found among paths. Variables already
// set in the environment win. It returns the file loaded, or "".
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env", "../.env", "../../.env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadServerEnv() (ServerEnv, error) {
	var cfg ServerEnv
	err := ParseEnv(&cfg)
	return cfg, err
}
