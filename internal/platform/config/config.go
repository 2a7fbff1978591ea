package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Service is the client's view of the study service.
type Service struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// Ollama points the server's planner at a local model. Empty URL means
// no model is configured and the server plans heuristically.
type Ollama struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
}

// Server configures the serve command.
type Server struct {
	Addr   string `yaml:"addr"`
	DBPath string `yaml:"db_path"`
	Token  string `yaml:"token"`
	Log    string `yaml:"log"`
	Ollama Ollama `yaml:"ollama"`
}

type Config struct {
	Service Service `yaml:"service"`
	Server  Server  `yaml:"server"`
}

func Default() Config {
	return Config{
		Service: Service{BaseURL: "http://localhost:8080"},
		Server:  Server{Addr: ":8080", DBPath: "cerebra.db", Log: "prod", Ollama: Ollama{Model: "llama3.2"}},
	}
}

// DefaultPath is ~/.config/cerebra/config.yaml (or the platform
// equivalent of the user config dir).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "cerebra", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
// CEREBRA_BASE_URL and CEREBRA_TOKEN override the service block so the
// token can stay out of the file on shared machines.
func Load(path string) (Config, error) {
	cfg := Default()
	payload, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(payload, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if v := os.Getenv("CEREBRA_BASE_URL"); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := os.Getenv("CEREBRA_TOKEN"); v != "" {
		cfg.Service.Token = v
	}
	return cfg, nil
}
