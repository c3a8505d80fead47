// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
	History     HistoryConfig     `yaml:"history"`
	Persistence PersistenceConfig `yaml:"persistence"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type StorageConfig struct {
	Type           string        `yaml:"type"` // "postgres" или "inmemory"
	URL            string        `yaml:"url"`
	MaxConnections int           `yaml:"max_connections"`
	MinConnections int           `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type HistoryConfig struct {
	Depth int `yaml:"depth"` // максимум шагов undo, 0 = значение по умолчанию
}

type PersistenceConfig struct {
	Debounce time.Duration `yaml:"debounce"` // тишина перед записью
	Autosave time.Duration `yaml:"autosave"` // периодический полный сброс
}

// Default - конфигурация, с которой можно жить без config.yml.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: "8080"},
		Storage: StorageConfig{Type: "inmemory"},
		Logging: LoggingConfig{Development: true},
		History: HistoryConfig{Depth: 50},
		Persistence: PersistenceConfig{
			Debounce: time.Second,
			Autosave: 30 * time.Second,
		},
	}
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	if cfg.History.Depth <= 0 {
		cfg.History.Depth = 50
	}
	if cfg.Persistence.Debounce <= 0 {
		cfg.Persistence.Debounce = time.Second
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
