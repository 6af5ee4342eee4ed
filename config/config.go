package config

import (
	"encoding/json"
	"os"
	"strconv"
	"sync"
)

type Config struct {
	DatabasePath          string `json:"databasePath"`
	Port                  int    `json:"port"`
	SessionTimeoutMinutes int    `json:"sessionTimeoutMinutes"`
	// DisableExportSnapshot turns off the implicit snapshot taken when the
	// current reorder list is downloaded. The zero value keeps the snapshot.
	DisableExportSnapshot bool `json:"disableExportSnapshot"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./stoka_config.json"

func defaults() Config {
	return Config{
		DatabasePath:          "./stoka.db",
		Port:                  5000,
		SessionTimeoutMinutes: 2,
	}
}

// applyEnv layers environment overrides on top of the file values.
// DATABASE_URL and PORT match what the deployment environment sets.
func applyEnv(c Config) Config {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	return c
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = applyEnv(defaults())
			return cfg, nil
		}
		cfg = applyEnv(defaults())
		return cfg, err
	}

	tempCfg := defaults()
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		cfg = applyEnv(defaults())
		return cfg, err
	}
	if tempCfg.DatabasePath == "" {
		tempCfg.DatabasePath = defaults().DatabasePath
	}
	if tempCfg.Port == 0 {
		tempCfg.Port = defaults().Port
	}
	if tempCfg.SessionTimeoutMinutes == 0 {
		tempCfg.SessionTimeoutMinutes = defaults().SessionTimeoutMinutes
	}
	cfg = applyEnv(tempCfg)

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if newCfg.SessionTimeoutMinutes == 0 {
		newCfg.SessionTimeoutMinutes = defaults().SessionTimeoutMinutes
	}

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// SetConfig replaces the in-memory config without touching the file.
// Used by tests.
func SetConfig(newCfg Config) {
	mu.Lock()
	defer mu.Unlock()
	cfg = newCfg
}
