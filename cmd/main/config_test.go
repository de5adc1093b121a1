package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charlm", "config.toml")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Model.WindowLength != 4 || config.Model.Length != 500 || config.Model.Seed != nil {
		t.Errorf("got unexpected default model config: %+v", config.Model)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config file to be written: %v", err)
	}

	// Loading the written file must give back the same values.
	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() of written defaults failed: %v", err)
	}
	if reloaded.Model != config.Model || reloaded.Server != config.Server || reloaded.LogLevel != config.LogLevel {
		t.Errorf("reloaded config differs: %+v vs %+v", reloaded, config)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `log_level = "debug"

[model]
window_length = 7
seed = 42

[server]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.LogLevel != "debug" || config.Model.WindowLength != 7 || config.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("got unexpected config: %+v %+v", config.Model, config.Server)
	}
	if config.Model.Seed == nil || *config.Model.Seed != 42 {
		t.Errorf("expected seed 42, got %v", config.Model.Seed)
	}
	// Unset keys keep their defaults.
	if config.Model.Length != 500 || config.Storage.DatabasePath == "" {
		t.Errorf("expected defaults for unset keys, got %+v %+v", config.Model, config.Storage)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[model\nwindow_length ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(c *Config) {}},
		{name: "Zero window", mutate: func(c *Config) { c.Model.WindowLength = 0 }, wantErr: true},
		{name: "Negative length", mutate: func(c *Config) { c.Model.Length = -1 }, wantErr: true},
		{name: "Empty database path", mutate: func(c *Config) { c.Storage.DatabasePath = "" }, wantErr: true},
		{name: "Empty address is allowed", mutate: func(c *Config) { c.Server.Addr = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(c)
			if err := c.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
