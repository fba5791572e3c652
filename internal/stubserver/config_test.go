package stubserver

import "testing"

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: nil, wantErr: false},
		{name: "bad environment", mutate: func(c *Config) { c.Environment = "qa" }, wantErr: true},
		{name: "port too low", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "zero read timeout", mutate: func(c *Config) { c.ReadTimeout = 0 }, wantErr: true},
		{name: "zero max request size", mutate: func(c *Config) { c.MaxRequestSize = 0 }, wantErr: true},
		{name: "empty dev credential", mutate: func(c *Config) { c.DevPassword = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			err := validateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfigDefaultsOrigins(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = nil

	if err := validateConfig(cfg); err != nil {
		t.Fatalf("validateConfig() error = %v", err)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
}
