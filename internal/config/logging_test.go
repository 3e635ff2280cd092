package config

import "testing"

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" || cfg.MaxMB != 10 || cfg.File != "" {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}

func TestLoadLogParse(t *testing.T) {
	t.Setenv("LOG_LEVEL", " DEBUG ")
	t.Setenv("LOG_FILE", "/tmp/parlor.log")
	t.Setenv("LOG_MAX_MB", "2")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "debug" || cfg.File != "/tmp/parlor.log" || cfg.MaxMB != 2 {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}

func TestLoadLogRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"level":  {"LOG_LEVEL": "loud"},
		"sample": {"LOG_SAMPLE_EVERY": "-1"},
		"max_mb": {"LOG_FILE": "/tmp/parlor.log", "LOG_MAX_MB": "0"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			if _, err := LoadLog(); err == nil {
				t.Fatalf("expected error for %v", vars)
			}
		})
	}
}
