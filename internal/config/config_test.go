package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Errorf("App.Port = %q, want 8080", cfg.App.Port)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Errorf("App.Addr() = %q", cfg.App.Addr())
	}
	if cfg.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Triage.Model != "gpt-4o-mini" {
		t.Errorf("Triage.Model = %q", cfg.Triage.Model)
	}
	if cfg.Twilio.BaseURL != "https://api.twilio.com" {
		t.Errorf("Twilio.BaseURL = %q", cfg.Twilio.BaseURL)
	}
	if !cfg.Postgres.RunMigrations {
		t.Error("Postgres.RunMigrations should default to true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("POSTGRES_MAX_CONNS", "25")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != "9999" {
		t.Errorf("App.Port = %q, want 9999", cfg.App.Port)
	}
	if cfg.Postgres.MaxConns != 25 {
		t.Errorf("Postgres.MaxConns = %d, want 25", cfg.Postgres.MaxConns)
	}
	if cfg.Postgres.RunMigrations {
		t.Error("Postgres.RunMigrations should be false")
	}
	if cfg.App.RequestTimeoutSeconds != 30 {
		t.Errorf("unparseable int should fall back to default, got %d", cfg.App.RequestTimeoutSeconds)
	}
}

func TestTwilioConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  TwilioConfig
		want bool
	}{
		{"all set", TwilioConfig{AccountSID: "AC1", AuthToken: "tok", FromNumber: "+15550001111"}, true},
		{"missing sid", TwilioConfig{AuthToken: "tok", FromNumber: "+15550001111"}, false},
		{"missing token", TwilioConfig{AccountSID: "AC1", FromNumber: "+15550001111"}, false},
		{"missing from", TwilioConfig{AccountSID: "AC1", AuthToken: "tok"}, false},
		{"empty", TwilioConfig{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Configured(); got != tc.want {
				t.Errorf("Configured() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTimeoutFallbacks(t *testing.T) {
	if got := (TwilioConfig{}).Timeout().Seconds(); got != 10 {
		t.Errorf("TwilioConfig zero timeout = %vs, want 10s", got)
	}
	if got := (TriageConfig{TimeoutSeconds: 5}).Timeout().Seconds(); got != 5 {
		t.Errorf("TriageConfig timeout = %vs, want 5s", got)
	}
}
