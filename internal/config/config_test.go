package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesJobDefaults(t *testing.T) {
	path := writeConfig(t, `app:
  name: "LeagueDesk"
  environment: "test"
  port: 8080
  base_domain: "localhost"
database:
  driver: "sqlite"
  filename: "test.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Jobs.GameReminderCron == "" || cfg.Jobs.PendingDigestCron == "" {
		t.Errorf("job crons not defaulted: %+v", cfg.Jobs)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing port", `app:
  name: "LeagueDesk"
  base_domain: "localhost"
database:
  driver: "sqlite"
  filename: "test.db"
`},
		{"missing base_domain", `app:
  name: "LeagueDesk"
  port: 8080
database:
  driver: "sqlite"
  filename: "test.db"
`},
		{"unsupported driver", `app:
  name: "LeagueDesk"
  port: 8080
  base_domain: "localhost"
database:
  driver: "postgres"
`},
		{"sqlite without filename", `app:
  name: "LeagueDesk"
  port: 8080
  base_domain: "localhost"
database:
  driver: "sqlite"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
