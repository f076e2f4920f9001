package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Rooms.IdleTTL != 10*time.Minute || cfg.Rooms.Debounce != 300*time.Millisecond {
		t.Errorf("rooms = %+v", cfg.Rooms)
	}
	if cfg.Rooms.EnforceAdmin || cfg.Rooms.PromoteOnAdminLeave {
		t.Errorf("admin policy should default to legacy behavior: %+v", cfg.Rooms)
	}
	if cfg.RabbitMQ.URI != "" {
		t.Errorf("rabbitmq should be disabled by default")
	}
	if cfg.Audit.Enabled || cfg.Audit.MongoURI != "" || cfg.Audit.Capacity != 200 {
		t.Errorf("audit = %+v", cfg.Audit)
	}
	if cfg.Logger.Logger != "zap" {
		t.Errorf("logger = %q", cfg.Logger.Logger)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
http:
  port: 9090
rooms:
  max_members: 4
  promote_on_admin_leave: true
executor:
  endpoint: http://runner:8000/run
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ROOMS_ENFORCE_ADMIN", "true")
	t.Setenv("EXECUTOR_TIMEOUT", "2s")
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("MONGODB_URI", "mongodb://mongo:27017")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Rooms.MaxMembers != 4 || !cfg.Rooms.PromoteOnAdminLeave || !cfg.Rooms.EnforceAdmin {
		t.Errorf("rooms = %+v", cfg.Rooms)
	}
	if cfg.Executor.Endpoint != "http://runner:8000/run" || cfg.Executor.Timeout != 2*time.Second {
		t.Errorf("executor = %+v", cfg.Executor)
	}
	if !cfg.Audit.Enabled || cfg.Audit.MongoURI != "mongodb://mongo:27017" || cfg.Audit.Database != "codeboard" {
		t.Errorf("audit = %+v", cfg.Audit)
	}
	if cfg.Rooms.MaxRooms != 1000 {
		t.Errorf("defaults must fill keys missing from the file, max_rooms = %d", cfg.Rooms.MaxRooms)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
