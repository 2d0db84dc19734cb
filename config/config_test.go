package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "SESSION_SECRET", "SESSION_TTL", "CSRF_KEY", "UPLOAD_BACKEND", "CONFIG_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DB.Driver != "mysql" || cfg.SessionTTL != 168*time.Hour {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !cfg.InsecureSecret() {
		t.Fatal("missing SESSION_SECRET should fall back to the development secret")
	}
	if cfg.Upload.Backend != UploadBackendLocal || cfg.Upload.Dir != "static/uploads" {
		t.Fatalf("unexpected upload defaults %+v", cfg.Upload)
	}
	if cfg.Google.Enabled() || NewGoogleConfig(cfg.Google) != nil {
		t.Fatal("google sign-in should be disabled without credentials")
	}
}

func TestLoadEnvironmentAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waste-point.yaml")
	yaml := "waste_types:\n  - bulky\n  - green\nadmins:\n  - \" Root@X.com \"\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("UPLOAD_BACKEND", "MINIO")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DB.Driver != "sqlite" || cfg.SessionTTL != 2*time.Hour || !cfg.CookieSecure {
		t.Fatalf("environment not applied: %+v", cfg)
	}
	if cfg.InsecureSecret() || cfg.Upload.Backend != UploadBackendMinio {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.WasteTypes, []string{"bulky", "green"}) || !reflect.DeepEqual(cfg.Admins, []string{"root@x.com"}) {
		t.Fatalf("file overlay not applied: %v %v", cfg.WasteTypes, cfg.Admins)
	}

	google := NewGoogleConfig(cfg.Google)
	if google == nil || google.Config.ClientID != "id" {
		t.Fatalf("google config not built: %+v", google)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CSRF_KEY", "too-short")
	if _, err := Load(); err == nil {
		t.Fatal("expected a short CSRF key to be rejected")
	}

	t.Setenv("CSRF_KEY", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected a missing config file to be rejected")
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		db   DatabaseConfig
		want string
	}{
		{"mysql", DatabaseConfig{Driver: "mysql", Host: "db", User: "root", Password: "pw", Name: "waste"},
			"root:pw@tcp(db:3306)/waste?charset=utf8mb4&parseTime=True&loc=UTC"},
		{"postgres", DatabaseConfig{Driver: "postgres", Host: "db", User: "app", Password: "pw", Name: "waste", Port: "6432", SSLMode: "require"},
			"host=db user=app password=pw dbname=waste port=6432 sslmode=require"},
		{"sqlite", DatabaseConfig{Driver: "sqlite", SQLitePath: "/tmp/waste.db"}, "/tmp/waste.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.db.DSN()
			if err != nil || got != tt.want {
				t.Fatalf("DSN() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}

	if _, err := (DatabaseConfig{Driver: "oracle"}).DSN(); err == nil {
		t.Fatal("expected an unsupported driver error")
	}
}

func TestInitDBMigratesSQLite(t *testing.T) {
	db, err := InitDB(DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "waste.db")})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	for _, table := range []string{"users", "reports", "sessions", "status_changes"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s not migrated", table)
		}
	}
}
