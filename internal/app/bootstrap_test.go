package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/logger"

	"github.com/gofiber/fiber/v3"
)

func TestListenAddr(t *testing.T) {
	cases := map[string]string{"8080": ":8080", ":9090": ":9090", " 7000 ": ":7000"}
	for in, want := range cases {
		got, err := ListenAddr(in)
		if err != nil || got != want {
			t.Fatalf("ListenAddr(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ListenAddr(""); err == nil {
		t.Fatalf("expected error for empty port")
	}
}

func sqliteConfig(t *testing.T) config.Config {
	return config.Config{
		App:     config.AppConfig{AppName: "jobboard", Environment: "test", HTTPPort: "0", WSPort: "0"},
		Backend: config.BackendConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "jobboard.db")},
		JWT:     config.JWTConfig{Secret: "secret", ExpiresIn: time.Hour},
		Directory: config.DirectoryConfig{
			DefaultMinSalary: 30000,
			DefaultMaxSalary: 120000,
		},
	}
}

func TestBootstrap_SQLite(t *testing.T) {
	a, cleanup, err := Bootstrap(context.Background(), sqliteConfig(t), logger.Discard())
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	}()

	if a.WS == nil {
		t.Fatalf("expected ws server when WS_PORT is set")
	}
	if a.Container.Sessions == nil || a.Container.Hub == nil {
		t.Fatalf("expected sessions and hub to be wired")
	}

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestBootstrap_UnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Backend.Driver = "mysql"
	if _, _, err := Bootstrap(context.Background(), cfg, logger.Discard()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
