package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/nerrad567/gray-logic-configstatus/internal/configstatus"
	"github.com/nerrad567/gray-logic-configstatus/internal/events"
	"github.com/nerrad567/gray-logic-configstatus/internal/i18n"
	"github.com/nerrad567/gray-logic-configstatus/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-configstatus/internal/infrastructure/logging"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("GRAYLOGIC_CONFIG", path)
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("GRAYLOGIC_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

func TestRun_MissingDatabasePath(t *testing.T) {
	writeConfig(t, `
site:
  id: test-site
database:
  path: ""
mqtt:
  enabled: false
logging:
  level: error
  format: text
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

func TestRun_InvalidDefaultLocale(t *testing.T) {
	writeConfig(t, `
database:
  path: "`+filepath.Join(t.TempDir(), "status.db")+`"
mqtt:
  enabled: false
i18n:
  default_locale: "!!"
logging:
  level: error
`)

	if err := run(context.Background()); !errors.Is(err, i18n.ErrInvalidLocale) {
		t.Fatalf("run() error = %v, want ErrInvalidLocale", err)
	}
}

// TestRun_StartupAndShutdown starts the service without a broker, serves
// one request and shuts down on context cancellation.
func TestRun_StartupAndShutdown(t *testing.T) {
	const port = 19181
	writeConfig(t, fmt.Sprintf(`
site:
  id: test-site
database:
  path: "%s"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: false
api:
  host: "127.0.0.1"
  port: %d
logging:
  level: error
  format: text
`, filepath.Join(t.TempDir(), "status.db"), port))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/api/v1/health", port)
	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url) //nolint:noctx // Test polling
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("service never became ready: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() returned %v on shutdown", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("run() did not return after cancellation")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("GRAYLOGIC_CONFIG", "")
	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}

	t.Setenv("GRAYLOGIC_CONFIG", "/custom/path/config.yaml")
	if path := getConfigPath(); path != "/custom/path/config.yaml" {
		t.Errorf("getConfigPath() = %q, want override", path)
	}
}

type staticProvider struct{ entity string }

func (p *staticProvider) SupportsEntity(id string) bool { return id == p.entity }

func (p *staticProvider) ConfigStatus(context.Context) ([]configstatus.Message, error) {
	return []configstatus.Message{configstatus.Information("host").WithMessage("reachable")}, nil
}

func TestStatusRequestHandler(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text"}, "test")
	catalog, err := i18n.NewDefaultCatalog()
	if err != nil {
		t.Fatalf("NewDefaultCatalog() error = %v", err)
	}

	var published []events.Event
	svc, err := configstatus.NewService(configstatus.Deps{
		Translations: catalog,
		Locales:      i18n.StaticLocaleProvider{Tag: language.English},
		Publisher: events.PublisherFunc(func(_ context.Context, e events.Event) error {
			published = append(published, e)
			return nil
		}),
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	svc.AddProvider(&staticProvider{entity: "thing-1"})

	handler := statusRequestHandler(context.Background(), svc, log)

	tests := []struct {
		topic string
		want  int
	}{
		{"graylogic/request/config-status/thing-1", 1},
		{"graylogic/request/config-status/unknown", 1},
		{"graylogic/request/other/thing-1", 1},
	}
	for _, tt := range tests {
		if err := handler(tt.topic, nil); err != nil {
			t.Errorf("handler(%q) error = %v", tt.topic, err)
		}
		if len(published) != tt.want {
			t.Errorf("after %q published = %d, want %d", tt.topic, len(published), tt.want)
		}
	}
	if published[0].Subject != "thing-1" || published[0].Type != events.ConfigStatusInfoEvent {
		t.Errorf("published = %s %s", published[0].Type, published[0].Subject)
	}
}
