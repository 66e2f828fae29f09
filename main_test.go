package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/cascadia/game/engine"
	"github.com/wricardo/mcp-training/cascadia/game/session"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Habitat Tile Game Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	for _, key := range []string{"HABITAT_HOST", "HABITAT_PORT", "CONFIG_DIR", "HABITAT_SESSION_TTL", "HABITAT_DEBUG", "NGROK_ENABLED"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig failed: %v", err)
	}

	if cfg.Host != "localhost" || cfg.Port != 8080 {
		t.Errorf("Unexpected address %s", cfg.Addr())
	}
	if cfg.ConfigDir != "configs" {
		t.Errorf("Expected config dir configs, got %s", cfg.ConfigDir)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("Expected session TTL 24h, got %v", cfg.SessionTTL)
	}
	if cfg.NgrokEnabled {
		t.Error("Ngrok should be disabled by default")
	}
}

func TestLoadServerConfig_FromEnv(t *testing.T) {
	t.Setenv("HABITAT_HOST", "0.0.0.0")
	t.Setenv("HABITAT_PORT", "9090")
	t.Setenv("HABITAT_SESSION_TTL", "30m")
	t.Setenv("NGROK_AUTHTOKEN", "")
	t.Setenv("NGROK_AUTH_TOKEN", "legacy-token")

	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig failed: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("Expected 0.0.0.0:9090, got %s", cfg.Addr())
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("Expected 30m, got %v", cfg.SessionTTL)
	}
	if cfg.NgrokAuthToken != "legacy-token" {
		t.Errorf("Expected fallback auth token, got %q", cfg.NgrokAuthToken)
	}
}

func TestLoadServerConfig_Invalid(t *testing.T) {
	t.Setenv("HABITAT_PORT", "not-a-port")

	if _, err := loadServerConfig(); err == nil {
		t.Error("Expected error for invalid port")
	}
}

func writeConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	data := `{"name": "Classic", "description": "test", "players": 2, "draft_size": 3}`
	if err := os.WriteFile(filepath.Join(dir, "classic.json"), []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return dir
}

func TestInitializeServices(t *testing.T) {
	s, err := initializeServices(ServerConfig{ConfigDir: writeConfigDir(t)})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if s.game == nil || s.sessions == nil || s.hub == nil {
		t.Fatal("Expected all services to be initialized")
	}

	info, err := s.game.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.GameConfig.Players != 2 {
		t.Errorf("Expected classic config with 2 players, got %d", info.GameConfig.Players)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, err := initializeServices(ServerConfig{ConfigDir: "/non/existent/path"})
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestCleanupSessions(t *testing.T) {
	manager := session.NewManager()
	if _, err := manager.Create("old1", engine.DefaultGameConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if removed := cleanupSessions(manager, time.Hour); removed != 0 {
		t.Errorf("Expected fresh session to survive, removed %d", removed)
	}

	time.Sleep(5 * time.Millisecond)
	if removed := cleanupSessions(manager, time.Millisecond); removed != 1 {
		t.Errorf("Expected 1 expired session removed, got %d", removed)
	}
}

func TestNewRouter(t *testing.T) {
	s, err := initializeServices(ServerConfig{ConfigDir: writeConfigDir(t)})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	server := httptest.NewServer(newRouter(s, "http://unused"))
	defer server.Close()

	t.Run("api is mounted at root", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/health")
		if err != nil {
			t.Fatalf("GET /api/health failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("mcp rejects GET", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/mcp")
		if err != nil {
			t.Fatalf("GET /mcp failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", resp.StatusCode)
		}
	})

	t.Run("mcp initialize", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
		resp, err := http.Post(server.URL+"/mcp", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /mcp failed: %v", err)
		}
		defer resp.Body.Close()

		var response map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		data, _ := json.Marshal(response["result"])
		if !strings.Contains(string(data), "Habitat Tile Game") {
			t.Errorf("Expected server name in initialize result, got %s", data)
		}
	})
}

func writeLayout(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write layout: %v", err)
	}
	return path
}

func TestScoreCommand(t *testing.T) {
	path := writeLayout(t, `# three bears
Fb Fb Fb -- --
-- -- -- -- --
-- -- -- -- --
-- -- -- -- --
-- -- -- -- --
`)

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out

		if err := app.Run(context.Background(), []string{"cascadia", "score", path}); err != nil {
			t.Fatalf("score failed: %v", err)
		}

		for _, want := range []string{"Fb Fb Fb -- --", "bear        9", "forest      3", "total      12"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("Expected %q in output, got:\n%s", want, out.String())
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out

		if err := app.Run(context.Background(), []string{"cascadia", "score", "--json", path}); err != nil {
			t.Fatalf("score failed: %v", err)
		}

		var reports []scoreReport
		if err := json.Unmarshal(out.Bytes(), &reports); err != nil {
			t.Fatalf("Failed to decode output: %v", err)
		}
		if len(reports) != 1 || reports[0].Score.Total != 12 {
			t.Errorf("Unexpected reports: %+v", reports)
		}
	})

	t.Run("bad layout", func(t *testing.T) {
		bad := writeLayout(t, "Fb Fb\n")
		app := newApp()
		app.Writer = &bytes.Buffer{}

		if err := app.Run(context.Background(), []string{"cascadia", "score", bad}); err == nil {
			t.Error("Expected error for malformed layout")
		}
	})

	t.Run("no files", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}

		if err := app.Run(context.Background(), []string{"cascadia", "score"}); err == nil {
			t.Error("Expected error without layout files")
		}
	})
}

func TestConfigFromCommand_Flags(t *testing.T) {
	t.Setenv("HABITAT_PORT", "7000")

	var got ServerConfig
	app := newApp()
	app.Action = func(ctx context.Context, cmd *cli.Command) error {
		var err error
		got, err = configFromCommand(cmd)
		return err
	}

	if err := app.Run(context.Background(), []string{"cascadia", "--port", "9191", "--config-dir", "/tmp/cfg"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got.Port != 9191 {
		t.Errorf("Expected flag to override env port, got %d", got.Port)
	}
	if got.ConfigDir != "/tmp/cfg" {
		t.Errorf("Expected config dir /tmp/cfg, got %s", got.ConfigDir)
	}
}
