package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	// Check that all fields are populated
	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	// Verify that runtime values are correct
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
			setEnv:       false,
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty",
			key:          "TEST_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
				t.Cleanup(func() {
					os.Unsetenv(tt.key)
				})
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
		setEnv       bool
	}{
		{name: "Unset returns default true", defaultValue: true, want: true},
		{name: "Unset returns default false", defaultValue: false, want: false},
		{name: "True value", envValue: "true", setEnv: true, want: true},
		{name: "False value", envValue: "false", defaultValue: true, setEnv: true, want: false},
		{name: "Numeric one", envValue: "1", setEnv: true, want: true},
		{name: "Invalid falls back to default", envValue: "banana", defaultValue: true, setEnv: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const key = "TEST_BOOL_VAR"
			if tt.setEnv {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			got := getEnvBool(key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestEnsureDirectory(t *testing.T) {
	t.Run("Creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "new")
		if err := ensureDirectory(dir, "test"); err != nil {
			t.Fatalf("ensureDirectory failed: %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat after create failed: %v", err)
		}
		if !info.IsDir() {
			t.Error("Expected created path to be a directory")
		}
	})

	t.Run("Accepts existing directory", func(t *testing.T) {
		if err := ensureDirectory(t.TempDir(), "test"); err != nil {
			t.Errorf("ensureDirectory on existing dir failed: %v", err)
		}
	})

	t.Run("Rejects regular file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := ensureDirectory(file, "test"); err == nil {
			t.Error("Expected error for path that is a regular file")
		}
	})
}

func TestTestWriteAccess(t *testing.T) {
	dir := t.TempDir()
	if err := testWriteAccess(dir); err != nil {
		t.Fatalf("testWriteAccess failed on writable dir: %v", err)
	}

	// Probe file must not be left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected write probe to be removed, found %d entries", len(entries))
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/sources", "api/sources"},
		{"/api/config/slideshow", "api/config"},
		{"/media/previews/{name}", "media"},
		{"/healthz", "healthz"},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetRoutes(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/sources", func(http.ResponseWriter, *http.Request) {}).Methods("GET")
	router.HandleFunc("/api/sources", func(http.ResponseWriter, *http.Request) {}).Methods("POST")
	router.HandleFunc("/healthz", func(http.ResponseWriter, *http.Request) {})

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes failed: %v", err)
	}

	if len(routes) != 3 {
		t.Fatalf("Expected 3 routes, got %d", len(routes))
	}

	foundGet := false
	for _, route := range routes {
		if route.Path == "/api/sources" && route.Method == "GET" {
			foundGet = true
		}
	}
	if !foundGet {
		t.Error("Expected GET /api/sources in route list")
	}
}

func TestLoadConfig(t *testing.T) {
	mediaDir := t.TempDir()
	databaseDir := t.TempDir()

	t.Setenv("MEDIA_DIR", mediaDir)
	t.Setenv("DATABASE_DIR", databaseDir)
	t.Setenv("PORT", "8181")
	t.Setenv("METRICS_PORT", "9191")
	t.Setenv("POLL_INTERVAL", "2m")
	t.Setenv("CLEANUP_INTERVAL", "30m")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != "8181" {
		t.Errorf("Expected Port=8181, got %s", config.Port)
	}
	if config.MetricsPort != "9191" {
		t.Errorf("Expected MetricsPort=9191, got %s", config.MetricsPort)
	}
	if config.PollInterval != 2*time.Minute {
		t.Errorf("Expected PollInterval=2m, got %v", config.PollInterval)
	}
	if config.CleanupInterval != 30*time.Minute {
		t.Errorf("Expected CleanupInterval=30m, got %v", config.CleanupInterval)
	}
	if config.DatabasePath != filepath.Join(databaseDir, "screensaver.db") {
		t.Errorf("Unexpected DatabasePath: %s", config.DatabasePath)
	}
}

func TestLoadConfigInvalidDurations(t *testing.T) {
	t.Setenv("MEDIA_DIR", t.TempDir())
	t.Setenv("DATABASE_DIR", t.TempDir())
	t.Setenv("POLL_INTERVAL", "not-a-duration")
	t.Setenv("CLEANUP_INTERVAL", "also-bad")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.PollInterval != 5*time.Minute {
		t.Errorf("Expected default PollInterval=5m, got %v", config.PollInterval)
	}
	if config.CleanupInterval != time.Hour {
		t.Errorf("Expected default CleanupInterval=1h, got %v", config.CleanupInterval)
	}
}
