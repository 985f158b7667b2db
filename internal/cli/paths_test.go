package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/sitegraph/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	xdg := filepath.Join(t.TempDir(), "xdg")

	tests := []struct {
		name     string
		xdg      string
		dir      string
		expected string
	}{
		{"home fallback", "", "", filepath.Join(home, ".cache", appName)},
		{"xdg cache home", xdg, "", filepath.Join(xdg, appName)},
		{"configured dir wins", xdg, "/var/cache/graphs", "/var/cache/graphs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			cfg := config.Default()
			cfg.Cache.Dir = tt.dir

			got, err := cacheDir(cfg)
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("cacheDir() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProjectDir(t *testing.T) {
	for _, tt := range []struct {
		args []string
		want string
	}{
		{nil, "."},
		{[]string{""}, "."},
		{[]string{"./web"}, "./web"},
	} {
		if got := projectDir(tt.args); got != tt.want {
			t.Errorf("projectDir(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
