package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/bestofjs/internal/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	cfg := config.Default()
	if got, _ := fileCacheDir(cfg); got != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("fileCacheDir() = %q, want XDG default", got)
	}

	cfg.CacheDir = "/srv/bestofjs-cache"
	if got, _ := fileCacheDir(cfg); got != "/srv/bestofjs-cache" {
		t.Errorf("fileCacheDir() = %q, want configured cache_dir", got)
	}
}
