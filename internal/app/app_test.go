package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"launcher/internal/config"
	"launcher/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, launcherURL string) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Logger.File = ""
	cfg.Logger.ErrorFile = ""
	cfg.Logger.Level = "error"
	cfg.Launcher.URL = launcherURL
	cfg.Launcher.RequestTimeout = "1s"
	cfg.Offline.Dir = t.TempDir()
	return cfg
}

func TestNew_FileBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"maintenance": false}`)
	}))
	defer srv.Close()

	a, err := New(testConfig(t, srv.URL))
	require.NoError(t, err)
	defer a.Close()

	doc, err := a.Service().GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, false, doc["maintenance"])
	assert.Nil(t, a.worker)
}

func TestNew_UnknownParser(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Launcher.RSSParser = "html"

	_, err := New(cfg)

	assert.Error(t, err)
}

func TestApp_Seed(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "config.json"), []byte(`{"rss": ""}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "news.json"), []byte(`[]`), 0o644))
	cfg := testConfig(t, "http://127.0.0.1:1")
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	copied, err := a.Seed(context.Background(), src)

	require.NoError(t, err)
	assert.Equal(t, 2, copied)
	data, err := a.store.Load(context.Background(), domain.ResourceNews)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Offline.MirrorInterval = "1h"
	a, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, a.worker)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_RunListenError(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Server.Address = "256.0.0.1:0"
	a, err := New(cfg)
	require.NoError(t, err)

	err = a.Run(context.Background())

	assert.ErrorContains(t, err, "failed to create listener")
}

func TestApp_CloseReleasesLogFiles(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	dir := t.TempDir()
	cfg.Logger.File = filepath.Join(dir, "launcher.log")
	cfg.Logger.ErrorFile = filepath.Join(dir, "launcher_error.log")
	a, err := New(cfg)
	require.NoError(t, err)

	a.Close()
	a.Close()

	assert.ErrorIs(t, a.logFiles.Close(), os.ErrClosed)
}
