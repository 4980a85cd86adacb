package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"launcher/internal/adapter/fetcher"
	"launcher/internal/config"
	"launcher/internal/domain"
	"launcher/internal/logger"
	"launcher/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Save(context.Context, string, []byte) error { return errors.New("disk full") }

func newMirror(t *testing.T, srv *launcherServer, store OfflineWriter) *MirrorUseCase {
	t.Helper()
	log := logger.Discard()
	launcherCfg := config.LauncherConfig{URL: srv.URL}
	return NewMirrorUseCase(fetcher.NewHTTPFetcher(log, time.Second, ""), store, launcherCfg.Endpoints(), log)
}

func TestMirror_SavesOnlineDocuments(t *testing.T) {
	srv := newLauncherServer(t)
	srv.handle(configPath, respond(http.StatusOK, "application/json", `{"rss": "https://example.com/feed"}`))
	srv.handle(newsPath, respond(http.StatusOK, "application/json", `[{"title": "hello"}]`))
	store := storage.NewFileOfflineStore(t.TempDir(), logger.Discard())
	mirror := newMirror(t, srv, store)
	ctx := context.Background()

	for _, name := range mirror.Documents() {
		require.NoError(t, mirror.Mirror(ctx, name))
	}

	data, err := store.Load(ctx, domain.ResourceConfig)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rss": "https://example.com/feed"}`, string(data))
	data, err = store.Load(ctx, domain.ResourceNews)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title": "hello"}]`, string(data))
}

func TestMirror_KeepsSnapshotOnFailure(t *testing.T) {
	srv := newLauncherServer(t)
	srv.handle(configPath, respond(http.StatusOK, "application/json", `[1, 2, 3]`))
	srv.handle(newsPath, respond(http.StatusServiceUnavailable, "", ""))
	store := storage.NewFileOfflineStore(t.TempDir(), logger.Discard())
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.ResourceConfig, []byte(`{"old": true}`)))
	mirror := newMirror(t, srv, store)

	err := mirror.Mirror(ctx, domain.ResourceConfig)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	err = mirror.Mirror(ctx, domain.ResourceNews)
	assert.ErrorIs(t, err, domain.ErrTransport)

	data, err := store.Load(ctx, domain.ResourceConfig)
	require.NoError(t, err)
	assert.JSONEq(t, `{"old": true}`, string(data))
	_, err = store.Load(ctx, domain.ResourceNews)
	assert.ErrorIs(t, err, domain.ErrOfflineRead)
}

func TestMirror_Errors(t *testing.T) {
	srv := newLauncherServer(t)
	srv.handle(newsPath, respond(http.StatusOK, "application/json", `[]`))
	mirror := newMirror(t, srv, failingWriter{})

	assert.ErrorContains(t, mirror.Mirror(context.Background(), "instances"), "unknown offline document")
	assert.ErrorContains(t, mirror.Mirror(context.Background(), domain.ResourceNews), "disk full")
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()
	from := storage.NewFileOfflineStore(t.TempDir(), log)
	require.NoError(t, from.Save(ctx, domain.ResourceConfig, []byte(`{"a": 1}`)))
	require.NoError(t, from.Save(ctx, domain.ResourceNews, []byte(`[]`)))
	to := storage.NewFileOfflineStore(t.TempDir(), log)

	copied, err := Seed(ctx, from, to, []string{domain.ResourceConfig, domain.ResourceNews}, log)

	require.NoError(t, err)
	assert.Equal(t, 2, copied)
	data, err := to.Load(ctx, domain.ResourceNews)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestSeed_StopsOnInvalidDocument(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()
	from := storage.NewFileOfflineStore(t.TempDir(), log)
	require.NoError(t, from.Save(ctx, domain.ResourceConfig, []byte(`"just a string"`)))
	to := storage.NewFileOfflineStore(t.TempDir(), log)

	copied, err := Seed(ctx, from, to, []string{domain.ResourceConfig, domain.ResourceNews}, log)

	assert.Equal(t, 0, copied)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
