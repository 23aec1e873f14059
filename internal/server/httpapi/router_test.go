package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/server/models"
)

type fakeSnapshots struct {
	snaps map[string]*models.Snapshot
	err   error
	asked []string
}

func (f *fakeSnapshots) Get(_ context.Context, id string) (*models.Snapshot, error) {
	f.asked = append(f.asked, id)
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.snaps[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type panicSnapshots struct{}

func (panicSnapshots) Get(context.Context, string) (*models.Snapshot, error) { panic("boom") }

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetShared(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	snaps := &fakeSnapshots{snaps: map[string]*models.Snapshot{
		"snap-1": {ID: "snap-1", EncryptedName: "n", EncryptedContent: "c", EncryptedTags: "t", CreatedAt: created},
	}}
	h := NewRouter(snaps, nil, logging.Nop())

	rec := serve(t, h, "/api/shared/snap-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got models.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "snap-1", got.ID)
	assert.Equal(t, "n", got.EncryptedName)
	assert.Equal(t, "c", got.EncryptedContent)
	assert.Equal(t, "t", got.EncryptedTags)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, []string{"snap-1"}, snaps.asked)
}

func TestGetShared_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", nil, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", common.ErrorNotFound), http.StatusNotFound},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&fakeSnapshots{err: tt.err}, nil, logging.Nop())
			rec := serve(t, h, "/api/shared/missing")
			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}

func TestRouter_UnknownRoutes(t *testing.T) {
	h := NewRouter(&fakeSnapshots{}, nil, logging.Nop())

	assert.Equal(t, http.StatusNotFound, serve(t, h, "/api/shared/").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, h, "/api/notes").Code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/shared/x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := serve(t, NewRouter(&fakeSnapshots{}, fakePinger{}, logging.Nop()), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = serve(t, NewRouter(&fakeSnapshots{}, fakePinger{err: errors.New("refused")}, logging.Nop()), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_RecoversPanics(t *testing.T) {
	h := NewRouter(panicSnapshots{}, nil, logging.Nop())
	rec := serve(t, h, "/api/shared/x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
