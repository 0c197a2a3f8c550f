package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Roelanb/kanbanview/internal/api"
	"github.com/Roelanb/kanbanview/internal/config"
	"github.com/Roelanb/kanbanview/internal/preview"
	"github.com/Roelanb/kanbanview/internal/store"
)

func TestControlPlane_ConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	boardFile := filepath.Join(dir, "vscode-kanban.json")
	require.NoError(t, os.WriteFile(boardFile, []byte(`{"todo":[{"title":"Plan sprint"}]}`), 0o644))
	cfgPath := filepath.Join(dir, "kanbanview.json")

	cfg := config.Default()
	cfg.Board.File = boardFile
	cfg.Runtime.StateDbPath = filepath.Join(dir, "state.db")
	require.NoError(t, config.Save(cfgPath, cfg))

	st, err := store.OpenBBolt(cfg.Runtime.StateDbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	log := zap.NewNop().Sugar()
	hub := api.NewHub(log)
	svc := preview.NewService(log, st, hub, cfg)
	ctrl := &controlPlane{svc: svc, cfgPath: cfgPath, cfg: cfg}
	srv := api.New(log, svc, st, hub, api.Options{Control: ctrl})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(body)))
		return w
	}

	require.Equal(t, http.StatusNoContent, do(http.MethodPost, "/reload", "").Code)
	w := do(http.MethodGet, "/board/board", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Plan sprint")

	w = do(http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	got, err := config.Parse(w.Body.Bytes(), config.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	body := `{"board":{"file":"` + boardFile + `","title":"Roadmap"},"runtime":{"stateDbPath":"` + cfg.Runtime.StateDbPath + `"}}`
	require.Equal(t, http.StatusNoContent, do(http.MethodPost, "/config", body).Code)

	saved, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", saved.Board.Title)

	w = do(http.MethodGet, "/board/board", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Kanban Board (Roadmap)</title>")

	w = do(http.MethodPost, "/config", `{"board":{"debounceMs":-5}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	saved, err = config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", saved.Board.Title)
}

func TestControlPlane_RequiresBoardFile(t *testing.T) {
	ctrl := &controlPlane{cfg: config.Default()}
	err := ctrl.ApplyConfig(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, errNoBoardFile)
}
