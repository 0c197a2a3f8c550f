package preview

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Roelanb/kanbanview/internal/board"
	"github.com/Roelanb/kanbanview/internal/config"
	"github.com/Roelanb/kanbanview/internal/store"
	"github.com/Roelanb/kanbanview/internal/webview"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Broadcast(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}

func newTestService(t *testing.T, boardJSON string) (*Service, *recordingNotifier, string) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, board.FileName)
	require.NoError(t, os.WriteFile(file, []byte(boardJSON), 0o644))

	st, err := store.OpenBBolt(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	cfg.Board.File = file
	cfg.Board.Title = "Sprint 1"
	cfg.Board.DebounceMs = 20

	n := &recordingNotifier{}
	return NewService(zap.NewNop().Sugar(), st, n, cfg), n, file
}

func TestService_ReloadAndDocument(t *testing.T) {
	svc, _, _ := newTestService(t, `{"todo":[{"id":"1","title":"Ship it"}]}`)
	ctx := context.Background()

	_, err := svc.Document(ctx, "board")
	assert.ErrorIs(t, err, ErrBoardNotFound)

	require.NoError(t, svc.Reload(ctx))
	doc, err := svc.Document(ctx, "board")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<!doctype html>"))
	assert.Contains(t, doc, "<title>Kanban Board (Sprint 1)</title>")
	assert.Contains(t, doc, "Ship it")
	assert.Contains(t, doc, `href="/assets/css/board.css"`)
	assert.Contains(t, doc, `src="/assets/js/board.js"`)
	assert.Contains(t, doc, "kbv-reload")
	assert.Contains(t, doc, "'/live'")
	assert.Contains(t, doc, "fetch('/reload'")
	assert.True(t, strings.HasSuffix(doc, "</html>\n"))
}

func TestService_ReloadKeepsLastGoodBoard(t *testing.T) {
	svc, _, file := newTestService(t, `{"todo":[{"title":"Good"}]}`)
	ctx := context.Background()
	require.NoError(t, svc.Reload(ctx))

	require.NoError(t, os.WriteFile(file, []byte(`{"todo": 1}`), 0o644))
	assert.Error(t, svc.Reload(ctx))

	doc, err := svc.Document(ctx, "board")
	require.NoError(t, err)
	assert.Contains(t, doc, "Good")
}

func TestService_StartFollowsFile(t *testing.T) {
	svc, n, file := newTestService(t, `{"todo":[{"title":"Before"}]}`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	require.NoError(t, os.WriteFile(file, []byte(`{"done":[{"title":"After"}]}`), 0o644))

	require.Eventually(t, func() bool {
		doc, err := svc.Document(ctx, "board")
		return err == nil && strings.Contains(doc, "After") && !strings.Contains(doc, "Before")
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool { return n.count() > 0 }, 5*time.Second, 20*time.Millisecond)
}

func TestService_StartTwice(t *testing.T) {
	svc, _, _ := newTestService(t, `{"todo":[{"title":"Once"}]}`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()
	assert.Error(t, svc.Start(ctx))
}

func TestService_StopThenStart(t *testing.T) {
	svc, _, _ := newTestService(t, `{"todo":[{"title":"Again"}]}`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Start(ctx))
	svc.Stop()
	require.NoError(t, svc.Start(ctx))
	svc.Stop()
}

func TestService_ApplyConfig(t *testing.T) {
	svc, n, _ := newTestService(t, `{"todo":[{"title":"Old board"}]}`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	other := filepath.Join(t.TempDir(), board.FileName)
	require.NoError(t, os.WriteFile(other, []byte(`{"todo":[{"title":"New board"}]}`), 0o644))

	cfg := config.Default()
	cfg.Board.File = other
	cfg.Board.Name = "roadmap"
	cfg.Board.Title = "Roadmap"
	cfg.Board.DebounceMs = 20
	cfg.Assets.BaseURI = "/static"
	require.NoError(t, svc.ApplyConfig(ctx, cfg))
	assert.Equal(t, "roadmap", svc.DefaultName())

	doc, err := svc.Document(ctx, "roadmap")
	require.NoError(t, err)
	assert.Contains(t, doc, "New board")
	assert.Contains(t, doc, "<title>Kanban Board (Roadmap)</title>")
	assert.Contains(t, doc, `src="/static/js/roadmap.js"`)

	// the watch loop follows the new file
	before := n.count()
	require.NoError(t, os.WriteFile(other, []byte(`{"done":[{"title":"Moved"}]}`), 0o644))
	require.Eventually(t, func() bool {
		doc, err := svc.Document(ctx, "roadmap")
		return err == nil && strings.Contains(doc, "Moved")
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool { return n.count() > before }, 5*time.Second, 20*time.Millisecond)
}

func TestService_StartWithoutFile(t *testing.T) {
	cfg := config.Default()
	svc := NewService(zap.NewNop().Sugar(), nil, nil, cfg)
	assert.Error(t, svc.Start(context.Background()))
}

func TestRender(t *testing.T) {
	b := &board.Board{Testing: []board.Card{{Title: "QA <pass>"}}}
	doc, err := Render(b, "board", "", webview.PrefixResolver("vscode-resource:/ext"))
	require.NoError(t, err)
	assert.Contains(t, doc, "<title>Kanban Board</title>")
	assert.Contains(t, doc, "QA &lt;pass&gt;")
	assert.Contains(t, doc, `src="vscode-resource:/ext/js/board.js"`)
	assert.NotContains(t, doc, "kbv-reload")
}
