package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Roelanb/kanbanview/internal/store"
)

const maxBridgeBody = 64 << 10

// bridgeMessage is what the webview posts through vscode.postMessage.
type bridgeMessage struct {
	Command string `json:"command"`
	Data    struct {
		Message any `json:"message"`
	} `json:"data"`
}

func (s *Server) handleBridge(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBridgeBody))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	var msg bridgeMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		http.Error(w, "decode message: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch msg.Command {
	case "log":
		entry := &store.LogEntry{
			Board:         r.URL.Query().Get("board"),
			Message:       messageText(msg.Data.Message),
			CorrelationID: uuid.NewString(),
		}
		s.log.Warnw("webview error", "board", entry.Board, "message", entry.Message, "correlation", entry.CorrelationID)
		if s.records != nil {
			if err := s.records.AppendLog(entry); err != nil {
				s.log.Errorw("store webview log failed", "error", err, "correlation", entry.CorrelationID)
				http.Error(w, "store log failed", http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, fmt.Sprintf("unknown command %q", msg.Command), http.StatusBadRequest)
	}
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	out := []store.LogEntry{}
	if s.records != nil {
		entries, err := s.records.RecentLogs(limit)
		if err != nil {
			s.log.Errorw("read webview logs failed", "error", err)
			http.Error(w, "read logs failed", http.StatusInternalServerError)
			return
		}
		out = append(out, entries...)
	}
	writeJSON(w, http.StatusOK, out)
}

func messageText(v any) string {
	switch m := v.(type) {
	case nil:
		return ""
	case string:
		return m
	default:
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Sprint(m)
		}
		return string(b)
	}
}
