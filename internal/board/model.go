// Package board reads Kanban board files and renders them as the body of the
// board webview document.
package board

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// FileName is the conventional board file name inside a workspace.
const FileName = "vscode-kanban.json"

const MimeMarkdown = "text/markdown"

type ColumnID string

const (
	ColumnTodo       ColumnID = "todo"
	ColumnInProgress ColumnID = "in-progress"
	ColumnTesting    ColumnID = "testing"
	ColumnDone       ColumnID = "done"
)

// Text is a card text field. Files store it either as a plain string or as
// {"content": ..., "mime": ...}.
type Text struct {
	Content string `json:"content"`
	Mime    string `json:"mime,omitempty"`
}

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text{Content: s}
		return nil
	}
	type plain Text
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = Text(p)
	return nil
}

type Person struct {
	Name string `json:"name,omitempty"`
}

type Card struct {
	ID           string  `json:"id,omitempty"`
	Title        string  `json:"title"`
	Description  *Text   `json:"description,omitempty"`
	Details      *Text   `json:"details,omitempty"`
	Category     string  `json:"category,omitempty"`
	Prio         float64 `json:"prio,omitempty"`
	Type         string  `json:"type,omitempty"` // bug|emergency
	AssignedTo   *Person `json:"assignedTo,omitempty"`
	Tag          string  `json:"tag,omitempty"`
	CreationTime string  `json:"creation_time,omitempty"`
}

type Board struct {
	Todo       []Card `json:"todo"`
	InProgress []Card `json:"in-progress"`
	Testing    []Card `json:"testing"`
	Done       []Card `json:"done"`
}

// Column is one board column in display order.
type Column struct {
	ID    ColumnID
	Title string
	Cards []Card
}

// Columns returns the four columns in display order.
func (b *Board) Columns() []Column {
	return []Column{
		{ID: ColumnTodo, Title: "Todo", Cards: b.Todo},
		{ID: ColumnInProgress, Title: "In Progress", Cards: b.InProgress},
		{ID: ColumnTesting, Title: "Testing", Cards: b.Testing},
		{ID: ColumnDone, Title: "Done", Cards: b.Done},
	}
}

// Count returns the number of cards on the board.
func (b *Board) Count() int {
	return len(b.Todo) + len(b.InProgress) + len(b.Testing) + len(b.Done)
}

// Parse decodes a board file. Empty input is an empty board.
func Parse(raw []byte) (*Board, error) {
	var b Board
	if len(bytes.TrimSpace(raw)) == 0 {
		return &b, nil
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}
	return &b, nil
}

// Load reads and parses the board file at path.
func Load(path string) (*Board, error) {
	if path == "" {
		return nil, errors.New("board path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	return Parse(raw)
}
