package board

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var boardTpl = template.Must(template.New("board").Parse(`<div class="container-fluid kbv-board" id="kbv-board">
  <div class="row">
{{- range .Columns}}
    <div class="col-3 kbv-column" id="kbv-{{.ID}}">
      <div class="card">
        <div class="card-header">{{.Title}} <span class="badge badge-secondary kbv-count">{{len .Cards}}</span></div>
        <div class="card-body kbv-cards">
{{- range .Cards}}
          <div class="card kbv-card{{if .Type}} kbv-type-{{.Type}}{{end}}" data-id="{{.ID}}" data-prio="{{.Prio}}">
            <div class="card-body">
              <h6 class="card-title">{{.Title}}</h6>
              {{- if .Category}}
              <span class="badge badge-info kbv-category">{{.Category}}</span>
              {{- end}}
              {{- if .Assignee}}
              <span class="badge badge-light kbv-assignee"><i class="fa fa-user" aria-hidden="true"></i> {{.Assignee}}</span>
              {{- end}}
              {{- if .Description}}
              <div class="kbv-description">{{.Description}}</div>
              {{- end}}
              {{- if .Details}}
              <div class="kbv-details">{{.Details}}</div>
              {{- end}}
              {{- if .Created}}
              <small class="text-muted kbv-created" data-time="{{.Created}}">{{.Created}}</small>
              {{- end}}
            </div>
          </div>
{{- end}}
        </div>
      </div>
    </div>
{{- end}}
  </div>
</div>
<script>
window.kbvBoard = {{.Board}};
</script>
`))

type cardView struct {
	ID          string
	Title       string
	Type        string
	Category    string
	Assignee    string
	Created     string
	Prio        float64
	Description template.HTML
	Details     template.HTML
}

type columnView struct {
	ID    ColumnID
	Title string
	Cards []cardView
}

// Renderer turns boards into document content. Markdown card texts are
// rendered with goldmark and sanitised before they reach the page.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Text renders a card text field as safe HTML.
func (r *Renderer) Text(t *Text) (template.HTML, error) {
	if t == nil || strings.TrimSpace(t.Content) == "" {
		return "", nil
	}
	if !strings.EqualFold(strings.TrimSpace(t.Mime), MimeMarkdown) {
		escaped := template.HTMLEscapeString(t.Content)
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>")), nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(t.Content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// Render renders the board body. Cards are ordered by descending priority,
// keeping file order among equals.
func (r *Renderer) Render(b *Board) (string, error) {
	if b == nil {
		b = &Board{}
	}
	cols := b.Columns()
	views := make([]columnView, 0, len(cols))
	for _, col := range cols {
		cv := columnView{ID: col.ID, Title: col.Title, Cards: make([]cardView, 0, len(col.Cards))}
		for _, c := range col.Cards {
			v, err := r.card(c)
			if err != nil {
				return "", fmt.Errorf("card %q: %w", c.Title, err)
			}
			cv.Cards = append(cv.Cards, v)
		}
		sort.SliceStable(cv.Cards, func(i, j int) bool {
			return cv.Cards[i].Prio > cv.Cards[j].Prio
		})
		views = append(views, cv)
	}

	var buf bytes.Buffer
	err := boardTpl.Execute(&buf, struct {
		Columns []columnView
		Board   *Board
	}{views, b})
	if err != nil {
		return "", fmt.Errorf("render board: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) card(c Card) (cardView, error) {
	desc, err := r.Text(c.Description)
	if err != nil {
		return cardView{}, err
	}
	details, err := r.Text(c.Details)
	if err != nil {
		return cardView{}, err
	}
	v := cardView{
		ID:          c.ID,
		Title:       c.Title,
		Type:        c.Type,
		Category:    c.Category,
		Created:     c.CreationTime,
		Prio:        c.Prio,
		Description: desc,
		Details:     details,
	}
	if c.AssignedTo != nil {
		v.Assignee = c.AssignedTo.Name
	}
	return v, nil
}
