package server

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/elpatron68/task-web/internal/tasks"
)

const (
	PatternNumeric  = "DD/MM/YYYY HH:mm"
	PatternLongForm = "DD MMMM YYYY [at] HH:mm"
	PatternUnix     = "X"
)

// Truncate keeps s when it has at most n runes, otherwise cuts it to n runes
// and appends "...".
func Truncate(s string, n int) string {
	if s == "" {
		return ""
	}
	if n < 0 {
		n = 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// FormatDate renders a backend date string. Unparseable input is returned
// unchanged; an empty pattern means PatternNumeric.
func FormatDate(value string, pattern ...string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	t, ok := tasks.ParseTime(value)
	if !ok {
		return value
	}
	p := PatternNumeric
	if len(pattern) > 0 && pattern[0] != "" {
		p = pattern[0]
	}
	if p == PatternUnix {
		return strconv.FormatInt(t.Unix(), 10)
	}
	t = t.In(time.Local)
	switch p {
	case PatternNumeric:
		return t.Format("02/01/2006 15:04")
	case PatternLongForm:
		return t.Format("02 January 2006") + " at " + t.Format("15:04")
	default:
		return t.Format("02/01/2006")
	}
}

// NL2BR escapes s and turns line breaks into <br>.
func NL2BR(s string) template.HTML {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	esc := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(esc, "\n", "<br>"))
}

// Markdown renders s as HTML. Raw HTML in the source is dropped and only
// safe link schemes become anchors.
func Markdown(s string) template.HTML {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.NoopenerLinks | mdhtml.NoreferrerLinks | mdhtml.Safelink | mdhtml.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(s), p, r))
}

func (s *Server) funcMap() template.FuncMap {
	return template.FuncMap{
		"truncate":   Truncate,
		"formatDate": FormatDate,
		"nl2br":      NL2BR,
		"markdown":   Markdown,
		"isOverdue":  func(v string) bool { return tasks.IsOverdueAt(v, s.now()) },
		"taskOverdue": func(t tasks.Task) bool {
			return t.Status != tasks.StatusCompleted && tasks.IsOverdueAt(t.DueDate, s.now())
		},
		"now": func() time.Time { return s.now() },
	}
}
