// Package render はメール本文（HTMLとプレーンテキスト）を組み立てる純粋関数群です。
// ユーザー入力はすべてエスケープしてから埋め込みます。
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	jardomain "jar_backend/internal/feature/jar/domain"
	"jar_backend/internal/feature/jar/domain/entity"
)

const (
	// DefaultPreviewLimit is the number of entries shown when no limit is given.
	DefaultPreviewLimit = 3
	// ReminderPreviewLimit is used by the daily and weekly emails.
	ReminderPreviewLimit = 5

	previewHTMLLength = 280
	previewTextLength = 200
	fallbackAuthor    = "A family member"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes & < > " and ' for safe insertion into markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Truncate shortens s to at most max runes, ending with an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:max-1]), " \t\n") + "…"
}

type entryLabel struct{ singular, plural string }

var entryLabels = map[entity.EntryType]entryLabel{
	entity.EntryGoodThing:    {"Good thing", "Good things"},
	entity.EntryGratitude:    {"Gratitude", "Gratitudes"},
	entity.EntryBetterChoice: {"Better choice", "Better choices"},
}

// EntryLabel returns the human label of t, plural unless count is 1.
func EntryLabel(t entity.EntryType, count int) string {
	l, ok := entryLabels[t]
	if !ok {
		l = entryLabel{"Entry", "Entries"}
	}
	if count == 1 {
		return l.singular
	}
	return l.plural
}

// Action is the single call to action button of a document.
type Action struct {
	Label string
	URL   string
}

// Template is the structured content of an HTML email.
type Template struct {
	Title       string
	PreviewText string
	IntroLines  []string
	// ContentHTML must already be escaped.
	ContentHTML template.HTML
	Action      *Action
	FooterLines []string
}

var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
  </head>
  <body style="margin:0;padding:0;background-color:#f3f4f6;font-family:'Inter',-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif;">
    <div style="display:none!important;visibility:hidden;mso-hide:all;font-size:1px;color:#f3f4f6;line-height:1px;max-height:0;max-width:0;opacity:0;overflow:hidden;">{{.PreviewText}}</div>
    <table role="presentation" cellpadding="0" cellspacing="0" style="width:100%;border-collapse:collapse;">
      <tr>
        <td align="center" style="padding:24px;">
          <table role="presentation" cellpadding="0" cellspacing="0" style="width:100%;max-width:640px;background:#ffffff;border-radius:24px;overflow:hidden;box-shadow:0 12px 35px rgba(15,23,42,0.08);">
            <tr>
              <td style="padding:40px 32px 32px;">
                <h1 style="margin:0 0 24px;font-size:24px;line-height:32px;color:#111827;">{{.Title}}</h1>
                {{- range .IntroLines}}
                <p style="margin:0 0 16px;font-size:16px;line-height:24px;color:#1f2937;">{{.}}</p>
                {{- end}}
                {{.ContentHTML}}
                {{- with .Action}}
                <div style="margin:32px 0 0;text-align:center;"><a href="{{.URL}}" style="display:inline-block;padding:14px 32px;border-radius:9999px;background:#3b83f6;color:#ffffff;font-weight:600;text-decoration:none;">{{.Label}}</a></div>
                <p style="margin:24px 0 0;font-size:13px;line-height:20px;color:#6b7280;word-break:break-word;">If the button doesn't work, copy and paste this link into your browser:<br/><a href="{{.URL}}" style="color:#3b83f6;text-decoration:underline;">{{.URL}}</a></p>
                {{- end}}
                <div style="margin:32px 0 0;border-top:1px solid #e5e7eb;padding-top:24px;">
                {{- range .FooterLines}}
                  <p style="margin:0 0 8px;font-size:14px;line-height:20px;color:#4b5563;">{{.}}</p>
                {{- end}}
                </div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>`))

// RenderDocument renders t into a complete HTML document. Blank intro and
// footer lines are dropped.
func RenderDocument(t Template) string {
	data := t
	data.IntroLines = nonEmpty(t.IntroLines)
	data.FooterLines = nonEmpty(t.FooterLines)

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, data); err != nil {
		// テンプレートは固定なので通常は起こらない
		slog.Error("failed to render email document", "title", t.Title, "error", err)
		return ""
	}
	return buf.String()
}

// RenderText joins the non-empty lines with blank lines between them.
func RenderText(lines ...string) string {
	return strings.Join(nonEmpty(lines), "\n\n")
}

// Section is a rendered fragment with both representations.
type Section struct {
	HTML template.HTML
	Text string
}

// PreviewEntry is one jar entry shown in a reminder email.
type PreviewEntry struct {
	Type        entity.EntryType
	Content     string
	AuthorLabel string
	CreatedAt   time.Time
}

// RenderEntriesPreview renders up to limit entries under periodLabel. A
// non-positive limit means DefaultPreviewLimit.
func RenderEntriesPreview(entries []PreviewEntry, periodLabel string, limit int) Section {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	heading := periodLabel
	if heading == "" {
		heading = "Recent entries"
	}

	selection := entries
	if len(selection) > limit {
		selection = selection[:limit]
	}
	if len(selection) == 0 {
		return Section{
			HTML: template.HTML(fmt.Sprintf(
				`<p style="margin:24px 0 0;font-size:16px;line-height:24px;color:#1f2937;">No entries yet for %s. Take a moment to add one today.</p>`,
				EscapeHTML(strings.ToLower(heading)),
			)),
			Text: fmt.Sprintf("No entries yet for %s.", heading),
		}
	}

	var items strings.Builder
	textLines := make([]string, 0, len(selection)+2)
	textLines = append(textLines, heading)
	for _, e := range selection {
		author := e.AuthorLabel
		if author == "" {
			author = fallbackAuthor
		}
		label := EntryLabel(e.Type, 1)
		fmt.Fprintf(&items, `<tr>
        <td style="padding:16px 0;border-bottom:1px solid #e5e7eb;">
          <div style="font-size:15px;line-height:22px;color:#111827;font-weight:600;">%s</div>
          <div style="font-size:13px;line-height:20px;color:#6b7280;margin-top:4px;">%s</div>
          <div style="font-size:16px;line-height:24px;color:#1f2937;margin-top:12px;">%s</div>
          <div style="font-size:13px;line-height:20px;color:#3b83f6;margin-top:12px;text-transform:uppercase;letter-spacing:0.04em;">%s</div>
        </td>
      </tr>`,
			EscapeHTML(author),
			EscapeHTML(formatDay(e.CreatedAt)+" • "+formatTime(e.CreatedAt)),
			EscapeHTML(Truncate(e.Content, previewHTMLLength)),
			EscapeHTML(label),
		)
		textLines = append(textLines, fmt.Sprintf("%s - %s\n%s %s\n%s",
			author, label, formatDay(e.CreatedAt), formatTime(e.CreatedAt), Truncate(e.Content, previewTextLength)))
	}

	var remainder string
	if n := len(entries) - len(selection); n > 0 {
		remainder = fmt.Sprintf(
			`<p style="margin:16px 0 0;font-size:14px;line-height:20px;color:#6b7280;">+ %d more %s waiting in the jar.</p>`,
			n, entryWord(n),
		)
		textLines = append(textLines, fmt.Sprintf("+ %d more %s in the jar", n, entryWord(n)))
	}

	html := fmt.Sprintf(`<div style="margin:24px 0 0;">
    <h2 style="margin:0 0 16px;font-size:18px;line-height:28px;color:#111827;">%s</h2>
    <table role="presentation" cellpadding="0" cellspacing="0" style="width:100%%;border-collapse:collapse;">%s</table>
    %s
  </div>`, EscapeHTML(heading), items.String(), remainder)

	return Section{HTML: template.HTML(html), Text: RenderText(textLines...)}
}

// Range is an inclusive period of days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Label formats the range as "Mon, May 4 - Fri, May 10", or "" when unset.
func (r Range) Label() string {
	if r.Start.IsZero() || r.End.IsZero() {
		return ""
	}
	return formatDay(r.Start) + " - " + formatDay(r.End)
}

// RenderSummary renders a headline and one line per entry type. A zero
// total renders only the "No entries were added" headline.
func RenderSummary(counts []jardomain.TypeCount, total int, r Range) Section {
	rangeLabel := r.Label()
	if total <= 0 {
		headline := "No entries were added this week."
		if rangeLabel != "" {
			headline = fmt.Sprintf("No entries were added between %s.", strings.Replace(rangeLabel, " - ", " and ", 1))
		}
		return Section{
			HTML: template.HTML(fmt.Sprintf(
				`<p style="margin:32px 0 0;font-size:16px;line-height:24px;color:#1f2937;">%s</p>`, EscapeHTML(headline))),
			Text: headline,
		}
	}

	heading := "Weekly summary"
	textHeading := "Weekly summary"
	if rangeLabel != "" {
		heading = fmt.Sprintf("Weekly summary (%s)", rangeLabel)
		textHeading = "Summary for " + rangeLabel
	}
	headline := fmt.Sprintf("%d %s added to the jar.", total, entryWord(total))

	var items strings.Builder
	lines := []string{textHeading, headline}
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		label := EntryLabel(c.EntryType, c.Count)
		fmt.Fprintf(&items, `<li style="display:flex;justify-content:space-between;align-items:center;padding:12px 0;border-bottom:1px solid #e5e7eb;">
        <span style="font-size:15px;line-height:22px;color:#1f2937;">%s</span>
        <span style="font-size:15px;line-height:22px;color:#111827;font-weight:600;">%d</span>
      </li>`, EscapeHTML(label), c.Count)

		if c.EntryType == entity.EntryBetterChoice {
			lines = append(lines, fmt.Sprintf("%s celebrated as better choices.", slipCount(c.Count)))
			continue
		}
		lines = append(lines, fmt.Sprintf("%d %s", c.Count, strings.ToLower(label)))
	}
	lines = append(lines, fmt.Sprintf("Total entries: %d", total))

	html := fmt.Sprintf(`<div style="margin:32px 0 0;">
    <h2 style="margin:0 0 16px;font-size:18px;line-height:28px;color:#111827;">%s</h2>
    <p style="margin:0 0 16px;font-size:16px;line-height:24px;color:#1f2937;">%s</p>
    <ul style="list-style:none;padding:0;margin:0;">%s</ul>
    <p style="margin:20px 0 0;font-size:14px;line-height:20px;color:#6b7280;">Total entries: %d</p>
  </div>`, EscapeHTML(heading), EscapeHTML(headline), items.String(), total)

	return Section{HTML: template.HTML(html), Text: RenderText(lines...)}
}

func entryWord(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}

func slipCount(n int) string {
	if n == 1 {
		return "1 slip"
	}
	return fmt.Sprintf("%d slips", n)
}

func formatDay(t time.Time) string { return t.Format("Mon, Jan 2") }

func formatTime(t time.Time) string { return t.Format("3:04 PM") }

func nonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
