package mail

import (
	"bytes"
	"fmt"
	"html"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
)

// RenderMarkdown converts Markdown content to an HTML fragment for use in an
// email body.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render markdown")
	}
	return buf.String(), nil
}

// RenderReminderBody builds the HTML body of a reminder email. The note
// description is treated as Markdown; when it fails to render it is included
// as escaped plain text instead.
func RenderReminderBody(title, description string) string {
	body, err := RenderMarkdown(description)
	if err != nil {
		body = fmt.Sprintf("<p>%s</p>", html.EscapeString(description))
	}
	return fmt.Sprintf("<h2>Reminder: %s</h2>\n%s", html.EscapeString(title), body)
}
