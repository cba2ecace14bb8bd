package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("# heading\n\nsome *emphasis*")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>heading</h1>")
	assert.Contains(t, html, "<em>emphasis</em>")
}

func TestRenderReminderBody(t *testing.T) {
	body := RenderReminderBody("buy <milk>", "- eggs\n- bread")
	assert.Contains(t, body, "Reminder: buy &lt;milk&gt;")
	assert.Contains(t, body, "<li>eggs</li>")
}
