package render

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContent(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{
			name:     "editor html passes",
			in:       "<p>Hello <strong>world</strong></p>",
			contains: []string{"<p>Hello <strong>world</strong></p>"},
		},
		{
			name:     "markdown",
			in:       "# Title\n\nsome *emphasis*",
			contains: []string{"<h1>Title</h1>", "<em>emphasis</em>"},
		},
		{
			name:     "script stripped",
			in:       "<p>hi</p><script>alert(1)</script>",
			contains: []string{"<p>hi</p>"},
			excludes: []string{"<script", "alert(1)"},
		},
		{
			name:     "event handler stripped",
			in:       `<p><img src="https://x.io/a.png" onerror="alert(1)"></p>`,
			contains: []string{`src="https://x.io/a.png"`},
			excludes: []string{"onerror"},
		},
		{
			name:     "javascript link stripped",
			in:       `<p><a href="javascript:alert(1)">x</a></p>`,
			excludes: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(Content(tt.in))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestGravatar(t *testing.T) {
	// md5("myemailaddress@example.com")
	want := "https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=100&d=retro&r=g"
	assert.Equal(t, want, Gravatar("MyEmailAddress@example.com "))
}

func TestFuncs(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(Funcs()).Parse(`{{content .}}|{{gravatar "a@b.c"}}|{{year}}`))

	var sb strings.Builder
	assert.NoError(t, tmpl.Execute(&sb, "<b>x</b>"))
	out := sb.String()
	assert.Contains(t, out, "<b>x</b>")
	assert.Contains(t, out, "gravatar.com/avatar/")
}
