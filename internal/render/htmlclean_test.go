package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTML_StripsCosmeticAttributes(t *testing.T) {
	in := `<p dir="ltr" style="color:red" class="editor" role="note" id="keep">text</p>`
	out := CleanHTML(in)

	assert.NotContains(t, out, "dir=")
	assert.NotContains(t, out, "style=")
	assert.NotContains(t, out, "class=")
	assert.NotContains(t, out, "role=")
	assert.Contains(t, out, `id="keep"`)
	assert.Contains(t, out, "text")
}

func TestCleanHTML_RemovesBr(t *testing.T) {
	assert.Equal(t, "<p>one two</p>", CleanHTML("<p>one<br> two</p>"))
	assert.NotContains(t, CleanHTML("top<br>level"), "<br")
}

func TestCleanHTML_DropsEmptyElements(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty paragraph", "<p></p>"},
		{"whitespace paragraph", "<p>   </p>"},
		{"empty heading", "<h1></h1>"},
		{"empty bold", "<b> </b>"},
		{"empty span", "<span></span>"},
		{"nested empty", "<p><strong> </strong></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, CleanHTML(tt.in))
		})
	}
}

func TestCleanHTML_KeepsNonEmptyElements(t *testing.T) {
	assert.Equal(t, "<p>hello</p>", CleanHTML("<p>hello</p>"))
	// An image counts as content even without text.
	out := CleanHTML(`<p><img src="x.png"/></p>`)
	assert.Contains(t, out, "<img")
}

func TestCleanHTML_DemotesHeadings(t *testing.T) {
	out := CleanHTML("<h1>Top</h1><h2>Second</h2><h5>Fifth</h5><h6>Sixth</h6>")

	assert.Contains(t, out, "<h2>Top</h2>")
	assert.Contains(t, out, "<h3>Second</h3>")
	assert.Contains(t, out, "<h6>Fifth</h6>")
	assert.Contains(t, out, "<h6>Sixth</h6>")
	assert.NotContains(t, out, "<h1>")
}

func TestCleanHTML_CollapsesWhitespace(t *testing.T) {
	out := CleanHTML("<p>too    many\n\n\tspaces</p>")
	assert.Equal(t, "<p>too many spaces</p>", out)
}

func TestCleanHTML_KeepsBoundarySpaces(t *testing.T) {
	// The space between the bold run and the following word must survive.
	out := CleanHTML("<p><b>bold</b>   and   plain</p>")
	assert.Equal(t, "<p><b>bold</b> and plain</p>", out)
}

func TestCleanHTML_ToleratesMalformedInput(t *testing.T) {
	out := CleanHTML("<p>unclosed <b>bold")
	assert.Contains(t, out, "unclosed")
	assert.Contains(t, out, "bold")
}

func TestCleanHTML_EmptyInput(t *testing.T) {
	assert.Empty(t, CleanHTML(""))
}
