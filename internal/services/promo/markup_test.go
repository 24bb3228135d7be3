package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestParseDocument_VisibleText(t *testing.T) {
	markup := `<html><head>
		<script>var sale = "30% off";</script>
		<style>.sale { color: red }</style>
	</head><body>
		<h1>Big   Sale</h1>
		<p>Everything 30% off</p>
		<noscript>enable javascript for the sale</noscript>
	</body></html>`

	doc, err := ParseDocument(markup)
	require.NoError(t, err)

	assert.Equal(t, "Big Sale Everything 30% off", doc.Text())
}

func TestDocument_NavigationSuppression(t *testing.T) {
	extractor := NewContextExtractor(50, arbor.NewLogger())

	tests := []struct {
		name   string
		markup string
		found  bool
	}{
		{
			name:   "nav element",
			markup: `<body><nav><a href="/sale">Sale</a></nav></body>`,
			found:  false,
		},
		{
			name:   "main-nav class on ancestor",
			markup: `<body><div class="main-nav"><ul><li>Sale</li></ul></div></body>`,
			found:  false,
		},
		{
			name:   "navigation role",
			markup: `<body><div role="navigation"><span>Sale</span></div></body>`,
			found:  false,
		},
		{
			name:   "nav ancestor beyond lookup depth",
			markup: `<body><nav><div><div><div><span>Sale on now</span></div></div></div></nav></body>`,
			found:  true,
		},
		{
			name:   "plain body content",
			markup: `<body><main><p>Sale on now</p></main></body>`,
			found:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument(tt.markup)
			require.NoError(t, err)
			contexts := extractor.Extract(doc, "sale")
			assert.Equal(t, tt.found, len(contexts) > 0)
		})
	}
}

func TestDocument_NewsletterSuppression(t *testing.T) {
	extractor := NewContextExtractor(50, arbor.NewLogger())

	tests := []struct {
		name   string
		markup string
		found  bool
	}{
		{
			name:   "form ancestor",
			markup: `<body><form><label>sign up for 10% off sale alerts</label></form></body>`,
			found:  false,
		},
		{
			name:   "newsletter class deep above text",
			markup: `<body><div class="newsletter"><div><div><div><div><span>Sale alerts</span></div></div></div></div></div></body>`,
			found:  false,
		},
		{
			name:   "signup id",
			markup: `<body><div id="email-signup"><p>Sale news first</p></div></body>`,
			found:  false,
		},
		{
			name:   "content outside forms",
			markup: `<body><p>Sale on now</p><form><input type="email"/></form></body>`,
			found:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument(tt.markup)
			require.NoError(t, err)
			contexts := extractor.Extract(doc, "sale")
			assert.Equal(t, tt.found, len(contexts) > 0)
		})
	}
}

func TestDocument_AppendText(t *testing.T) {
	doc, err := ParseDocument(`<body><nav>Sale</nav></body>`)
	require.NoError(t, err)

	// The nav occurrence is suppressed
	extractor := NewContextExtractor(50, arbor.NewLogger())
	assert.Empty(t, extractor.Extract(doc, "sale"))

	// Appended banner text carries no structure, so its occurrences count
	doc.AppendText("  flash   sale ends tonight ")
	contexts := extractor.Extract(doc, "sale")
	require.Len(t, contexts, 1)
	assert.Contains(t, contexts[0], "flash sale ends tonight")
}

func TestNewTextDocument_NormalizesWhitespace(t *testing.T) {
	doc := NewTextDocument("  flash\n\tsale \r\n today ")
	assert.Equal(t, "flash sale today", doc.Text())
}
