package promo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestContextExtractor_Extract(t *testing.T) {
	extractor := NewContextExtractor(50, arbor.NewLogger())

	t.Run("bare sale matches whole words only", func(t *testing.T) {
		doc := NewTextDocument("wholesale prices are not a sale, but this Sale is")
		contexts := extractor.Extract(doc, "sale")
		require.Len(t, contexts, 2)
		assert.Contains(t, contexts[0], "not a sale")
		assert.Contains(t, contexts[1], "this Sale is")
	})

	t.Run("percent off matches digits with optional space", func(t *testing.T) {
		doc := NewTextDocument("everything is 30 % off today and tops are 50% off")
		contexts := extractor.Extract(doc, "% off")
		assert.Len(t, contexts, 2)
	})

	t.Run("percent off requires the literal phrase somewhere", func(t *testing.T) {
		// "30%off" alone, without the spaced phrase, does not qualify
		doc := NewTextDocument("everything is 30%off today")
		assert.Empty(t, extractor.Extract(doc, "% off"))
	})

	t.Run("plain keywords match case-insensitively", func(t *testing.T) {
		doc := NewTextDocument("our Black Friday event starts Thursday")
		contexts := extractor.Extract(doc, "black friday")
		require.Len(t, contexts, 1)
		assert.Contains(t, contexts[0], "Black Friday")
	})

	t.Run("absent keyword yields nothing", func(t *testing.T) {
		doc := NewTextDocument("new season styles have arrived")
		assert.Empty(t, extractor.Extract(doc, "clearance"))
	})
}

func TestContextExtractor_WindowBounds(t *testing.T) {
	extractor := NewContextExtractor(10, arbor.NewLogger())

	doc := NewTextDocument("aaaaaaaaaaaaaaaaaaaa sale bbbbbbbbbbbbbbbbbbbb")
	contexts := extractor.Extract(doc, "sale")
	require.Len(t, contexts, 1)

	excerpt := contexts[0]
	assert.True(t, strings.HasPrefix(excerpt, "..."))
	assert.True(t, strings.HasSuffix(excerpt, "..."))
	assert.Contains(t, excerpt, "sale")

	// Match at document start carries no leading ellipsis
	doc = NewTextDocument("sale on now")
	contexts = extractor.Extract(doc, "sale")
	require.Len(t, contexts, 1)
	assert.Equal(t, "sale on now", contexts[0])
}

func TestContextExtractor_WindowRuneBoundaries(t *testing.T) {
	extractor := NewContextExtractor(5, arbor.NewLogger())

	// Multi-byte characters around the match must not be split mid-rune
	doc := NewTextDocument("héllo wörld sale çafé time")
	contexts := extractor.Extract(doc, "sale")
	require.Len(t, contexts, 1)
	assert.True(t, strings.Contains(contexts[0], "sale"))
	for _, r := range contexts[0] {
		assert.NotEqual(t, '�', r)
	}
}

func TestContextExtractor_ExtractAll(t *testing.T) {
	extractor := NewContextExtractor(50, arbor.NewLogger())

	doc := NewTextDocument("black friday sale now on with 30% off everything sitewide")
	contexts := extractor.ExtractAll(doc, PromoKeywords)

	assert.Contains(t, contexts, "sale")
	assert.Contains(t, contexts, "black friday")
	assert.Contains(t, contexts, "% off")
	assert.Contains(t, contexts, "sitewide")
	assert.NotContains(t, contexts, "boxing day")
	assert.NotContains(t, contexts, "clearance")
}
