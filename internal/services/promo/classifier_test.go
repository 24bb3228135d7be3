package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

func TestClassifier_Classify(t *testing.T) {
	classifier := NewPromotionClassifier(arbor.NewLogger())
	snapshot := &models.Snapshot{Timestamp: "20240101000000", URL: "http://example.com"}

	t.Run("no contexts is not promotional", func(t *testing.T) {
		record := classifier.Classify(snapshot, NewTextDocument(""), models.KeywordContexts{})
		assert.False(t, record.IsPromotional)
		assert.False(t, record.IsSitewide)
		assert.Equal(t, "20240101000000", record.Timestamp)
	})

	t.Run("lone generic sale keyword is downgraded", func(t *testing.T) {
		contexts := models.KeywordContexts{
			"sale": {"our sale section has moved"},
		}
		record := classifier.Classify(snapshot, NewTextDocument(""), contexts)
		assert.False(t, record.IsPromotional)
	})

	t.Run("lone specific keyword stays promotional", func(t *testing.T) {
		contexts := models.KeywordContexts{
			"clearance": {"clearance event now on"},
		}
		record := classifier.Classify(snapshot, NewTextDocument(""), contexts)
		assert.True(t, record.IsPromotional)
	})

	t.Run("sale plus corroboration is promotional", func(t *testing.T) {
		contexts := models.KeywordContexts{
			"sale":  {"black friday sale now on"},
			"% off": {"30% off everything"},
		}
		record := classifier.Classify(snapshot, NewTextDocument(""), contexts)
		assert.True(t, record.IsPromotional)
		assert.True(t, record.IsSitewide)
	})
}

func TestClassifier_Sitewide(t *testing.T) {
	classifier := NewPromotionClassifier(arbor.NewLogger())

	tests := []struct {
		name     string
		context  string
		sitewide bool
	}{
		{"percent off everything", "30% off everything this weekend", true},
		{"everything percent off", "everything 40% off", true},
		{"black friday claim", "our Black Friday event", true},
		{"sitewide claim", "discounts sitewide", true},
		{"no exclusions claim", "20% off, no exclusions", true},
		{"scoped discount", "30% off selected lines", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contexts := models.KeywordContexts{"% off": {tt.context}}
			assert.Equal(t, tt.sitewide, classifier.isSitewide(contexts))
		})
	}
}

func TestClassifier_ExtractSaleEndDate(t *testing.T) {
	classifier := NewPromotionClassifier(arbor.NewLogger())

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "weekday form",
			text:     "hurry, sale ends Sunday at 11pm AEDT",
			expected: "ends sunday at 11pm aedt",
		},
		{
			name:     "extended until weekday",
			text:     "great news: extended until Monday",
			expected: "extended until monday",
		},
		{
			name:     "day month form",
			text:     "offer ends 25th December 2024",
			expected: "ends 25th december 2024",
		},
		{
			name:     "numeric form",
			text:     "sale ends 25/12",
			expected: "ends 25/12",
		},
		{
			name:     "no end date",
			text:     "everything 30% off right now",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.ExtractSaleEndDate(NewTextDocument(tt.text))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifier_EndDateSkipsNavigation(t *testing.T) {
	classifier := NewPromotionClassifier(arbor.NewLogger())

	markup := `<body>
		<nav><a href="/sale">sale ends Friday</a></nav>
		<p>sale ends Sunday</p>
	</body>`
	doc, err := ParseDocument(markup)
	assert.NoError(t, err)

	assert.Equal(t, "ends sunday", classifier.ExtractSaleEndDate(doc))
}
