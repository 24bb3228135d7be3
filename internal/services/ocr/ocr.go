package ocr

import (
	"context"

	"github.com/ternarybob/vendo/internal/models"
)

// Disabled is the OCR provider used when no OCR backend is configured. It
// contributes no text, so classification falls back to the markup pass.
type Disabled struct{}

// NewDisabled creates the no-op OCR provider
func NewDisabled() *Disabled {
	return &Disabled{}
}

// ExtractText returns no additional text
func (d *Disabled) ExtractText(ctx context.Context, snapshot *models.Snapshot) (string, error) {
	return "", nil
}
