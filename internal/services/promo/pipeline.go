// -----------------------------------------------------------------------
// Pipeline - snapshot classification and episode aggregation
// -----------------------------------------------------------------------

package promo

import (
	"context"
	"sort"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

// OCRProvider produces additional text from a snapshot's banner images. It
// is an external collaborator; the pipeline only consumes the returned
// text. Implementations may be remote and rate-limited.
type OCRProvider interface {
	ExtractText(ctx context.Context, snapshot *models.Snapshot) (string, error)
}

// Options parametrize the pipeline. The source heuristics existed as
// several near-duplicate script variants; every knob that differed between
// them lives here so vocabulary and thresholds stay configuration, not
// forked code paths.
type Options struct {
	Keywords            []string
	ContextWindow       int
	MinKeywords         int
	MergeGapDays        int
	EnableOCR           bool
	OCRKeywordThreshold int
}

// DefaultOptions returns the shipped pipeline parameters
func DefaultOptions() Options {
	return Options{
		Keywords:            PromoKeywords,
		ContextWindow:       50,
		MinKeywords:         2,
		MergeGapDays:        4,
		EnableOCR:           false,
		OCRKeywordThreshold: 2,
	}
}

// Result is the classified output for one brand's snapshot batch
type Result struct {
	Records    []models.PromotionRecord
	Series     []models.SeriesRow
	Episodes   []models.Episode
	Rejections []models.RejectedEntry
}

// Pipeline runs the full extraction/classification/aggregation sequence.
// The core is single-threaded and synchronous: each snapshot's judgment is
// a pure function of its own text, and aggregation runs once the whole
// batch is classified.
type Pipeline struct {
	opts       Options
	extractor  *ContextExtractor
	classifier *PromotionClassifier
	filter     *NoiseFilter
	ocr        OCRProvider
	logger     arbor.ILogger
}

// NewPipeline creates a pipeline. ocr may be nil when OCR is disabled.
func NewPipeline(opts Options, ocr OCRProvider, logger arbor.ILogger) *Pipeline {
	if len(opts.Keywords) == 0 {
		opts.Keywords = PromoKeywords
	}
	return &Pipeline{
		opts:       opts,
		extractor:  NewContextExtractor(opts.ContextWindow, logger),
		classifier: NewPromotionClassifier(logger),
		filter:     NewNoiseFilter(opts.MinKeywords, logger),
		ocr:        ocr,
		logger:     logger,
	}
}

// Run classifies a batch of snapshots for one brand and aggregates the y=1
// rows into episodes. One malformed snapshot degrades to a non-promotional
// row; it never aborts the batch.
func (p *Pipeline) Run(ctx context.Context, brand string, snapshots []*models.Snapshot) *Result {
	ordered := make([]*models.Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	result := &Result{}
	var episodeInputs []models.EpisodeInput

	for _, snapshot := range ordered {
		record, rejection := p.classifySnapshot(ctx, snapshot)
		result.Records = append(result.Records, record)
		if rejection != nil {
			result.Rejections = append(result.Rejections, *rejection)
		}

		row := models.SeriesRow{Snapshot: snapshot.Timestamp}
		if record.IsPromotional {
			resolved := Resolve(record.KeywordContexts, brand)
			row.Event = resolved.EventName
			row.Discount = resolved.DiscountLabel
			if record.IsSitewide {
				row.Sitewide = 1
			}
			if IsMajorSale(record, brand) {
				row.Y = 1
			}

			if row.Y == 1 {
				if when, ok := snapshot.Time(); ok {
					episodeInputs = append(episodeInputs, models.EpisodeInput{
						Brand:    brand,
						Y:        1,
						Event:    resolved.EventName,
						Sitewide: record.IsSitewide,
						Discount: resolved.DiscountLabel,
						Start:    when,
						End:      when,
						Snapshot: snapshot.Timestamp,
					})
				} else {
					p.logger.Warn().
						Str("timestamp", snapshot.Timestamp).
						Msg("Snapshot id not parseable as a date, excluded from episode aggregation")
				}
			}
		}
		result.Series = append(result.Series, row)
	}

	result.Episodes = Aggregate(episodeInputs, p.opts.MergeGapDays)

	sort.Slice(result.Rejections, func(i, j int) bool {
		return result.Rejections[i].Timestamp < result.Rejections[j].Timestamp
	})

	p.logger.Info().
		Str("brand", brand).
		Int("snapshots", len(ordered)).
		Int("promotional", countPromotional(result.Records)).
		Int("episodes", len(result.Episodes)).
		Int("rejected", len(result.Rejections)).
		Msg("Pipeline run complete")

	return result
}

// classifySnapshot derives the promotion record for one snapshot. Any
// failure degrades to the conservative non-promotional outcome.
func (p *Pipeline) classifySnapshot(ctx context.Context, snapshot *models.Snapshot) (record models.PromotionRecord, rejection *models.RejectedEntry) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn().
				Str("timestamp", snapshot.Timestamp).
				Str("url", snapshot.URL).
				Msgf("Snapshot classification panicked, degrading to non-promotional: %v", r)
			record = models.PromotionRecord{Timestamp: snapshot.Timestamp, URL: snapshot.URL}
			rejection = nil
		}
	}()

	doc := p.parseSnapshot(snapshot)

	contexts := p.extractor.ExtractAll(doc, p.opts.Keywords)

	// OCR is expensive; only consult it when the regular text pass already
	// found enough signal to make a promotion plausible.
	if p.opts.EnableOCR && len(contexts) >= p.opts.OCRKeywordThreshold {
		if extra := p.ocrText(ctx, snapshot); extra != "" {
			doc.AppendText(extra)
			contexts = p.extractor.ExtractAll(doc, p.opts.Keywords)
		}
	}

	if len(contexts) == 0 {
		// Nothing detected upstream; not an error and not worth auditing
		return models.PromotionRecord{Timestamp: snapshot.Timestamp, URL: snapshot.URL}, nil
	}

	filtered, rejected := p.filter.FilterEntry(snapshot.Timestamp, snapshot.URL, contexts)
	if rejected != nil {
		return models.PromotionRecord{Timestamp: snapshot.Timestamp, URL: snapshot.URL}, rejected
	}

	return p.classifier.Classify(snapshot, doc, filtered), nil
}

func (p *Pipeline) parseSnapshot(snapshot *models.Snapshot) *Document {
	if snapshot.HTML != "" {
		doc, err := ParseDocument(snapshot.HTML)
		if err == nil {
			return doc
		}
		p.logger.Warn().Err(err).
			Str("timestamp", snapshot.Timestamp).
			Msg("Snapshot markup unparseable, falling back to raw text")
	}
	return NewTextDocument(snapshot.RawText)
}

func (p *Pipeline) ocrText(ctx context.Context, snapshot *models.Snapshot) string {
	if snapshot.OCRText != "" {
		return snapshot.OCRText
	}
	if p.ocr == nil {
		return ""
	}
	text, err := p.ocr.ExtractText(ctx, snapshot)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("timestamp", snapshot.Timestamp).
			Msg("OCR extraction failed, continuing without banner text")
		return ""
	}
	return text
}

func countPromotional(records []models.PromotionRecord) int {
	n := 0
	for _, r := range records {
		if r.IsPromotional {
			n++
		}
	}
	return n
}
