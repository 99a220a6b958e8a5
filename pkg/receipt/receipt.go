package receipt

import (
	"fmt"
	"log"
	"time"

	"github.com/disintegration/imaging"
)

// LineItem is a single purchased item parsed from a receipt line.
// Price is the unit price in whole rupiah, not the line total.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// ParsedReceipt is the structured record produced from one scanned image.
type ParsedReceipt struct {
	MerchantName string     `json:"merchantName"`
	Date         string     `json:"date"` // ISO YYYY-MM-DD
	Items        []LineItem `json:"items"`
	Total        int64      `json:"total"`
	Confidence   float64    `json:"confidence"`
	RawText      string     `json:"raw_text"`
}

// Config holds per-pipeline settings. Values are fixed at construction so two
// pipelines with different engine settings can coexist in one process.
type Config struct {
	// Languages passed to the OCR engine, e.g. ["eng", "ind"].
	Languages []string
	// MinHeight is the height (px) the normalizer upscales small images to.
	MinHeight int
	// ItemTolerance is the relative tolerance allowed between quantity*unitPrice
	// and the printed line total before an item line is rejected as OCR noise.
	ItemTolerance float64
}

// DefaultConfig returns the settings used by the service.
func DefaultConfig() Config {
	return Config{
		Languages:     []string{"eng", "ind"},
		MinHeight:     1000,
		ItemTolerance: 0.15,
	}
}

// Pipeline turns a receipt image into a ParsedReceipt.
type Pipeline struct {
	cfg Config
}

// NewPipeline builds a pipeline from cfg, filling zero values with defaults.
func NewPipeline(cfg Config) *Pipeline {
	def := DefaultConfig()
	if len(cfg.Languages) == 0 {
		cfg.Languages = def.Languages
	}
	if cfg.MinHeight <= 0 {
		cfg.MinHeight = def.MinHeight
	}
	if cfg.ItemTolerance <= 0 {
		cfg.ItemTolerance = def.ItemTolerance
	}
	return &Pipeline{cfg: cfg}
}

// Scan runs the full pipeline against the image at path.
// Returns ErrNoText when every recognition pass came back empty; any other
// error means the image could not be decoded or the engine itself failed.
func (p *Pipeline) Scan(path string) (*ParsedReceipt, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	enhanced := p.enhance(img)
	text := p.recognize(path, enhanced)
	if text == "" {
		return nil, ErrNoText
	}
	return p.Parse(text), nil
}

// Parse extracts structured fields from recognized text. It never fails:
// unrecoverable fields fall back to defaults (empty merchant, today's date,
// zero total, a single placeholder item).
func (p *Pipeline) Parse(text string) *ParsedReceipt {
	rec := &ParsedReceipt{
		Date:    time.Now().Format("2006-01-02"),
		RawText: text,
	}
	lines := splitLines(text)
	rec.MerchantName = extractMerchant(lines)
	if d, ok := extractDate(lines); ok {
		rec.Date = d
	}
	rec.Total = extractTotal(lines)
	rec.Items = extractItems(lines, p.cfg.ItemTolerance)
	if len(rec.Items) == 0 {
		rec.Items = []LineItem{{Name: "", Quantity: 1, Price: 0}}
	}
	rec.Confidence = confidence(rec)
	log.Printf("receipt parsed merchant=%q date=%s items=%d total=%d conf=%.2f", rec.MerchantName, rec.Date, len(rec.Items), rec.Total, rec.Confidence)
	return rec
}
