package receipt

import (
	"testing"
	"time"
)

const sampleReceipt = `Toko Maju Jaya
Jl. Sudirman 45 Jakarta
01/02/2024
Kopi 2 x 15000
TOTAL RP 30000`

func TestParseFullReceipt(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	rec := p.Parse(sampleReceipt)

	if rec.MerchantName != "Toko Maju Jaya" {
		t.Fatalf("merchant: got %q", rec.MerchantName)
	}
	if rec.Date != "2024-02-01" {
		t.Fatalf("date: got %q", rec.Date)
	}
	if rec.Total != 30000 {
		t.Fatalf("total: got %d", rec.Total)
	}
	if len(rec.Items) != 1 {
		t.Fatalf("items: got %+v", rec.Items)
	}
	it := rec.Items[0]
	if it.Name != "Kopi" || it.Quantity != 2 || it.Price != 15000 {
		t.Fatalf("item: got %+v", it)
	}
	if rec.Confidence != 1.0 {
		t.Fatalf("confidence: got %v", rec.Confidence)
	}
	if rec.RawText != sampleReceipt {
		t.Fatal("raw text not retained")
	}
}

func TestParseNeverReturnsEmptyItems(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	rec := p.Parse("garbage with nothing usable")
	if len(rec.Items) != 1 {
		t.Fatalf("expected placeholder item got %+v", rec.Items)
	}
	ph := rec.Items[0]
	if ph.Name != "" || ph.Quantity != 1 || ph.Price != 0 {
		t.Fatalf("unexpected placeholder %+v", ph)
	}
}

func TestParseDefaultsToToday(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	rec := p.Parse("no date anywhere on this receipt")
	if rec.Date != time.Now().Format("2006-01-02") {
		t.Fatalf("expected today's date got %q", rec.Date)
	}
}

func TestBestResultLongestWins(t *testing.T) {
	results := []recognitionResult{
		{text: "short", source: "enhanced_block"},
		{text: "the longest recognized candidate text", source: "original_block-whitelist"},
		{text: "medium length text", source: "enhanced_sparse"},
	}
	best := bestResult(results)
	if best.source != "original_block-whitelist" {
		t.Fatalf("expected longest to win got %+v", best)
	}
}

func TestBestResultEmpty(t *testing.T) {
	if best := bestResult(nil); best.text != "" {
		t.Fatalf("expected empty best got %+v", best)
	}
}

func TestNewPipelineFillsDefaults(t *testing.T) {
	p := NewPipeline(Config{})
	if len(p.cfg.Languages) == 0 || p.cfg.MinHeight != 1000 || p.cfg.ItemTolerance != 0.15 {
		t.Fatalf("defaults not applied: %+v", p.cfg)
	}
}
