package receipt

import (
	"strings"
	"testing"
)

func TestConfidenceAllSignals(t *testing.T) {
	rec := &ParsedReceipt{
		MerchantName: "Toko Maju Jaya",
		Total:        30000,
		Items:        []LineItem{{Name: "Kopi", Quantity: 2, Price: 15000}},
		RawText:      strings.Repeat("x", 60),
	}
	if got := confidence(rec); got != 1.0 {
		t.Fatalf("expected 1.0 got %v", got)
	}
}

func TestConfidenceEmpty(t *testing.T) {
	rec := &ParsedReceipt{Items: []LineItem{{Name: "", Quantity: 1, Price: 0}}}
	if got := confidence(rec); got != 0.0 {
		t.Fatalf("expected 0.0 got %v", got)
	}
}

func TestConfidencePlaceholderItemScoresNothing(t *testing.T) {
	rec := &ParsedReceipt{
		Total:   15000,
		Items:   []LineItem{{Name: "", Quantity: 1, Price: 0}},
		RawText: strings.Repeat("x", 60),
	}
	// total 0.35 + text 0.15 only
	if got := confidence(rec); got != 0.5 {
		t.Fatalf("expected 0.5 got %v", got)
	}
}

func TestConfidenceBounds(t *testing.T) {
	recs := []*ParsedReceipt{
		{},
		{MerchantName: "A B C D"},
		{Total: 999999, Items: []LineItem{{Name: "x", Price: 1}}, MerchantName: "m n o p", RawText: strings.Repeat("y", 200)},
	}
	for _, rec := range recs {
		c := confidence(rec)
		if c < 0 || c > 1 {
			t.Fatalf("confidence out of range: %v for %+v", c, rec)
		}
	}
}
