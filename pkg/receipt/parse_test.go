package receipt

import "testing"

func TestExtractMerchantFirstCleanLine(t *testing.T) {
	lines := []string{"NPWP 01.234.567.8", "Toko Maju Jaya", "Jl. Sudirman 45"}
	if m := extractMerchant(lines); m != "Toko Maju Jaya" {
		t.Fatalf("expected merchant from second line got %q", m)
	}
}

func TestExtractMerchantSkipsDigitRuns(t *testing.T) {
	lines := []string{"081234567890", "x", "this line is way too long to be a merchant name header we think", "Alfamart"}
	if m := extractMerchant(lines); m != "Alfamart" {
		t.Fatalf("expected Alfamart got %q", m)
	}
}

func TestExtractMerchantNone(t *testing.T) {
	if m := extractMerchant([]string{"123456", "ab"}); m != "" {
		t.Fatalf("expected empty merchant got %q", m)
	}
}

func TestExtractDateDMY(t *testing.T) {
	d, ok := extractDate([]string{"Tanggal: 12/05/2024"})
	if !ok || d != "2024-05-12" {
		t.Fatalf("expected 2024-05-12 got %q ok=%v", d, ok)
	}
}

func TestExtractDateShortYearPadding(t *testing.T) {
	d, ok := extractDate([]string{"24/5/9"})
	if !ok || d != "2009-05-24" {
		t.Fatalf("expected 2009-05-24 got %q ok=%v", d, ok)
	}
}

func TestExtractDateMonthName(t *testing.T) {
	d, ok := extractDate([]string{"5 Mar 2023 14:02"})
	if !ok || d != "2023-03-05" {
		t.Fatalf("expected 2023-03-05 got %q ok=%v", d, ok)
	}
}

func TestExtractDateSkipsImpossible(t *testing.T) {
	// 31/13 is no date; the later line should still be picked up
	d, ok := extractDate([]string{"31/13/2024", "01-02-2024"})
	if !ok || d != "2024-02-01" {
		t.Fatalf("expected 2024-02-01 got %q ok=%v", d, ok)
	}
}

func TestExtractDateNoMatch(t *testing.T) {
	if _, ok := extractDate([]string{"no date here"}); ok {
		t.Fatal("expected no date")
	}
}

func TestExtractTotalKeyword(t *testing.T) {
	if got := extractTotal([]string{"Kopi 2 x 15000", "TOTAL RP 30000"}); got != 30000 {
		t.Fatalf("expected 30000 got %d", got)
	}
}

func TestExtractTotalGrouped(t *testing.T) {
	if got := extractTotal([]string{"GRAND TOTAL: Rp 125.500"}); got != 125500 {
		t.Fatalf("expected 125500 got %d", got)
	}
}

func TestExtractTotalRejectsShortDigits(t *testing.T) {
	if got := extractTotal([]string{"Qty 12"}); got != 0 {
		t.Fatalf("expected 0 for bare quantity got %d", got)
	}
	if got := extractTotal([]string{"TOTAL 12"}); got != 0 {
		t.Fatalf("expected 0 for 2-digit total got %d", got)
	}
}

func TestExtractTotalAmountBeforeKeyword(t *testing.T) {
	if got := extractTotal([]string{"45.000 JUMLAH"}); got != 45000 {
		t.Fatalf("expected 45000 got %d", got)
	}
}
