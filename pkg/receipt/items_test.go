package receipt

import "testing"

func TestItemQtyUnitTotalWithinTolerance(t *testing.T) {
	// 2 x 1000 printed as 2100 is 5% off: accept
	items := extractItems([]string{"Sabun 2 1000 2100"}, 0.15)
	if len(items) != 1 {
		t.Fatalf("expected 1 item got %d", len(items))
	}
	if items[0].Name != "Sabun" || items[0].Quantity != 2 || items[0].Price != 1000 {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestItemQtyUnitTotalRejectedOutsideTolerance(t *testing.T) {
	// 2 x 1000 printed as 2500 is 19% off: reject, and the matched grammar
	// still consumes the line
	items := extractItems([]string{"Sabun 2 1000 2500"}, 0.15)
	if len(items) != 0 {
		t.Fatalf("expected no items got %+v", items)
	}
}

func TestItemQtyTimesPrice(t *testing.T) {
	items := extractItems([]string{"Kopi 2 x 15000"}, 0.15)
	if len(items) != 1 {
		t.Fatalf("expected 1 item got %d", len(items))
	}
	if items[0].Name != "Kopi" || items[0].Quantity != 2 || items[0].Price != 15000 {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestItemParenthesizedQty(t *testing.T) {
	items := extractItems([]string{"Teh Botol (3) Rp 5.000"}, 0.15)
	if len(items) != 1 {
		t.Fatalf("expected 1 item got %d", len(items))
	}
	if items[0].Quantity != 3 || items[0].Price != 5000 {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestItemBarePriceGuards(t *testing.T) {
	// qualifies: price > 1000 and a real name
	items := extractItems([]string{"Nasi Goreng 25.000"}, 0.15)
	if len(items) != 1 || items[0].Price != 25000 || items[0].Quantity != 1 {
		t.Fatalf("unexpected items %+v", items)
	}
	// price string long enough but value too small
	items = extractItems([]string{"Es Teh 0.500"}, 0.15)
	if len(items) != 0 {
		t.Fatalf("expected bare low price rejected, got %+v", items)
	}
}

func TestItemHeaderLinesSkipped(t *testing.T) {
	lines := []string{
		"NAMA BARANG QTY HARGA",
		"TOTAL 50000",
		"KASIR: BUDI",
		"Roti 2 x 10000",
	}
	items := extractItems(lines, 0.15)
	if len(items) != 1 || items[0].Name != "Roti" {
		t.Fatalf("expected only Roti got %+v", items)
	}
}

func TestItemDedupCaseInsensitive(t *testing.T) {
	items := extractItems([]string{"Milk 1 x 5000", "milk 1 x 5000"}, 0.15)
	if len(items) != 1 {
		t.Fatalf("expected case-folded duplicate collapsed, got %+v", items)
	}
	if items[0].Name != "Milk" {
		t.Fatalf("expected first occurrence to win got %q", items[0].Name)
	}
}

func TestItemOrderPreserved(t *testing.T) {
	items := extractItems([]string{"Roti 1 x 8000", "Kopi 2 x 15000"}, 0.15)
	if len(items) != 2 || items[0].Name != "Roti" || items[1].Name != "Kopi" {
		t.Fatalf("expected original order got %+v", items)
	}
}
