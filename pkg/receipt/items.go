package receipt

import (
	"regexp"
	"strconv"
	"strings"
)

// headerFooterRE marks structural receipt lines that are never item lines.
var headerFooterRE = regexp.MustCompile(`(?i)NAMA|ITEM|QTY|HARGA|TOTAL|GRAND|SUB|KASIR|TANGGAL|NO\.`)

// itemGrammar is one line shape: its matcher plus an interpreter that turns
// the captures into a LineItem. ok=false means the line matched the shape but
// failed validation and is dropped.
type itemGrammar struct {
	re        *regexp.Regexp
	interpret func(m []string, tolerance float64) (LineItem, bool)
}

var itemGrammars = []itemGrammar{
	{
		// name qty unitPrice lineTotal
		re: regexp.MustCompile(`(?i)^(.+?)\s+(\d+)\s+(?:RP\.?|IDR)?\s*([\d.,]+)\s+(?:RP\.?|IDR)?\s*([\d.,]+)$`),
		interpret: func(m []string, tolerance float64) (LineItem, bool) {
			qty, err1 := strconv.Atoi(m[2])
			unit, err2 := strconv.ParseInt(onlyDigits(m[3]), 10, 64)
			lineTotal, err3 := strconv.ParseInt(onlyDigits(m[4]), 10, 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return LineItem{}, false
			}
			// reject arithmetically inconsistent OCR noise
			diff := int64(qty)*unit - lineTotal
			if diff < 0 {
				diff = -diff
			}
			if unit <= 0 || float64(diff) > float64(lineTotal)*tolerance {
				return LineItem{}, false
			}
			return LineItem{Name: strings.TrimSpace(m[1]), Quantity: qty, Price: unit}, true
		},
	},
	{
		// name qty x price
		re: regexp.MustCompile(`(?i)^(.+?)\s+(\d+)\s*[xX*]\s*(?:RP\.?|IDR)?\s*([\d.,]+)`),
		interpret: interpretQtyPrice,
	},
	{
		// name (qty) price
		re: regexp.MustCompile(`(?i)^(.+?)\s*\((\d+)\)\s*(?:RP\.?|IDR)?\s*([\d.,]+)`),
		interpret: interpretQtyPrice,
	},
	{
		// name price (>=4 digit amount only, guards against bare subtotals)
		re: regexp.MustCompile(`(?i)^(.+?)\s+(?:RP\.?|IDR)?\s*([\d.,]{4,})$`),
		interpret: func(m []string, _ float64) (LineItem, bool) {
			price, err := strconv.ParseInt(onlyDigits(m[2]), 10, 64)
			name := strings.TrimSpace(m[1])
			if err != nil || price <= 1000 || len(name) <= 2 {
				return LineItem{}, false
			}
			return LineItem{Name: name, Quantity: 1, Price: price}, true
		},
	},
}

func interpretQtyPrice(m []string, _ float64) (LineItem, bool) {
	qty, err1 := strconv.Atoi(m[2])
	price, err2 := strconv.ParseInt(onlyDigits(m[3]), 10, 64)
	if err1 != nil || err2 != nil || price <= 0 || qty <= 0 {
		return LineItem{}, false
	}
	return LineItem{Name: strings.TrimSpace(m[1]), Quantity: qty, Price: price}, true
}

// extractItems parses item lines with the ordered grammars. The first grammar
// whose shape matches consumes the line, whether or not its validation
// accepts the captures. Survivors are deduplicated by (lowercased name,
// price), first occurrence winning, original order kept.
func extractItems(lines []string, tolerance float64) []LineItem {
	var candidates []LineItem
	for _, line := range lines {
		if headerFooterRE.MatchString(line) {
			continue
		}
		for _, g := range itemGrammars {
			m := g.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if item, ok := g.interpret(m, tolerance); ok {
				candidates = append(candidates, item)
			}
			break
		}
	}

	seen := map[string]struct{}{}
	var items []LineItem
	for _, it := range candidates {
		if it.Name == "" || it.Price <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(it.Name)) + "\x00" + strconv.FormatInt(it.Price, 10)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, it)
	}
	return items
}
