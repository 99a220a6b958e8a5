package receipt

// confidence combines field completeness into a single score in [0,1]:
// merchant 25%, total 35%, any named item 25%, raw text length 15%.
func confidence(rec *ParsedReceipt) float64 {
	score := 0.0
	if rec.MerchantName != "" {
		score += 0.25
	}
	if rec.Total > 0 {
		score += 0.35
	}
	for _, it := range rec.Items {
		if it.Name != "" {
			score += 0.25
			break
		}
	}
	if len(rec.RawText) > 50 {
		score += 0.15
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
