package receipt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	digitRunRE   = regexp.MustCompile(`\d{3,}`)
	merchantTrim = regexp.MustCompile(`[^\w\s&.\-]`)
)

// extractMerchant scans the first five lines for a clean header line: no long
// digit runs, plausible length, and still non-trivial after stripping symbols.
func extractMerchant(lines []string) string {
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		if digitRunRE.MatchString(line) || len(line) <= 3 || len(line) >= 50 {
			continue
		}
		cleaned := merchantTrim.ReplaceAllString(line, " ")
		cleaned = strings.Join(strings.Fields(cleaned), " ")
		if len(cleaned) > 3 {
			return cleaned
		}
	}
	return ""
}

var monthAbbr = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// datePattern pairs a matcher with its interpreter. Patterns are evaluated in
// order per line, first successful interpretation wins.
type datePattern struct {
	re    *regexp.Regexp
	build func(m []string) (string, bool)
}

var datePatterns = []datePattern{
	{
		// D(D)/M(M)/Y(Y)
		re: regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{1,4})`),
		build: func(m []string) (string, bool) {
			return buildISO(m[3], m[2], m[1])
		},
	},
	{
		// Y(Y)/M(M)/D(D)
		re: regexp.MustCompile(`(\d{2,4})[/\-.](\d{1,2})[/\-.](\d{1,2})`),
		build: func(m []string) (string, bool) {
			return buildISO(m[1], m[2], m[3])
		},
	},
	{
		// D Mon YYYY
		re: regexp.MustCompile(`(?i)(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{2,4})`),
		build: func(m []string) (string, bool) {
			mo := monthAbbr[strings.ToLower(m[2])]
			return buildISO(m[3], strconv.Itoa(mo), m[1])
		},
	},
}

// extractDate scans every line against the ordered patterns; first candidate
// that interprets cleanly wins. Invalid candidates are skipped, scanning
// continues.
func extractDate(lines []string) (string, bool) {
	for _, line := range lines {
		for _, dp := range datePatterns {
			m := dp.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if iso, ok := dp.build(m); ok {
				return iso, true
			}
		}
	}
	return "", false
}

// buildISO normalizes year/month/day strings to YYYY-MM-DD. Short years are
// zero-padded and prefixed with "20". Returns false for impossible dates.
func buildISO(yearS, monthS, dayS string) (string, bool) {
	if len(yearS) == 1 {
		yearS = "0" + yearS
	}
	if len(yearS) == 2 {
		yearS = "20" + yearS
	}
	year, err := strconv.Atoi(yearS)
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(monthS)
	if err != nil {
		return "", false
	}
	day, err := strconv.Atoi(dayS)
	if err != nil {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// totalPatterns are tried in priority order per line; group 1 captures the
// amount string.
var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:TOTAL|GRAND\s*TOTAL|SUB\s*TOTAL|HARGA\s*JUAL)\s*:?\s*(?:RP\.?|IDR)?\s*([\d.,]+)`),
	regexp.MustCompile(`(?i)(?:RP\.?|IDR)\s*([\d.,]+)(?:\s*(?:TOTAL|JUMLAH))?`),
	regexp.MustCompile(`(?i)TOTAL.*?([\d.,]{4,})`),
	regexp.MustCompile(`(?i)([\d.,]{4,})\s*(?:TOTAL|JUMLAH)`),
}

// extractTotal returns the first accepted amount, or 0. A match is accepted
// when its digit-only form has at least 3 digits, which rejects incidental
// one/two digit captures like quantities.
func extractTotal(lines []string) int64 {
	for _, line := range lines {
		for _, re := range totalPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			digits := onlyDigits(m[1])
			if len(digits) < 3 {
				continue
			}
			amt, err := strconv.ParseInt(digits, 10, 64)
			if err != nil {
				continue
			}
			return amt
		}
	}
	return 0
}
