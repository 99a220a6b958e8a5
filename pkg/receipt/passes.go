package receipt

import (
	"image"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

const alnumWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.,-:/()* "

// passConfig is one recognition configuration: a page layout assumption plus
// an optional character whitelist.
type passConfig struct {
	name      string
	psm       gosseract.PageSegMode
	whitelist string
}

// passConfigs is tried in order against the normalized image; the first entry
// is additionally run against the unmodified original.
var passConfigs = []passConfig{
	{"block-whitelist", gosseract.PSM_SINGLE_BLOCK, alnumWhitelist},
	{"column", gosseract.PSM_SINGLE_COLUMN, ""},
	{"sparse", gosseract.PSM_SPARSE_TEXT, ""},
	{"raw-line", gosseract.PSM_RAW_LINE, ""},
	{"block", gosseract.PSM_SINGLE_BLOCK, ""},
}

// recognitionResult pairs a pass output with the configuration that produced it.
type recognitionResult struct {
	text   string
	source string
}

// recognize runs every pass and returns the most complete text, or "" when
// all passes came back empty. A failing pass is skipped, never fatal.
func (p *Pipeline) recognize(origPath string, enhanced image.Image) string {
	var results []recognitionResult

	enhancedPath := origPath
	if tmp, err := os.CreateTemp("", "receipt-*.png"); err == nil {
		_ = tmp.Close()
		if err := imaging.Save(enhanced, tmp.Name()); err == nil {
			enhancedPath = tmp.Name()
			defer os.Remove(tmp.Name())
		}
	}

	for i, cfg := range passConfigs {
		if text, err := p.runPass(enhancedPath, cfg); err != nil {
			log.Printf("ocr pass %s failed: %v", cfg.name, err)
		} else if strings.TrimSpace(text) != "" {
			results = append(results, recognitionResult{text: strings.TrimSpace(text), source: "enhanced_" + cfg.name})
		}
		// original image only for the first config to save time
		if i == 0 && enhancedPath != origPath {
			if text, err := p.runPass(origPath, cfg); err != nil {
				log.Printf("ocr pass %s (original) failed: %v", cfg.name, err)
			} else if strings.TrimSpace(text) != "" {
				results = append(results, recognitionResult{text: strings.TrimSpace(text), source: "original_" + cfg.name})
			}
		}
	}

	best := bestResult(results)
	if best.text != "" {
		log.Printf("ocr best result from %s: %d chars %q", best.source, len(best.text), snippet(best.text, 120))
	}
	return best.text
}

// runPass executes a single engine invocation with its own client.
func (p *Pipeline) runPass(path string, cfg passConfig) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(p.cfg.Languages...); err != nil {
		return "", err
	}
	if cfg.whitelist != "" {
		if err := client.SetWhitelist(cfg.whitelist); err != nil {
			return "", err
		}
	}
	if err := client.SetPageSegMode(cfg.psm); err != nil {
		return "", err
	}
	if err := client.SetImage(path); err != nil {
		return "", err
	}
	return client.Text()
}

// bestResult picks the longest text: more recognized characters correlates
// with better field recovery on receipts.
func bestResult(results []recognitionResult) recognitionResult {
	var best recognitionResult
	for _, r := range results {
		if len(r.text) > len(best.text) {
			best = r
		}
	}
	return best
}
