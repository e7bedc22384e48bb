package htmlutil

import (
	"encoding/json"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// ProductMetadata is what the structured data embedded in a product
// page tells us, independent of any visible markup.
type ProductMetadata struct {
	Name string
	// Price is zero when the metadata carries none. A fractional
	// component is truncated.
	Price    int64
	HasPrice bool
}

// ProductLD walks every <script type="application/ld+json"> block on the
// page and pulls out the first product name and offer price it finds.
// Broken blocks are skipped, pages routinely carry malformed JSON-LD.
func ProductLD(doc *goquery.Document) ProductMetadata {
	var out ProductMetadata

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}

		switch v := data.(type) {
		case map[string]any:
			mergeLD(&out, v)
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					mergeLD(&out, m)
				}
			}
		}

		return out.Name == "" || !out.HasPrice
	})

	return out
}

func mergeLD(out *ProductMetadata, m map[string]any) {
	if out.Name == "" {
		if name, ok := m["name"].(string); ok && name != "" {
			out.Name = name
		}
	}
	if !out.HasPrice {
		if offers, ok := m["offers"].(map[string]any); ok {
			if price, ok := parseLDPrice(offers["price"]); ok {
				out.Price = price
				out.HasPrice = true
			}
		}
	}
}

func parseLDPrice(v any) (int64, bool) {
	switch p := v.(type) {
	case float64:
		return int64(p), true
	case string:
		if p == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return int64(f), true
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	case nil:
		return 0, false
	default:
		// some sites wrap price in yet another object
		if m, ok := v.(map[string]any); ok {
			return parseLDPrice(m["price"])
		}
		return 0, false
	}
}
