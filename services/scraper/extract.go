package scraper

import (
	"regexp"
	"strings"
	"dealwatch-backend/lib/htmlutil"
	"dealwatch-backend/lib/textutil"
	"dealwatch-backend/services/offers"

	"github.com/PuerkitoBio/goquery"
)

// extractName follows a fixed precedence: structured JSON-LD metadata,
// then the first heading, then the page title up to the first
// separator. The order must stay stable so snapshots remain comparable
// across checks.
func extractName(doc *goquery.Document) *string {
	if meta := htmlutil.ProductLD(doc); meta.Name != "" {
		name := htmlutil.CleanText(meta.Name)
		return &name
	}

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if name := htmlutil.CleanText(h1.Text()); name != "" {
			return &name
		}
	}

	if title := doc.Find("title").First(); title.Length() > 0 {
		text, _, _ := strings.Cut(title.Text(), "|")
		if name := htmlutil.CleanText(text); name != "" {
			return &name
		}
	}

	return nil
}

// extractPrice walks the platform's known price selectors in order and
// takes the first non-empty numeric match, falling back to the
// JSON-LD offers.price (fraction truncated).
func extractPrice(doc *goquery.Document, selectors []string) *int64 {
	for _, selector := range selectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if text == "" {
			continue
		}
		if price := textutil.StripCurrency(text); price > 0 {
			return &price
		}
	}

	if meta := htmlutil.ProductLD(doc); meta.HasPrice {
		price := meta.Price
		return &price
	}

	return nil
}

var purchaseActionRegex = regexp.MustCompile(`(?i)\b(buy\s+now|add\s+to\s+cart)\b`)
var outOfStockRegex = regexp.MustCompile(`(?i)out\s+of\s+stock`)

func isDisabled(sel *goquery.Selection) bool {
	if _, ok := sel.Attr("disabled"); ok {
		return true
	}
	if aria, ok := sel.Attr("aria-disabled"); ok && strings.EqualFold(aria, "true") {
		return true
	}
	class := strings.ToLower(sel.AttrOr("class", ""))
	return strings.Contains(class, "disabled")
}

// extractAvailability is tri-state: absence of every signal yields nil
// (unknown), never false. An "out of stock" banner anywhere on the page
// wins over purchase controls, an enabled buy control wins over weaker
// text evidence.
func extractAvailability(doc *goquery.Document) *bool {
	var enabledControl, disabledControl bool
	doc.Find("button, a").Each(func(_ int, sel *goquery.Selection) {
		if !purchaseActionRegex.MatchString(sel.Text()) {
			return
		}
		if isDisabled(sel) {
			disabledControl = true
			return
		}
		enabledControl = true
	})

	boolPtr := func(v bool) *bool { return &v }
	if outOfStockRegex.MatchString(doc.Text()) {
		return boolPtr(false)
	}
	if enabledControl {
		return boolPtr(true)
	}

	// purchase-action text anywhere is a weaker availability signal,
	// but only without a definitive disabled signal on a real control
	if !disabledControl && purchaseActionRegex.MatchString(doc.Text()) {
		return boolPtr(true)
	}
	return nil
}

var notDeliverablePhrases = []string{
	"not deliverable",
	"delivery not available",
	"cannot be delivered",
	"unserviceable",
}

var deliverablePhrases = []string{
	"deliverable",
	"delivery available",
	"delivery by",
}

// deliverabilityWindow bounds how far past the pincode digits we look
// for delivery phrasing.
const deliverabilityWindow = 300

// extractDeliverability works on normalized page text (collapsed
// whitespace, lowercase). A global non-deliverable phrase always wins;
// pincode-scoped evidence beats generic page-wide deliverable
// phrasing; no evidence at all is unknown.
func extractDeliverability(pageText string, pincode string) *bool {
	for _, phrase := range notDeliverablePhrases {
		if strings.Contains(pageText, phrase) {
			v := false
			return &v
		}
	}

	if pincode != "" {
		if idx := strings.Index(pageText, pincode); idx >= 0 {
			end := idx + len(pincode) + deliverabilityWindow
			if end > len(pageText) {
				end = len(pageText)
			}
			window := pageText[idx+len(pincode) : end]
			for _, phrase := range notDeliverablePhrases {
				if strings.Contains(window, phrase) {
					v := false
					return &v
				}
			}
			for _, phrase := range deliverablePhrases {
				if strings.Contains(window, phrase) {
					v := true
					return &v
				}
			}
		}
	}

	for _, phrase := range deliverablePhrases {
		if strings.Contains(pageText, phrase) {
			v := true
			return &v
		}
	}
	return nil
}

var bankTokenRegex = regexp.MustCompile(`(?i)\b(HDFC|SBI|ICICI|Axis|Kotak|RBL|IDFC|IndusInd|Yes Bank|AU Bank|BOB)\b`)
var cardTypeRegex = regexp.MustCompile(`(?i)\b(credit|debit)\b`)
var discountRegex = regexp.MustCompile(`₹\s*([\d,]+)`)
var minTxnRegex = regexp.MustCompile(`(?i)min(?:imum)?\s+(?:transaction|purchase|order)?\s*(?:of\s*)?₹\s*([\d,]+)`)

// maxOfferSections caps the scan so a pathological page cannot make us
// walk thousands of nodes.
const maxOfferSections = 10

func sectionText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		if text := htmlutil.GetTextJoined(n, " "); text != "" {
			parts = append(parts, text)
		}
	}
	return htmlutil.CleanText(strings.Join(parts, " "))
}

// extractBankOffers scans offer-styled sections for a known bank-name
// token and pulls the card type, discount and minimum-transaction
// amount from the surrounding text. Sections without a recognizable
// bank are skipped.
func extractBankOffers(doc *goquery.Document, sectionSelector string) []offers.RawOffer {
	var out []offers.RawOffer

	doc.Find(sectionSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= maxOfferSections {
			return false
		}
		text := sectionText(sel)
		if text == "" {
			return true
		}

		bankMatch := bankTokenRegex.FindStringSubmatch(text)
		if bankMatch == nil {
			return true
		}

		offer := offers.RawOffer{
			BankName: strings.ToUpper(bankMatch[1]),
		}
		if cardMatch := cardTypeRegex.FindStringSubmatch(text); cardMatch != nil {
			offer.CardType = cardMatch[1]
		}
		if discountMatch := discountRegex.FindStringSubmatch(text); discountMatch != nil {
			offer.Discount = offers.Amount(discountMatch[1])
		}
		if minMatch := minTxnRegex.FindStringSubmatch(text); minMatch != nil {
			offer.MinTransaction = offers.Amount(minMatch[1])
		}

		out = append(out, offer)
		return true
	})

	return out
}
