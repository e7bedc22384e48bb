package watcher

import (
	"fmt"
	"strings"
	"dealwatch-backend/lib/catalog"
	"dealwatch-backend/services/scraper"
)

// FormatTriState renders an optionally-known boolean. nil is always
// "unknown", never conflated with the false label.
func FormatTriState(v *bool, whenTrue, whenFalse string) string {
	if v == nil {
		return "unknown"
	}
	if *v {
		return whenTrue
	}
	return whenFalse
}

func FormatAvailability(v *bool) string {
	return FormatTriState(v, "in stock", "out of stock")
}

func FormatDeliverability(v *bool) string {
	return FormatTriState(v, "deliverable", "not deliverable")
}

func FormatPrice(p *int64) string {
	if p == nil {
		return "unknown"
	}
	return fmt.Sprintf("₹%d", *p)
}

// buildMessage composes the notification text: one header line naming
// the product, then one line per condition that triggered.
func buildMessage(product catalog.Product, snap scraper.Snapshot, priceChanged, availabilityChanged, offersUpdated bool) string {
	name := product.URL
	if snap.Name != nil {
		name = *snap.Name
	} else if product.Name != nil {
		name = *product.Name
	}

	lines := []string{fmt.Sprintf("Update for %s", name)}
	if priceChanged {
		lines = append(lines, fmt.Sprintf("Price: %s -> %s",
			FormatPrice(product.LastPrice), FormatPrice(snap.Price)))
	}
	if availabilityChanged {
		lines = append(lines, fmt.Sprintf("Availability: %s -> %s",
			FormatAvailability(product.LastAvailability), FormatAvailability(snap.Available)))
	}
	if offersUpdated {
		lines = append(lines, "Bank offers changed")
	}
	return strings.Join(lines, "\n")
}
