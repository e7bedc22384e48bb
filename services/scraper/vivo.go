package scraper

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var vivoPriceSelectors = []string{
	".price",
	".product-price",
	"[class*='price']",
}

// Vivo scrapes shop.vivo.com product pages. The store has no bank
// offer sections and no pincode-scoped delivery widget, so those
// fields stay empty/unknown.
type Vivo struct {
	fetcher *Fetcher
}

func (s Vivo) Scrape(ctx context.Context, url string, pincode string) Snapshot {
	ctx, span := tracer.Start(ctx, "vivo:Scrape")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	snap := Snapshot{Platform: "vivo"}

	doc, finalURL, err := s.fetcher.GetDocument(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		slog.WarnContext(ctx, "vivo scrape failed", "url", url, "err", err)
		snap.Error = err.Error()
		return snap
	}

	snap.FinalURL = finalURL
	snap.Name = extractName(doc)
	snap.Price = extractPrice(doc, vivoPriceSelectors)
	snap.Available = extractAvailability(doc)

	annotateIfEmpty(&snap)
	return snap
}
