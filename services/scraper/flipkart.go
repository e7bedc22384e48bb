package scraper

import (
	"context"
	"log/slog"
	"dealwatch-backend/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// flipkartPriceSelectors are the price classes flipkart has shipped
// over time, newest last. First non-empty numeric match wins.
var flipkartPriceSelectors = []string{
	"._30jeq3",
	"._1_WHN1",
	".Nx9bqj",
	"._16Jk6d",
}

const flipkartOfferSections = `.XBEQ60, ._3xFhiH, .A6\+aMw, [class*='offer']`

type Flipkart struct {
	fetcher *Fetcher
}

func (s Flipkart) Scrape(ctx context.Context, url string, pincode string) Snapshot {
	ctx, span := tracer.Start(ctx, "flipkart:Scrape")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	snap := Snapshot{Platform: "flipkart"}

	doc, finalURL, err := s.fetcher.GetDocument(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		slog.WarnContext(ctx, "flipkart scrape failed", "url", url, "err", err)
		snap.Error = err.Error()
		return snap
	}

	snap.FinalURL = finalURL
	snap.Name = extractName(doc)
	snap.Price = extractPrice(doc, flipkartPriceSelectors)
	snap.Available = extractAvailability(doc)
	snap.Deliverable = extractDeliverability(textutil.NormalizePage(doc.Text()), pincode)
	snap.Offers = extractBankOffers(doc, flipkartOfferSections)

	annotateIfEmpty(&snap)
	return snap
}
