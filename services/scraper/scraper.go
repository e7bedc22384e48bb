// Package scraper fetches tracked product pages and extracts
// structured snapshots from their markup, one adapter per retailer.
package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"dealwatch-backend/services/offers"
)

// Snapshot is everything one scrape observed about a product. Every
// field is populated on every return path: data fields stay nil and
// Error is set when the page could not be fetched or recognized. A
// nil pointer means unknown, never false.
type Snapshot struct {
	Name        *string           `json:"product_name"`
	Price       *int64            `json:"price"`
	Available   *bool             `json:"availability"`
	Deliverable *bool             `json:"deliverable"`
	Offers      []offers.RawOffer `json:"bank_offers"`
	Platform    string            `json:"platform"`
	FinalURL    string            `json:"final_url,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Scraper extracts a snapshot from a product URL. Implementations
// never return an error: any failure is carried in Snapshot.Error so
// nothing can propagate past this boundary.
type Scraper interface {
	Scrape(ctx context.Context, url string, pincode string) Snapshot
}

// Registry maps a platform tag to its scraper. It is a plain mapping
// constructed once at startup and passed around explicitly.
type Registry map[string]Scraper

func NewRegistry(fetcher *Fetcher) Registry {
	return Registry{
		"flipkart": Flipkart{fetcher: fetcher},
		"vivo":     Vivo{fetcher: fetcher},
	}
}

func (r Registry) Get(platform string) (Scraper, error) {
	s, ok := r[strings.ToLower(platform)]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %q", platform)
	}
	return s, nil
}

func (r Registry) Platforms() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}

// annotateIfEmpty marks a snapshot that came back with no recognizable
// product data at all, which is a parse failure, not a lack of change.
func annotateIfEmpty(snap *Snapshot) {
	if snap.Name == nil && snap.Price == nil && snap.Available == nil &&
		snap.Deliverable == nil && len(snap.Offers) == 0 && snap.Error == "" {
		snap.Error = "no recognizable product data in page"
	}
}

var pincodeRegex = regexp.MustCompile(`^\d{6}$`)

// ValidatePincode rejects malformed pincodes at the boundary, before
// they reach the pipeline. Empty means no pincode preference.
func ValidatePincode(pincode string) error {
	if pincode == "" {
		return nil
	}
	if !pincodeRegex.MatchString(pincode) {
		return fmt.Errorf("pincode must be exactly 6 digits, got %q", pincode)
	}
	return nil
}
