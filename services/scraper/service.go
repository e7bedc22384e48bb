package scraper

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/scraper")

// Service exposes scraping over HTTP. Internal scrape failures still
// answer 200 with the error carried in-band; only invalid input
// (unsupported platform, malformed pincode) is rejected with a 400.
type Service struct {
	registry Registry
}

func NewService(registry Registry) Service {
	return Service{registry: registry}
}

type scrapeRequest struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
	Pincode  string `json:"pincode,omitempty"`
}

func (s Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /scrape", s.handleScrape)
	mux.HandleFunc("GET /health", handleHealth)
}

func (s Service) handleScrape(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Scrape")
	defer span.End()

	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.String("platform", req.Platform),
		attribute.String("url", req.URL),
	)

	impl, err := s.registry.Get(req.Platform)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := ValidatePincode(req.Pincode); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.InfoContext(ctx, "scraping", "platform", req.Platform, "url", req.URL)
	snap := impl.Scrape(ctx, req.URL, req.Pincode)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
