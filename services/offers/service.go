package offers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/offers")

// Service exposes offer analysis over HTTP for callers that are not
// linked into the same process.
type Service struct{}

func NewService() Service {
	return Service{}
}

type analyzeRequest struct {
	Offers       []RawOffer `json:"offers"`
	PreviousHash string     `json:"previous_hash"`
}

type analyzeResponse struct {
	Changed          bool              `json:"changed"`
	ChangeType       *string           `json:"change_type"`
	NewHash          string            `json:"new_hash"`
	NormalizedOffers []NormalizedOffer `json:"normalized_offers"`
}

func (s Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /health", handleHealth)
}

func (s Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Analyze")
	defer span.End()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	analysis := Analyze(req.Offers, req.PreviousHash)
	span.SetAttributes(
		attribute.Bool("changed", analysis.Changed),
		attribute.String("change_type", string(analysis.ChangeType)),
	)
	slog.InfoContext(ctx, "analyze",
		"changed", analysis.Changed,
		"change_type", string(analysis.ChangeType),
		"new_hash", analysis.NewHash,
	)

	res := analyzeResponse{
		Changed:          analysis.Changed,
		NewHash:          analysis.NewHash,
		NormalizedOffers: analysis.Normalized,
	}
	if analysis.ChangeType != ChangeNone {
		ct := string(analysis.ChangeType)
		res.ChangeType = &ct
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
