package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticScraper struct {
	snap Snapshot
}

func (s staticScraper) Scrape(ctx context.Context, url string, pincode string) Snapshot {
	return s.snap
}

func serviceMux(registry Registry) *http.ServeMux {
	mux := http.NewServeMux()
	NewService(registry).RegisterRoutes(mux)
	return mux
}

func TestScrapeHandler(t *testing.T) {
	name := "Acme Phone"
	price := int64(18999)
	registry := Registry{"flipkart": staticScraper{snap: Snapshot{
		Platform: "flipkart",
		Name:     &name,
		Price:    &price,
	}}}

	req := httptest.NewRequest(http.MethodPost, "/scrape",
		strings.NewReader(`{"url": "http://shop/a", "platform": "flipkart", "pincode": "560001"}`))
	rec := httptest.NewRecorder()
	serviceMux(registry).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.NotNil(t, snap.Name)
	require.Equal(t, "Acme Phone", *snap.Name)
	require.NotNil(t, snap.Price)
	require.EqualValues(t, 18999, *snap.Price)
	require.Nil(t, snap.Available)
}

func TestScrapeHandlerFailureStillAnswers200(t *testing.T) {
	registry := Registry{"flipkart": staticScraper{snap: Snapshot{
		Platform: "flipkart",
		Error:    "fetch http://shop/a: 2 attempts exhausted: connection refused",
	}}}

	req := httptest.NewRequest(http.MethodPost, "/scrape",
		strings.NewReader(`{"url": "http://shop/a", "platform": "flipkart"}`))
	rec := httptest.NewRecorder()
	serviceMux(registry).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.NotEmpty(t, snap.Error)
	require.Nil(t, snap.Price)
}

func TestScrapeHandlerRejectsBadInput(t *testing.T) {
	registry := Registry{"flipkart": staticScraper{}}
	mux := serviceMux(registry)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"url": `},
		{"unsupported platform", `{"url": "http://shop/a", "platform": "amazon"}`},
		{"short pincode", `{"url": "http://shop/a", "platform": "flipkart", "pincode": "560"}`},
		{"alphabetic pincode", `{"url": "http://shop/a", "platform": "flipkart", "pincode": "56000a"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader(c.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	serviceMux(Registry{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
