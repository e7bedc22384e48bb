package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"dealwatch-backend/lib/retryutil"
	"dealwatch-backend/services/offers"

	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, retryutil.Policy{
		MaxAttempts: 2,
		BaseWait:    time.Millisecond,
	})
}

func TestListProducts(t *testing.T) {
	// payload field names follow the catalog's product schema exactly
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "user_id": 7, "product_url": "http://shop/a",
			 "platform": "flipkart", "product_name": "Acme Phone",
			 "preferred_pincode": "560001", "last_price": 18999,
			 "last_availability": true, "last_deliverable": null,
			 "last_offer_hash": "abc", "last_checked_at": null,
			 "bank_offers": []},
			{"id": 2, "user_id": 7, "product_url": "http://shop/b", "platform": "vivo"}
		]`))
	}))
	defer server.Close()

	products, err := testClient(server.URL).ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.EqualValues(t, 1, products[0].ID)
	require.Equal(t, "http://shop/a", products[0].URL)
	require.Equal(t, "560001", products[0].Pincode)
	require.NotNil(t, products[0].Name)
	require.Equal(t, "Acme Phone", *products[0].Name)
	require.NotNil(t, products[0].LastPrice)
	require.EqualValues(t, 18999, *products[0].LastPrice)
	require.NotNil(t, products[0].LastAvailability)
	require.True(t, *products[0].LastAvailability)
	require.Nil(t, products[0].LastDeliverable)

	// absent fields stay unknown, not zero
	require.Nil(t, products[1].Name)
	require.Nil(t, products[1].LastPrice)
	require.Nil(t, products[1].LastAvailability)
	require.Empty(t, products[1].LastOfferHash)
}

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 7, "telegram_user_id": "chat-7", "created_at": "2026-08-01T00:00:00Z"}`))
	}))
	defer server.Close()

	user, err := testClient(server.URL).GetUser(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "chat-7", user.TelegramUserID)
}

func TestUpdateProductOmitsUnknownFields(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/products/3", r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
	}))
	defer server.Close()

	price := int64(600)
	hash := "deadbeef"
	patch := ProductPatch{
		LastPrice:     &price,
		LastOfferHash: &hash,
	}
	require.NoError(t, testClient(server.URL).UpdateProduct(context.Background(), 3, patch))

	require.Equal(t, float64(600), body["last_price"])
	require.Equal(t, "deadbeef", body["last_offer_hash"])
	require.NotContains(t, body, "product_name")
	require.NotContains(t, body, "last_availability")
	require.NotContains(t, body, "last_deliverable")
	require.NotContains(t, body, "bank_offers")
}

func TestServerErrorIsRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	products, err := testClient(server.URL).ListProducts(context.Background())
	require.NoError(t, err)
	require.Empty(t, products)
	require.Equal(t, 2, calls)
}

func TestClientErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetUser(context.Background(), 404)
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestAttachHashes(t *testing.T) {
	normalized := offers.Normalize([]offers.RawOffer{
		{BankName: "hdfc", CardType: "credit", Discount: "₹1,000"},
		{BankName: "sbi"},
	})

	stored := AttachHashes(normalized)
	require.Len(t, stored, 2)
	for i, s := range stored {
		require.Equal(t, normalized[i], s.NormalizedOffer)
		require.Equal(t, offers.OfferHash(normalized[i]), s.OfferHash)
		require.Len(t, s.OfferHash, 64)
	}

	require.Nil(t, AttachHashes(nil))
}
