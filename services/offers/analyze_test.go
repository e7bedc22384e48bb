package offers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"dealwatch-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestFirstCheckAlwaysInitialFetch(t *testing.T) {
	withOffers := Analyze([]RawOffer{{BankName: "HDFC", Discount: "₹1,000"}}, "")
	require.True(t, withOffers.Changed)
	require.Equal(t, ChangeInitialFetch, withOffers.ChangeType)

	empty := Analyze(nil, "")
	require.True(t, empty.Changed)
	require.Equal(t, ChangeInitialFetch, empty.ChangeType)
	require.NotEmpty(t, empty.NewHash)
}

func TestResubmitSameOffersIsUnchanged(t *testing.T) {
	raw := []RawOffer{
		{BankName: " hdfc ", CardType: "credit", Discount: "₹1,000", MinTransaction: "2000"},
	}

	first := Analyze(raw, "")
	require.True(t, first.Changed)
	require.Equal(t, ChangeInitialFetch, first.ChangeType)
	require.Equal(t, "HDFC", first.Normalized[0].BankName)
	require.Equal(t, "Credit", *first.Normalized[0].CardType)
	require.EqualValues(t, 1000, first.Normalized[0].Discount)
	require.EqualValues(t, 2000, first.Normalized[0].MinTransaction)

	second := Analyze(raw, first.NewHash)
	require.False(t, second.Changed)
	require.Equal(t, ChangeNone, second.ChangeType)
	require.Equal(t, first.NewHash, second.NewHash)
}

func TestReorderedOffersAreUnchanged(t *testing.T) {
	forward := []RawOffer{
		{BankName: "HDFC", CardType: "credit", Discount: "1000"},
		{BankName: "SBI", CardType: "debit", Discount: "500"},
	}
	backward := []RawOffer{forward[1], forward[0]}

	first := Analyze(forward, "")
	second := Analyze(backward, first.NewHash)
	require.False(t, second.Changed)
	require.Equal(t, ChangeNone, second.ChangeType)
}

func TestDifferentOffersAreAnUpdate(t *testing.T) {
	first := Analyze([]RawOffer{{BankName: "HDFC", Discount: "1000"}}, "")
	second := Analyze([]RawOffer{{BankName: "HDFC", Discount: "1500"}}, first.NewHash)
	require.True(t, second.Changed)
	require.Equal(t, ChangeOffersUpdate, second.ChangeType)
}

func TestAnalyzeHandler(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:offers")
	defer cleanup()

	mux := http.NewServeMux()
	NewService().RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	// discount as a JSON number, the way the wire actually delivers it
	body := []byte(`{
		"offers": [
			{"bank_name": "hdfc", "card_type": "credit", "discount_value": 1000, "min_transaction_amount": "₹2,000"}
		],
		"previous_hash": ""
	}`)
	res, err := http.Post(server.URL+"/analyze", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var decoded analyzeResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
	require.True(t, decoded.Changed)
	require.NotNil(t, decoded.ChangeType)
	require.Equal(t, string(ChangeInitialFetch), *decoded.ChangeType)
	require.Len(t, decoded.NormalizedOffers, 1)
	require.Equal(t, "HDFC", decoded.NormalizedOffers[0].BankName)
	require.EqualValues(t, 2000, decoded.NormalizedOffers[0].MinTransaction)

	// unchanged when resubmitted with the hash we just got
	second := []byte(`{
		"offers": [
			{"bank_name": "hdfc", "card_type": "credit", "discount_value": 1000, "min_transaction_amount": "₹2,000"}
		],
		"previous_hash": "` + decoded.NewHash + `"
	}`)
	res2, err := http.Post(server.URL+"/analyze", "application/json", bytes.NewReader(second))
	require.NoError(t, err)
	defer res2.Body.Close()

	var decoded2 analyzeResponse
	require.NoError(t, json.NewDecoder(res2.Body).Decode(&decoded2))
	require.False(t, decoded2.Changed)
	require.Nil(t, decoded2.ChangeType)
}
