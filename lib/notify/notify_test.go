package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"dealwatch-backend/lib/retryutil"

	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, retryutil.Policy{
		MaxAttempts: 3,
		BaseWait:    time.Millisecond,
	})
}

func TestSend(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/notify", r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
	}))
	defer server.Close()

	err := testClient(server.URL).Send(context.Background(), Message{
		ChatID:  "chat-7",
		Message: "Update for Acme Phone\nPrice: ₹500 -> ₹600",
	})
	require.NoError(t, err)
	require.Equal(t, "chat-7", body["chat_id"])
	require.Contains(t, body["message"], "Price:")
}

func TestSendRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := testClient(server.URL).Send(context.Background(), Message{ChatID: "x", Message: "y"})
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestSendDoesNotRetryRejection(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	err := testClient(server.URL).Send(context.Background(), Message{})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
