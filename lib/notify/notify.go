// Package notify is a client for the external notification sink, which
// relays change messages to the user's chat. Delivery is best-effort,
// a failed send never fails the check that produced it.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"dealwatch-backend/lib/retryutil"
	"dealwatch-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

type Message struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

type Client struct {
	http   *resty.Client
	policy retryutil.Policy
}

func NewClient(baseURL string, timeout time.Duration, policy retryutil.Policy) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	telemetry.InstrumentResty(client, "lib/notify")
	return &Client{http: client, policy: policy}
}

// Send posts one message to the sink, retrying transient failures.
func (c *Client) Send(ctx context.Context, msg Message) error {
	return c.policy.Do(ctx, "send notification", func(ctx context.Context) error {
		res, err := c.http.R().
			SetContext(ctx).
			SetBody(msg).
			Post("/notify")
		if err != nil {
			return retryutil.Transient(err)
		}
		if res.IsError() {
			err := fmt.Errorf("POST %s: %s", res.Request.URL, res.Status())
			if res.StatusCode() >= http.StatusInternalServerError {
				return retryutil.Transient(err)
			}
			return err
		}
		return nil
	})
}
