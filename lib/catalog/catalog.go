// Package catalog is a client for the external product catalog API. The
// catalog owns product records and user accounts; we only read them and
// patch back the fields a check produced.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"dealwatch-backend/lib/retryutil"
	"dealwatch-backend/lib/telemetry"
	"dealwatch-backend/services/offers"

	"github.com/go-resty/resty/v2"
)

// Product mirrors the catalog's stored record. Pointer fields are
// tri-state: nil means the catalog has never learned that value.
type Product struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	URL              string     `json:"product_url"`
	Platform         string     `json:"platform"`
	Name             *string    `json:"product_name"`
	Pincode          string     `json:"preferred_pincode,omitempty"`
	LastPrice        *int64     `json:"last_price"`
	LastAvailability *bool      `json:"last_availability"`
	LastDeliverable  *bool      `json:"last_deliverable"`
	LastOfferHash    string     `json:"last_offer_hash,omitempty"`
	LastCheckedAt    *time.Time `json:"last_checked_at"`
}

// User carries the delivery address for notifications. The telegram
// user id doubles as the chat id downstream, the notification sink
// knows what to do with it.
type User struct {
	ID             int64  `json:"id"`
	TelegramUserID string `json:"telegram_user_id"`
}

// StoredOffer is a normalized offer as the catalog persists it, with
// the per-record content hash attached.
type StoredOffer struct {
	offers.NormalizedOffer
	OfferHash string `json:"offer_hash"`
}

// ProductPatch is a partial update. Only non-nil fields are sent, so
// an unknown reading never clobbers a previously stored value. The
// catalog stamps last_checked_at on its side.
type ProductPatch struct {
	Name             *string       `json:"product_name,omitempty"`
	LastPrice        *int64        `json:"last_price,omitempty"`
	LastAvailability *bool         `json:"last_availability,omitempty"`
	LastDeliverable  *bool         `json:"last_deliverable,omitempty"`
	LastOfferHash    *string       `json:"last_offer_hash,omitempty"`
	BankOffers       []StoredOffer `json:"bank_offers,omitempty"`
}

// AttachHashes decorates normalized offers with their individual
// content hashes for persistence.
func AttachHashes(normalized []offers.NormalizedOffer) []StoredOffer {
	if len(normalized) == 0 {
		return nil
	}
	stored := make([]StoredOffer, 0, len(normalized))
	for _, offer := range normalized {
		stored = append(stored, StoredOffer{
			NormalizedOffer: offer,
			OfferHash:       offers.OfferHash(offer),
		})
	}
	return stored
}

type Client struct {
	http   *resty.Client
	policy retryutil.Policy
}

func NewClient(baseURL string, timeout time.Duration, policy retryutil.Policy) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	telemetry.InstrumentResty(client, "lib/catalog")
	return &Client{http: client, policy: policy}
}

// statusErr classifies an HTTP failure for the retry policy: server
// side errors are worth another attempt, client side errors are not.
func statusErr(res *resty.Response) error {
	err := fmt.Errorf("%s %s: %s", res.Request.Method, res.Request.URL, res.Status())
	if res.StatusCode() >= http.StatusInternalServerError {
		return retryutil.Transient(err)
	}
	return err
}

// ListProducts fetches every tracked product.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	err := c.policy.Do(ctx, "list products", func(ctx context.Context) error {
		res, err := c.http.R().
			SetContext(ctx).
			SetResult(&products).
			Get("/products")
		if err != nil {
			return retryutil.Transient(err)
		}
		if res.IsError() {
			return statusErr(res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetUser resolves a user id to its notification address.
func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	err := c.policy.Do(ctx, "get user", func(ctx context.Context) error {
		res, err := c.http.R().
			SetContext(ctx).
			SetResult(&user).
			Get(fmt.Sprintf("/users/%d", id))
		if err != nil {
			return retryutil.Transient(err)
		}
		if res.IsError() {
			return statusErr(res)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// UpdateProduct applies a partial update to one product record.
func (c *Client) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) error {
	return c.policy.Do(ctx, "update product", func(ctx context.Context) error {
		res, err := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(patch).
			Patch(fmt.Sprintf("/products/%d", id))
		if err != nil {
			return retryutil.Transient(err)
		}
		if res.IsError() {
			return statusErr(res)
		}
		return nil
	})
}
