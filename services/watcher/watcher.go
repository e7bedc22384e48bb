// Package watcher drives the periodic check cycle: list tracked
// products, scrape each one, detect changes, persist the snapshot and
// message the owner when something the user cares about moved.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"dealwatch-backend/lib/catalog"
	"dealwatch-backend/lib/notify"
	"dealwatch-backend/services/offers"
	"dealwatch-backend/services/scraper"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/watcher")

// ErrCycleInFlight is returned when a trigger fires while the previous
// cycle is still running. The trigger is coalesced, not queued.
var ErrCycleInFlight = errors.New("a check cycle is already running")

// Catalog is the slice of the catalog client the watcher needs.
type Catalog interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetUser(ctx context.Context, id int64) (catalog.User, error)
	UpdateProduct(ctx context.Context, id int64, patch catalog.ProductPatch) error
}

type Notifier interface {
	Send(ctx context.Context, msg notify.Message) error
}

const recipientCacheSize = 512
const recipientCacheTTL = 15 * time.Minute

type Service struct {
	catalog  Catalog
	notifier Notifier
	scrapers scraper.Registry
	interval time.Duration

	// recipients caches user id -> chat address so a cycle over many
	// products from the same user costs one lookup, not one per item.
	recipients *expirable.LRU[int64, string]
	cycle      sync.Mutex
}

func NewService(cat Catalog, notifier Notifier, scrapers scraper.Registry, interval time.Duration) *Service {
	return &Service{
		catalog:    cat,
		notifier:   notifier,
		scrapers:   scrapers,
		interval:   interval,
		recipients: expirable.NewLRU[int64, string](recipientCacheSize, nil, recipientCacheTTL),
	}
}

// Run executes cycles at the configured interval until ctx is
// canceled. The first cycle starts immediately.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		err := s.RunCycle(ctx)
		if err != nil && !errors.Is(err, ErrCycleInFlight) {
			slog.ErrorContext(ctx, "check cycle failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunCycle performs one full check cycle. Cycles are single-flight: a
// concurrent call while one is in progress returns ErrCycleInFlight
// instead of overlapping.
func (s *Service) RunCycle(ctx context.Context) error {
	if !s.cycle.TryLock() {
		slog.InfoContext(ctx, "previous check cycle still running, skipping trigger")
		return ErrCycleInFlight
	}
	defer s.cycle.Unlock()

	ctx, span := tracer.Start(ctx, "watcher:RunCycle")
	defer span.End()

	started := time.Now()
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("fetch product list: %w", err)
	}

	failed := 0
	for _, product := range products {
		if err := s.checkItem(ctx, product); err != nil {
			failed++
			slog.ErrorContext(ctx, "product check failed",
				"product", product.ID, "url", product.URL, "err", err)
		}
	}

	span.SetAttributes(
		attribute.Int("products", len(products)),
		attribute.Int("failed", failed),
	)
	slog.InfoContext(ctx, "check cycle done",
		"products", len(products), "failed", failed, "took", time.Since(started))
	return nil
}

func (s *Service) checkItem(ctx context.Context, product catalog.Product) error {
	ctx, span := tracer.Start(ctx, "watcher:checkItem")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("product", product.ID),
		attribute.String("platform", product.Platform),
	)

	impl, err := s.scrapers.Get(product.Platform)
	if err != nil {
		return err
	}

	snap := impl.Scrape(ctx, product.URL, product.Pincode)
	if snap.Error != "" {
		return fmt.Errorf("scrape %s: %s", product.URL, snap.Error)
	}

	analysis := offers.Analyze(snap.Offers, product.LastOfferHash)

	// the snapshot is persisted whether or not anything changed, only
	// the fields the scrape actually produced are written back
	patch := catalog.ProductPatch{
		Name:             snap.Name,
		LastPrice:        snap.Price,
		LastAvailability: snap.Available,
		LastDeliverable:  snap.Deliverable,
		LastOfferHash:    &analysis.NewHash,
		BankOffers:       catalog.AttachHashes(analysis.Normalized),
	}
	if err := s.catalog.UpdateProduct(ctx, product.ID, patch); err != nil {
		return err
	}

	priceChanged := snap.Price != nil &&
		(product.LastPrice == nil || *snap.Price != *product.LastPrice)
	availabilityChanged := snap.Available != nil &&
		(product.LastAvailability == nil || *snap.Available != *product.LastAvailability)
	// the very first hash for an item is not an offer change worth a
	// message, there was nothing to compare against
	offersUpdated := analysis.ChangeType == offers.ChangeOffersUpdate

	if !priceChanged && !availabilityChanged && !offersUpdated {
		return nil
	}

	chat, err := s.resolveRecipient(ctx, product.UserID)
	if err != nil {
		slog.WarnContext(ctx, "recipient resolution failed, skipping notification",
			"product", product.ID, "user", product.UserID, "err", err)
		return nil
	}

	msg := notify.Message{
		ChatID:  chat,
		Message: buildMessage(product, snap, priceChanged, availabilityChanged, offersUpdated),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		slog.WarnContext(ctx, "notification delivery failed, dropping",
			"product", product.ID, "err", err)
	}
	return nil
}

func (s *Service) resolveRecipient(ctx context.Context, userID int64) (string, error) {
	if chat, ok := s.recipients.Get(userID); ok {
		return chat, nil
	}

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.TelegramUserID == "" {
		return "", fmt.Errorf("user %d has no chat address", userID)
	}

	s.recipients.Add(userID, user.TelegramUserID)
	return user.TelegramUserID, nil
}
