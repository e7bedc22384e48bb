// Package offers canonicalizes raw bank-offer records and detects
// changes through a stable content hash.
package offers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"dealwatch-backend/lib/textutil"
)

// Amount is a currency amount as scraped. It tolerates both string and
// numeric encodings on the wire since upstream pages format these
// inconsistently ("₹1,000", 1000, "2000").
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*a = Amount(n.String())
		return nil
	}
	return fmt.Errorf("amount must be a string or number, got %s", string(b))
}

// RawOffer is a bank offer as extracted from a product page, before any
// normalization.
type RawOffer struct {
	BankName       string `json:"bank_name"`
	CardType       string `json:"card_type,omitempty"`
	Discount       Amount `json:"discount_value,omitempty"`
	MinTransaction Amount `json:"min_transaction_amount,omitempty"`
}

// UnmarshalJSON accepts "min_transaction" as an alias for
// "min_transaction_amount", both spellings exist among callers. The
// full name wins when a payload carries both.
func (o *RawOffer) UnmarshalJSON(b []byte) error {
	var aux struct {
		BankName            string `json:"bank_name"`
		CardType            string `json:"card_type"`
		Discount            Amount `json:"discount_value"`
		MinTransaction      Amount `json:"min_transaction_amount"`
		MinTransactionAlias Amount `json:"min_transaction"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	o.BankName = aux.BankName
	o.CardType = aux.CardType
	o.Discount = aux.Discount
	o.MinTransaction = aux.MinTransaction
	if o.MinTransaction == "" {
		o.MinTransaction = aux.MinTransactionAlias
	}
	return nil
}

// NormalizedOffer is the canonical form. Field order doubles as the
// canonical JSON key order, keep it sorted.
type NormalizedOffer struct {
	BankName       string  `json:"bank_name"`
	CardType       *string `json:"card_type"`
	Discount       int64   `json:"discount_value"`
	MinTransaction int64   `json:"min_transaction_amount"`
}

// Normalize maps raw offers to canonical form and sorts them ascending
// by (bank name, card type). Ties keep their input order so the result
// is deterministic for any permutation of the same offer set.
// Canonical input is a fixed point.
func Normalize(raw []RawOffer) []NormalizedOffer {
	normalized := make([]NormalizedOffer, 0, len(raw))
	for _, offer := range raw {
		n := NormalizedOffer{
			BankName:       strings.ToUpper(strings.TrimSpace(offer.BankName)),
			Discount:       textutil.StripCurrency(string(offer.Discount)),
			MinTransaction: textutil.StripCurrency(string(offer.MinTransaction)),
		}
		if card := textutil.Capitalize(offer.CardType); card != "" {
			n.CardType = &card
		}
		normalized = append(normalized, n)
	}

	slices.SortStableFunc(normalized, func(a, b NormalizedOffer) int {
		if c := strings.Compare(a.BankName, b.BankName); c != 0 {
			return c
		}
		return strings.Compare(cardKey(a), cardKey(b))
	})
	return normalized
}

func cardKey(o NormalizedOffer) string {
	if o.CardType == nil {
		return ""
	}
	return *o.CardType
}

// ComputeHash digests the canonical serialization of an already-sorted
// offer list: SHA-256 over compact JSON with fixed key order, rendered
// as lowercase hex. Identical semantic offer sets always produce the
// same digest.
func ComputeHash(normalized []NormalizedOffer) string {
	if normalized == nil {
		normalized = []NormalizedOffer{}
	}
	serialized, err := json.Marshal(normalized)
	if err != nil {
		// NormalizedOffer has no unmarshalable fields
		panic(err)
	}
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])
}

// OfferHash is the content hash of a single normalized offer, attached
// per record when snapshots are persisted.
func OfferHash(o NormalizedOffer) string {
	serialized, err := json.Marshal(o)
	if err != nil {
		panic(err)
	}
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])
}
