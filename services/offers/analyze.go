package offers

type ChangeType string

const (
	// ChangeInitialFetch marks the first-ever check for an item. It is
	// deliberately excluded from the "offers changed" notification
	// clause downstream.
	ChangeInitialFetch ChangeType = "INITIAL_FETCH"
	ChangeOffersUpdate ChangeType = "BANK_OFFER_UPDATED"
	ChangeNone         ChangeType = ""
)

type Analysis struct {
	Changed    bool
	ChangeType ChangeType
	NewHash    string
	Normalized []NormalizedOffer
}

// Analyze normalizes the raw offers, hashes them and classifies the
// change against the previously stored hash. An empty previousHash
// means the item has never been checked.
func Analyze(raw []RawOffer, previousHash string) Analysis {
	normalized := Normalize(raw)
	newHash := ComputeHash(normalized)

	changed := newHash != previousHash
	changeType := ChangeNone
	if changed {
		if previousHash == "" {
			changeType = ChangeInitialFetch
		} else {
			changeType = ChangeOffersUpdate
		}
	}

	return Analysis{
		Changed:    changed,
		ChangeType: changeType,
		NewHash:    newHash,
		Normalized: normalized,
	}
}
