package userstore

import (
	"context"

	"github.com/trstyle/storefront-services/internal/models"
)

// Profile is the incoming profile payload for a merge write. Nil fields are
// left untouched in the stored record; Provider is always written so the
// record reflects whichever identity source wrote last.
type Profile struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Image    *string `json:"image,omitempty"`
	Provider string  `json:"provider,omitempty"`
}

// Store is one write/read strategy against the user-record store. The sync
// orchestrator tries an ordered list of these: privileged first, then the
// direct rule-bound path.
type Store interface {
	// Name identifies the path in logs and metrics.
	Name() string
	// Set merge-writes the profile under key. Timestamps are refreshed by
	// the implementation; createdAt is only set on first write.
	Set(ctx context.Context, key string, p Profile) error
	// Get returns the stored record, or (nil, nil) when the key has never
	// been written.
	Get(ctx context.Context, key string) (*models.UserRecord, error)
}
