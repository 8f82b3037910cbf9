package profilesync

import (
	"context"

	"github.com/trstyle/storefront-services/internal/analytics"
	"github.com/trstyle/storefront-services/internal/models"
	"github.com/trstyle/storefront-services/internal/userstore"
	"github.com/trstyle/storefront-services/pkg/logger"
	"github.com/trstyle/storefront-services/pkg/metrics"
)

// Status classifies the result of a Sync invocation.
type Status int

const (
	StatusCommitted Status = iota
	StatusSkippedNoKey
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusSkippedNoKey:
		return "skipped_no_key"
	}
	return "failed"
}

// Outcome reports what a Sync call did. Path names the store that committed
// the write; Err carries the last failure when Status is StatusFailed.
type Outcome struct {
	Status Status
	Path   string
	Err    error
}

// Syncer commits identity-provider profiles to the user-record store through
// an ordered list of store strategies: the privileged path first, the direct
// rule-bound path as fallback. Sync is a best-effort background side effect
// of login; callers log failures and move on.
type Syncer struct {
	stores []userstore.Store
	notify analytics.Notifier
}

// NewSyncer builds a syncer trying stores in the given order.
func NewSyncer(notify analytics.Notifier, stores ...userstore.Store) *Syncer {
	if notify == nil {
		notify = analytics.NopNotifier{}
	}
	return &Syncer{stores: stores, notify: notify}
}

// Sync merge-writes the profile under key. An empty key is a no-op: no store
// is contacted. Each store is attempted at most once; a store failure other
// than InvalidArgument triggers the next strategy. At most one durable write
// happens per invocation.
func (s *Syncer) Sync(ctx context.Context, key string, p userstore.Profile) Outcome {
	if key == "" {
		logger.Debugf("profilesync: skipping sync, no user key")
		return Outcome{Status: StatusSkippedNoKey}
	}

	var lastErr error
	for _, st := range s.stores {
		metrics.SyncAttempts.WithLabelValues(st.Name()).Inc()
		err := st.Set(ctx, key, p)
		if err == nil {
			metrics.SyncCommits.WithLabelValues(st.Name()).Inc()
			logger.Debugf("profilesync: committed %q via %s", key, st.Name())
			s.notify.Notify(ctx, "profile_synced", map[string]interface{}{"path": st.Name(), "provider": p.Provider})
			return Outcome{Status: StatusCommitted, Path: st.Name()}
		}
		lastErr = err
		kind := userstore.KindOf(err)
		if kind == userstore.KindPermissionDenied {
			logger.Errorf("profilesync: %s path denied for %q — update the store access rules to allow user-record writes: %v", st.Name(), key, err)
		} else {
			logger.Warnf("profilesync: %s path failed for %q (%s): %v", st.Name(), key, kind, err)
		}
		if !userstore.Retryable(err) {
			break
		}
		metrics.SyncFallbacks.WithLabelValues(st.Name(), kind.String()).Inc()
	}

	metrics.SyncFailures.Inc()
	return Outcome{Status: StatusFailed, Err: lastErr}
}

// Read returns the stored record for key with the same ordered fallback as
// Sync. A path that answers is authoritative: (nil, nil) means the key has
// never been written and no further path is consulted. The fallback only
// runs when a path fails outright (unavailable, transport, auth).
func (s *Syncer) Read(ctx context.Context, key string) (*models.UserRecord, error) {
	if key == "" {
		return nil, nil
	}
	var lastErr error
	for _, st := range s.stores {
		rec, err := st.Get(ctx, key)
		if err == nil {
			return rec, nil
		}
		lastErr = err
		logger.Warnf("profilesync: %s read failed for %q (%s): %v", st.Name(), key, userstore.KindOf(err), err)
		if !userstore.Retryable(err) {
			break
		}
	}
	return nil, lastErr
}
