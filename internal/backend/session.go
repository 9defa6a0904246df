// ABOUTME: Lazy, memoized resolution of the session descriptor (userId/homeId).
// ABOUTME: Concurrent first-time callers are coalesced onto one in-flight fetch.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"
)

// envelopeSuccessCode is the business-level success value in backend envelopes.
const envelopeSuccessCode = 200

// Session is the pair of identifiers that scopes every device, group, and
// scene query to a specific user and home. Immutable once resolved.
type Session struct {
	UserID string
	HomeID string
}

// SessionResolver lazily fetches and memoizes the session descriptor.
//
// The cached value is populated at most once per process lifetime and is
// never invalidated: if the backend rotates userId/homeId mid-session the
// stale descriptor persists until restart. That is a known limitation of the
// design, not something this component papers over.
type SessionResolver struct {
	client *Client
	logger *slog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	session *Session
}

// NewSessionResolver creates a resolver backed by the given client.
func NewSessionResolver(client *Client, logger *slog.Logger) *SessionResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionResolver{
		client: client,
		logger: logger,
	}
}

// Resolve returns the memoized session descriptor, fetching it from the
// backend on first use. Concurrent first callers share a single in-flight
// request. A failed fetch leaves the cache unpopulated so a later call can
// retry; a successful fetch is permanent.
func (r *SessionResolver) Resolve(ctx context.Context) (Session, error) {
	r.mu.RLock()
	cached := r.session
	r.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	v, err, _ := r.group.Do("session", func() (any, error) {
		// Re-check under the flight: a racing caller may have populated
		// the cache between the read above and entering the group.
		r.mu.RLock()
		cached := r.session
		r.mu.RUnlock()
		if cached != nil {
			return *cached, nil
		}

		sess, err := r.fetch(ctx)
		if err != nil {
			return Session{}, err
		}

		r.mu.Lock()
		r.session = &sess
		r.mu.Unlock()

		r.logger.Info("session descriptor resolved",
			"user_id", sess.UserID,
			"home_id", sess.HomeID,
		)
		return sess, nil
	})
	if err != nil {
		return Session{}, err
	}

	return v.(Session), nil
}

// fetch performs the authenticated parameter-endpoint call and classifies
// failures into ConfigFetchError (transport) and ConfigLogicError (business).
// An unparsable success body stays a MalformedResponseError: that is a
// backend contract violation, not a transport failure.
func (r *SessionResolver) fetch(ctx context.Context) (Session, error) {
	raw, err := r.client.RequestJSON(ctx, http.MethodGet, ParamPath, nil)
	if err != nil {
		var malformed *MalformedResponseError
		if errors.As(err, &malformed) {
			return Session{}, err
		}
		return Session{}, &ConfigFetchError{Err: err}
	}

	var envelope struct {
		Code *int `json:"code"`
		Data struct {
			UserID string `json:"userId"`
			HomeID string `json:"homeId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Session{}, &ConfigLogicError{
			Message: fmt.Sprintf("envelope does not match expected shape: %v", err),
		}
	}

	if envelope.Code == nil {
		return Session{}, &ConfigLogicError{Message: "envelope has no status code"}
	}
	if *envelope.Code != envelopeSuccessCode {
		return Session{}, &ConfigLogicError{Code: *envelope.Code}
	}
	if envelope.Data.UserID == "" || envelope.Data.HomeID == "" {
		return Session{}, &ConfigLogicError{
			Code:    *envelope.Code,
			Message: "envelope data is missing userId or homeId",
		}
	}

	return Session{
		UserID: envelope.Data.UserID,
		HomeID: envelope.Data.HomeID,
	}, nil
}
