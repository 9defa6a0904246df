// ABOUTME: Gateway facade composing session resolution, transport, and validation.
// ABOUTME: Implements the two operational entry points exposed as MCP tools.

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hearthlabs/hearth-gateway/internal/backend"
	"github.com/hearthlabs/hearth-gateway/internal/command"
)

// Gateway exposes the two smart-home operations to the protocol runtime.
// Both operations are stateless request/response cycles; the only internal
// state transition is the session cache's one-way unpopulated-to-populated
// move inside the resolver.
type Gateway struct {
	client    *backend.Client
	sessions  *backend.SessionResolver
	validator command.Validator
	logger    *slog.Logger
}

// Config holds the collaborators a Gateway composes.
type Config struct {
	Client    *backend.Client
	Sessions  *backend.SessionResolver
	Validator command.Validator
	Logger    *slog.Logger
}

// New creates a gateway from its collaborators.
func New(cfg Config) (*Gateway, error) {
	if cfg.Client == nil {
		return nil, errors.New("backend client is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session resolver is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Gateway{
		client:    cfg.Client,
		sessions:  cfg.Sessions,
		validator: cfg.Validator,
		logger:    logger,
	}, nil
}

// ListControllable fetches every controllable device, group, and scene for
// the resolved session and returns the backend response verbatim. Any
// failure propagates unchanged; there is no partial result.
func (g *Gateway) ListControllable(ctx context.Context) (string, error) {
	sess, err := g.sessions.Resolve(ctx)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("userId", sess.UserID)
	query.Set("homeId", sess.HomeID)
	path := fmt.Sprintf("%s?%s", backend.ListPath, query.Encode())

	// Verbatim read path: the payload is returned untouched, so no parse
	// step is imposed on it here.
	body, err := g.client.RequestText(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	g.logger.Debug("listed controllable entities", "bytes", len(body))
	return body, nil
}

// SubmitControl validates the caller-supplied batch and posts it to the
// control-submission endpoint. Validation failures surface before any
// network call, so a partially-invalid batch is never sent. The backend's
// JSON response is returned unmodified.
func (g *Gateway) SubmitControl(ctx context.Context, payload json.RawMessage) (string, error) {
	batch, err := g.validator.Validate(payload)
	if err != nil {
		return "", err
	}

	resp, err := g.client.RequestJSON(ctx, http.MethodPost, backend.OperatePath, batch)
	if err != nil {
		return "", err
	}

	g.logger.Debug("submitted control batch", "commands", len(batch))
	return string(resp), nil
}
