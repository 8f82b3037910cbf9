package userstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trstyle/storefront-services/internal/models"
)

// APIStore reaches the user-record store through the users HTTP API, the
// privileged server-side route that commits with service credentials. Remote
// error statuses are folded into the store error taxonomy so the sync
// orchestrator can fall back to the direct path.
type APIStore struct {
	base string
	hc   *http.Client
}

// NewAPIStore creates a client for the users API at base (e.g.
// "http://localhost:5001"). A nil http.Client gets a 5s-timeout default.
func NewAPIStore(base string, hc *http.Client) *APIStore {
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &APIStore{base: strings.TrimRight(base, "/"), hc: hc}
}

func (s *APIStore) Name() string { return "api" }

type saveUserRequest struct {
	UserID   string  `json:"userId"`
	UserData Profile `json:"userData"`
}

type userAPIResponse struct {
	Success      bool               `json:"success"`
	UserData     *models.UserRecord `json:"userData,omitempty"`
	ErrorMsg     string             `json:"error,omitempty"`
	Instructions string             `json:"instructions,omitempty"`
}

func (s *APIStore) Set(ctx context.Context, key string, p Profile) error {
	if s.base == "" {
		return E(KindUnavailable, s.Name(), "users API endpoint not configured", nil)
	}
	if key == "" {
		return E(KindInvalidArgument, s.Name(), "key is required", nil)
	}
	body, err := json.Marshal(saveUserRequest{UserID: key, UserData: p})
	if err != nil {
		return E(KindInvalidArgument, s.Name(), "encode payload", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/users", bytes.NewReader(body))
	if err != nil {
		return E(KindTransport, s.Name(), "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return E(KindTransport, s.Name(), "users API unreachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return s.statusError(resp)
}

func (s *APIStore) Get(ctx context.Context, key string) (*models.UserRecord, error) {
	if s.base == "" {
		return nil, E(KindUnavailable, s.Name(), "users API endpoint not configured", nil)
	}
	if key == "" {
		return nil, E(KindInvalidArgument, s.Name(), "key is required", nil)
	}
	u := fmt.Sprintf("%s/users?userId=%s", s.base, url.QueryEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, E(KindTransport, s.Name(), "build request", err)
	}
	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, E(KindTransport, s.Name(), "users API unreachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, s.statusError(resp)
	}
	var out userAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, E(KindTransport, s.Name(), "decode response", err)
	}
	return out.UserData, nil
}

// statusError converts a non-200 API response into a typed store error.
// 500 means the privileged credentials are missing or the commit failed
// server-side; either way the caller should try the direct path.
func (s *APIStore) statusError(resp *http.Response) error {
	var body userAPIResponse
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(b, &body)
	msg := body.ErrorMsg
	if msg == "" {
		msg = fmt.Sprintf("users API returned %d", resp.StatusCode)
	}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return E(KindInvalidArgument, s.Name(), msg, nil)
	case http.StatusForbidden:
		return E(KindPermissionDenied, s.Name(), msg, nil)
	case http.StatusNotFound:
		return E(KindNotFound, s.Name(), msg, nil)
	case http.StatusInternalServerError:
		return E(KindUnavailable, s.Name(), msg, nil)
	default:
		return E(KindTransport, s.Name(), msg, nil)
	}
}
