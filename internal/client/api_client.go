package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/baselinehq/pricing-api/internal/core/domain"
)

// CalculateReply mirrors the server's calculation counting response. The
// counters are authoritative; the controller reconciles its cache from them.
type CalculateReply struct {
	Success               bool   `json:"success"`
	HasFullAccess         bool   `json:"hasFullAccess"`
	CalculationsUsed      int    `json:"calculationsUsed"`
	CalculationsRemaining int    `json:"calculationsRemaining"`
	LimitReached          bool   `json:"limitReached"`
	Error                 string `json:"error"`
}

// EntitlementAPI is the controller's view of the backend.
type EntitlementAPI interface {
	RecordCalculation(ctx context.Context, token string) (*CalculateReply, error)
	Upgrade(ctx context.Context, token, licenseKey string) error
	TrackDevice(ctx context.Context, fingerprint, action, accountID string) error
}

// APIClient is the HTTP implementation of EntitlementAPI.
//
// Any response whose body does not parse as JSON is reported as ErrUpstream
// rather than propagated as a decode panic or raw error text.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *APIClient) RecordCalculation(ctx context.Context, token string) (*CalculateReply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/calculate", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calculate: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var reply CalculateReply
	if err := decodeJSON(resp.Body, &reply); err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return &reply, nil
	case http.StatusForbidden:
		// Limit reached is an expected outcome, carried in the reply.
		reply.LimitReached = true
		return &reply, nil
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthExpired
	default:
		return nil, fmt.Errorf("calculate: %w: status %d", domain.ErrUpstream, resp.StatusCode)
	}
}

func (c *APIClient) Upgrade(ctx context.Context, token, licenseKey string) error {
	body, _ := json.Marshal(map[string]string{
		"licenseKey": licenseKey,
		"userToken":  token,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/upgrade", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-user-token", token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upgrade: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var reply struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := decodeJSON(resp.Body, &reply); err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return domain.ErrInvalidLicense
	case http.StatusUnauthorized:
		return domain.ErrAuthExpired
	case http.StatusNotFound:
		return domain.ErrAccountNotFound
	default:
		return fmt.Errorf("upgrade: %w: status %d", domain.ErrUpstream, resp.StatusCode)
	}
}

func (c *APIClient) TrackDevice(ctx context.Context, fingerprint, action, accountID string) error {
	body, _ := json.Marshal(map[string]string{
		"deviceFingerprint": fingerprint,
		"action":            action,
		"userId":            accountID,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/track-device", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("track device: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("track device: %w: status %d", domain.ErrUpstream, resp.StatusCode)
	}
	return nil
}

// decodeJSON reads the whole body and maps malformed JSON to ErrUpstream.
func decodeJSON(r io.Reader, v any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", domain.ErrUpstream, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: server returned invalid response", domain.ErrUpstream)
	}
	return nil
}
