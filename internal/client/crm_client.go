package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mueen-assist/pkg/config"

	"go.uber.org/zap"
)

// CRMClient talks to the lookup and business endpoints: housing types, city
// and district listings, lead creation and address creation.
type CRMClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewCRMClient(cfg *config.UpstreamConfig, logger *zap.Logger) *CRMClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CRMClient{
		baseURL:    cfg.CRMBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// HousingTypes fetches the housing-type enumeration.
func (c *CRMClient) HousingTypes(ctx context.Context) ([]KeyValue, error) {
	var env struct {
		Data []KeyValue `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/ar/api/Lookup/HousingTypes", &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("housing types: missing data envelope: %w", ErrUpstream)
	}
	return env.Data, nil
}

// Cities fetches the city listing.
func (c *CRMClient) Cities(ctx context.Context) ([]City, error) {
	var env struct {
		Data []City `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/ar/api/Lookup/Cities", &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("cities: missing data envelope: %w", ErrUpstream)
	}
	return env.Data, nil
}

// Districts fetches the districts of a city.
func (c *CRMClient) Districts(ctx context.Context, cityID int) ([]City, error) {
	url := fmt.Sprintf("%s/ar/api/Lookup/Districts?cityId=%d", c.baseURL, cityID)

	var env struct {
		Data []City `json:"data"`
	}
	if err := c.getJSON(ctx, url, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("districts for city %d: missing data envelope: %w", cityID, ErrUpstream)
	}
	return env.Data, nil
}

// CreateLead posts a lead payload. A non-200 status is a recoverable
// ErrUpstream; pending state is preserved by the caller so the user can retry.
func (c *CRMClient) CreateLead(ctx context.Context, lead *LeadRequest) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ar/api/Lead/Create", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Lead creation failed", zap.Error(err))
		return fmt.Errorf("lead create: %w", ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Warn("Lead creation returned non-200", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("lead create: status %d: %w", resp.StatusCode, ErrUpstream)
	}
	return nil
}

// CreateAddress posts an address payload with the stored mobile-app bearer
// token replayed verbatim. It returns the raw response body and status code so
// the caller can snapshot the exchange for audit regardless of outcome.
func (c *CRMClient) CreateAddress(ctx context.Context, addr *AddressRequest, bearerToken string) ([]byte, int, error) {
	body, err := json.Marshal(addr)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal address: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ar/api/Address/Create", bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Address creation failed", zap.Error(err))
		return nil, 0, fmt.Errorf("address create: %w", ErrUpstream)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return respBody, resp.StatusCode, fmt.Errorf("address create: status %d: %w", resp.StatusCode, ErrUpstream)
	}
	return respBody, resp.StatusCode, nil
}

func (c *CRMClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Lookup request failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("%s: %w", url, ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d: %w", url, resp.StatusCode, ErrUpstream)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", url, ErrUpstream)
	}
	return nil
}
