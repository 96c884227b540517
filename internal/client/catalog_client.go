package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mueen-assist/pkg/config"

	"go.uber.org/zap"
)

// CatalogClient talks to the content and ERP services that back the service
// menus: sector tree, per-sector services, professions, nationalities, shifts
// and fixed-package pricing. All responses except the sector tree arrive in a
// {"data": …} envelope; a missing envelope or a non-200 status is a
// recoverable ErrUpstream.
type CatalogClient struct {
	contentBaseURL string
	erpBaseURL     string
	crmBaseURL     string
	httpClient     *http.Client
	logger         *zap.Logger
}

func NewCatalogClient(cfg *config.UpstreamConfig, logger *zap.Logger) *CatalogClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CatalogClient{
		contentBaseURL: cfg.ContentBaseURL,
		erpBaseURL:     cfg.ERPBaseURL,
		crmBaseURL:     cfg.CRMBaseURL,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

// Sectors fetches the top-level category tree. The content service returns a
// bare array of parents whose children carry the displayable titles.
func (c *CatalogClient) Sectors(ctx context.Context) ([]SectorNode, error) {
	url := c.contentBaseURL + "/api/content/Search/ar/mobileServicesSection?withchildren=true"

	var nodes []SectorNode
	if err := c.getJSON(ctx, url, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Services lists the offerings of an hourly-type sector.
func (c *CatalogClient) Services(ctx context.Context, serviceType int) ([]ServiceEntry, error) {
	url := fmt.Sprintf("%s/ar/api/Service/ServicesForService?serviceType=%d", c.erpBaseURL, serviceType)
	return c.getEnvelope(ctx, url)
}

// Professions lists the individual workers catalog.
func (c *CatalogClient) Professions(ctx context.Context) ([]ServiceEntry, error) {
	url := c.crmBaseURL + "/ar/api/ProfessionGroups/AvailableProfessions"
	return c.getEnvelope(ctx, url)
}

// Nationalities lists the resource groups available for a service.
func (c *CatalogClient) Nationalities(ctx context.Context, serviceID int) ([]KeyValue, error) {
	url := fmt.Sprintf("%s/ar/api/ResourceGroup/GetResourceGroupsByService?serviceId=%d", c.erpBaseURL, serviceID)

	var env struct {
		Data []KeyValue `json:"data"`
	}
	if err := c.getJSON(ctx, url, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("nationalities for service %d: missing data envelope: %w", serviceID, ErrUpstream)
	}
	return env.Data, nil
}

// Shifts lists the working shifts available for a service.
func (c *CatalogClient) Shifts(ctx context.Context, serviceID int) ([]KeyValue, error) {
	url := fmt.Sprintf("%s/ar/api/HourlyService/GetShifts?serviceId=%d", c.erpBaseURL, serviceID)

	var env struct {
		Data []KeyValue `json:"data"`
	}
	if err := c.getJSON(ctx, url, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("shifts for service %d: missing data envelope: %w", serviceID, ErrUpstream)
	}
	return env.Data, nil
}

// FixedPackages resolves the priced packages for a fully selected
// (stepId, nationality, shift) triple.
func (c *CatalogClient) FixedPackages(ctx context.Context, stepID, nationalityID, shift int) ([]PackageEntry, error) {
	url := fmt.Sprintf("%s/ar/api/HourlyService/FixedPackages?stepId=%d&nationalityId=%d&shift=%d",
		c.erpBaseURL, stepID, nationalityID, shift)

	var env struct {
		Data []PackageEntry `json:"data"`
	}
	if err := c.getJSON(ctx, url, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("fixed packages: missing data envelope: %w", ErrUpstream)
	}
	return env.Data, nil
}

func (c *CatalogClient) getEnvelope(ctx context.Context, url string) ([]ServiceEntry, error) {
	var env struct {
		Data []ServiceEntry `json:"data"`
	}
	if err := c.getJSON(ctx, url, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("missing data envelope: %w", ErrUpstream)
	}
	return env.Data, nil
}

func (c *CatalogClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Catalog request failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("%s: %w", url, ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Catalog request returned non-200",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%s: status %d: %w", url, resp.StatusCode, ErrUpstream)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", url, ErrUpstream)
	}
	return nil
}
