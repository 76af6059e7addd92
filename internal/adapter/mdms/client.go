// Package mdms reads id formats and tenant cities from the master data service.
package mdms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/heartmarshall/health-registry/internal/domain"
)

const (
	idFormatModule = "common-masters"
	idFormatMaster = "IdFormat"
	tenantModule   = "tenant"
	tenantMaster   = "tenants"
)

// Client queries the MDMS search endpoint.
type Client struct {
	searchURL  string
	httpClient *http.Client
	log        *slog.Logger

	mu     sync.RWMutex
	cities map[string]string
}

// NewClient creates an MDMS client for host + searchPath.
func NewClient(host, searchPath string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		searchURL:  host + searchPath,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "mdms"),
		cities:     make(map[string]string),
	}
}

type masterDetail struct {
	Name   string `json:"name"`
	Filter string `json:"filter,omitempty"`
}

type moduleDetail struct {
	ModuleName    string         `json:"moduleName"`
	MasterDetails []masterDetail `json:"masterDetails"`
}

type criteriaRequest struct {
	RequestInfo  domain.RequestInfo `json:"RequestInfo"`
	MdmsCriteria struct {
		TenantID      string         `json:"tenantId"`
		ModuleDetails []moduleDetail `json:"moduleDetails"`
	} `json:"MdmsCriteria"`
}

// searchResponse maps module -> master -> rows.
type searchResponse struct {
	MdmsRes map[string]map[string]json.RawMessage `json:"MdmsRes"`
}

type idFormatRow struct {
	IDName string `json:"idname"`
	Format string `json:"format"`
}

type tenantRow struct {
	Code string `json:"code"`
	City struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"city"`
}

// IDFormat returns the format registered under idName for tenantID, or ""
// when MDMS has none.
func (c *Client) IDFormat(ctx context.Context, info domain.RequestInfo, idName, tenantID string) (string, error) {
	raw, err := c.search(ctx, info, tenantID, idFormatModule, masterDetail{
		Name:   idFormatMaster,
		Filter: fmt.Sprintf("[?(@.idname=='%s')]", idName),
	})
	if err != nil {
		return "", err
	}

	var rows []idFormatRow
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return "", fmt.Errorf("mdms: invalid %s response: %w", idFormatMaster, err)
		}
	}
	for _, r := range rows {
		if r.IDName == idName {
			return r.Format, nil
		}
	}
	return "", nil
}

// City returns the city code of tenantID. Results are cached per tenant.
func (c *Client) City(ctx context.Context, info domain.RequestInfo, tenantID string) (string, error) {
	c.mu.RLock()
	city, ok := c.cities[tenantID]
	c.mu.RUnlock()
	if ok {
		return city, nil
	}

	raw, err := c.search(ctx, info, tenantID, tenantModule, masterDetail{
		Name:   tenantMaster,
		Filter: fmt.Sprintf("[?(@.code=='%s')]", tenantID),
	})
	if err != nil {
		return "", err
	}

	var rows []tenantRow
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return "", fmt.Errorf("mdms: invalid %s response: %w", tenantMaster, err)
		}
	}
	for _, r := range rows {
		if r.Code == tenantID && r.City.Code != "" {
			c.mu.Lock()
			c.cities[tenantID] = r.City.Code
			c.mu.Unlock()
			return r.City.Code, nil
		}
	}
	return "", fmt.Errorf("mdms: no city for tenant %s: %w", tenantID, domain.ErrNotFound)
}

func (c *Client) search(ctx context.Context, info domain.RequestInfo, tenantID, module string, master masterDetail) (json.RawMessage, error) {
	var body criteriaRequest
	body.RequestInfo = info
	body.MdmsCriteria.TenantID = tenantID
	body.MdmsCriteria.ModuleDetails = []moduleDetail{{ModuleName: module, MasterDetails: []masterDetail{master}}}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("mdms: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("mdms: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		c.log.ErrorContext(ctx, "mdms search failed",
			slog.String("module", module),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("mdms: unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.ErrorContext(ctx, "mdms search failed",
			slog.String("module", module),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("mdms: search returned status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("mdms: invalid response: %w", err)
	}
	return out.MdmsRes[module][master.Name], nil
}

// doWithRetry retries once on 5xx or network errors with 500ms backoff.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err == nil && resp.StatusCode < 500 {
		return resp, nil
	}
	if resp != nil {
		resp.Body.Close()
	}

	select {
	case <-time.After(500 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	return c.httpClient.Do(retry)
}
