// Package arcgis is a client for hosted feature-service tables exposed over
// the ArcGIS REST API: token-based auth, filtered attribute queries and
// chunked multi-value lookups.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/config"
	"github.com/cfolkers/caribou-portal/internal/model"
	"github.com/cfolkers/caribou-portal/pkg/circuitbreaker"
	"github.com/cfolkers/caribou-portal/pkg/metrics"
)

// BatchSize is the number of values packed into one IN-list query. Kept
// small to stay under upstream request-size limits.
const BatchSize = 10

type Client struct {
	portalURL  string
	referer    string
	token      string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(cfg config.ArcGISConfig, logger *zap.Logger) *Client {
	return &Client{
		portalURL: cfg.PortalURL,
		referer:   cfg.Referer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cb:     circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger: logger,
	}
}

type tokenResponse struct {
	Token string    `json:"token"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e *apiError) String() string {
	return fmt.Sprintf("code=%d message=%s", e.Code, e.Message)
}

type queryResponse struct {
	Features []struct {
		Attributes model.Attributes `json:"attributes"`
	} `json:"features"`
	Error *apiError `json:"error"`
}

// GenerateToken obtains a bearer token and attaches it to every subsequent
// query. There is no refresh: an expired token makes later queries fail and
// surface as empty result sets.
func (c *Client) GenerateToken(ctx context.Context, username, password string) error {
	form := url.Values{
		"username": {username},
		"password": {password},
		"client":   {"referer"},
		"referer":  {c.referer},
		"f":        {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.portalURL+"/generateToken", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed: status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("token response decode failed: %w", err)
	}
	if tr.Error != nil {
		return fmt.Errorf("token generation rejected: %s", tr.Error.String())
	}
	if tr.Token == "" {
		return fmt.Errorf("token generation returned no token")
	}

	c.token = tr.Token
	c.logger.Info("feature service token generated")
	return nil
}

// QueryLayer runs one filtered query against a feature table and returns the
// matching attribute rows. Row count is capped at maxRecords; there is no
// pagination beyond that cap.
func (c *Client) QueryLayer(ctx context.Context, serviceURL, where string, maxRecords int) ([]model.Attributes, error) {
	table := tableLabel(serviceURL)
	start := time.Now()

	var rows []model.Attributes
	err := c.cb.Execute(func() error {
		var execErr error
		rows, execErr = c.query(ctx, serviceURL, where, maxRecords)
		return execErr
	})

	if err != nil {
		metrics.RecordUpstreamQuery(table, "error", time.Since(start))
		return nil, err
	}
	metrics.RecordUpstreamQuery(table, "success", time.Since(start))
	return rows, nil
}

func (c *Client) query(ctx context.Context, serviceURL, where string, maxRecords int) ([]model.Attributes, error) {
	table := tableLabel(serviceURL)

	params := url.Values{
		"where":             {where},
		"returnGeometry":    {"false"},
		"spatialRel":        {"esriSpatialRelIntersects"},
		"outSR":             {"4326"},
		"resultRecordCount": {strconv.Itoa(maxRecords)},
		"outFields":         {"*"},
		"f":                 {"json"},
	}
	if c.token != "" {
		params.Set("token", c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		serviceURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamError(table, "network")
		return nil, fmt.Errorf("query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamError(table, "network")
		return nil, fmt.Errorf("query failed: status %d", resp.StatusCode)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		metrics.RecordUpstreamError(table, "decode")
		return nil, fmt.Errorf("query response decode failed: %w", err)
	}
	if qr.Error != nil {
		metrics.RecordUpstreamError(table, "api")
		return nil, fmt.Errorf("feature service error: %s", qr.Error.String())
	}

	rows := make([]model.Attributes, 0, len(qr.Features))
	for _, f := range qr.Features {
		rows = append(rows, f.Attributes)
	}
	return rows, nil
}

// QueryIn fetches rows whose field matches any of values, batched into
// IN-lists of BatchSize. Failed batches are logged and skipped, never
// retried; their rows are simply missing from this cycle.
func (c *Client) QueryIn(ctx context.Context, serviceURL, field string, values []string, extraWhere string, maxRecords int) []model.Attributes {
	var all []model.Attributes

	for i := 0; i < len(values); i += BatchSize {
		end := i + BatchSize
		if end > len(values) {
			end = len(values)
		}
		batch := values[i:end]

		var where string
		if len(batch) == 1 {
			where = fmt.Sprintf("%s = '%s'", field, batch[0])
		} else {
			where = fmt.Sprintf("%s IN ('%s')", field, strings.Join(batch, "','"))
		}
		if extraWhere != "" {
			where += " AND " + extraWhere
		}

		rows, err := c.QueryLayer(ctx, serviceURL, where, maxRecords)
		if err != nil {
			c.logger.Warn("batch query failed, skipping batch",
				zap.Int("batch", i/BatchSize+1),
				zap.Int("batch_size", len(batch)),
				zap.Error(err),
			)
			continue
		}
		all = append(all, rows...)
	}

	return all
}

func tableLabel(serviceURL string) string {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "unknown"
	}
	return path.Base(strings.TrimSuffix(u.Path, "/"))
}
