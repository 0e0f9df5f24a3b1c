package siiau

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/udgtools/horarios-api/pkg/config"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
)

// Client fetches the course offer export from the legacy SIIAU system. The
// upstream is uncontrolled, so every request carries the configured timeout.
type Client struct {
	httpClient *http.Client
	url        string
	rowLimit   int
	logger     *zap.Logger
}

// NewClient builds a SIIAU client from configuration.
func NewClient(cfg config.SIIAUConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	rowLimit := cfg.RowLimit
	if rowLimit <= 0 {
		rowLimit = 15000
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		rowLimit:   rowLimit,
		logger:     logger,
	}
}

// RowLimit returns the configured maximum number of rows requested upstream.
func (c *Client) RowLimit() int {
	return c.rowLimit
}

// FetchTimetable POSTs the offer query for one calendar cycle and campus and
// returns the raw HTML body. Non-2xx responses surface as remote fetch errors.
func (c *Client) FetchTimetable(ctx context.Context, cicloSiiau, centroSiiau string, limit int) (io.ReadCloser, error) {
	if limit <= 0 {
		limit = c.rowLimit
	}

	form := url.Values{}
	form.Set("ciclop", cicloSiiau)
	form.Set("cup", centroSiiau)
	form.Set("mostrarp", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteFetch.Code, appErrors.ErrRemoteFetch.Status, "failed to build SIIAU request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("fetching SIIAU timetable",
		zap.String("ciclo", cicloSiiau),
		zap.String("centro", centroSiiau),
		zap.Int("limit", limit),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteFetch.Code, appErrors.ErrRemoteFetch.Status, "SIIAU request failed")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, appErrors.Wrap(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			appErrors.ErrRemoteFetch.Code, appErrors.ErrRemoteFetch.Status,
			"SIIAU returned an unexpected status",
		)
	}

	return resp.Body, nil
}
