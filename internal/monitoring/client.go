// internal/monitoring/client.go
package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/metricdeck/metricdeck/internal/logging"
)

// Client is the HTTP data source for the monitoring API.
type Client struct {
	base   string
	client *http.Client
	debug  bool
}

// NewClient constructs a Client around an already-authorized HTTP client.
func NewClient(base string, httpClient *http.Client, debug bool) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		client: httpClient,
		debug:  debug,
	}
}

// ListTimeSeries fetches one page of time-series data for the query, resuming
// from pageToken when non-empty. The raw response body is returned alongside
// the decoded page so callers can surface rejected-query payloads verbatim.
func (c *Client) ListTimeSeries(ctx context.Context, q Query, pageToken string) (*TimeSeriesPage, []byte, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/timeseries/%s", c.base, url.PathEscape(q.Project), url.PathEscape(q.Metric))

	params := url.Values{}
	params.Set("timespan", q.Timespan)
	for _, label := range q.Labels {
		params.Add("labels", label)
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	requestURL := endpoint + "?" + params.Encode()

	if c.debug {
		logging.LogRequest("DECK->API", endpoint, q.Metric, map[string]string{"method": http.MethodGet, "url": requestURL})
	}

	body, err := c.get(ctx, requestURL, q.Metric)
	if err != nil {
		return nil, body, err
	}

	var page TimeSeriesPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, body, fmt.Errorf("monitoring: decode timeseries page: %w", err)
	}
	return &page, body, nil
}

// ListMetricDescriptors returns the metric descriptors available in a project.
func (c *Client) ListMetricDescriptors(ctx context.Context, project string) ([]MetricDescriptor, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/metricDescriptors", c.base, url.PathEscape(project))

	body, err := c.get(ctx, endpoint, "")
	if err != nil {
		return nil, err
	}

	var page metricDescriptorsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("monitoring: decode metric descriptors: %w", err)
	}
	return page.Metrics, nil
}

// ListLabelDescriptors returns the label descriptors for one metric. The TUI
// uses these to seed filter-input suggestions.
func (c *Client) ListLabelDescriptors(ctx context.Context, project, metric string) ([]LabelDescriptor, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/metricDescriptors/%s/labels", c.base, url.PathEscape(project), url.PathEscape(metric))

	body, err := c.get(ctx, endpoint, metric)
	if err != nil {
		return nil, err
	}

	var page labelDescriptorsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("monitoring: decode label descriptors: %w", err)
	}
	return page.Labels, nil
}

// get issues one GET and returns the response body. Non-200 statuses return
// the body alongside the error so callers can log the payload.
func (c *Client) get(ctx context.Context, requestURL, metric string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if c.debug {
		logging.LogRequest("API->DECK", requestURL, metric, body)
	}

	if resp.StatusCode != http.StatusOK {
		return body, fmt.Errorf("monitoring: %s returned %s: %s", requestURL, resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}
