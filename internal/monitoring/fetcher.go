// internal/monitoring/fetcher.go
package monitoring

import (
	"context"
	"fmt"
)

// QueryFailure records a rejected or failed query: the query itself plus the
// raw payload the source answered with. Callers distinguish "empty because
// there is no data" (no failure) from "rejected query" (failure present).
type QueryFailure struct {
	Query   Query
	Payload string
	Err     error
}

// Error implements the error interface.
func (f *QueryFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("query failed (%s): %v", f.Query, f.Err)
	}
	return fmt.Sprintf("query rejected (%s): %s", f.Query, f.Payload)
}

// Unwrap exposes the underlying transport error, if any.
func (f *QueryFailure) Unwrap() error { return f.Err }

// Result is the outcome of one paginated fetch: every series accumulated
// before the failure, if one occurred.
type Result struct {
	Series  []TimeSeries
	Failure *QueryFailure
}

// Fetcher aggregates a paginated time-series query into one result set.
// It is stateless across calls.
type Fetcher struct {
	client *Client
}

// NewFetcher constructs a Fetcher over the given data source.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch issues the query page by page, strictly sequentially, following the
// continuation token until the source stops returning one. A page without a
// time-series field ends pagination and marks the result as a query-level
// failure carrying the raw payload. There is no retry logic; a transport
// error on any page likewise ends pagination immediately.
func (f *Fetcher) Fetch(ctx context.Context, q Query) Result {
	if err := q.Validate(); err != nil {
		return Result{Failure: &QueryFailure{Query: q, Err: err}}
	}

	var accumulated []TimeSeries
	pageToken := ""
	for {
		page, raw, err := f.client.ListTimeSeries(ctx, q, pageToken)
		if err != nil {
			return Result{
				Series:  accumulated,
				Failure: &QueryFailure{Query: q, Payload: string(raw), Err: err},
			}
		}
		if page.TimeSeries == nil {
			return Result{
				Series:  accumulated,
				Failure: &QueryFailure{Query: q, Payload: string(raw)},
			}
		}
		accumulated = append(accumulated, page.TimeSeries...)
		if page.NextPageToken == "" {
			return Result{Series: accumulated}
		}
		pageToken = page.NextPageToken
	}
}
