// internal/monitoring/query.go
package monitoring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LabelSeparator joins a label key and value in the data source's filter syntax.
const LabelSeparator = "=="

// Query identifies one time-series request against the monitoring source.
// A Query is treated as immutable per fetch; new queries are derived through
// Merge rather than mutated in place.
type Query struct {
	Metric   string
	Project  string
	Timespan string
	// Labels holds ordered, unique "key==value" filter entries.
	Labels []string
}

// Merge returns a copy of q with every non-empty field of delta overwriting the
// corresponding field. Absent delta fields persist from q. A nil delta Labels
// slice means "leave the labels alone"; a non-nil slice (including an empty one)
// replaces them.
func (q Query) Merge(delta Query) Query {
	out := q
	if delta.Metric != "" {
		out.Metric = delta.Metric
	}
	if delta.Project != "" {
		out.Project = delta.Project
	}
	if delta.Timespan != "" {
		out.Timespan = delta.Timespan
	}
	if delta.Labels != nil {
		out.Labels = dedupeLabels(delta.Labels)
	}
	return out
}

// WithoutLabels returns a copy of q with the label filters removed entirely.
func (q Query) WithoutLabels() Query {
	out := q
	out.Labels = nil
	return out
}

// Validate reports whether the query carries the fields every fetch requires.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Metric) == "" {
		return errors.New("query is missing a metric")
	}
	if strings.TrimSpace(q.Project) == "" {
		return errors.New("query is missing a project")
	}
	if strings.TrimSpace(q.Timespan) == "" {
		return errors.New("query is missing a timespan")
	}
	return nil
}

// String renders the query for notices and logs.
func (q Query) String() string {
	parts := []string{
		fmt.Sprintf("metric=%s", q.Metric),
		fmt.Sprintf("project=%s", q.Project),
		fmt.Sprintf("timespan=%s", q.Timespan),
	}
	if len(q.Labels) > 0 {
		parts = append(parts, fmt.Sprintf("labels=%s", strings.Join(q.Labels, ",")))
	}
	return strings.Join(parts, " ")
}

// Label builds one filter entry from a key and value.
func Label(key, value string) string {
	return key + LabelSeparator + value
}

// dedupeLabels drops duplicate entries while preserving first-seen order.
func dedupeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// ParseTimespan converts a relative lookback window such as "15m", "1h", "2d"
// or "1w" into a duration.
func ParseTimespan(timespan string) (time.Duration, error) {
	ts := strings.TrimSpace(timespan)
	if len(ts) < 2 {
		return 0, fmt.Errorf("invalid timespan %q", timespan)
	}
	unit := ts[len(ts)-1]
	n, err := strconv.Atoi(ts[:len(ts)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid timespan %q", timespan)
	}
	switch unit {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("invalid timespan unit in %q", timespan)
}
