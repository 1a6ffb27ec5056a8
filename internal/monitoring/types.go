// internal/monitoring/types.go
// Package monitoring implements the client side of the cloud monitoring API:
// payload types, the HTTP data source, and the paginated time-series fetcher.
package monitoring

import "time"

// Fully-qualified resource label keys used to name series.
const (
	ResourceTypeLabel = "cloud.example.com/resource_type"
	ResourceIDLabel   = "cloud.example.com/resource_id"
	InstanceNameLabel = "compute.example.com/instance_name"

	// InstanceResourceType marks series produced by a compute instance; such
	// series are named by instance name rather than resource id.
	InstanceResourceType = "instance"
)

// TimeSeriesPage is one page of a paginated time-series listing. TimeSeries is
// nil when the payload carries no time-series field at all, which the fetcher
// treats as a rejected query.
type TimeSeriesPage struct {
	TimeSeries    []TimeSeries `json:"timeseries"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
}

// TimeSeries is one raw series: its descriptor labels plus points ordered
// newest first.
type TimeSeries struct {
	Desc   SeriesDesc `json:"timeseriesDesc"`
	Points []Point    `json:"points"`
}

// SeriesDesc carries the metric name and the label values identifying a series.
type SeriesDesc struct {
	Metric string            `json:"metric"`
	Labels map[string]string `json:"labels"`
}

// Point is a single raw observation. Exactly one of DoubleValue and
// DistributionValue is set, depending on the metric's value type.
type Point struct {
	End               time.Time     `json:"end"`
	DoubleValue       *float64      `json:"doubleValue,omitempty"`
	DistributionValue *Distribution `json:"distributionValue,omitempty"`
}

// Distribution is the bucketed value of a histogram-valued point.
type Distribution struct {
	Buckets []Bucket `json:"buckets"`
}

// Bucket is one count-per-range bin of a distribution.
type Bucket struct {
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
	Count      int64   `json:"count"`
}

// MetricDescriptor describes one metric exposed by the source.
type MetricDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Type        TypeDescriptor `json:"typeDescriptor"`
}

// TypeDescriptor carries the kind and value type of a metric.
type TypeDescriptor struct {
	MetricKind string `json:"metricKind,omitempty"`
	ValueType  string `json:"valueType,omitempty"`
}

// LabelDescriptor describes one label dimension usable to filter a metric.
type LabelDescriptor struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// metricDescriptorsPage is the wire shape of the metric-descriptor listing.
type metricDescriptorsPage struct {
	Metrics []MetricDescriptor `json:"metrics"`
}

// labelDescriptorsPage is the wire shape of the label-descriptor listing.
type labelDescriptorsPage struct {
	Labels []LabelDescriptor `json:"labels"`
}
