// internal/chart/formatter.go
package chart

import (
	"sort"
	"strconv"

	"github.com/metricdeck/metricdeck/internal/monitoring"
)

// ValueKind selects which formatting variant a chart uses. It is resolved once
// per chart at creation time from the metric's value type.
type ValueKind int

const (
	// KindScalar formats one series per raw series with a scalar y value.
	KindScalar ValueKind = iota
	// KindDistribution explodes each raw series into one sub-series per
	// bucket range.
	KindDistribution
)

// KindForValueType maps a metric descriptor's value type to a ValueKind.
// Anything that is not a distribution formats as scalar.
func KindForValueType(valueType string) ValueKind {
	if valueType == "distribution" {
		return KindDistribution
	}
	return KindScalar
}

// ByteToKB converts a byte value to kilobytes.
func ByteToKB(v float64) float64 { return v / 1024 }

// SecondsToHours converts a seconds value to hours.
func SecondsToHours(v float64) float64 { return v / 3600 }

// ConversionFor maps a configured unit name to its conversion function.
// Unknown or empty units pass values through unchanged.
func ConversionFor(unit string) func(float64) float64 {
	switch unit {
	case "kb":
		return ByteToKB
	case "hours":
		return SecondsToHours
	}
	return nil
}

// Formatter is a pure transformation from raw time-series payloads to ordered
// renderable series.
type Formatter struct {
	Kind ValueKind
	// Convert optionally rescales scalar y values (byte to KB, seconds to
	// hours). Nil passes values through.
	Convert func(float64) float64
}

// Format reshapes a raw series set into renderable series. Output data is
// always ascending by x; empty input yields empty output.
func (f Formatter) Format(raw []monitoring.TimeSeries) []Series {
	if f.Kind == KindDistribution {
		return f.formatDistribution(raw)
	}
	return f.formatScalar(raw)
}

// formatScalar produces one series per raw series, named from its resource
// labels and colored in iteration order.
func (f Formatter) formatScalar(raw []monitoring.TimeSeries) []Series {
	out := make([]Series, 0, len(raw))
	for i, ts := range raw {
		data := make([]DataPoint, 0, len(ts.Points))
		for _, p := range ts.Points {
			if p.DoubleValue == nil {
				continue
			}
			y := *p.DoubleValue
			if f.Convert != nil {
				y = f.Convert(y)
			}
			data = append(data, DataPoint{X: p.End.UnixMilli(), Y: y})
		}
		sortAscending(data)
		out = append(out, Series{
			Name:  scalarSeriesName(ts.Desc.Labels),
			Color: PaletteColor(i),
			Data:  data,
		})
	}
	return out
}

// formatDistribution explodes each raw series into sub-series keyed by
// (resource id, bucket range). Colors are assigned per distinct range across
// the whole result set, so the same range renders the same color on every
// resource.
func (f Formatter) formatDistribution(raw []monitoring.TimeSeries) []Series {
	type subKey struct {
		resource string
		rng      string
	}
	subs := make(map[subKey]*Series)
	var order []subKey
	rangeColor := make(map[string]string)
	rangeCount := 0

	for _, ts := range raw {
		resource := resourceName(ts.Desc.Labels)
		for _, p := range ts.Points {
			if p.DistributionValue == nil {
				continue
			}
			x := p.End.UnixMilli()
			for _, b := range p.DistributionValue.Buckets {
				rng := bucketRange(b)
				if _, ok := rangeColor[rng]; !ok {
					rangeColor[rng] = PaletteColor(rangeCount)
					rangeCount++
				}
				key := subKey{resource: resource, rng: rng}
				sub, ok := subs[key]
				if !ok {
					sub = &Series{
						Name:   resource + ":" + rng,
						Legend: rng,
						Color:  rangeColor[rng],
					}
					subs[key] = sub
					order = append(order, key)
				}
				// Accumulate counts landing on the same timestamp.
				if n := len(sub.Data); n > 0 && sub.Data[n-1].X == x {
					sub.Data[n-1].Y += float64(b.Count)
				} else {
					sub.Data = append(sub.Data, DataPoint{X: x, Y: float64(b.Count)})
				}
			}
		}
	}

	out := make([]Series, 0, len(order))
	for _, key := range order {
		sub := subs[key]
		sortAscending(sub.Data)
		out = append(out, *sub)
	}
	return out
}

// scalarSeriesName derives a display name from resource labels: instance
// series use the instance name, everything else falls back to the resource id.
// Missing labels are tolerated, never an error.
func scalarSeriesName(labels map[string]string) string {
	if labels[monitoring.ResourceTypeLabel] == monitoring.InstanceResourceType {
		if name := labels[monitoring.InstanceNameLabel]; name != "" {
			return name
		}
	}
	if id := labels[monitoring.ResourceIDLabel]; id != "" {
		return id
	}
	return "unknown"
}

// resourceName identifies the resource a distribution sub-series belongs to.
func resourceName(labels map[string]string) string {
	if id := labels[monitoring.ResourceIDLabel]; id != "" {
		return id
	}
	return scalarSeriesName(labels)
}

// bucketRange renders a bucket's bounds as the "<lower>-<upper>" range key.
func bucketRange(b monitoring.Bucket) string {
	return formatBound(b.LowerBound) + "-" + formatBound(b.UpperBound)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// sortAscending orders data by x. Source points arrive newest first, but the
// output contract is strictly ascending regardless of input order.
func sortAscending(data []DataPoint) {
	sort.SliceStable(data, func(i, j int) bool { return data[i].X < data[j].X })
}
