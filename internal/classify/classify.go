// Package classify aggregates aerodrome-warning rows into per-category
// accuracy metrics and renders them onto the standard warning-element table.
package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/kevinnadar22/metar-verify/pkg/tabular"
)

// Category identifies a warning classification bucket.
type Category string

const (
	CategoryThunderstorm Category = "thunderstorm"
	CategoryWind         Category = "wind"
)

// keyword sets are matched as substrings against the lower-cased element cell.
// Thunderstorm takes priority when both match.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryThunderstorm, []string{"thunderstorm", "ts"}},
	{CategoryWind, []string{"wind", "gust", "surface"}},
}

// Positional cells of a warning-report row.
const (
	elementCell   = 1
	issueTimeCell = 2
	indicatorCell = 3
	percentCell   = 4
)

// Aggregate accumulates classification results for one category.
// It is derived per report and never persisted.
type Aggregate struct {
	Category           Category `json:"category"`
	WarningTimestamps  []string `json:"warning_timestamps"`
	MatchedCount       int      `json:"matched_count"`
	TotalCount         int      `json:"total_count"`
	PrecomputedPercent string   `json:"precomputed_percent,omitempty"`
}

// Overrides carries authoritative per-category accuracy percentages supplied
// by the verification engine. A present value wins over any locally derived
// ratio.
type Overrides map[Category]float64

// Classify buckets warning rows by category keyword and accumulates match
// counts. When the table carries a fifth column whose header contains
// "Accuracy", that column's precomputed percentage is captured in preference
// to the boolean indicator. Rows with missing cells degrade to placeholders
// rather than failing.
func Classify(table tabular.Table) map[Category]*Aggregate {
	usePrecomputed := len(table.Header) > percentCell &&
		strings.Contains(table.Header[percentCell], "Accuracy")

	aggregates := map[Category]*Aggregate{
		CategoryThunderstorm: {Category: CategoryThunderstorm},
		CategoryWind:         {Category: CategoryWind},
	}

	for _, row := range table.Rows {
		category, ok := categorize(cell(row, elementCell))
		if !ok {
			continue
		}
		agg := aggregates[category]

		if ts := strings.TrimSpace(cell(row, issueTimeCell)); meaningful(ts) {
			agg.WarningTimestamps = append(agg.WarningTimestamps, ts)
		}

		agg.TotalCount++
		indicator := strings.TrimSpace(cell(row, indicatorCell))
		if indicator == "1" || indicator == "true" {
			agg.MatchedCount++
		}

		if usePrecomputed {
			if pct := strings.TrimSpace(cell(row, percentCell)); meaningful(pct) && pct != "0%" {
				agg.PrecomputedPercent = pct
			}
		}
	}

	return aggregates
}

// AccuracyPercent resolves the display value for the aggregate: a precomputed
// percentage when present, otherwise the rounded matched/total ratio, or the
// placeholder dash when no rows were classified.
func (a *Aggregate) AccuracyPercent() string {
	if a.PrecomputedPercent != "" {
		return a.PrecomputedPercent
	}
	if a.TotalCount > 0 {
		pct := math.Round(float64(a.MatchedCount) / float64(a.TotalCount) * 100)
		return fmt.Sprintf("%d%%", int(pct))
	}
	return Placeholder
}

// Resolve applies the precedence rule for an aggregate's final accuracy:
// engine override, then locally derived value, then placeholder.
func Resolve(agg *Aggregate, overrides Overrides) string {
	if v, ok := overrides[agg.Category]; ok {
		return formatPercent(v)
	}
	return agg.AccuracyPercent()
}

// RenderOntoTaxonomy merges the thunderstorm and wind aggregates into the
// fixed warning-element table. Every other row renders placeholder dashes.
func RenderOntoTaxonomy(aggregates map[Category]*Aggregate, overrides Overrides) []TaxonomyRow {
	rows := make([]TaxonomyRow, len(taxonomyElements))

	for i, elem := range taxonomyElements {
		row := TaxonomyRow{
			SrNo:          elem.srNo,
			Element:       elem.element,
			WarningTimes:  Placeholder,
			Accuracy:      Placeholder,
			ActualWeather: Placeholder,
		}

		var agg *Aggregate
		switch i {
		case thunderstormRowIndex:
			agg = aggregates[CategoryThunderstorm]
		case windRowIndex:
			agg = aggregates[CategoryWind]
		}

		if agg != nil {
			if len(agg.WarningTimestamps) > 0 {
				row.WarningTimes = strings.Join(agg.WarningTimestamps, ",")
			}
			row.Accuracy = Resolve(agg, overrides)
		}

		rows[i] = row
	}

	return rows
}

func categorize(element string) (Category, bool) {
	element = strings.ToLower(strings.TrimSpace(element))
	if element == "" {
		return "", false
	}
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(element, kw) {
				return entry.category, true
			}
		}
	}
	return "", false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func formatPercent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d%%", int(v))
	}
	return fmt.Sprintf("%g%%", v)
}

func meaningful(s string) bool {
	return s != "" && s != Placeholder && s != "0"
}
