package classify_test

import (
	"testing"

	"github.com/kevinnadar22/metar-verify/internal/classify"
	"github.com/kevinnadar22/metar-verify/pkg/tabular"
)

func parseReport(t *testing.T, text string) tabular.Table {
	t.Helper()
	table := tabular.Parse(text)
	if table.IsEmpty() {
		t.Fatalf("report parsed empty: %q", text)
	}
	return table
}

func TestClassifyCounts(t *testing.T) {
	table := parseReport(t,
		"Sr,Element,Issue Time,Verified\n"+
			"1,Thunderstorm,0400,1\n"+
			"2,TS with rain,0600,true\n"+
			"3,Strong surface wind,0800,0\n"+
			"4,Gusty wind,1000,0\n"+
			"5,Dense fog,1200,1\n")

	aggs := classify.Classify(table)

	ts := aggs[classify.CategoryThunderstorm]
	if ts.TotalCount != 2 || ts.MatchedCount != 2 {
		t.Errorf("thunderstorm = %d/%d, want 2/2", ts.MatchedCount, ts.TotalCount)
	}
	if got := ts.AccuracyPercent(); got != "100%" {
		t.Errorf("thunderstorm accuracy = %q, want 100%%", got)
	}

	wind := aggs[classify.CategoryWind]
	if wind.TotalCount != 2 || wind.MatchedCount != 0 {
		t.Errorf("wind = %d/%d, want 0/2", wind.MatchedCount, wind.TotalCount)
	}
	if got := wind.AccuracyPercent(); got != "0%" {
		t.Errorf("wind accuracy = %q, want 0%%", got)
	}
}

func TestClassifyThunderstormKeywordPriority(t *testing.T) {
	// "ts" matches as a substring and the thunderstorm keywords run first,
	// so elements like "Wind gusts" land in the thunderstorm bucket.
	table := parseReport(t,
		"Sr,Element,Issue Time,Verified\n"+
			"1,Wind gusts,0400,1\n")

	aggs := classify.Classify(table)

	if aggs[classify.CategoryThunderstorm].TotalCount != 1 {
		t.Errorf("thunderstorm TotalCount = %d, want 1", aggs[classify.CategoryThunderstorm].TotalCount)
	}
	if aggs[classify.CategoryWind].TotalCount != 0 {
		t.Errorf("wind TotalCount = %d, want 0", aggs[classify.CategoryWind].TotalCount)
	}
}

func TestClassifyUnmatchedRowsIgnored(t *testing.T) {
	table := parseReport(t,
		"Sr,Element,Issue Time,Verified\n"+
			"1,Dense fog,0400,1\n"+
			"2,Heavy rain,0600,1\n")

	aggs := classify.Classify(table)

	for category, agg := range aggs {
		if agg.TotalCount != 0 {
			t.Errorf("%s TotalCount = %d, want 0", category, agg.TotalCount)
		}
		if got := agg.AccuracyPercent(); got != classify.Placeholder {
			t.Errorf("%s accuracy = %q, want placeholder", category, got)
		}
	}
}

func TestClassifyRoundsRatio(t *testing.T) {
	table := parseReport(t,
		"Sr,Element,Issue Time,Verified\n"+
			"1,Thunderstorm,0400,1\n"+
			"2,Thunderstorm,0600,1\n"+
			"3,Thunderstorm,0800,0\n")

	aggs := classify.Classify(table)

	// 2/3 = 66.67 rounds to 67.
	if got := aggs[classify.CategoryThunderstorm].AccuracyPercent(); got != "67%" {
		t.Errorf("accuracy = %q, want 67%%", got)
	}
}

func TestClassifyPrecomputedColumn(t *testing.T) {
	table := parseReport(t,
		"Sr,Element,Issue Time,Verified,Accuracy %\n"+
			"1,Thunderstorm,0400,0,75%\n"+
			"2,Gusty wind,0600,1,0%\n"+
			"3,Gusty wind,0800,1,-\n")

	aggs := classify.Classify(table)

	// The precomputed column wins over the indicator-derived ratio.
	if got := aggs[classify.CategoryThunderstorm].AccuracyPercent(); got != "75%" {
		t.Errorf("thunderstorm accuracy = %q, want 75%%", got)
	}

	// "0%" and "-" precomputed cells are skipped; the ratio applies.
	if got := aggs[classify.CategoryWind].AccuracyPercent(); got != "100%" {
		t.Errorf("wind accuracy = %q, want 100%%", got)
	}
}

func TestResolveOverridePrecedence(t *testing.T) {
	agg := &classify.Aggregate{
		Category:     classify.CategoryThunderstorm,
		MatchedCount: 2,
		TotalCount:   2,
	}

	// A locally perfect score still defers to the engine's value.
	overrides := classify.Overrides{classify.CategoryThunderstorm: 87}
	if got := classify.Resolve(agg, overrides); got != "87%" {
		t.Errorf("Resolve() = %q, want 87%%", got)
	}

	if got := classify.Resolve(agg, nil); got != "100%" {
		t.Errorf("Resolve() without override = %q, want 100%%", got)
	}

	fractional := classify.Overrides{classify.CategoryThunderstorm: 87.5}
	if got := classify.Resolve(agg, fractional); got != "87.5%" {
		t.Errorf("Resolve() fractional = %q, want 87.5%%", got)
	}
}

func TestRenderOntoTaxonomy(t *testing.T) {
	table := parseReport(t,
		"Sr,Element,Issue Time,Verified\n"+
			"1,Thunderstorm,0400,1\n"+
			"2,Thunderstorm,-,1\n"+
			"3,Thunderstorm,0,1\n"+
			"4,Strong surface wind,0800,0\n")

	rows := classify.RenderOntoTaxonomy(classify.Classify(table), nil)

	if len(rows) != 15 {
		t.Fatalf("len(rows) = %d, want 15", len(rows))
	}

	ts := rows[1]
	if ts.SrNo != "2." || ts.Element != "Thunderstorms" {
		t.Errorf("row 1 = %q %q, want thunderstorm row", ts.SrNo, ts.Element)
	}
	// "-" and "0" issue times are filtered out of the joined list.
	if ts.WarningTimes != "0400" {
		t.Errorf("thunderstorm WarningTimes = %q, want 0400", ts.WarningTimes)
	}
	if ts.Accuracy != "100%" {
		t.Errorf("thunderstorm Accuracy = %q, want 100%%", ts.Accuracy)
	}

	wind := rows[9]
	if wind.SrNo != "10." {
		t.Errorf("row 9 SrNo = %q, want 10.", wind.SrNo)
	}
	if wind.WarningTimes != "0800" {
		t.Errorf("wind WarningTimes = %q, want 0800", wind.WarningTimes)
	}
	if wind.Accuracy != "0%" {
		t.Errorf("wind Accuracy = %q, want 0%%", wind.Accuracy)
	}

	// Every other row carries placeholders only.
	for i, row := range rows {
		if i == 1 || i == 9 {
			continue
		}
		if row.WarningTimes != classify.Placeholder || row.Accuracy != classify.Placeholder {
			t.Errorf("row %d = %+v, want placeholders", i, row)
		}
	}
}

func TestRenderOntoTaxonomyMultipleTimestamps(t *testing.T) {
	table := parseReport(t,
		"Sr,Element,Issue Time,Verified\n"+
			"1,Thunderstorm,0400,1\n"+
			"2,Thunderstorm,0600,0\n")

	rows := classify.RenderOntoTaxonomy(classify.Classify(table), nil)

	if got := rows[1].WarningTimes; got != "0400,0600" {
		t.Errorf("WarningTimes = %q, want 0400,0600", got)
	}
	if got := rows[1].Accuracy; got != "50%" {
		t.Errorf("Accuracy = %q, want 50%%", got)
	}
}
