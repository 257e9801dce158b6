// Package charts renders category spending summaries as base64-encoded
// PNG images, embeddable in a document or API response.
package charts

import (
	"bytes"
	"encoding/base64"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 512
	chartHeight = 512
	barWidth    = 60
)

// values converts per-category totals into chart values with a stable,
// alphabetical category order.
func values(totals map[string]float64) []chart.Value {
	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	vals := make([]chart.Value, 0, len(categories))
	for _, category := range categories {
		vals = append(vals, chart.Value{
			Label: category,
			Value: totals[category],
		})
	}
	return vals
}

// RenderPie renders the proportional share of each category as a pie
// chart. Empty totals yield an empty string: "no chart" is absence, not
// an error.
func RenderPie(totals map[string]float64) (string, error) {
	if len(totals) == 0 {
		return "", nil
	}

	pie := chart.PieChart{
		Title:  "Expense Distribution",
		Width:  chartWidth,
		Height: chartHeight,
		Values: values(totals),
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// RenderBar renders per-category totals as a bar chart. Empty totals
// yield an empty string.
func RenderBar(totals map[string]float64) (string, error) {
	if len(totals) == 0 {
		return "", nil
	}

	bar := chart.BarChart{
		Title:    "Category-wise Expenses",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidth,
		Bars:     values(totals),
	}

	var buf bytes.Buffer
	if err := bar.Render(chart.PNG, &buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
