package tabular

import (
	"retailpulse/models"
)

// BarChart plots valueColumn against labelColumn in row order.
func BarChart(r *models.QueryResult, title, labelColumn, valueColumn string) *models.Chart {
	labelIdx := r.ColumnIndex(labelColumn)
	valIdx := r.ColumnIndex(valueColumn)
	if labelIdx < 0 || valIdx < 0 {
		return nil
	}

	chart := &models.Chart{Kind: "bar", Title: title}
	values := make([]float64, 0, len(r.Rows))
	for _, row := range r.Rows {
		chart.Labels = append(chart.Labels, Text(row[labelIdx]))
		n, _ := Number(row[valIdx])
		values = append(values, n)
	}
	chart.Series = []models.Series{{Name: valueColumn, Values: values}}
	return chart
}

// GroupedChart builds a kind chart from pre-aggregated labels and totals.
func GroupedChart(kind, title, seriesName string, labels []string, totals []float64) *models.Chart {
	return &models.Chart{
		Kind:   kind,
		Title:  title,
		Labels: labels,
		Series: []models.Series{{Name: seriesName, Values: totals}},
	}
}

// LineByGroup plots valueColumn over xColumn with one series per distinct
// value of groupColumn, the competitor-pricing-trends shape. The x axis keeps
// row order; missing points for a group are carried as zero.
func LineByGroup(r *models.QueryResult, title, xColumn, valueColumn, groupColumn string) *models.Chart {
	xIdx := r.ColumnIndex(xColumn)
	valIdx := r.ColumnIndex(valueColumn)
	groupIdx := r.ColumnIndex(groupColumn)
	if xIdx < 0 || valIdx < 0 || groupIdx < 0 {
		return nil
	}

	var labels []string
	labelPos := make(map[string]int)
	var groups []string
	points := make(map[string]map[string]float64)

	for _, row := range r.Rows {
		x := Text(row[xIdx])
		if _, seen := labelPos[x]; !seen {
			labelPos[x] = len(labels)
			labels = append(labels, x)
		}

		group := Text(row[groupIdx])
		if _, seen := points[group]; !seen {
			groups = append(groups, group)
			points[group] = make(map[string]float64)
		}
		if n, ok := Number(row[valIdx]); ok {
			points[group][x] = n
		}
	}

	chart := &models.Chart{Kind: "line", Title: title, Labels: labels}
	for _, group := range groups {
		values := make([]float64, len(labels))
		for x, n := range points[group] {
			values[labelPos[x]] = n
		}
		chart.Series = append(chart.Series, models.Series{Name: group, Values: values})
	}
	return chart
}

// SunburstChart flattens a two-level hierarchy into path labels joined with
// " > ", one slice per category/subcategory pair.
func SunburstChart(r *models.QueryResult, title, outerColumn, innerColumn, valueColumn string) *models.Chart {
	outerIdx := r.ColumnIndex(outerColumn)
	innerIdx := r.ColumnIndex(innerColumn)
	valIdx := r.ColumnIndex(valueColumn)
	if outerIdx < 0 || innerIdx < 0 || valIdx < 0 {
		return nil
	}

	chart := &models.Chart{Kind: "sunburst", Title: title}
	values := make([]float64, 0, len(r.Rows))
	for _, row := range r.Rows {
		chart.Labels = append(chart.Labels, Text(row[outerIdx])+" > "+Text(row[innerIdx]))
		n, _ := Number(row[valIdx])
		values = append(values, n)
	}
	chart.Series = []models.Series{{Name: valueColumn, Values: values}}
	return chart
}

// ScatterChart plots yColumn against xColumn with bubble sizes from
// sizeColumn and point labels from labelColumn.
func ScatterChart(r *models.QueryResult, title, labelColumn, xColumn, yColumn, sizeColumn string) *models.Chart {
	labelIdx := r.ColumnIndex(labelColumn)
	xIdx := r.ColumnIndex(xColumn)
	yIdx := r.ColumnIndex(yColumn)
	sizeIdx := r.ColumnIndex(sizeColumn)
	if labelIdx < 0 || xIdx < 0 || yIdx < 0 || sizeIdx < 0 {
		return nil
	}

	chart := &models.Chart{Kind: "scatter", Title: title}
	for _, row := range r.Rows {
		x, _ := Number(row[xIdx])
		y, _ := Number(row[yIdx])
		size, _ := Number(row[sizeIdx])
		chart.Points = append(chart.Points, models.ScatterPoint{
			Label: Text(row[labelIdx]),
			X:     x,
			Y:     y,
			Size:  size,
		})
	}
	return chart
}

// IndexedCharts builds the chat tabbed rendering: the first column becomes
// the category axis and every remaining numeric column becomes a series, for
// both a line and a bar chart. Returns nils when the result has fewer than
// two columns.
func IndexedCharts(r *models.QueryResult) (line, bar *models.Chart) {
	if r == nil || len(r.Columns) < 2 {
		return nil, nil
	}

	labels := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		labels = append(labels, Text(row[0]))
	}

	var series []models.Series
	for i := 1; i < len(r.Columns); i++ {
		values := make([]float64, len(r.Rows))
		for j, row := range r.Rows {
			values[j], _ = Number(row[i])
		}
		series = append(series, models.Series{Name: r.Columns[i].Name, Values: values})
	}

	line = &models.Chart{Kind: "line", Labels: labels, Series: series}
	bar = &models.Chart{Kind: "bar", Labels: labels, Series: series}
	return line, bar
}
