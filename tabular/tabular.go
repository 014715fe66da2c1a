// Package tabular post-processes materialized query results: the substring,
// range and set filters the views apply client-side, plus the presentation
// aggregates computed from the returned rows.
package tabular

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"retailpulse/models"
)

// Number coerces a scanned scalar to float64. Warehouse drivers hand back a
// mix of int64, float64, decimal strings and raw text depending on the
// column type.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case nil:
		return 0, false
	default:
		f, err := strconv.ParseFloat(fmt.Sprintf("%v", v), 64)
		return f, err == nil
	}
}

// Text renders a scanned scalar for label/axis use.
func Text(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FilterRows returns a fresh result holding only the rows keep accepts. The
// column list is shared; rows are never mutated.
func FilterRows(r *models.QueryResult, keep func(row []interface{}) bool) *models.QueryResult {
	if r == nil {
		return nil
	}

	filtered := &models.QueryResult{Columns: r.Columns}
	for _, row := range r.Rows {
		if keep(row) {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return filtered
}

// MatchFold keeps rows whose named column contains term, case-insensitively.
// An empty term keeps every row.
func MatchFold(r *models.QueryResult, column, term string) *models.QueryResult {
	if term == "" {
		return r
	}

	idx := r.ColumnIndex(column)
	if idx < 0 {
		return r
	}

	lower := strings.ToLower(term)
	return FilterRows(r, func(row []interface{}) bool {
		return strings.Contains(strings.ToLower(Text(row[idx])), lower)
	})
}

// Equals keeps rows whose named column equals value exactly.
func Equals(r *models.QueryResult, column, value string) *models.QueryResult {
	idx := r.ColumnIndex(column)
	if idx < 0 {
		return r
	}

	return FilterRows(r, func(row []interface{}) bool {
		return Text(row[idx]) == value
	})
}

// InRange keeps rows whose named numeric column lies within the given bounds.
// A nil bound is open.
func InRange(r *models.QueryResult, column string, min, max *float64) *models.QueryResult {
	if min == nil && max == nil {
		return r
	}

	idx := r.ColumnIndex(column)
	if idx < 0 {
		return r
	}

	return FilterRows(r, func(row []interface{}) bool {
		n, ok := Number(row[idx])
		if !ok {
			return false
		}
		if min != nil && n < *min {
			return false
		}
		if max != nil && n > *max {
			return false
		}
		return true
	})
}

// AtLeast keeps rows whose named numeric column is >= threshold.
func AtLeast(r *models.QueryResult, column string, threshold float64) *models.QueryResult {
	return InRange(r, column, &threshold, nil)
}

// Sum totals the named numeric column. Non-numeric cells are skipped.
func Sum(r *models.QueryResult, column string) float64 {
	idx := r.ColumnIndex(column)
	if r == nil || idx < 0 {
		return 0
	}

	var total float64
	for _, row := range r.Rows {
		if n, ok := Number(row[idx]); ok {
			total += n
		}
	}
	return total
}

// Mean averages the named numeric column over rows with a numeric value.
func Mean(r *models.QueryResult, column string) float64 {
	idx := r.ColumnIndex(column)
	if r == nil || idx < 0 {
		return 0
	}

	var total float64
	var count int
	for _, row := range r.Rows {
		if n, ok := Number(row[idx]); ok {
			total += n
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// MinMax returns the extremes of the named numeric column; ok is false when
// no row holds a numeric value.
func MinMax(r *models.QueryResult, column string) (min, max float64, ok bool) {
	idx := r.ColumnIndex(column)
	if r == nil || idx < 0 {
		return 0, 0, false
	}

	for _, row := range r.Rows {
		n, numeric := Number(row[idx])
		if !numeric {
			continue
		}
		if !ok || n < min {
			min = n
		}
		if !ok || n > max {
			max = n
		}
		ok = true
	}
	return min, max, ok
}

// Strings extracts the named column as text, in row order.
func Strings(r *models.QueryResult, column string) []string {
	if r == nil {
		return nil
	}

	idx := r.ColumnIndex(column)
	if idx < 0 {
		return nil
	}

	out := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, Text(row[idx]))
	}
	return out
}

// FirstColumnStrings extracts the first column as text, the shape of the
// "distinct values" lookup queries that populate filter controls.
func FirstColumnStrings(r *models.QueryResult) []string {
	if r == nil || len(r.Columns) == 0 {
		return nil
	}
	return Strings(r, r.Columns[0].Name)
}

// GroupSum aggregates valueColumn by keyColumn and returns the groups sorted
// by descending total, the shape every "total sales by X" chart uses.
func GroupSum(r *models.QueryResult, keyColumn, valueColumn string) (labels []string, totals []float64) {
	keyIdx := r.ColumnIndex(keyColumn)
	valIdx := r.ColumnIndex(valueColumn)
	if keyIdx < 0 || valIdx < 0 {
		return nil, nil
	}

	sums := make(map[string]float64)
	var order []string
	for _, row := range r.Rows {
		key := Text(row[keyIdx])
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		if n, ok := Number(row[valIdx]); ok {
			sums[key] += n
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return sums[order[i]] > sums[order[j]]
	})

	totals = make([]float64, len(order))
	for i, key := range order {
		totals[i] = sums[key]
	}
	return order, totals
}

// GroupSumOrdered aggregates like GroupSum but keeps first-seen key order,
// used for time axes where row order is the sort order.
func GroupSumOrdered(r *models.QueryResult, keyColumn, valueColumn string) (labels []string, totals []float64) {
	keyIdx := r.ColumnIndex(keyColumn)
	valIdx := r.ColumnIndex(valueColumn)
	if keyIdx < 0 || valIdx < 0 {
		return nil, nil
	}

	sums := make(map[string]float64)
	var order []string
	for _, row := range r.Rows {
		key := Text(row[keyIdx])
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		if n, ok := Number(row[valIdx]); ok {
			sums[key] += n
		}
	}

	totals = make([]float64, len(order))
	for i, key := range order {
		totals[i] = sums[key]
	}
	return order, totals
}

// CountBy counts rows per distinct value of the named column.
func CountBy(r *models.QueryResult, column string) map[string]int {
	idx := r.ColumnIndex(column)
	if r == nil || idx < 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, row := range r.Rows {
		counts[Text(row[idx])]++
	}
	return counts
}
