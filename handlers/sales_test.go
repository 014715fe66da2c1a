package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/models"
)

func salesRespond(query string, params []interface{}) (*models.QueryResult, error) {
	switch {
	case strings.Contains(query, "DISTINCT BRAND"):
		return singleColumn("BRAND", "Peloton", "Tonal"), nil
	case strings.Contains(query, "DISTINCT BENCHMARK_CATG"):
		return singleColumn("BENCHMARK_CATG", "Fitness", "Furniture"), nil
	case strings.Contains(query, "DISTINCT THIRD_PARTY_MERCHANT_NAME"):
		return singleColumn("THIRD_PARTY_MERCHANT_NAME", "Amazon", "Wayfair"), nil
	case strings.Contains(query, "DISTINCT BENCHMARK_SUBCATG"):
		return singleColumn("BENCHMARK_SUBCATG", "Cardio", "Strength"), nil
	case strings.Contains(query, "RANK()"):
		return resultOf([]string{"BRAND", "PRODUCT_TITLE", "TOTAL_SALES"},
			[]interface{}{"Peloton", "Bike+", 4200.0},
			[]interface{}{"Peloton", "Tread", 3100.0},
			[]interface{}{"Tonal", "Smart Home Gym", 5900.0},
		), nil
	case strings.Contains(query, "SALE_DATE BETWEEN"):
		return resultOf(
			[]string{"BRAND", "CATEGORY", "SUBCATEGORY", "MERCHANT_ID", "THIRD_PARTY_MERCHANT_NAME", "SALE_DATE", "TOTAL_SALES"},
			[]interface{}{"Tonal", "Fitness", "Strength", int64(1), "Amazon", "2024-01-01", 100.0},
			[]interface{}{"Peloton", "Fitness", "Cardio", int64(2), "Wayfair", "2024-01-01", 200.0},
			[]interface{}{"Tonal", "Fitness", "Strength", int64(1), "Amazon", "2024-01-02", 400.0},
		), nil
	}
	return &models.QueryResult{}, nil
}

func TestSalesViewDefaultsDateRange(t *testing.T) {
	warehouse := &fakeWarehouse{respond: salesRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)

	calls := warehouse.callsMatching("SPLIT_PART")
	require.Len(t, calls, 1)
	require.Len(t, calls[0].params, 10)
	assert.Equal(t, "2023-01-01", calls[0].params[0])
	assert.Equal(t, "2025-12-31", calls[0].params[1])
	for i := 2; i < 10; i++ {
		assert.Nil(t, calls[0].params[i], "unset filters bind NULL")
	}

	var view models.SalesView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, []string{"All", "Peloton", "Tonal"}, view.Brands)
	assert.Equal(t, []string{"All", "Fitness", "Furniture"}, view.Categories)
	assert.Equal(t, models.SectionOK, view.Summary.State)
}

func TestSalesViewIncompleteDateRangeIssuesNoQuery(t *testing.T) {
	warehouse := &fakeWarehouse{respond: salesRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales?start=2024-01-01", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "both a start and an end date")
	assert.NotEmpty(t, body["prompt"])

	assert.Empty(t, warehouse.callsMatching("SPLIT_PART"),
		"a partial range invalidates the whole filter state")
	assert.Empty(t, warehouse.callsMatching("RANK()"))
}

func TestSalesViewInvertedDateRangeIssuesNoQuery(t *testing.T) {
	warehouse := &fakeWarehouse{respond: salesRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales?start=2025-06-01&end=2024-06-01", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, warehouse.callsMatching("SPLIT_PART"))
}

func TestSalesViewSummaryMetrics(t *testing.T) {
	warehouse := &fakeWarehouse{respond: salesRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.SalesView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	metrics := make(map[string]interface{})
	for _, m := range view.Summary.Metrics {
		metrics[m.Label] = m.Value
	}
	assert.EqualValues(t, 700, metrics["Total Sales"])
	// Two distinct sale dates: (300 + 400) / 2.
	assert.EqualValues(t, 350, metrics["Average Daily Sales"])
	assert.EqualValues(t, 3, metrics["Number of Transactions"])
}

func TestSalesViewGroupingSkippedForSpecificFilter(t *testing.T) {
	warehouse := &fakeWarehouse{respond: salesRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales?brand=Tonal", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.SalesView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Equal(t, models.SectionSkipped, view.ByBrand.State,
		"a specific brand hides the by-brand grouping")
	assert.Equal(t, models.SectionOK, view.ByCategory.State)
	assert.Equal(t, models.SectionOK, view.ByMerchant.State)
	assert.Equal(t, models.SectionSkipped, view.BySubcategory.State,
		"subcategory grouping only shows inside a chosen category")

	calls := warehouse.callsMatching("SPLIT_PART")
	require.Len(t, calls, 1)
	assert.Equal(t, "Tonal", calls[0].params[2])
}

func TestSalesViewSubcategoryGroupingInsideCategory(t *testing.T) {
	warehouse := &fakeWarehouse{respond: salesRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales?category=Fitness", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.SalesView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Equal(t, models.SectionSkipped, view.ByCategory.State)
	assert.Equal(t, models.SectionOK, view.BySubcategory.State)

	// Subcategory choices narrow to the selected category.
	narrowed := warehouse.callsMatching("WHERE BENCHMARK_CATG = ?")
	require.Len(t, narrowed, 1)
	assert.Equal(t, []interface{}{"Fitness"}, narrowed[0].params)
}

func TestSalesViewByBrandSortedByTotal(t *testing.T) {
	warehouse := &fakeWarehouse{respond: salesRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.SalesView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	require.Equal(t, models.SectionOK, view.ByBrand.State)
	require.Len(t, view.ByBrand.Charts, 1)
	assert.Equal(t, []string{"Tonal", "Peloton"}, view.ByBrand.Charts[0].Labels)
	assert.Equal(t, []float64{500, 200}, view.ByBrand.Charts[0].Series[0].Values)
}

func TestSalesViewOverTimeKeepsDateOrder(t *testing.T) {
	warehouse := &fakeWarehouse{respond: salesRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.SalesView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	require.Equal(t, models.SectionOK, view.OverTime.State)
	require.Len(t, view.OverTime.Charts, 1)
	chart := view.OverTime.Charts[0]
	assert.Equal(t, "line", chart.Kind)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, chart.Labels)
	assert.Equal(t, []float64{300, 400}, chart.Series[0].Values)
}

func TestSalesViewTopPerBrandOneChartPerBrand(t *testing.T) {
	warehouse := &fakeWarehouse{respond: salesRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.SalesView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	require.Equal(t, models.SectionOK, view.TopPerBrand.State)
	require.Len(t, view.TopPerBrand.Charts, 2)
	assert.Equal(t, "Top 5 Products for Peloton", view.TopPerBrand.Charts[0].Title)
	assert.Equal(t, []string{"Bike+", "Tread"}, view.TopPerBrand.Charts[0].Labels)
	assert.Equal(t, "Top 5 Products for Tonal", view.TopPerBrand.Charts[1].Title)
}

func TestSalesViewEmptyResultPromptsFilterAdjustment(t *testing.T) {
	warehouse := &fakeWarehouse{respond: func(query string, params []interface{}) (*models.QueryResult, error) {
		if strings.Contains(query, "SALE_DATE BETWEEN") || strings.Contains(query, "RANK()") {
			return &models.QueryResult{}, nil
		}
		return salesRespond(query, params)
	}}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doGet(t, router, "/api/views/sales?brand=Tonal&merchant=Wayfair", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.SalesView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Equal(t, models.SectionEmpty, view.Summary.State)
	assert.Contains(t, view.Summary.Message, "adjust your filter criteria")
}
