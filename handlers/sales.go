package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"retailpulse/cache"
	"retailpulse/models"
	"retailpulse/session"
	"retailpulse/tabular"
	"retailpulse/validation"
)

const salesViewName = "sales"

// Default bounds of the date-range picker.
const (
	defaultStartDate = "2023-01-01"
	defaultEndDate   = "2025-12-31"
)

const categoryListQuery = `SELECT DISTINCT BENCHMARK_CATG FROM Benchmark ORDER BY BENCHMARK_CATG`

const merchantListQuery = `SELECT DISTINCT THIRD_PARTY_MERCHANT_NAME FROM Third_Party_Merchants ORDER BY THIRD_PARTY_MERCHANT_NAME`

const subcategoryListQuery = `SELECT DISTINCT BENCHMARK_SUBCATG FROM Benchmark ORDER BY BENCHMARK_SUBCATG`

const subcategoryByCategoryQuery = `SELECT DISTINCT BENCHMARK_SUBCATG FROM Benchmark WHERE BENCHMARK_CATG = ? ORDER BY BENCHMARK_SUBCATG`

const salesQuery = `
SELECT
    p.BRAND,
    SPLIT_PART(p.TAXONOMY, ' > ', 1) AS CATEGORY,
    SPLIT_PART(p.TAXONOMY, ' > ', 2) AS SUBCATEGORY,
    s.MERCHANT_ID,
    m.THIRD_PARTY_MERCHANT_NAME,
    s.SALE_DATE,
    SUM(s.TOTAL_SALE_AMOUNT) AS TOTAL_SALES
FROM
    Sales s
JOIN
    Products p ON s.ITEM_ID = p.ITEM_ID
JOIN
    Third_Party_Merchants m ON s.MERCHANT_ID = m.MERCHANT_ID
WHERE
    s.SALE_DATE BETWEEN ? AND ?
    AND (? IS NULL OR p.BRAND = ?)
    AND (? IS NULL OR SPLIT_PART(p.TAXONOMY, ' > ', 1) = ?)
    AND (? IS NULL OR SPLIT_PART(p.TAXONOMY, ' > ', 2) = ?)
    AND (? IS NULL OR m.THIRD_PARTY_MERCHANT_NAME = ?)
GROUP BY
    p.BRAND,
    SPLIT_PART(p.TAXONOMY, ' > ', 1),
    SPLIT_PART(p.TAXONOMY, ' > ', 2),
    s.MERCHANT_ID,
    m.THIRD_PARTY_MERCHANT_NAME,
    s.SALE_DATE
ORDER BY
    s.SALE_DATE, TOTAL_SALES DESC`

const topPerBrandQuery = `
WITH ProductSales AS (
    SELECT
        p.BRAND,
        p.PRODUCT_TITLE,
        SUM(s.TOTAL_SALE_AMOUNT) AS TOTAL_SALES
    FROM
        Sales s
    JOIN
        Products p ON s.ITEM_ID = p.ITEM_ID
    WHERE
        s.SALE_DATE BETWEEN ? AND ?
        AND (? IS NULL OR p.BRAND = ?)
    GROUP BY
        p.BRAND, p.PRODUCT_TITLE
),
RankedProducts AS (
    SELECT
        BRAND,
        PRODUCT_TITLE,
        TOTAL_SALES,
        RANK() OVER (PARTITION BY BRAND ORDER BY TOTAL_SALES DESC) AS RANK
    FROM
        ProductSales
)
SELECT
    BRAND,
    PRODUCT_TITLE,
    TOTAL_SALES
FROM
    RankedProducts
WHERE
    RANK <= 5
ORDER BY
    BRAND, RANK`

// SalesViewHandler renders the sales performance page
// @Summary      Sales performance metrics
// @Description  Sales aggregates filtered by brand, taxonomy category/subcategory, merchant and date range, with conditional grouping charts and top products per brand
// @Tags         Views
// @Produce      json
// @Param        brand        query  string  false  "Brand filter, or All"
// @Param        category     query  string  false  "Category filter, or All"
// @Param        subcategory  query  string  false  "Subcategory filter, or All"
// @Param        merchant     query  string  false  "Merchant filter, or All"
// @Param        start        query  string  false  "Start date YYYY-MM-DD"
// @Param        end          query  string  false  "End date YYYY-MM-DD"
// @Param        X-Session-ID header string  false  "Session identifier"
// @Success      200  {object}  models.SalesView
// @Failure      422  {object}  map[string]string  "Incomplete or inverted date range"
// @Router       /api/views/sales [get]
func (h *Handlers) SalesViewHandler(c *gin.Context) {
	sess := h.session(c)

	view := models.SalesView{}
	var err error
	if view.Brands, err = h.lookup(c, sess, brandListQuery); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error fetching filter options: %v", err)})
		return
	}
	if view.Categories, err = h.lookup(c, sess, categoryListQuery); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error fetching filter options: %v", err)})
		return
	}
	if view.Merchants, err = h.lookup(c, sess, merchantListQuery); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error fetching filter options: %v", err)})
		return
	}

	brand := nullable(c.Query("brand"))
	category := nullable(c.Query("category"))
	subcategory := nullable(c.Query("subcategory"))
	merchant := nullable(c.Query("merchant"))

	// Subcategory choices narrow to the selected category.
	if category != nil {
		view.Subcategories, err = h.lookup(c, sess, subcategoryByCategoryQuery, category)
	} else {
		view.Subcategories, err = h.lookup(c, sess, subcategoryListQuery)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error fetching filter options: %v", err)})
		return
	}

	dates, err := salesDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		// A partial or inverted range invalidates the whole filter state:
		// nothing is queried.
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  err.Error(),
			"prompt": "Please select a valid start and end date and adjust your filters.",
		})
		return
	}

	result, err := h.runCached(c, sess, salesViewName, cache.SessionTTL, salesQuery,
		dates.Start, dates.End,
		brand, brand,
		category, category,
		subcategory, subcategory,
		merchant, merchant,
	)
	if err != nil {
		view.Summary = sectionError("Sales Summary", salesViewName, err)
	} else if result.Empty() {
		view.Summary = sectionEmptyMsg("Sales Summary",
			"No data found for the selected filters. Please adjust your filter criteria and try again.")
	} else {
		view.Summary = salesSummarySection(result)
		view.ByBrand = groupingSection(result, "Total Sales by Brand", "BRAND", brand == nil)
		view.ByCategory = groupingSection(result, "Total Sales by Category", "CATEGORY", category == nil)
		view.BySubcategory = groupingSection(result, "Total Sales by Subcategory", "SUBCATEGORY",
			subcategory == nil && category != nil)
		view.ByMerchant = groupingSection(result, "Total Sales by Merchant", "THIRD_PARTY_MERCHANT_NAME", merchant == nil)
		view.OverTime = salesOverTimeSection(result)
	}

	view.TopPerBrand = h.topPerBrandSection(c, sess, dates, brand)

	c.JSON(http.StatusOK, view)
}

// lookup runs a distinct-values query for a filter control through the
// session cache.
func (h *Handlers) lookup(c *gin.Context, sess *session.Session, query string, params ...interface{}) ([]string, error) {
	result, err := h.runCached(c, sess, salesViewName, cache.SessionTTL, query, params...)
	if err != nil {
		return nil, err
	}
	return append([]string{"All"}, tabular.FirstColumnStrings(result)...), nil
}

// salesDateRange applies the paired-input rule: both bounds default when
// neither is supplied, but a single bound is an invalid filter state.
func salesDateRange(start, end string) (validation.DateRange, error) {
	if start == "" && end == "" {
		start, end = defaultStartDate, defaultEndDate
	}
	return validation.ParseDateRange(start, end)
}

func salesSummarySection(result *models.QueryResult) models.Section {
	section := sectionOK("Sales Summary")
	section.Table = result.Table()

	_, dailyTotals := tabular.GroupSumOrdered(result, "SALE_DATE", "TOTAL_SALES")
	var avgDaily float64
	if len(dailyTotals) > 0 {
		for _, t := range dailyTotals {
			avgDaily += t
		}
		avgDaily /= float64(len(dailyTotals))
	}

	section.Metrics = []models.Metric{
		{Label: "Total Sales", Value: round2(tabular.Sum(result, "TOTAL_SALES"))},
		{Label: "Average Daily Sales", Value: round2(avgDaily)},
		{Label: "Number of Transactions", Value: len(result.Rows)},
	}
	return section
}

// groupingSection renders a "total sales by X" bar chart, or marks the
// section skipped when a specific value is already selected for that filter.
func groupingSection(result *models.QueryResult, title, column string, show bool) models.Section {
	if !show {
		return models.Section{Title: title, State: models.SectionSkipped}
	}

	labels, totals := tabular.GroupSum(result, column, "TOTAL_SALES")
	section := sectionOK(title)
	section.Charts = []models.Chart{*tabular.GroupedChart("bar", title, "TOTAL_SALES", labels, totals)}
	return section
}

func salesOverTimeSection(result *models.QueryResult) models.Section {
	const title = "Total Sales Over Time"

	labels, totals := tabular.GroupSumOrdered(result, "SALE_DATE", "TOTAL_SALES")
	section := sectionOK(title)
	section.Charts = []models.Chart{*tabular.GroupedChart("line", title, "TOTAL_SALES", labels, totals)}
	return section
}

func (h *Handlers) topPerBrandSection(c *gin.Context, sess *session.Session, dates validation.DateRange, brand interface{}) models.Section {
	const title = "Top 5 Products per Brand"

	result, err := h.runCached(c, sess, salesViewName, cache.SessionTTL, topPerBrandQuery,
		dates.Start, dates.End, brand, brand)
	if err != nil {
		return sectionError(title, salesViewName, err)
	}
	if result.Empty() {
		return sectionEmptyMsg(title, "No data found for top-performing products.")
	}

	section := sectionOK(title)
	section.Table = result.Table()

	// One chart per brand, rows already ordered by brand and rank.
	brandIdx := result.ColumnIndex("BRAND")
	titleIdx := result.ColumnIndex("PRODUCT_TITLE")
	salesIdx := result.ColumnIndex("TOTAL_SALES")

	var current string
	var chart *models.Chart
	for _, row := range result.Rows {
		rowBrand := tabular.Text(row[brandIdx])
		if chart == nil || rowBrand != current {
			if chart != nil {
				section.Charts = append(section.Charts, *chart)
			}
			current = rowBrand
			chart = &models.Chart{
				Kind:   "bar",
				Title:  "Top 5 Products for " + rowBrand,
				Series: []models.Series{{Name: "TOTAL_SALES"}},
			}
		}
		chart.Labels = append(chart.Labels, tabular.Text(row[titleIdx]))
		n, _ := tabular.Number(row[salesIdx])
		chart.Series[0].Values = append(chart.Series[0].Values, n)
	}
	if chart != nil {
		section.Charts = append(section.Charts, *chart)
	}
	return section
}
