package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"retailpulse/cache"
	"retailpulse/models"
	"retailpulse/session"
	"retailpulse/tabular"
	"retailpulse/validation"
)

const benchmarkingViewName = "benchmarking"

const benchmarkBrandListQuery = `SELECT DISTINCT BENCHMARK_BRAND_NAME FROM Benchmark ORDER BY BENCHMARK_BRAND_NAME`

const benchmarkStoreListQuery = `SELECT DISTINCT BENCHMARK_STORE FROM Benchmark ORDER BY BENCHMARK_STORE`

const priceComparisonQuery = `
SELECT
    p.PRODUCT_TITLE,
    p.BRAND,
    pr.PRODUCT_PRICE,
    pr.BENCHMARK_BASE_PRICE,
    pr.BENCHMARK_SITE_PRICE,
    CASE
    WHEN pr.PRODUCT_PRICE > pr.BENCHMARK_SITE_PRICE THEN 'Above Benchmark'
    WHEN pr.PRODUCT_PRICE < pr.BENCHMARK_SITE_PRICE THEN 'Below Benchmark'
    ELSE 'At Benchmark'
    END AS PRICE_COMPARISON
FROM
    Products p
JOIN
    Pricing pr ON p.ITEM_ID = pr.ITEM_ID
ORDER BY
    PRICE_COMPARISON, p.PRODUCT_TITLE`

const benchmarkCategoryQuery = `
SELECT
    b.BENCHMARK_CATG,
    b.BENCHMARK_SUBCATG,
    SUM(s.TOTAL_SALE_AMOUNT) AS TOTAL_SALES
FROM
    Sales s
JOIN
    Benchmark b ON s.ITEM_ID = b.BENCHMARK_ID
GROUP BY
    b.BENCHMARK_CATG, b.BENCHMARK_SUBCATG
ORDER BY
    TOTAL_SALES DESC`

const paymentMethodsQuery = `
SELECT
    s.PAYMENT_METHOD,
    COUNT(s.SALE_ID) AS TOTAL_TRANSACTIONS
FROM
    Sales s
GROUP BY
    s.PAYMENT_METHOD
ORDER BY
    TOTAL_TRANSACTIONS DESC`

const customerSegmentationQuery = `
SELECT
    s.CUSTOMER_ID,
    SUM(s.TOTAL_SALE_AMOUNT) AS TOTAL_SPENDING,
    AVG(s.TOTAL_SALE_AMOUNT) AS AVERAGE_ORDER_VALUE,
    COUNT(s.SALE_ID) AS PURCHASE_FREQUENCY
FROM
    Sales s
GROUP BY
    s.CUSTOMER_ID
ORDER BY
    TOTAL_SPENDING DESC`

// BenchmarkingViewHandler renders the benchmarking and customer insights page
// @Summary      Benchmarking metrics and customer insights
// @Description  Price comparison against benchmarks, competitor pricing trends, category performance, payment methods and customer segmentation
// @Tags         Views
// @Produce      json
// @Param        brand        query  string  false  "Brand post-filter for price comparison, or All"
// @Param        comparison   query  string  false  "Price comparison class: All, Above Benchmark, Below Benchmark, At Benchmark"
// @Param        search       query  string  false  "Product title substring filter"
// @Param        trend_brand  query  string  false  "Benchmark brand for competitor pricing trends"
// @Param        store        query  []string false "Store filter, repeatable"
// @Param        start        query  string  false  "Start date YYYY-MM-DD"
// @Param        end          query  string  false  "End date YYYY-MM-DD"
// @Param        min_spending query  number  false  "Minimum total spending"
// @Param        min_frequency query number  false  "Minimum purchase frequency"
// @Param        X-Session-ID header string  false  "Session identifier"
// @Success      200  {object}  models.BenchmarkingView
// @Router       /api/views/benchmarking [get]
func (h *Handlers) BenchmarkingViewHandler(c *gin.Context) {
	sess := h.session(c)

	view := models.BenchmarkingView{}
	var err error
	if view.Brands, err = h.benchLookup(c, sess, brandListQuery); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error fetching filter options: %v", err)})
		return
	}
	if view.BenchmarkBrands, err = h.benchLookup(c, sess, benchmarkBrandListQuery); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error fetching filter options: %v", err)})
		return
	}
	if view.Stores, err = h.benchLookup(c, sess, benchmarkStoreListQuery); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error fetching filter options: %v", err)})
		return
	}

	view.PriceComparison = h.priceComparisonSection(c, sess)
	view.CompetitorPricing = h.competitorPricingSection(c, sess)
	view.CategoryPerformance = h.categoryPerformanceSection(c, sess)
	view.PaymentMethods = h.paymentMethodsSection(c, sess)
	view.Segmentation = h.segmentationSection(c, sess)

	c.JSON(http.StatusOK, view)
}

func (h *Handlers) benchLookup(c *gin.Context, sess *session.Session, query string) ([]string, error) {
	result, err := h.runCached(c, sess, benchmarkingViewName, cache.ViewTTL, query)
	if err != nil {
		return nil, err
	}
	return tabular.FirstColumnStrings(result), nil
}

func (h *Handlers) priceComparisonSection(c *gin.Context, sess *session.Session) models.Section {
	const title = "Price Comparison with Benchmarks"

	result, err := h.runCached(c, sess, benchmarkingViewName, cache.ViewTTL, priceComparisonQuery)
	if err != nil {
		return sectionError(title, benchmarkingViewName, err)
	}
	if result.Empty() {
		return sectionEmptyMsg(title, "No data available for price comparison.")
	}

	// Brand, comparison-class and title filters are applied to the returned
	// rows so the comparison query stays cacheable for every filter choice.
	filtered := result
	if brand := c.Query("brand"); brand != "" && brand != "All" {
		filtered = tabular.Equals(filtered, "BRAND", brand)
	}
	comparison := c.Query("comparison")
	if comparison != "" && comparison != "All" {
		filtered = tabular.Equals(filtered, "PRICE_COMPARISON", comparison)
	}
	filtered = tabular.MatchFold(filtered, "PRODUCT_TITLE", c.Query("search"))

	if filtered.Empty() {
		return sectionEmptyMsg(title, "Product not found. Please adjust your filters or search criteria.")
	}

	counts := tabular.CountBy(filtered, "PRICE_COMPARISON")
	section := sectionOK(title)
	section.Table = filtered.Table()
	for _, class := range []string{"At Benchmark", "Below Benchmark", "Above Benchmark"} {
		if comparison == "" || comparison == "All" || comparison == class {
			section.Metrics = append(section.Metrics, models.Metric{Label: class, Value: counts[class]})
		}
	}
	return section
}

func (h *Handlers) competitorPricingSection(c *gin.Context, sess *session.Session) models.Section {
	const title = "Competitor Pricing Trends"
	const prompt = "Please adjust the filters above to see competitor pricing trends."

	brand := c.Query("trend_brand")
	stores := c.QueryArray("store")

	// All inputs must be valid before any query is issued: a brand, at least
	// one store and a complete date range.
	if brand == "" || len(stores) == 0 {
		return sectionPrompt(title, prompt)
	}
	dates, err := validation.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		return sectionPrompt(title, prompt)
	}

	query, params := competitorPricingQuery(brand, stores, dates)
	result, err := h.runCached(c, sess, benchmarkingViewName, cache.ViewTTL, query, params...)
	if err != nil {
		return sectionError(title, benchmarkingViewName, err)
	}
	if result.Empty() {
		return sectionEmptyMsg(title, "No data available for competitor pricing trends.")
	}

	section := sectionOK(title)
	section.Table = result.Table()
	if chart := tabular.LineByGroup(result, "Competitor Pricing Trends Over Time",
		"PRICE_SCRAPE_DATE", "BENCHMARK_SITE_PRICE", "BENCHMARK_STORE"); chart != nil {
		section.Charts = []models.Chart{*chart}
	}
	return section
}

// competitorPricingQuery builds the trends statement with one placeholder per
// selected store; every filter value is bound, never interpolated.
func competitorPricingQuery(brand string, stores []string, dates validation.DateRange) (string, []interface{}) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(stores)), ", ")

	query := fmt.Sprintf(`
SELECT
    b.BENCHMARK_BRAND_NAME,
    pr.BENCHMARK_SITE_PRICE,
    b.BENCHMARK_STORE,
    b.BENCHMARK_CATG,
    b.BENCHMARK_SUBCATG,
    pr.PRICE_SCRAPE_DATE
FROM
    Benchmark b
JOIN
    Pricing pr ON b.BENCHMARK_ID = pr.BENCHMARK_ID
WHERE
    pr.BENCHMARK_SITE_PRICE IS NOT NULL
    AND b.BENCHMARK_BRAND_NAME = ?
    AND b.BENCHMARK_STORE IN (%s)
    AND pr.PRICE_SCRAPE_DATE BETWEEN ? AND ?
ORDER BY
    pr.BENCHMARK_SITE_PRICE DESC`, placeholders)

	params := make([]interface{}, 0, len(stores)+3)
	params = append(params, brand)
	for _, store := range stores {
		params = append(params, store)
	}
	params = append(params, dates.Start, dates.End)

	return query, params
}

func (h *Handlers) categoryPerformanceSection(c *gin.Context, sess *session.Session) models.Section {
	const title = "Benchmark Category Performance"

	result, err := h.runCached(c, sess, benchmarkingViewName, cache.ViewTTL, benchmarkCategoryQuery)
	if err != nil {
		return sectionError(title, benchmarkingViewName, err)
	}
	if result.Empty() {
		return sectionEmptyMsg(title, "No data available for benchmark category performance.")
	}

	section := sectionOK(title)
	section.Table = result.Table()
	if chart := tabular.SunburstChart(result, title, "BENCHMARK_CATG", "BENCHMARK_SUBCATG", "TOTAL_SALES"); chart != nil {
		section.Charts = []models.Chart{*chart}
	}
	return section
}

func (h *Handlers) paymentMethodsSection(c *gin.Context, sess *session.Session) models.Section {
	const title = "Top Payment Methods"

	result, err := h.runCached(c, sess, benchmarkingViewName, cache.ViewTTL, paymentMethodsQuery)
	if err != nil {
		return sectionError(title, benchmarkingViewName, err)
	}
	if result.Empty() {
		return sectionEmptyMsg(title, "No data available for payment methods.")
	}

	labels, totals := tabular.GroupSumOrdered(result, "PAYMENT_METHOD", "TOTAL_TRANSACTIONS")
	section := sectionOK(title)
	section.Table = result.Table()
	section.Charts = []models.Chart{*tabular.GroupedChart("pie", title, "TOTAL_TRANSACTIONS", labels, totals)}
	return section
}

func (h *Handlers) segmentationSection(c *gin.Context, sess *session.Session) models.Section {
	const title = "Customer Segmentation"

	result, err := h.runCached(c, sess, benchmarkingViewName, cache.ViewTTL, customerSegmentationQuery)
	if err != nil {
		return sectionError(title, benchmarkingViewName, err)
	}
	if result.Empty() {
		return sectionEmptyMsg(title, "No data available for customer segmentation.")
	}

	filtered := result
	if min := parseFloat(c.Query("min_spending")); min != nil {
		filtered = tabular.AtLeast(filtered, "TOTAL_SPENDING", *min)
	}
	if min := parseFloat(c.Query("min_frequency")); min != nil {
		filtered = tabular.AtLeast(filtered, "PURCHASE_FREQUENCY", *min)
	}

	if filtered.Empty() {
		return sectionEmptyMsg(title, "No data available for customer segmentation.")
	}

	section := sectionOK(title)
	section.Table = filtered.Table()
	if chart := tabular.ScatterChart(filtered, title,
		"CUSTOMER_ID", "PURCHASE_FREQUENCY", "TOTAL_SPENDING", "AVERAGE_ORDER_VALUE"); chart != nil {
		section.Charts = []models.Chart{*chart}
	}
	section.Metrics = []models.Metric{{Label: "Total Customers", Value: len(filtered.Rows)}}
	return section
}
