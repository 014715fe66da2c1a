package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"retailpulse/cache"
	"retailpulse/models"
	"retailpulse/session"
	"retailpulse/tabular"
)

const productsViewName = "products"

const brandListQuery = `SELECT DISTINCT BRAND FROM Products ORDER BY BRAND`

const topProductsQuery = `
SELECT
    p.PRODUCT_TITLE,
    SUM(s.QUANTITY_SOLD) AS TOTAL_QUANTITY_SOLD,
    COUNT(s.SALE_ID) AS TOTAL_SALES
FROM
    Sales s
JOIN
    Products p ON s.ITEM_ID = p.ITEM_ID
WHERE
    (? IS NULL OR p.BRAND = ?)
GROUP BY
    p.PRODUCT_TITLE
ORDER BY
    TOTAL_QUANTITY_SOLD DESC
LIMIT 10`

const avgPriceQuery = `
SELECT
    p.PRODUCT_TITLE,
    AVG(s.SALE_PRICE) AS AVERAGE_SALE_PRICE,
    COUNT(s.SALE_ID) AS TOTAL_SALES,
    MIN(s.SALE_PRICE) AS MIN_PRICE,
    MAX(s.SALE_PRICE) AS MAX_PRICE
FROM
    Sales s
JOIN
    Products p ON s.ITEM_ID = p.ITEM_ID
WHERE
    (? IS NULL OR p.BRAND = ?)
GROUP BY
    p.PRODUCT_TITLE
ORDER BY
    AVERAGE_SALE_PRICE DESC`

const availabilityQuery = `
SELECT
    a.AVAILABILITY_INDICATOR,
    COUNT(a.ITEM_ID) AS PRODUCT_COUNT
FROM
    Availability a
JOIN
    Products p ON a.ITEM_ID = p.ITEM_ID
WHERE
    (? IS NULL OR p.BRAND = ?)
GROUP BY
    a.AVAILABILITY_INDICATOR
ORDER BY
    PRODUCT_COUNT DESC`

const availabilitySearchQuery = `
SELECT
    p.PRODUCT_TITLE,
    p.BRAND,
    a.AVAILABILITY_INDICATOR,
    p.SKU
FROM
    Products p
JOIN
    Availability a ON p.ITEM_ID = a.ITEM_ID
WHERE
    (LOWER(p.PRODUCT_TITLE) LIKE '%' || LOWER(?) || '%'
    OR LOWER(p.BRAND) LIKE '%' || LOWER(?) || '%')
    AND (? IS NULL OR p.BRAND = ?)
ORDER BY
    a.AVAILABILITY_INDICATOR, p.PRODUCT_TITLE`

const reviewQuery = `
SELECT
    p.PRODUCT_TITLE,
    AVG(r.ITEM_REVIEW_RATING) AS AVERAGE_RATING,
    SUM(r.ITEM_REVIEW_COUNT) AS TOTAL_REVIEWS,
    COUNT(DISTINCT p.ITEM_ID) AS PRODUCT_COUNT
FROM
    Reviews r
JOIN
    Products p ON r.ITEM_ID = p.ITEM_ID
WHERE
    (? IS NULL OR p.BRAND = ?)
GROUP BY
    p.PRODUCT_TITLE
ORDER BY
    AVERAGE_RATING DESC`

// ProductsViewHandler renders the product performance page
// @Summary      Product performance metrics
// @Description  Top sellers, pricing, availability and review insights, filterable by brand, title search and price range
// @Tags         Views
// @Produce      json
// @Param        brand          query  string  false  "Brand filter, or All"
// @Param        search         query  string  false  "Product title substring filter"
// @Param        price_min      query  number  false  "Minimum average sale price"
// @Param        price_max      query  number  false  "Maximum average sale price"
// @Param        product_query  query  string  false  "Availability search term"
// @Param        X-Session-ID   header string  false  "Session identifier"
// @Success      200  {object}  models.ProductsView
// @Router       /api/views/products [get]
func (h *Handlers) ProductsViewHandler(c *gin.Context) {
	sess := h.session(c)
	brand := nullable(c.Query("brand"))

	view := models.ProductsView{}

	brands, err := h.runCached(c, sess, productsViewName, cache.ViewTTL, brandListQuery)
	if err != nil {
		// No brand list means no page; the connection is treated as dead
		// for this view.
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error fetching brands: %v", err)})
		return
	}
	view.Brands = append([]string{"All"}, tabular.FirstColumnStrings(brands)...)

	view.TopProducts = h.topProductsSection(c, sess, brand)
	view.AveragePrices = h.avgPriceSection(c, sess, brand)
	view.Availability = h.availabilitySection(c, sess, brand)
	view.AvailabilitySearch = h.availabilitySearchSection(c, sess, brand)
	view.Reviews = h.reviewSection(c, sess, brand)

	c.JSON(http.StatusOK, view)
}

func (h *Handlers) topProductsSection(c *gin.Context, sess *session.Session, brand interface{}) models.Section {
	const title = "Top 10 Products by Quantity Sold"

	result, err := h.runCached(c, sess, productsViewName, cache.ViewTTL, topProductsQuery, brand, brand)
	if err != nil {
		return sectionError(title, productsViewName, err)
	}
	if result.Empty() {
		return sectionEmpty(title)
	}

	section := sectionOK(title)
	section.Table = result.Table()
	if chart := tabular.BarChart(result, title, "PRODUCT_TITLE", "TOTAL_QUANTITY_SOLD"); chart != nil {
		section.Charts = []models.Chart{*chart}
	}

	_, maxQty, _ := tabular.MinMax(result, "TOTAL_QUANTITY_SOLD")
	section.Metrics = []models.Metric{
		{Label: "Top Seller Qty", Value: int(maxQty)},
		{Label: "Total Products Sold", Value: int(tabular.Sum(result, "TOTAL_QUANTITY_SOLD"))},
		{Label: "Avg Qty per Product", Value: int(tabular.Mean(result, "TOTAL_QUANTITY_SOLD"))},
		{Label: "Total Sales Transactions", Value: int(tabular.Sum(result, "TOTAL_SALES"))},
	}
	return section
}

func (h *Handlers) avgPriceSection(c *gin.Context, sess *session.Session, brand interface{}) models.Section {
	const title = "Average Sale Price per Product"

	result, err := h.runCached(c, sess, productsViewName, cache.ViewTTL, avgPriceQuery, brand, brand)
	if err != nil {
		return sectionError(title, productsViewName, err)
	}
	if result.Empty() {
		return sectionEmpty(title)
	}

	// Search and price-range filtering happen on the returned rows, not in
	// SQL, so narrowing the filters never re-queries the warehouse.
	filtered := tabular.MatchFold(result, "PRODUCT_TITLE", c.Query("search"))
	filtered = tabular.InRange(filtered, "AVERAGE_SALE_PRICE", parseFloat(c.Query("price_min")), parseFloat(c.Query("price_max")))

	if filtered.Empty() {
		return sectionEmptyMsg(title, "No products match the search criteria.")
	}

	section := sectionOK(title)
	section.Table = filtered.Table()
	return section
}

func (h *Handlers) availabilitySection(c *gin.Context, sess *session.Session, brand interface{}) models.Section {
	const title = "Product Availability Status"

	result, err := h.runCached(c, sess, productsViewName, cache.ViewTTL, availabilityQuery, brand, brand)
	if err != nil {
		return sectionError(title, productsViewName, err)
	}
	if result.Empty() {
		return sectionEmpty(title)
	}

	section := sectionOK(title)
	section.Table = result.Table()
	if chart := tabular.BarChart(result, title, "AVAILABILITY_INDICATOR", "PRODUCT_COUNT"); chart != nil {
		section.Charts = []models.Chart{*chart}
	}

	statusIdx := result.ColumnIndex("AVAILABILITY_INDICATOR")
	countIdx := result.ColumnIndex("PRODUCT_COUNT")
	for _, row := range result.Rows {
		count, _ := tabular.Number(row[countIdx])
		section.Metrics = append(section.Metrics, models.Metric{
			Label: "Status: " + tabular.Text(row[statusIdx]),
			Value: int(count),
		})
	}
	return section
}

func (h *Handlers) availabilitySearchSection(c *gin.Context, sess *session.Session, brand interface{}) models.Section {
	const title = "Product Availability Search"

	term := c.Query("product_query")
	if term == "" {
		return sectionPrompt(title, "Enter a product name to check its availability status.")
	}

	result, err := h.runCached(c, sess, productsViewName, cache.ViewTTL, availabilitySearchQuery, term, term, brand, brand)
	if err != nil {
		return sectionError(title, productsViewName, err)
	}
	if result.Empty() {
		return sectionEmptyMsg(title, fmt.Sprintf("No products found matching '%s'. Try a different search term.", term))
	}

	section := sectionOK(title)
	section.Message = fmt.Sprintf("Found %d product(s) matching '%s'", len(result.Rows), term)
	section.Table = result.Table()
	return section
}

func (h *Handlers) reviewSection(c *gin.Context, sess *session.Session, brand interface{}) models.Section {
	const title = "Product Review Insights"

	result, err := h.runCached(c, sess, productsViewName, cache.ViewTTL, reviewQuery, brand, brand)
	if err != nil {
		return sectionError(title, productsViewName, err)
	}
	if result.Empty() {
		return sectionEmptyMsg(title, "No reviews found.")
	}

	minRating, maxRating, _ := tabular.MinMax(result, "AVERAGE_RATING")
	section := sectionOK(title)
	section.Table = result.Table()
	section.Metrics = []models.Metric{
		{Label: "Avg Rating (All)", Value: round2(tabular.Mean(result, "AVERAGE_RATING"))},
		{Label: "Highest Rated", Value: round2(maxRating)},
		{Label: "Lowest Rated", Value: round2(minRating)},
		{Label: "Total Reviews", Value: int(tabular.Sum(result, "TOTAL_REVIEWS"))},
	}

	// Rows arrive sorted by rating, so the extremes frame the section.
	titleIdx := result.ColumnIndex("PRODUCT_TITLE")
	section.Metrics = append(section.Metrics, models.Metric{
		Label: "Top Performer",
		Value: tabular.Text(result.Rows[0][titleIdx]),
	})
	if len(result.Rows) > 1 {
		section.Metrics = append(section.Metrics, models.Metric{
			Label: "Needs Attention",
			Value: tabular.Text(result.Rows[len(result.Rows)-1][titleIdx]),
		})
	}
	return section
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
