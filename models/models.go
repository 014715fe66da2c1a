package models

// Column describes one projected column of a warehouse query result.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// QueryResult holds a fully materialized warehouse result set. Column order
// follows the SELECT projection order of the issuing query and row values are
// aligned to the column list. A result is never mutated after it is returned.
type QueryResult struct {
	Columns []Column        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (r *QueryResult) ColumnIndex(name string) int {
	for i, c := range r.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (r *QueryResult) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// Table renders the result for API responses. Column order and row values are
// carried over exactly as returned by the warehouse.
func (r *QueryResult) Table() *Table {
	if r == nil {
		return &Table{Columns: []string{}, Rows: [][]interface{}{}}
	}
	return &Table{Columns: r.ColumnNames(), Rows: r.Rows}
}

// Table is the wire form of a tabular rendering.
type Table struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Metric is a single summary figure shown alongside a view section.
type Metric struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

// Series is one named line of numeric values within a chart.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// ScatterPoint is one bubble of a scatter chart.
type ScatterPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

// Chart is a renderer-agnostic chart payload. Labels carry the category (or
// x) axis in row order; Series carry the plotted values. Scatter charts use
// Points instead.
type Chart struct {
	Kind   string         `json:"kind"` // bar | line | pie | sunburst | scatter
	Title  string         `json:"title,omitempty"`
	Labels []string       `json:"labels,omitempty"`
	Series []Series       `json:"series,omitempty"`
	Points []ScatterPoint `json:"points,omitempty"`
}

// Section states.
const (
	SectionOK     = "ok"
	SectionEmpty  = "empty"  // query ran, zero rows: render "no data"
	SectionError  = "error"  // query failed: warning shown, page continues
	SectionPrompt = "prompt" // filters incomplete: no query was issued
	// A specific filter value hides its grouping section, mirroring the
	// conditional displays of the sales page.
	SectionSkipped = "skipped"
)

// Section is one block of a dashboard view: a table, charts and metrics plus
// the state that tells the frontend how to render it.
type Section struct {
	Title   string   `json:"title"`
	State   string   `json:"state"`
	Message string   `json:"message,omitempty"`
	Table   *Table   `json:"table,omitempty"`
	Charts  []Chart  `json:"charts,omitempty"`
	Metrics []Metric `json:"metrics,omitempty"`
}

// ProductsView is the payload of the product performance page.
type ProductsView struct {
	Brands             []string `json:"brands"`
	TopProducts        Section  `json:"top_products"`
	AveragePrices      Section  `json:"average_prices"`
	Availability       Section  `json:"availability"`
	AvailabilitySearch Section  `json:"availability_search"`
	Reviews            Section  `json:"reviews"`
}

// SalesView is the payload of the sales performance page.
type SalesView struct {
	Brands        []string `json:"brands"`
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Merchants     []string `json:"merchants"`
	Summary       Section  `json:"summary"`
	ByBrand       Section  `json:"by_brand"`
	ByCategory    Section  `json:"by_category"`
	BySubcategory Section  `json:"by_subcategory"`
	ByMerchant    Section  `json:"by_merchant"`
	OverTime      Section  `json:"over_time"`
	TopPerBrand   Section  `json:"top_per_brand"`
}

// BenchmarkingView is the payload of the benchmarking and customer
// insights page.
type BenchmarkingView struct {
	Brands              []string `json:"brands"`
	BenchmarkBrands     []string `json:"benchmark_brands"`
	Stores              []string `json:"stores"`
	PriceComparison     Section  `json:"price_comparison"`
	CompetitorPricing   Section  `json:"competitor_pricing"`
	CategoryPerformance Section  `json:"category_performance"`
	PaymentMethods      Section  `json:"payment_methods"`
	Segmentation        Section  `json:"segmentation"`
}

// ContentBlock is one tagged unit of a chat turn: plain text or an executable
// SQL statement. The json shape matches the analyst wire format.
type ContentBlock struct {
	Type      string `json:"type"` // text | sql
	Text      string `json:"text,omitempty"`
	Statement string `json:"statement,omitempty"`
}

// Turn is one message of the chat transcript. Content blocks render strictly
// in array order.
type Turn struct {
	Role    string         `json:"role"` // user | assistant
	Content []ContentBlock `json:"content"`
}

// RenderedBlock is a content block plus whatever its rendering produced. SQL
// blocks carry the fresh execution result: a flat table for single-row
// results, or a tabbed table/line/bar rendering for multi-row ones.
type RenderedBlock struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Statement string `json:"statement,omitempty"`
	Table     *Table `json:"table,omitempty"`
	Tabbed    bool   `json:"tabbed,omitempty"`
	LineChart *Chart `json:"line_chart,omitempty"`
	BarChart  *Chart `json:"bar_chart,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

type RenderedTurn struct {
	Role   string          `json:"role"`
	Blocks []RenderedBlock `json:"blocks"`
}

type ChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatMessageResponse struct {
	SessionID string         `json:"session_id"`
	RequestID string         `json:"request_id,omitempty"`
	Turns     []RenderedTurn `json:"turns"`
}

type ChatErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
	Status    int    `json:"status,omitempty"`
	Body      string `json:"body,omitempty"`
}

// QueryHistoryEntry is one audit record of an executed warehouse statement.
type QueryHistoryEntry struct {
	View       string `json:"view,omitempty"`
	SQL        string `json:"sql"`
	ParamCount int    `json:"param_count"`
	DurationMS int64  `json:"duration_ms"`
	RowCount   int    `json:"row_count"`
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// ResultFile is the saved form of an exported query result.
type ResultFile struct {
	Filename  string          `json:"filename,omitempty"`
	Query     string          `json:"query,omitempty"`
	Timestamp string          `json:"timestamp"`
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	RowCount  int             `json:"row_count"`
	Error     string          `json:"error,omitempty"`
}

type ResultFileInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	Format   string `json:"format"`
}
