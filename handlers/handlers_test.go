package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"retailpulse/ai"
	"retailpulse/models"
	"retailpulse/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type queryCall struct {
	query  string
	params []interface{}
}

// fakeWarehouse records every statement and answers via respond, which routes
// on the statement text.
type fakeWarehouse struct {
	mu      sync.Mutex
	calls   []queryCall
	respond func(query string, params []interface{}) (*models.QueryResult, error)
}

func (f *fakeWarehouse) Query(ctx context.Context, query string) (*models.QueryResult, error) {
	return f.QueryParams(ctx, query)
}

func (f *fakeWarehouse) QueryParams(ctx context.Context, query string, params ...interface{}) (*models.QueryResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, queryCall{query: query, params: params})
	f.mu.Unlock()

	if f.respond == nil {
		return &models.QueryResult{}, nil
	}
	return f.respond(query, params)
}

func (f *fakeWarehouse) IsConnected() bool { return true }

func (f *fakeWarehouse) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// callsMatching returns the recorded calls whose statement contains fragment.
func (f *fakeWarehouse) callsMatching(fragment string) []queryCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []queryCall
	for _, call := range f.calls {
		if strings.Contains(call.query, fragment) {
			matched = append(matched, call)
		}
	}
	return matched
}

type fakeAnalyst struct {
	mu       sync.Mutex
	calls    int
	response *ai.Response
	err      error
}

func (f *fakeAnalyst) SendMessage(ctx context.Context, prompt string) (*ai.Response, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func newTestHandlers(warehouse WarehouseClient, analyst AnalystClient) *Handlers {
	return New(warehouse, analyst, session.NewStore(), nil, nil)
}

func newTestRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.GET("/api/views/products", h.ProductsViewHandler)
	router.GET("/api/views/sales", h.SalesViewHandler)
	router.GET("/api/views/benchmarking", h.BenchmarkingViewHandler)
	router.POST("/api/chat/message", h.ChatMessageHandler)
	router.GET("/api/chat/transcript", h.ChatTranscriptHandler)
	router.POST("/api/chat/clear", h.ChatClearHandler)
	router.GET("/api/chat/suggestions", h.ChatSuggestionsHandler)
	router.POST("/api/chat/sessions", h.CreateChatSessionHandler)
	router.POST("/api/sql/execute", h.ExecuteSQLHandler)
	return router
}

func doGet(t *testing.T, router *gin.Engine, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doPost(t *testing.T, router *gin.Engine, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func singleColumn(name string, values ...interface{}) *models.QueryResult {
	r := &models.QueryResult{Columns: []models.Column{{Name: name, Type: "TEXT"}}}
	for _, v := range values {
		r.Rows = append(r.Rows, []interface{}{v})
	}
	return r
}

func resultOf(names []string, rows ...[]interface{}) *models.QueryResult {
	r := &models.QueryResult{Rows: rows}
	for _, n := range names {
		r.Columns = append(r.Columns, models.Column{Name: n, Type: "TEXT"})
	}
	return r
}
