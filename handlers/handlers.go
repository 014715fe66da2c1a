package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"retailpulse/ai"
	"retailpulse/cache"
	"retailpulse/db"
	"retailpulse/models"
	"retailpulse/service"
	"retailpulse/session"
)

// @title           RetailPulse Analytics API
// @version         1.0
// @description     Interactive retail analytics over a Snowflake warehouse: product, sales and benchmarking dashboards plus a Cortex Analyst chat bridge

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

// WarehouseClient executes SQL against the shared warehouse connection.
type WarehouseClient interface {
	Query(ctx context.Context, query string) (*models.QueryResult, error)
	QueryParams(ctx context.Context, query string, params ...interface{}) (*models.QueryResult, error)
	IsConnected() bool
}

// AnalystClient issues one blocking text-to-SQL call per chat turn.
type AnalystClient interface {
	SendMessage(ctx context.Context, prompt string) (*ai.Response, error)
}

type Handlers struct {
	warehouse WarehouseClient
	analyst   AnalystClient
	sessions  *session.Store
	results   *service.ResultsStorage
	history   *db.HistoryStore
}

func New(warehouse WarehouseClient, analyst AnalystClient, sessions *session.Store, results *service.ResultsStorage, history *db.HistoryStore) *Handlers {
	return &Handlers{
		warehouse: warehouse,
		analyst:   analyst,
		sessions:  sessions,
		results:   results,
		history:   history,
	}
}

// session resolves the caller's session from the X-Session-ID header,
// lazily creating one. Each session owns its query cache.
func (h *Handlers) session(c *gin.Context) *session.Session {
	return h.sessions.GetOrCreate(c.GetHeader("X-Session-ID"))
}

// runCached executes a query through the session cache: a live entry skips
// the warehouse entirely, anything else is computed and stored under the
// fingerprint of the exact query text and ordered parameter tuple.
func (h *Handlers) runCached(c *gin.Context, sess *session.Session, view string, ttl time.Duration, query string, params ...interface{}) (*models.QueryResult, error) {
	fingerprint := cache.Fingerprint(query, params...)
	return sess.Cache.Do(fingerprint, ttl, func() (*models.QueryResult, error) {
		ctx := service.WithViewLabel(c.Request.Context(), view)
		return h.warehouse.QueryParams(ctx, query, params...)
	})
}

// nullable maps the "All"/empty filter choice to a NULL bind value for the
// (? IS NULL OR col = ?) predicate pattern.
func nullable(value string) interface{} {
	if value == "" || value == "All" {
		return nil
	}
	return value
}

// Section constructors for the four rendering states.

func sectionOK(title string) models.Section {
	return models.Section{Title: title, State: models.SectionOK}
}

func sectionEmpty(title string) models.Section {
	return models.Section{Title: title, State: models.SectionEmpty, Message: "No data available."}
}

func sectionEmptyMsg(title, message string) models.Section {
	return models.Section{Title: title, State: models.SectionEmpty, Message: message}
}

func sectionError(title string, view string, err error) models.Section {
	log.Printf("[%s] query failed: %v", view, err)
	return models.Section{Title: title, State: models.SectionError, Message: "Error executing query: " + err.Error()}
}

func sectionPrompt(title, message string) models.Section {
	return models.Section{Title: title, State: models.SectionPrompt, Message: message}
}
