package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/ai"
	"retailpulse/models"
)

func analystReply(blocks ...models.ContentBlock) *ai.Response {
	return &ai.Response{Content: blocks, RequestID: "req-42"}
}

func chatRespond(query string, params []interface{}) (*models.QueryResult, error) {
	if strings.Contains(query, "GROUP BY") {
		return resultOf([]string{"BRAND", "TOTAL_SALES"},
			[]interface{}{"Tonal", 5900.0},
			[]interface{}{"Peloton", 4200.0},
		), nil
	}
	return resultOf([]string{"STORE", "AVG_PRICE"}, []interface{}{"Amazon", 129.99}), nil
}

func TestChatMessageRendersBothTurns(t *testing.T) {
	warehouse := &fakeWarehouse{respond: chatRespond}
	analyst := &fakeAnalyst{response: analystReply(
		models.ContentBlock{Type: "text", Text: "Amazon has the highest average sales price."},
		models.ContentBlock{Type: "sql", Statement: "SELECT STORE, AVG(SALE_PRICE) AS AVG_PRICE FROM Sales LIMIT 1"},
	)}
	h := newTestHandlers(warehouse, analyst)
	router := newTestRouter(h)

	w := doPost(t, router, "/api/chat/message",
		`{"message": "Which store has the highest average sales price?"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "req-42", resp.RequestID)
	require.Len(t, resp.Turns, 2)

	user := resp.Turns[0]
	assert.Equal(t, "user", user.Role)
	require.Len(t, user.Blocks, 1)
	assert.Equal(t, "Which store has the highest average sales price?", user.Blocks[0].Text)

	// Blocks render in array order: the narration precedes its statement.
	assistant := resp.Turns[1]
	assert.Equal(t, "assistant", assistant.Role)
	require.Len(t, assistant.Blocks, 2)
	assert.Equal(t, "text", assistant.Blocks[0].Type)
	assert.Equal(t, "sql", assistant.Blocks[1].Type)

	// A single-row result renders as a flat table.
	sqlBlock := assistant.Blocks[1]
	require.NotNil(t, sqlBlock.Table)
	assert.False(t, sqlBlock.Tabbed)
	assert.Nil(t, sqlBlock.LineChart)
	assert.Len(t, sqlBlock.Table.Rows, 1)

	assert.Equal(t, 1, analyst.calls)
}

func TestChatMessageMultiRowRendersTabbed(t *testing.T) {
	warehouse := &fakeWarehouse{respond: chatRespond}
	analyst := &fakeAnalyst{response: analystReply(
		models.ContentBlock{Type: "sql", Statement: "SELECT BRAND, SUM(TOTAL_SALE_AMOUNT) AS TOTAL_SALES FROM Sales GROUP BY BRAND"},
	)}
	router := newTestRouter(newTestHandlers(warehouse, analyst))

	w := doPost(t, router, "/api/chat/message", `{"message": "sales by brand"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Turns, 2)
	block := resp.Turns[1].Blocks[0]
	assert.True(t, block.Tabbed)
	require.NotNil(t, block.LineChart)
	require.NotNil(t, block.BarChart)
	assert.Equal(t, []string{"Tonal", "Peloton"}, block.BarChart.Labels, "first column keys the charts")
}

func TestChatMessageAnalystFailureKeepsUserTurn(t *testing.T) {
	warehouse := &fakeWarehouse{respond: chatRespond}
	analyst := &fakeAnalyst{err: &ai.RequestError{RequestID: "req-9", Status: 429, Body: "rate limited"}}
	h := newTestHandlers(warehouse, analyst)
	router := newTestRouter(h)

	sid := map[string]string{"X-Session-ID": "chat-1"}

	w := doPost(t, router, "/api/chat/message", `{"message": "top brands?"}`, sid)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var errResp models.ChatErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "req-9", errResp.RequestID)
	assert.Equal(t, 429, errResp.Status)
	assert.Contains(t, errResp.Body, "rate limited")

	// The aborted turn leaves only the user's message in the transcript.
	w = doGet(t, router, "/api/chat/transcript", sid)
	require.Equal(t, http.StatusOK, w.Code)

	var transcript struct {
		Turns []models.RenderedTurn `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	require.Len(t, transcript.Turns, 1)
	assert.Equal(t, "user", transcript.Turns[0].Role)
	assert.Equal(t, "top brands?", transcript.Turns[0].Blocks[0].Text)

	assert.Equal(t, 1, analyst.calls, "a failed turn is never retried")
}

func TestChatMessageWithoutAnalystConfigured(t *testing.T) {
	warehouse := &fakeWarehouse{respond: chatRespond}
	router := newTestRouter(newTestHandlers(warehouse, nil))

	w := doPost(t, router, "/api/chat/message", `{"message": "hello"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 0, warehouse.callCount())
}

func TestChatMessageRejectsEmptyBody(t *testing.T) {
	router := newTestRouter(newTestHandlers(&fakeWarehouse{}, &fakeAnalyst{}))

	w := doPost(t, router, "/api/chat/message", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatTranscriptReexecutesSQL(t *testing.T) {
	warehouse := &fakeWarehouse{respond: chatRespond}
	analyst := &fakeAnalyst{response: analystReply(
		models.ContentBlock{Type: "sql", Statement: "SELECT STORE, AVG_PRICE FROM Sales LIMIT 1"},
	)}
	router := newTestRouter(newTestHandlers(warehouse, analyst))

	sid := map[string]string{"X-Session-ID": "chat-2"}

	w := doPost(t, router, "/api/chat/message", `{"message": "best store"}`, sid)
	require.Equal(t, http.StatusOK, w.Code)
	afterMessage := warehouse.callCount()

	w = doGet(t, router, "/api/chat/transcript", sid)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, afterMessage+1, warehouse.callCount(),
		"replaying the transcript runs the statement fresh, never from cache")
}

func TestChatSQLErrorRendersWarning(t *testing.T) {
	warehouse := &fakeWarehouse{respond: func(query string, params []interface{}) (*models.QueryResult, error) {
		return nil, assert.AnError
	}}
	analyst := &fakeAnalyst{response: analystReply(
		models.ContentBlock{Type: "sql", Statement: "SELECT * FROM Nope"},
	)}
	router := newTestRouter(newTestHandlers(warehouse, analyst))

	w := doPost(t, router, "/api/chat/message", `{"message": "broken"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, "a failed statement warns inside the turn, it does not abort it")

	var resp models.ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Turns, 2)
	block := resp.Turns[1].Blocks[0]
	assert.Contains(t, block.Warning, "Error executing query")
	assert.Nil(t, block.Table)
}

func TestChatClearTruncatesTranscript(t *testing.T) {
	warehouse := &fakeWarehouse{respond: chatRespond}
	analyst := &fakeAnalyst{response: analystReply(models.ContentBlock{Type: "text", Text: "hi"})}
	router := newTestRouter(newTestHandlers(warehouse, analyst))

	sid := map[string]string{"X-Session-ID": "chat-3"}

	doPost(t, router, "/api/chat/message", `{"message": "hello"}`, sid)
	baseline := warehouse.callCount()

	w := doPost(t, router, "/api/chat/clear", "", sid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, baseline, warehouse.callCount(), "clearing makes no warehouse calls")

	w = doGet(t, router, "/api/chat/transcript", sid)
	require.Equal(t, http.StatusOK, w.Code)

	var transcript struct {
		Turns []models.RenderedTurn `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	assert.Empty(t, transcript.Turns)
}

func TestChatSuggestions(t *testing.T) {
	router := newTestRouter(newTestHandlers(&fakeWarehouse{}, nil))

	w := doGet(t, router, "/api/chat/suggestions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Suggestions, 4)
	assert.Contains(t, resp.Suggestions[0], "highest average sales price")
}

func TestCreateChatSession(t *testing.T) {
	h := newTestHandlers(&fakeWarehouse{}, nil)
	router := newTestRouter(h)

	w := doPost(t, router, "/api/chat/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["session_id"])

	w2 := doPost(t, router, "/api/chat/sessions", "", nil)
	var resp2 map[string]string
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))
	assert.NotEqual(t, resp["session_id"], resp2["session_id"])
}
