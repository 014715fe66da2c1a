package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"retailpulse/ai"
	"retailpulse/models"
	"retailpulse/service"
	"retailpulse/tabular"
)

const chatViewName = "chat"

// chatSuggestions are the canned prompts offered on an empty transcript.
var chatSuggestions = []string{
	"Which store has the highest average sales price?",
	"What are the top 10 products by sales in the Furniture category?",
	"Which brand has the highest sales during October and November of 2024?",
	"Which product categories have the highest sales growth over the last 6 months?",
}

// ChatMessageHandler processes one chat turn
// @Summary      Send a chat message
// @Description  Appends the user turn, issues one blocking analyst call, and on success appends and renders the assistant turn. SQL blocks are executed fresh against the warehouse. On analyst failure the turn is aborted: the transcript keeps only the user's message.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request       body    models.ChatMessageRequest  true  "User message"
// @Param        X-Session-ID  header  string                     false "Session identifier"
// @Success      200  {object}  models.ChatMessageResponse
// @Failure      400  {object}  map[string]string          "Invalid request"
// @Failure      502  {object}  models.ChatErrorResponse   "Analyst request failed"
// @Failure      503  {object}  map[string]string          "Analyst not configured"
// @Router       /api/chat/message [post]
func (h *Handlers) ChatMessageHandler(c *gin.Context) {
	var req models.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if h.analyst == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analyst service is not configured"})
		return
	}

	sess := h.session(c)

	// One turn at a time: a second submission blocks until the in-flight
	// call and its rendering finish.
	sess.LockTurn()
	defer sess.UnlockTurn()

	userTurn := models.Turn{
		Role:    "user",
		Content: []models.ContentBlock{{Type: "text", Text: req.Message}},
	}
	sess.Append(userTurn)

	response, err := h.analyst.SendMessage(c.Request.Context(), req.Message)
	if err != nil {
		// The turn is aborted: no assistant turn is appended and the user's
		// message stays in the transcript.
		var reqErr *ai.RequestError
		if errors.As(err, &reqErr) {
			log.Printf("[CHAT] analyst request %s failed with status %d", reqErr.RequestID, reqErr.Status)
			c.JSON(http.StatusBadGateway, models.ChatErrorResponse{
				Error:     "Analyst request failed",
				RequestID: reqErr.RequestID,
				Status:    reqErr.Status,
				Body:      reqErr.Body,
			})
			return
		}
		log.Printf("[CHAT] analyst call failed: %v", err)
		c.JSON(http.StatusBadGateway, models.ChatErrorResponse{Error: err.Error()})
		return
	}

	assistantTurn := models.Turn{Role: "assistant", Content: response.Content}
	sess.Append(assistantTurn)

	ctx := service.WithViewLabel(c.Request.Context(), chatViewName)
	c.JSON(http.StatusOK, models.ChatMessageResponse{
		SessionID: sess.ID,
		RequestID: response.RequestID,
		Turns: []models.RenderedTurn{
			h.renderTurn(ctx, userTurn),
			h.renderTurn(ctx, assistantTurn),
		},
	})
}

// ChatTranscriptHandler renders the running transcript
// @Summary      Get the chat transcript
// @Description  Returns every turn in append order, re-rendering SQL blocks with a fresh execution
// @Tags         Chat
// @Produce      json
// @Param        X-Session-ID  header  string  false "Session identifier"
// @Success      200  {object}  map[string][]models.RenderedTurn
// @Router       /api/chat/transcript [get]
func (h *Handlers) ChatTranscriptHandler(c *gin.Context) {
	sess := h.session(c)

	ctx := service.WithViewLabel(c.Request.Context(), chatViewName)
	turns := sess.Transcript()
	rendered := make([]models.RenderedTurn, 0, len(turns))
	for _, turn := range turns {
		rendered = append(rendered, h.renderTurn(ctx, turn))
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sess.ID, "turns": rendered})
}

// ChatClearHandler resets the transcript
// @Summary      Clear the chat transcript
// @Description  Truncates the session transcript; no warehouse calls are made
// @Tags         Chat
// @Produce      json
// @Param        X-Session-ID  header  string  false "Session identifier"
// @Success      200  {object}  map[string]string
// @Router       /api/chat/clear [post]
func (h *Handlers) ChatClearHandler(c *gin.Context) {
	sess := h.session(c)
	sess.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "Chat cleared", "session_id": sess.ID})
}

// ChatSuggestionsHandler lists the canned starter prompts
// @Summary      Chat prompt suggestions
// @Tags         Chat
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Router       /api/chat/suggestions [get]
func (h *Handlers) ChatSuggestionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": chatSuggestions})
}

// CreateChatSessionHandler mints a new session
// @Summary      Create a chat session
// @Description  Returns a fresh session id with its own transcript and query cache
// @Tags         Chat
// @Produce      json
// @Success      201  {object}  map[string]string
// @Router       /api/chat/sessions [post]
func (h *Handlers) CreateChatSessionHandler(c *gin.Context) {
	sess := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"session_id": sess.ID})
}

// renderTurn renders content blocks strictly in array order. SQL statements
// are always executed fresh, never through the cache: a single-row result
// renders as a flat table, a multi-row result as a tabbed table/line/bar
// view keyed by the first column.
func (h *Handlers) renderTurn(ctx context.Context, turn models.Turn) models.RenderedTurn {
	rendered := models.RenderedTurn{Role: turn.Role}

	for _, block := range turn.Content {
		switch block.Type {
		case "text":
			rendered.Blocks = append(rendered.Blocks, models.RenderedBlock{
				Type: "text",
				Text: block.Text,
			})
		case "sql":
			rendered.Blocks = append(rendered.Blocks, h.renderSQLBlock(ctx, block.Statement))
		}
	}

	return rendered
}

func (h *Handlers) renderSQLBlock(ctx context.Context, statement string) models.RenderedBlock {
	block := models.RenderedBlock{Type: "sql", Statement: statement}

	result, err := h.warehouse.Query(ctx, statement)
	if err != nil {
		block.Warning = "Error executing query: " + err.Error()
		return block
	}

	block.Table = result.Table()
	if len(result.Rows) > 1 {
		block.Tabbed = true
		block.LineChart, block.BarChart = tabular.IndexedCharts(result)
	}
	return block
}
