package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"retailpulse/models"
)

const messagePath = "/api/v2/cortex/analyst/message"

// RequestError carries the identifying details of a failed analyst call:
// the remote request id, the HTTP status and the response body. The turn
// that triggered it is aborted; nothing is retried.
type RequestError struct {
	RequestID string
	Status    int
	Body      string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("analyst request (id: %s) failed with status %d: %s", e.RequestID, e.Status, e.Body)
}

// Response is a parsed analyst reply: the assistant content blocks in wire
// order plus the request id from the X-Snowflake-Request-Id header.
type Response struct {
	Content   []models.ContentBlock
	RequestID string
}

// AnalystService translates natural-language prompts into warehouse SQL via
// the Cortex Analyst endpoint.
type AnalystService struct {
	httpClient   *http.Client
	baseURL      string
	semanticView string
	token        string
}

func New(host string, semanticView string, token string) *AnalystService {
	return NewForEndpoint("https://"+host, semanticView, token)
}

// NewForEndpoint constructs a service against an explicit base URL, used by
// tests to point at a local server.
func NewForEndpoint(baseURL string, semanticView string, token string) *AnalystService {
	return &AnalystService{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL:      baseURL,
		semanticView: semanticView,
		token:        token,
	}
}

type messageRequest struct {
	Messages     []models.Turn `json:"messages"`
	SemanticView string        `json:"semantic_view"`
}

type messageResponse struct {
	Message struct {
		Content []models.ContentBlock `json:"content"`
	} `json:"message"`
}

// SendMessage issues one synchronous analyst call for prompt and blocks
// until the endpoint responds or errors. A status >= 400 or a transport
// failure yields an error and no content.
func (s *AnalystService) SendMessage(ctx context.Context, prompt string) (*Response, error) {
	reqBody := messageRequest{
		Messages: []models.Turn{
			{
				Role:    "user",
				Content: []models.ContentBlock{{Type: "text", Text: prompt}},
			},
		},
		SemanticView: s.semanticView,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+messagePath, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Snowflake Token=%q", s.token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	requestID := resp.Header.Get("X-Snowflake-Request-Id")

	if resp.StatusCode >= 400 {
		return nil, &RequestError{
			RequestID: requestID,
			Status:    resp.StatusCode,
			Body:      string(body),
		}
	}

	var parsed messageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &Response{
		Content:   parsed.Message.Content,
		RequestID: requestID,
	}, nil
}
