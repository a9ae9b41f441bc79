package nl2sql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
// It implements both Translator and Explainer.
type OpenAIClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAIClient{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

const translateSystemPrompt = "You convert a user question into exactly one SQL SELECT statement " +
	"in a restricted dialect. Allowed: SELECT with column names, *, DISTINCT, or COUNT(*); " +
	"a single FROM table without alias; WHERE conditions combined only with AND using " +
	"=, <, >, <=, >=, BETWEEN, or ILIKE; GROUP BY one column together with COUNT(*); " +
	"ORDER BY one column ASC or DESC; LIMIT. " +
	"Forbidden: JOIN, OR, subqueries, arithmetic, functions other than COUNT(*), " +
	"and any statement that modifies data. " +
	"Return ONLY the SQL. No markdown, no explanation."

func (c *OpenAIClient) Translate(ctx context.Context, req Request) (Result, error) {
	tablesJSON, err := json.Marshal(req.Tables)
	if err != nil {
		return Result{}, fmt.Errorf("marshal table context: %w", err)
	}
	userPrompt := fmt.Sprintf(
		"Available tables (JSON):\n%s\n\nQuestion:\n%s",
		string(tablesJSON),
		strings.TrimSpace(req.Question),
	)

	content, err := c.complete(ctx, translateSystemPrompt, userPrompt)
	if err != nil {
		return Result{}, err
	}
	sql := stripMarkdownSQL(content)
	if strings.TrimSpace(sql) == "" {
		return Result{}, fmt.Errorf("model returned empty SQL")
	}
	return Result{
		SQL:      sql,
		Provider: "openai-compatible",
		Model:    c.model,
	}, nil
}

const explainSystemPrompt = "You summarize query results for a chat user in one or two friendly " +
	"sentences. Mention concrete values from the data when helpful. Never mention SQL, " +
	"databases, or how the answer was produced."

// Explain turns result rows into a short conversational answer. Rows are
// truncated before prompting so large result sets stay within the model's
// context.
func (c *OpenAIClient) Explain(ctx context.Context, question string, rows []map[string]any, count int64) (string, error) {
	sample := rows
	if len(sample) > 20 {
		sample = sample[:20]
	}
	rowsJSON, err := json.Marshal(sample)
	if err != nil {
		return "", fmt.Errorf("marshal result rows: %w", err)
	}
	userPrompt := fmt.Sprintf(
		"Question:\n%s\n\nMatching rows: %d\nData (JSON, first %d rows):\n%s",
		strings.TrimSpace(question), count, len(sample), string(rowsJSON),
	)

	answer, err := c.complete(ctx, explainSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("model returned empty answer")
	}
	return answer, nil
}

func (c *OpenAIClient) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": c.temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request chat completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawRespBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("chat completion failed status=%d body=%s", resp.StatusCode, string(rawRespBody))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(rawRespBody, &parsed); err != nil {
		return "", fmt.Errorf("decode chat completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func stripMarkdownSQL(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
