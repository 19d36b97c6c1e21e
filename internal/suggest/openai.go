package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/flashmaint/internal/flashcard"
	"github.com/JonMunkholm/flashmaint/internal/logging"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o"
	DefaultTemperature = 0.3
	defaultTimeout     = 60 * time.Second

	// maxResponseBody bounds how much of a completion response is read.
	maxResponseBody = 4 * 1024 * 1024
)

// Options configures the OpenAI client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// OpenAI implements Auditor with the chat completions API.
type OpenAI struct {
	client *http.Client
	opts   Options
}

// NewOpenAI creates a client. Empty options fall back to the defaults.
func NewOpenAI(opts Options) *OpenAI {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewOpenAIWithClient(logging.NewClient(timeout), opts)
}

// NewOpenAIWithClient creates a client with a custom HTTP client.
func NewOpenAIWithClient(client *http.Client, opts Options) *OpenAI {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &OpenAI{client: client, opts: opts}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Audit sends one batch for review and returns the parsed findings.
func (c *OpenAI) Audit(ctx context.Context, cards []flashcard.Projection) ([]flashcard.Finding, error) {
	if len(cards) == 0 {
		return nil, nil
	}

	prompt, err := buildPrompt(cards)
	if err != nil {
		return nil, err
	}

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseFindings(ctx, content)
}

func (c *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	logger := logging.FromContext(ctx)

	payload, err := json.Marshal(chatRequest{
		Model:       c.opts.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("suggestion API error (status %d): %s", resp.StatusCode, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("suggestion API returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in suggestion response")
	}

	attrs := []any{"model", c.opts.Model, "duration", time.Since(start)}
	if parsed.Usage != nil {
		attrs = append(attrs, "tokens_in", parsed.Usage.PromptTokens, "tokens_out", parsed.Usage.CompletionTokens)
	}
	logger.Debug("suggestion response received", attrs...)

	return parsed.Choices[0].Message.Content, nil
}

// buildPrompt renders the editorial review instructions for one batch.
func buildPrompt(cards []flashcard.Projection) (string, error) {
	data, err := json.Marshal(cards)
	if err != nil {
		return "", fmt.Errorf("failed to encode cards: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an expert editor of Arabic-Spanish dictionaries. Review these entries.\n")
	b.WriteString("Look for:\n")
	b.WriteString("1. Serious translation errors.\n")
	b.WriteString("2. Inconsistencies (e.g. category 'Animales' but the word means 'Coche').\n")
	b.WriteString("3. Typos.\n\n")
	b.WriteString("DATA: ")
	b.Write(data)
	b.WriteString("\n\nReturn a JSON array with the errors found:\n")
	b.WriteString(`[{"id": 123, "problem": "Wrong translation / wrong category", "suggestion": "Correct value", "field_to_fix": "spanish"}]`)
	b.WriteString("\nfield_to_fix must be one of \"arabic\", \"spanish\" or \"category\". Write suggestions for the spanish and category fields in Spanish.\n")
	b.WriteString("If everything is fine, return [].")
	return b.String(), nil
}

// parseFindings decodes the model output. Markdown code fences around the
// JSON are tolerated.
func parseFindings(ctx context.Context, content string) ([]flashcard.Finding, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var findings []flashcard.Finding
	if err := json.Unmarshal([]byte(content), &findings); err != nil {
		return nil, fmt.Errorf("parsing suggestion response: %w", err)
	}

	out := findings[:0]
	for _, f := range findings {
		f.Field = flashcard.Field(strings.ToLower(strings.TrimSpace(string(f.Field))))
		if !f.Field.Auditable() {
			logging.FromContext(ctx).Warn("dropping finding with unsupported field", "id", f.RecordID, "field", f.Field)
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
