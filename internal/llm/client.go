// Package llm provides the semantic fallback suggester: a client for an
// OpenAI-compatible chat completions endpoint that proposes gloss
// candidates for text the local matcher could not resolve.
package llm

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/signbridgeapp/signbridge-server/internal/config"
	"github.com/signbridgeapp/signbridge-server/internal/errors"
)

const defaultTimeout = 20 * time.Second

// systemPrompt instructs the model to map input words onto the provided
// gloss list only, returning a strict JSON object.
const systemPrompt = `You are a translator from French to French Sign Language (LSF).
You have access to a specific list of available signs/videos.

Your task:
1. Analyze the input text.
2. Map keywords to the closest available sign gloss from the provided list.
3. If a word has no direct match, look for synonyms or related terms in the list.
4. If a phrase (like 'salut ca va') exists as a single gloss, map it to that gloss.
5. If absolutely no match is found, mark the word as "unmapped".
6. Return a JSON object with a list of "matches" in input order.

Available Signs: %s

Output Format:
{
    "matches": [
        { "word": "original_word_or_phrase", "gloss_match": "exact_gloss_from_list", "filename": "filename.mp4" }
    ],
    "unmapped": ["word1", "word2"]
}`

// Candidate is one model-proposed mapping. Candidates are untrusted
// until re-validated against the catalog.
type Candidate struct {
	Word       string `json:"word"`
	GlossMatch string `json:"gloss_match"`
	Filename   string `json:"filename"`
}

// Suggestion is the model's full answer for one input.
type Suggestion struct {
	Matches  []Candidate `json:"matches"`
	Unmapped []string    `json:"unmapped"`
}

// Suggester proposes gloss candidates for free text given the catalog's
// gloss inventory.
type Suggester interface {
	Suggest(ctx context.Context, text string, glosses []string) (*Suggestion, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	model   string
	apiKey  string
	logger  *slog.Logger
}

// NewClient creates a suggester client from config.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// Request/response wire types for the chat completions API.
type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Suggest asks the model to map text onto the available glosses. Every
// failure path returns a SemanticService error; callers degrade to zero
// candidates rather than failing the whole translation.
func (c *Client) Suggest(ctx context.Context, text string, glosses []string) (*Suggestion, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPrompt, strings.Join(glosses, ", "))},
			{Role: "user", Content: text},
		},
		Temperature:    0,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.SemanticService("encode request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.SemanticService("create request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("semantic fallback request",
		slog.String("model", c.model),
		slog.Int("glosses", len(glosses)),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.SemanticService("execute request").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.SemanticService("read response").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.SemanticService(
			fmt.Sprintf("endpoint returned status %d", resp.StatusCode))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, errors.SemanticService("decode response").WithCause(err)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.SemanticService("response has no choices")
	}

	return parseSuggestion(chat.Choices[0].Message.Content)
}

// parseSuggestion decodes the model's JSON answer. Anything that does not
// fit the expected shape is rejected wholesale; a half-parsed answer must
// not leak candidates into the pipeline.
func parseSuggestion(content string) (*Suggestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var s Suggestion
	if err := json.Unmarshal([]byte(content), &s, json.RejectUnknownMembers(true)); err != nil {
		return nil, errors.SemanticService("malformed model output").WithCause(err)
	}

	// Drop candidates that carry neither a gloss nor a filename; there is
	// nothing to re-validate them against.
	kept := s.Matches[:0]
	for _, m := range s.Matches {
		if m.GlossMatch != "" || m.Filename != "" {
			kept = append(kept, m)
		}
	}
	s.Matches = kept

	return &s, nil
}
