package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BorisDmv/tweetbot/internal/config"
	"github.com/BorisDmv/tweetbot/internal/models"
)

const (
	defaultAPIURL       = "https://api.anthropic.com"
	defaultModel        = "claude-3-haiku-20240307"
	defaultMaxTokens    = 150
	defaultTemperature  = 0.8
	defaultLabel        = "AI being AI"
	anthropicAPIVersion = "2023-06-01"
)

const (
	plainSystemPrompt   = "You are an expert comedy writer known for clever, witty tweets that go viral."
	personaSystemPrompt = "You are an expert comedy writer who can perfectly mimic the tone, style, and perspectives of different tech personalities."
	plainUserPrompt     = "Write a funny, witty tweet that would make people laugh. Keep it under 280 characters."
)

// GenerationError is returned when the model call fails or its reply
// cannot be used.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generate tweet: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

type Config struct {
	APIKey           string
	APIURL           string
	Model            string
	MaxTokens        int
	Temperature      float64
	PersonaMode      string
	AttributionLabel string
}

// ConfigFrom maps process configuration onto generator settings.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		APIKey:           cfg.ClaudeAPIKey,
		APIURL:           cfg.ClaudeAPIURL,
		Model:            cfg.ClaudeModel,
		MaxTokens:        cfg.ClaudeMaxTokens,
		Temperature:      cfg.ClaudeTemperature,
		PersonaMode:      cfg.PersonaMode,
		AttributionLabel: cfg.AttributionLabel,
	}
}

// Generator writes one tweet per call through the Anthropic Messages API.
type Generator struct {
	client      *http.Client
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	personas    bool
	label       string
	pick        func(n int) int
	logger      *logrus.Logger
}

func NewGenerator(cfg Config, logger *logrus.Logger) *Generator {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature < 0 {
		temperature = defaultTemperature
	}
	label := cfg.AttributionLabel
	if label == "" {
		label = defaultLabel
	}
	return &Generator{
		client:      &http.Client{Timeout: 60 * time.Second},
		apiKey:      cfg.APIKey,
		apiURL:      apiURL,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		personas:    cfg.PersonaMode == config.PersonaModeRandom,
		label:       label,
		pick:        rand.Intn,
		logger:      logger,
	}
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate returns a fresh tweet. In persona mode the text carries an
// attribution line naming the chosen persona.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	var persona *models.Persona
	system, prompt := plainSystemPrompt, plainUserPrompt
	if g.personas {
		p := Personas[g.pick(len(Personas))]
		persona = &p
		system, prompt = personaSystemPrompt, PersonaPrompt(p)
	}

	text, err := g.complete(ctx, system, prompt)
	if err != nil {
		g.logger.WithError(err).Error("Error generating tweet with Claude")
		return "", &GenerationError{Err: err}
	}
	if persona != nil {
		text = Attribute(text, *persona, g.label)
	}
	return text, nil
}

func (g *Generator) complete(ctx context.Context, system, prompt string) (string, error) {
	payload, err := json.Marshal(messagesRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		System:      system,
		Messages:    []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("anthropic: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", g.apiKey)
	req.Header.Set("Anthropic-Version", anthropicAPIVersion)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("anthropic: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var decoded messagesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}
	if len(decoded.Content) == 0 {
		return "", errors.New("anthropic: response has no content")
	}
	text := strings.TrimSpace(decoded.Content[0].Text)
	if text == "" {
		return "", errors.New("anthropic: first content block has no text")
	}
	return text, nil
}

// PersonaPrompt asks for a tweet in the voice of p.
func PersonaPrompt(p models.Persona) string {
	return fmt.Sprintf("Write a funny, witty tweet (under 280 characters) as if it was written by %s, %s "+
		"The tweet should be humorous and relate to AI, technology, or the future in a way that reflects their personality and viewpoints.",
		p.Name, p.Description)
}

// Attribute appends the "- Name (label)" signature.
func Attribute(text string, p models.Persona, label string) string {
	return fmt.Sprintf("%s\n\n- %s (%s)", text, p.Name, label)
}
