// Package openai implements transcribe.Transcriber on top of the OpenAI
// Whisper API.
package openai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Client is a Whisper-backed transcribe.Transcriber.
type Client struct {
	client *openai.Client
	model  string
}

// Config configures the Whisper client.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// Model is the transcription model. Empty uses whisper-1.
	Model string

	// BaseURL overrides the API endpoint. Empty uses the OpenAI default.
	BaseURL string
}

// NewClient creates a new Whisper transcription client.
func NewClient(cfg *Config) (*Client, error) {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Transcribe converts the audio file at path into trimmed text. Locale
// tags like "fr-FR" are reduced to the bare language code Whisper expects.
func (c *Client) Transcribe(ctx context.Context, path, language string) (string, error) {
	lang := language
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
		Language: lang,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// Close is a no-op; the OpenAI SDK holds no closable resources.
func (c *Client) Close() error {
	return nil
}
