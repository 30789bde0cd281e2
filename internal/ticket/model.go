package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"tickettools/internal/logger"
	"tickettools/pkg/models"
)

// chatCompleter is the slice of the OpenAI client the extractor needs.
// *openai.Client satisfies it; tests substitute a canned implementation.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ModelConfig configures the model-backed extractor.
type ModelConfig struct {
	APIKey      string  // OpenRouter or OpenAI API key
	BaseURL     string  // API endpoint, defaults to OpenRouter
	Model       string  // Model identifier
	Temperature float32 // Sampling temperature
	MaxRetries  int     // Completion retry attempts
}

// ModelBackedExtractor extracts ticket details from raw text using a chat
// completion model, for documents neither heuristic layout recognizes.
type ModelBackedExtractor struct {
	client chatCompleter
	config ModelConfig
	log    zerolog.Logger
}

// NewModelBackedExtractor creates the extractor from environment variables.
// OPENROUTER_API_KEY (or OPENAI_API_KEY) is required; endpoint and model
// default to OpenRouter's free Mistral instruct model.
func NewModelBackedExtractor() (*ModelBackedExtractor, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := os.Getenv("OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}

	model := os.Getenv("EXTRACTION_MODEL")
	if model == "" {
		model = "mistralai/mistral-7b-instruct:free"
	}

	config := ModelConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       model,
		Temperature: parseFloatEnv("EXTRACTION_TEMPERATURE", 0.1),
		MaxRetries:  parseIntEnv("EXTRACTION_MAX_RETRIES", 2),
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL

	return NewModelBackedExtractorWithClient(openai.NewClientWithConfig(clientConfig), config), nil
}

// NewModelBackedExtractorWithClient creates the extractor with an explicit
// client, for testing and custom transports.
func NewModelBackedExtractorWithClient(client chatCompleter, config ModelConfig) *ModelBackedExtractor {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	return &ModelBackedExtractor{
		client: client,
		config: config,
		log:    logger.WithComponent("model-extractor"),
	}
}

// Extract sends the raw text to the model with a strict-JSON prompt, repairs
// and decodes the response, checks its shape, and normalizes it into a
// NormalizedInvoice. Transport errors are retried up to MaxRetries; a
// response that survives repair but fails to decode or fails the shape
// contract is returned as *StructuredExtractionError or
// *SchemaViolationError without retrying.
func (e *ModelBackedExtractor) Extract(ctx context.Context, rawText string) (*models.NormalizedInvoice, error) {
	const op = "ModelBackedExtractor.Extract"

	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyText
	}

	e.log.Debug().
		Str("model", e.config.Model).
		Int("text_length", len(rawText)).
		Msg("requesting structured extraction")

	var lastErr error
	for attempt := 1; attempt <= e.config.MaxRetries; attempt++ {
		resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       e.config.Model,
			Temperature: e.config.Temperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a strict extractor that returns only valid JSON with no extra text.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildExtractionPrompt(rawText),
				},
			},
		})
		if err != nil {
			lastErr = err
			e.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_retries", e.config.MaxRetries).
				Msg("completion request failed")
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no response choices from model")
			continue
		}

		return e.parseResponse(resp.Choices[0].Message.Content)
	}

	return nil, fmt.Errorf("%s: all %d attempts failed: %w", op, e.config.MaxRetries, lastErr)
}

// parseResponse runs the repair-decode-validate-normalize chain on a raw
// model answer.
func (e *ModelBackedExtractor) parseResponse(content string) (*models.NormalizedInvoice, error) {
	repaired, err := RepairModelJSON(content)
	if err != nil {
		return nil, &StructuredExtractionError{Err: err, Details: "response repair failed"}
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		e.log.Warn().Str("response", content).Msg("model returned undecodable JSON")
		return nil, &StructuredExtractionError{Err: err}
	}

	if err := validateResponseShape(doc); err != nil {
		return nil, err
	}

	invoice, err := Normalize(doc)
	if err != nil {
		return nil, err
	}

	e.log.Debug().
		Str("booking_ref", invoice.BookingReference).
		Int("flights", len(invoice.Flights)).
		Msg("structured extraction completed")

	return invoice, nil
}

// buildExtractionPrompt creates the user prompt. The example object pins the
// exact field names so the response can be normalized without key mapping.
func buildExtractionPrompt(rawText string) string {
	var prompt strings.Builder

	prompt.WriteString("Extract the airline ticket details from the following text and return ONLY a JSON object with this exact structure:\n\n")
	prompt.WriteString(`{
  "bookingReference": "string",
  "transactionId": "string",
  "passengerName": ["string"],
  "flights": [
    {
      "flightNumber": "string",
      "airline": "string",
      "from": "string",
      "to": "string",
      "departure": "DD MMM YYYY HH:MM",
      "arrival": "DD MMM YYYY HH:MM",
      "class": "string",
      "terminal": "string",
      "status": "string"
    }
  ]
}`)
	prompt.WriteString("\n\nRules:\n")
	prompt.WriteString("- Use null for values not present in the text\n")
	prompt.WriteString("- passengerName is always an array, even for a single passenger\n")
	prompt.WriteString("- Include every flight segment in order of departure\n")
	prompt.WriteString("- Return ONLY the JSON object, no markdown fences, no explanation\n")
	prompt.WriteString("\nTicket text:\n")
	prompt.WriteString(rawText)

	return prompt.String()
}

func parseIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseFloatEnv(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}
