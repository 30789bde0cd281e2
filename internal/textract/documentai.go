package textract

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"tickettools/internal/logger"
)

const (
	// MaxDocumentSizeBytes is the maximum document size for synchronous processing (20MB)
	MaxDocumentSizeBytes = 20 * 1024 * 1024
)

// DocumentAIConfig holds configuration for the Document AI backend.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	Location string

	// ProcessorID is the Document AI processor ID.
	ProcessorID string

	// Timeout is the maximum time to wait for processing. Default: 60 seconds.
	Timeout time.Duration
}

// DocumentAITextExtractor implements TextExtractor using Google Document AI.
type DocumentAITextExtractor struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAITextExtractor creates an extractor with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
// Requires: GOOGLE_PROJECT_ID, GOOGLE_PROCESSOR_ID; GOOGLE_LOCATION defaults to "us".
func NewDocumentAITextExtractor(ctx context.Context) (TextExtractor, error) {
	const op = "NewDocumentAITextExtractor"

	config := DocumentAIConfig{
		ProjectID:   getEnvVar("GOOGLE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
		Location:    getEnvVar("GOOGLE_LOCATION", "GOOGLE_CLOUD_LOCATION"),
		ProcessorID: getEnvVar("GOOGLE_PROCESSOR_ID", "DOCUMENT_AI_PROCESSOR_ID"),
		Timeout:     60 * time.Second,
	}

	if config.ProjectID == "" {
		return nil, WrapExtractionError(op, ErrInvalidConfiguration, "GOOGLE_PROJECT_ID or GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapExtractionError(op, ErrInvalidConfiguration, "GOOGLE_PROCESSOR_ID or DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	var clientOptions []option.ClientOption

	// Regional endpoint for non-US locations
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapExtractionError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapExtractionError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAITextExtractor{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}, nil
}

// NewDocumentAITextExtractorWithConfig creates an extractor with explicit config and client (for testing).
func NewDocumentAITextExtractorWithConfig(config DocumentAIConfig, client *documentai.DocumentProcessorClient) TextExtractor {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &DocumentAITextExtractor{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// ExtractText extracts the full plain text from a PDF document.
func (p *DocumentAITextExtractor) ExtractText(ctx context.Context, pdfData io.Reader) (string, error) {
	result, err := p.ExtractTextWithMetadata(ctx, pdfData)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// ExtractTextWithMetadata extracts text along with processing metadata.
func (p *DocumentAITextExtractor) ExtractTextWithMetadata(ctx context.Context, pdfData io.Reader) (*Result, error) {
	const op = "ExtractTextWithMetadata"
	startTime := time.Now()

	pdfBytes, err := io.ReadAll(pdfData)
	if err != nil {
		return nil, WrapExtractionError(op, err, "failed to read PDF data")
	}

	if len(pdfBytes) > MaxDocumentSizeBytes {
		return nil, WrapExtractionError(op, ErrPDFTooLarge, fmt.Sprintf("file size: %d bytes", len(pdfBytes)))
	}

	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return nil, WrapExtractionError(op, ErrInvalidPDF, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: p.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
	}

	resp, err := p.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, fmt.Sprintf("Document AI call failed: %v", err))
	}

	if resp.Document == nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, "no document in response")
	}

	text := resp.Document.Text
	if text == "" {
		return nil, WrapExtractionError(op, ErrEmptyDocument, "")
	}

	pageCount := len(resp.Document.Pages)
	languages := detectedLanguages(resp.Document)

	p.log.Debug().
		Int("page_count", pageCount).
		Int("text_length", len(text)).
		Msg("Document AI extraction completed")

	processedAt := time.Now()
	return &Result{
		Text:               text,
		PageCount:          pageCount,
		LanguageCodes:      languages,
		ProcessedAt:        processedAt,
		ProcessingDuration: processedAt.Sub(startTime),
	}, nil
}

// Close closes the underlying Document AI client.
func (p *DocumentAITextExtractor) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// processorName builds the fully-qualified processor resource name.
func (p *DocumentAITextExtractor) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		p.config.ProjectID, p.config.Location, p.config.ProcessorID)
}

// detectedLanguages collects unique language codes reported per page.
func detectedLanguages(doc *documentaipb.Document) []string {
	seen := make(map[string]bool)
	var languages []string
	for _, page := range doc.Pages {
		for _, lang := range page.DetectedLanguages {
			if lang.LanguageCode != "" && !seen[lang.LanguageCode] {
				seen[lang.LanguageCode] = true
				languages = append(languages, lang.LanguageCode)
			}
		}
	}
	return languages
}

// getEnvVar returns the first non-empty environment variable from the given keys.
func getEnvVar(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
