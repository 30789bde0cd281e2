package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tickettools/internal/logger"
	"tickettools/internal/textract"
)

var textCmd = &cobra.Command{
	Use:   "text [pdf-file]",
	Short: "Extract raw text from a ticket PDF",
	Long: `Process a PDF file with Google Document AI or Cloud Vision and print the
extracted text.

Document AI (the default backend) uses a pretrained document processor and
handles dense, tabular ticket layouts well. Cloud Vision document text
detection is available as an alternative for accounts without a Document AI
processor. Both backends accept PDFs up to 20MB; Vision additionally limits
synchronous processing to 5 pages.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string

For the docai backend additionally:
  GOOGLE_PROJECT_ID (or GOOGLE_CLOUD_PROJECT)
  GOOGLE_PROCESSOR_ID (or DOCUMENT_AI_PROCESSOR_ID)
  GOOGLE_LOCATION - Processing location, defaults to "us"`,
	Example: `  # Extract text from a ticket PDF to stdout
  tickettools text ticket.pdf

  # Save extracted text to file
  tickettools text ticket.pdf -o extracted.txt

  # Use the Cloud Vision backend instead of Document AI
  tickettools text ticket.pdf --backend vision

  # Include metadata and output as JSON
  tickettools text ticket.pdf --metadata --json -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

// TextOutput represents the JSON output structure when --json flag is used
type TextOutput struct {
	Text               string    `json:"text"`
	PageCount          int       `json:"page_count,omitempty"`
	Confidence         float32   `json:"confidence,omitempty"`
	LanguageCodes      []string  `json:"language_codes,omitempty"`
	ProcessedAt        time.Time `json:"processed_at,omitempty"`
	ProcessingDuration string    `json:"processing_duration,omitempty"`
	FileName           string    `json:"file_name"`
	FileSize           int64     `json:"file_size"`
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	textCmd.Flags().String("backend", "", "Text extraction backend: docai or vision (default: $TEXT_BACKEND or docai)")
	textCmd.Flags().BoolP("metadata", "m", false, "Include metadata in output")
	textCmd.Flags().Bool("json", false, "Output as JSON")
	textCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runText(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("text")

	outputPath, _ := cmd.Flags().GetString("output")
	backend, _ := cmd.Flags().GetString("backend")
	includeMetadata, _ := cmd.Flags().GetBool("metadata")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]

	log.Info().
		Str("file", pdfPath).
		Str("backend", backend).
		Str("output", outputPath).
		Int("timeout", timeoutSecs).
		Msg("Starting text extraction")

	fileInfo, err := validatePDFFile(pdfPath, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	extractor, err := createTextExtractor(ctx, backend, log)
	if err != nil {
		return err
	}

	pdfFile, err := os.Open(pdfPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", pdfPath).
			Msg("Failed to open PDF file")
		return fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer func() {
		if closeErr := pdfFile.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close PDF file")
		}
	}()

	startTime := time.Now()
	result, err := extractor.ExtractTextWithMetadata(ctx, pdfFile)
	if err != nil {
		return handleExtractionError(err, log)
	}

	log.Info().
		Int("page_count", result.PageCount).
		Dur("duration", time.Since(startTime)).
		Int("text_length", len(result.Text)).
		Msg("Text extraction completed successfully")

	return outputTextResults(result, fileInfo, outputPath, jsonOutput, includeMetadata, log)
}

// validatePDFFile checks if the file exists, is readable, and appears to be a PDF
func validatePDFFile(pdfPath string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", pdfPath).
				Msg("PDF file not found")
			return nil, fmt.Errorf("PDF file not found: %s", pdfPath)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", pdfPath).
				Msg("Permission denied accessing PDF file")
			return nil, fmt.Errorf("permission denied accessing PDF file: %s", pdfPath)
		}
		return nil, fmt.Errorf("error accessing PDF file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", pdfPath).
			Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", pdfPath)
	}

	if !strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		log.Warn().
			Str("file", pdfPath).
			Msg("File does not have .pdf extension")
	}

	if fileInfo.Size() == 0 {
		log.Error().
			Str("file", pdfPath).
			Msg("PDF file is empty")
		return nil, fmt.Errorf("PDF file is empty: %s", pdfPath)
	}

	if fileInfo.Size() > textract.MaxDocumentSizeBytes {
		log.Error().
			Str("file", pdfPath).
			Int64("size", fileInfo.Size()).
			Int64("max_size", textract.MaxDocumentSizeBytes).
			Msg("PDF file exceeds maximum size limit")
		return nil, fmt.Errorf("PDF file too large (%d bytes). Maximum size is %d bytes (20MB)",
			fileInfo.Size(), textract.MaxDocumentSizeBytes)
	}

	return fileInfo, nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}

// createTextExtractor creates the selected text extraction backend
func createTextExtractor(ctx context.Context, backend string, log zerolog.Logger) (textract.TextExtractor, error) {
	if backend == "" {
		backend = os.Getenv("TEXT_BACKEND")
	}
	if backend == "" {
		backend = "docai"
	}

	hasCredentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" || os.Getenv("GOOGLE_CREDENTIALS") != ""
	if !hasCredentials {
		log.Error().Msg("Google Cloud credentials not configured")
		return nil, fmt.Errorf("Google Cloud credentials not configured. Please set one of:\n\n" +
			"1. Export GOOGLE_APPLICATION_CREDENTIALS with path to service account JSON:\n" +
			"   export GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n\n" +
			"2. Export GOOGLE_CREDENTIALS with inline JSON:\n" +
			"   export GOOGLE_CREDENTIALS='{\"type\":\"service_account\",\"project_id\":\"your-project\",...}'\n\n" +
			"3. Check that your .env file contains the credentials variables")
	}

	var extractor textract.TextExtractor
	var err error

	switch strings.ToLower(backend) {
	case "docai", "documentai", "document-ai":
		extractor, err = textract.NewDocumentAITextExtractor(ctx)
	case "vision":
		extractor, err = textract.NewGoogleVisionTextExtractor(ctx)
	default:
		return nil, fmt.Errorf("unknown text extraction backend: %q (expected docai or vision)", backend)
	}

	if err != nil {
		if errors.Is(err, textract.ErrMissingCredentials) {
			log.Error().
				Err(err).
				Msg("Google Cloud credentials validation failed")
			return nil, fmt.Errorf("Google Cloud credentials validation failed. Please verify:\n\n"+
				"1. Credentials file exists and is readable\n"+
				"2. JSON format is valid\n"+
				"3. Service account has proper permissions\n\n"+
				"Original error: %w", err)
		}
		if errors.Is(err, textract.ErrInvalidConfiguration) {
			log.Error().
				Err(err).
				Msg("Document AI configuration incomplete")
			return nil, fmt.Errorf("Document AI configuration incomplete. Please set:\n\n"+
				"   GOOGLE_PROJECT_ID (or GOOGLE_CLOUD_PROJECT)\n"+
				"   GOOGLE_PROCESSOR_ID (or DOCUMENT_AI_PROCESSOR_ID)\n\n"+
				"or switch to the Cloud Vision backend with --backend vision.\n\n"+
				"Original error: %w", err)
		}
		log.Error().
			Err(err).
			Str("backend", backend).
			Msg("Failed to create text extractor")
		return nil, fmt.Errorf("failed to create %s text extractor: %w", backend, err)
	}

	log.Debug().Str("backend", backend).Msg("Text extractor created successfully")
	return extractor, nil
}

// handleExtractionError provides user-friendly error messages for extraction failures
func handleExtractionError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Text extraction failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("text extraction timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("text extraction was canceled")
	case errors.Is(err, textract.ErrPDFTooLarge):
		return fmt.Errorf("PDF file is too large (maximum 20MB). Try compressing or splitting the file")
	case errors.Is(err, textract.ErrTooManyPages):
		return fmt.Errorf("PDF has too many pages (maximum 5 pages for the vision backend). Try splitting into smaller files or use --backend docai")
	case errors.Is(err, textract.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case errors.Is(err, textract.ErrEmptyDocument):
		return fmt.Errorf("no readable text found in the document. The PDF may contain only images or be corrupted")
	case strings.Contains(errStr, "Unauthenticated") ||
		strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "auth:") ||
		strings.Contains(errStr, "transport: per-RPC creds failed"):
		return fmt.Errorf("Google Cloud authentication failed. Please check your credentials:\n\n"+
			"1. Set GOOGLE_APPLICATION_CREDENTIALS to your service account JSON file path\n"+
			"2. Or set GOOGLE_CREDENTIALS with inline JSON\n"+
			"3. Ensure the service account has access to the Document AI or Vision API\n\n"+
			"Original error: %v", err)
	case strings.Contains(errStr, "PERMISSION_DENIED") ||
		strings.Contains(errStr, "permission") ||
		strings.Contains(errStr, "forbidden"):
		return fmt.Errorf("permission denied. Please ensure your Google Cloud service account has access to the selected API")
	case strings.Contains(errStr, "QUOTA_EXCEEDED") ||
		strings.Contains(errStr, "quota"):
		return fmt.Errorf("Google Cloud API quota exceeded. Check your project quotas in the Google Cloud Console")
	case errors.Is(err, textract.ErrExtractionFailed):
		return fmt.Errorf("text extraction failed. This may be due to network issues, API quota limits, or service unavailability: %w", err)
	default:
		return fmt.Errorf("text extraction failed: %w", err)
	}
}

// outputTextResults formats and outputs the extraction results
func outputTextResults(result *textract.Result, fileInfo os.FileInfo, outputPath string, jsonOutput, includeMetadata bool, log zerolog.Logger) error {
	var output strings.Builder
	var outputData []byte
	var err error

	if jsonOutput {
		textOutput := TextOutput{
			Text:               result.Text,
			FileName:           filepath.Base(fileInfo.Name()),
			FileSize:           fileInfo.Size(),
			PageCount:          result.PageCount,
			Confidence:         result.Confidence,
			LanguageCodes:      result.LanguageCodes,
			ProcessedAt:        result.ProcessedAt,
			ProcessingDuration: result.ProcessingDuration.String(),
		}

		outputData, err = json.MarshalIndent(textOutput, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		if includeMetadata {
			output.WriteString(fmt.Sprintf("=== Extraction Results for %s ===\n", filepath.Base(fileInfo.Name())))
			output.WriteString(fmt.Sprintf("File size: %d bytes\n", fileInfo.Size()))
			if result.PageCount > 0 {
				output.WriteString(fmt.Sprintf("Pages processed: %d\n", result.PageCount))
			}
			if result.Confidence > 0 {
				output.WriteString(fmt.Sprintf("Confidence: %.1f%%\n", result.Confidence*100))
			}
			if len(result.LanguageCodes) > 0 {
				output.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(result.LanguageCodes, ", ")))
			}
			output.WriteString(fmt.Sprintf("Processing time: %v\n", result.ProcessingDuration))
			output.WriteString("\n=== Extracted Text ===\n\n")
		}

		output.WriteString(result.Text)
		outputData = []byte(output.String())
	}

	return writeOutput(outputData, outputPath, !jsonOutput, log)
}

// writeOutput writes result bytes to a file or stdout
func writeOutput(data []byte, outputPath string, trailingNewline bool, log zerolog.Logger) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(data)).
			Msg("Results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	if trailingNewline {
		fmt.Println()
	}
	return nil
}
