package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tickettools/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Extract a normalized invoice from a ticket PDF",
	Long: `Run the full pipeline on a ticket PDF: extract the raw text with Google
Document AI or Cloud Vision, parse it with the heuristic layout parsers, fall
back to the language model when no layout matches, and print the normalized
invoice JSON.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string

For the docai backend additionally:
  GOOGLE_PROJECT_ID (or GOOGLE_CLOUD_PROJECT)
  GOOGLE_PROCESSOR_ID (or DOCUMENT_AI_PROCESSOR_ID)

Optional for model fallback:
  OPENROUTER_API_KEY (or OPENAI_API_KEY)
  EXTRACTION_MODEL - Model identifier, defaults to mistralai/mistral-7b-instruct:free`,
	Example: `  # Extract an invoice from a ticket PDF
  tickettools extract ticket.pdf

  # Save the invoice JSON to a file
  tickettools extract ticket.pdf -o invoice.json

  # Use Cloud Vision for text extraction, heuristics only for parsing
  tickettools extract ticket.pdf --backend vision --strategy heuristic

  # Pin the Sabre layout parser
  tickettools extract ticket.pdf --format sabre`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().String("backend", "", "Text extraction backend: docai or vision (default: $TEXT_BACKEND or docai)")
	extractCmd.Flags().String("strategy", "auto", "Extraction strategy: auto, heuristic or model")
	extractCmd.Flags().String("format", "", "Pin the layout parser: gadget or sabre (default: detect)")
	extractCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	backend, _ := cmd.Flags().GetString("backend")
	strategyFlag, _ := cmd.Flags().GetString("strategy")
	formatFlag, _ := cmd.Flags().GetString("format")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]

	log.Info().
		Str("file", pdfPath).
		Str("backend", backend).
		Str("strategy", strategyFlag).
		Msg("Starting invoice extraction")

	fileInfo, err := validatePDFFile(pdfPath, log)
	if err != nil {
		return err
	}

	// Wire both stages before any network call so flag errors surface fast.
	service, err := createTicketService(strategyFlag, formatFlag, log)
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

	rawText, err := extractor.ExtractText(ctx, pdfFile)
	if err != nil {
		return handleExtractionError(err, log)
	}

	log.Info().
		Int64("size", fileInfo.Size()).
		Int("text_length", len(rawText)).
		Msg("Text extraction completed, parsing ticket")

	invoice, err := service.Extract(ctx, rawText)
	if err != nil {
		return handleTicketError(err, log)
	}

	log.Info().
		Str("booking_ref", invoice.BookingReference).
		Int("passengers", len(invoice.PassengerNames)).
		Int("flights", len(invoice.Flights)).
		Dur("duration", time.Since(startTime)).
		Msg("Invoice extraction completed successfully")

	return outputInvoice(invoice, outputPath, log)
}
