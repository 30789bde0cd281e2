package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tickettools/internal/logger"
	"tickettools/internal/ticket"
	"tickettools/pkg/models"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text-file]",
	Short: "Parse already-extracted ticket text into invoice JSON",
	Long: `Parse raw ticket text (as produced by the text command) into a normalized
invoice JSON document.

By default the layout is detected from the text and parsed with the matching
heuristic parser; when no flight segments are found and a model API key is
configured, extraction falls back to the language model. Use --strategy to
force one path and --format to pin the layout parser.

Pass "-" as the file argument to read from stdin.`,
	Example: `  # Parse extracted text with automatic strategy
  tickettools parse extracted.txt

  # Pipe text extraction straight into parsing
  tickettools text ticket.pdf | tickettools parse -

  # Heuristics only, pinned to the Sabre layout
  tickettools parse extracted.txt --strategy heuristic --format sabre

  # Model extraction only
  tickettools parse extracted.txt --strategy model`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().String("strategy", "auto", "Extraction strategy: auto, heuristic or model")
	parseCmd.Flags().String("format", "", "Pin the layout parser: gadget or sabre (default: detect)")
	parseCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")

	outputPath, _ := cmd.Flags().GetString("output")
	strategyFlag, _ := cmd.Flags().GetString("strategy")
	formatFlag, _ := cmd.Flags().GetString("format")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	rawText, err := readTextInput(args[0], log)
	if err != nil {
		return err
	}

	service, err := createTicketService(strategyFlag, formatFlag, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	invoice, err := service.Extract(ctx, rawText)
	if err != nil {
		return handleTicketError(err, log)
	}

	log.Info().
		Str("booking_ref", invoice.BookingReference).
		Int("passengers", len(invoice.PassengerNames)).
		Int("flights", len(invoice.Flights)).
		Msg("Ticket parsing completed successfully")

	return outputInvoice(invoice, outputPath, log)
}

// readTextInput reads the raw text from a file or stdin ("-")
func readTextInput(path string, log zerolog.Logger) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Error().Err(err).Msg("Failed to read from stdin")
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", path).
				Msg("Text file not found")
			return "", fmt.Errorf("text file not found: %s", path)
		}
		log.Error().
			Err(err).
			Str("file", path).
			Msg("Failed to read text file")
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}

// createTicketService wires the extraction service from CLI flags. The model
// extractor is optional under the auto strategy but required for --strategy
// model.
func createTicketService(strategyFlag, formatFlag string, log zerolog.Logger) (*ticket.Service, error) {
	strategy, err := ticket.ParseStrategy(strategyFlag)
	if err != nil {
		return nil, err
	}

	var heuristic ticket.TicketExtractor
	if formatFlag != "" {
		format, err := ticket.ParseFormat(formatFlag)
		if err != nil {
			return nil, err
		}
		heuristic = ticket.NewHeuristicExtractorWithFormat(format)
	} else {
		heuristic = ticket.NewHeuristicExtractor()
	}

	model, err := ticket.NewModelBackedExtractor()
	if err != nil {
		if strategy == ticket.StrategyModel {
			log.Error().Err(err).Msg("Model extractor required but unavailable")
			return nil, fmt.Errorf("model extraction requested but unavailable. Please set:\n\n"+
				"   OPENROUTER_API_KEY (or OPENAI_API_KEY)\n\n"+
				"Original error: %w", err)
		}
		log.Debug().Err(err).Msg("Model extractor unavailable, continuing with heuristics only")
		return ticket.NewService(heuristic, nil, strategy), nil
	}

	return ticket.NewService(heuristic, model, strategy), nil
}

// handleTicketError provides user-friendly error messages for extraction failures
func handleTicketError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Ticket extraction failed")

	var structuredErr *ticket.StructuredExtractionError
	var schemaErr *ticket.SchemaViolationError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("ticket extraction timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("ticket extraction was canceled")
	case errors.Is(err, ticket.ErrEmptyText):
		return fmt.Errorf("no text to parse. The input file is empty or contains only whitespace")
	case errors.Is(err, ticket.ErrMissingAPIKey):
		return fmt.Errorf("model extraction requires an API key. Set OPENROUTER_API_KEY or OPENAI_API_KEY, or use --strategy heuristic")
	case errors.As(err, &structuredErr):
		return fmt.Errorf("the model did not return usable JSON. Try again, or use --strategy heuristic if the document has a known layout: %w", err)
	case errors.As(err, &schemaErr):
		return fmt.Errorf("extracted data is missing required fields: %w", err)
	default:
		return fmt.Errorf("ticket extraction failed: %w", err)
	}
}

// outputInvoice marshals the normalized invoice and writes it out
func outputInvoice(invoice *models.NormalizedInvoice, outputPath string, log zerolog.Logger) error {
	data, err := json.MarshalIndent(invoice, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal invoice JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	return writeOutput(data, outputPath, true, log)
}
