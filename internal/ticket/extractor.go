package ticket

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"tickettools/internal/logger"
	"tickettools/pkg/models"
)

// TicketExtractor turns raw extracted text into a normalized invoice. The
// heuristic parsers and the model-backed extractor both sit behind this
// interface so callers can swap or chain strategies.
type TicketExtractor interface {
	Extract(ctx context.Context, rawText string) (*models.NormalizedInvoice, error)
}

// Strategy selects how the extraction service combines extractors.
type Strategy int

const (
	// StrategyAuto runs the heuristic parser first and falls back to the
	// model when it finds no flight segments.
	StrategyAuto Strategy = iota

	// StrategyHeuristic runs only the layout-specific regex parsers.
	StrategyHeuristic

	// StrategyModel runs only the model-backed extractor.
	StrategyModel
)

// String returns the flag-style name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyHeuristic:
		return "heuristic"
	case StrategyModel:
		return "model"
	default:
		return "auto"
	}
}

// ParseStrategy converts a flag value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StrategyAuto, nil
	case "heuristic", "regex":
		return StrategyHeuristic, nil
	case "model", "llm":
		return StrategyModel, nil
	default:
		return StrategyAuto, fmt.Errorf("unknown extraction strategy: %q (expected auto, heuristic or model)", s)
	}
}

// HeuristicExtractor applies the layout-specific regex parsers. By default
// the layout is sniffed from the text; a fixed format can be forced for
// documents the sniffer is known to misjudge.
type HeuristicExtractor struct {
	format      TicketFormat
	forceFormat bool
	log         zerolog.Logger
}

// NewHeuristicExtractor creates an extractor that sniffs the layout.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{log: logger.WithComponent("heuristic-extractor")}
}

// NewHeuristicExtractorWithFormat creates an extractor pinned to one layout.
func NewHeuristicExtractorWithFormat(format TicketFormat) *HeuristicExtractor {
	return &HeuristicExtractor{
		format:      format,
		forceFormat: true,
		log:         logger.WithComponent("heuristic-extractor"),
	}
}

// Extract parses the text with the selected layout parser and funnels the
// result through the normalizer, the same boundary model responses cross.
func (e *HeuristicExtractor) Extract(ctx context.Context, rawText string) (*models.NormalizedInvoice, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyText
	}

	format := e.format
	if !e.forceFormat {
		format = DetectFormat(rawText)
	}

	e.log.Debug().Stringer("format", format).Msg("parsing ticket text")

	var parsed *models.ParsedTicket
	switch format {
	case FormatSabre:
		parsed = ParseSabre(rawText)
	default:
		parsed = ParseTicketGadget(rawText)
	}

	return Normalize(ticketDocument(parsed))
}

// ticketDocument lowers a parsed ticket to the loose document form the
// normalizer consumes, combining split date and time fields back into the
// "DD MMM YYYY HH:MM" shape used on the wire.
func ticketDocument(parsed *models.ParsedTicket) map[string]any {
	names := make([]any, 0, len(parsed.Passengers))
	for _, name := range parsed.PassengerNames() {
		names = append(names, name)
	}

	passengers := make([]any, 0, len(parsed.Passengers))
	for _, p := range parsed.Passengers {
		passengers = append(passengers, map[string]any{
			"name":           p.Name,
			"passportNumber": p.PassportNumber,
			"nationality":    p.Nationality,
			"dob":            p.DateOfBirth,
			"gender":         p.Gender,
		})
	}

	flights := make([]any, 0, len(parsed.Flights))
	for _, f := range parsed.Flights {
		flights = append(flights, map[string]any{
			"flightNumber": f.FlightNumber,
			"airline":      f.Airline,
			"from":         f.From,
			"to":           f.To,
			"departure":    combineDateTime(f.DepartureDate, f.DepartureTime),
			"arrival":      combineDateTime(f.ArrivalDate, f.ArrivalTime),
			"class":        f.Class,
			"terminal":     f.Terminal,
			"status":       f.Status,
		})
	}

	doc := map[string]any{
		"bookingReference": parsed.BookingReference,
		"transactionId":    parsed.TransactionID,
		"passengerName":    names,
		"flights":          flights,
	}
	if len(passengers) > 0 {
		doc["passengers"] = passengers
	}
	return doc
}

// combineDateTime joins a date and a time part, tolerating either being
// absent.
func combineDateTime(date, clock string) string {
	switch {
	case date == "":
		return clock
	case clock == "":
		return date
	default:
		return date + " " + clock
	}
}

// Service chains the heuristic and model-backed extractors according to a
// strategy.
type Service struct {
	heuristic TicketExtractor
	model     TicketExtractor
	strategy  Strategy
	log       zerolog.Logger
}

// NewService creates an extraction service. The model extractor may be nil,
// in which case StrategyAuto degrades to heuristic-only and StrategyModel
// returns ErrMissingAPIKey.
func NewService(heuristic, model TicketExtractor, strategy Strategy) *Service {
	return &Service{
		heuristic: heuristic,
		model:     model,
		strategy:  strategy,
		log:       logger.WithComponent("ticket-service"),
	}
}

// Extract runs the configured strategy. Under StrategyAuto a heuristic
// result with no flight segments triggers the model fallback; if the model
// then fails, the partial heuristic result is returned rather than an
// error, since booking reference and passenger names alone are still
// useful downstream.
func (s *Service) Extract(ctx context.Context, rawText string) (*models.NormalizedInvoice, error) {
	switch s.strategy {
	case StrategyHeuristic:
		return s.heuristic.Extract(ctx, rawText)

	case StrategyModel:
		if s.model == nil {
			return nil, ErrMissingAPIKey
		}
		return s.model.Extract(ctx, rawText)

	default:
		invoice, err := s.heuristic.Extract(ctx, rawText)
		if err != nil {
			return nil, err
		}
		if len(invoice.Flights) > 0 || s.model == nil {
			return invoice, nil
		}

		s.log.Info().Msg("heuristic parse found no flights, falling back to model extraction")
		modelInvoice, err := s.model.Extract(ctx, rawText)
		if err != nil {
			s.log.Warn().Err(err).Msg("model fallback failed, returning partial heuristic result")
			return invoice, nil
		}
		return modelInvoice, nil
	}
}
