package ticket_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"tickettools/internal/ticket"
)

// Example demonstrates the full extraction pipeline on pre-extracted text.
func Example() {
	// Load .env file (using godotenv in main)
	// This should be done in your main() function:
	//
	// if err := godotenv.Load(); err != nil {
	//     log.Printf("Warning: Could not load .env file: %v", err)
	// }

	rawText, err := os.ReadFile("sample_ticket.txt")
	if err != nil {
		log.Fatalf("Failed to read ticket text: %v", err)
	}

	// The model-backed extractor is optional; without an API key the
	// service degrades to heuristic-only extraction.
	model, err := ticket.NewModelBackedExtractor()
	if err != nil {
		log.Printf("Model extraction unavailable: %v", err)
	}

	service := ticket.NewService(ticket.NewHeuristicExtractor(), model, ticket.StrategyAuto)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	invoice, err := service.Extract(ctx, string(rawText))
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	fmt.Printf("Booking reference: %s\n", invoice.BookingReference)
	fmt.Printf("Passengers: %d\n", len(invoice.PassengerNames))
	for _, flight := range invoice.Flights {
		fmt.Printf("  %s %s -> %s departing %s\n",
			flight.FlightNumber, flight.From, flight.To, flight.Departure)
	}
}

// ExampleErrorHandling demonstrates the error cases callers should expect.
func Example_errorHandling() {
	ctx := context.Background()

	model, err := ticket.NewModelBackedExtractor()
	if err != nil {
		if err == ticket.ErrMissingAPIKey {
			log.Fatalf("Please set OPENROUTER_API_KEY or OPENAI_API_KEY")
		}
		log.Fatalf("Failed to create extractor: %v", err)
	}

	invoice, err := model.Extract(ctx, "raw ticket text")
	if err != nil {
		switch e := err.(type) {
		case *ticket.StructuredExtractionError:
			log.Printf("Model returned malformed JSON: %v", e)
			return
		case *ticket.SchemaViolationError:
			log.Printf("Model response missing required fields: %v", e)
			return
		default:
			log.Fatalf("Extraction failed: %v", err)
		}
	}

	fmt.Printf("Extracted %d flights\n", len(invoice.Flights))
}

// ExampleForcedFormat demonstrates pinning the layout parser when the
// sniffer would pick the wrong one.
func Example_forcedFormat() {
	extractor := ticket.NewHeuristicExtractorWithFormat(ticket.FormatSabre)

	invoice, err := extractor.Extract(context.Background(), "ITINERARY PREPARED FOR:\n...")
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	fmt.Printf("Flights: %d\n", len(invoice.Flights))
}
