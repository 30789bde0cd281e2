package textract_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"tickettools/internal/textract"
)

// Example demonstrates basic usage of the Document AI backend.
func Example() {
	// Load .env file (using godotenv in main)
	// This should be done in your main() function:
	//
	// if err := godotenv.Load(); err != nil {
	//     log.Printf("Warning: Could not load .env file: %v", err)
	// }

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Create extractor - credentials handled internally from environment
	extractor, err := textract.NewDocumentAITextExtractor(ctx)
	if err != nil {
		log.Fatalf("Failed to create text extractor: %v", err)
	}

	pdfFile, err := os.Open("sample_ticket.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	text, err := extractor.ExtractText(ctx, pdfFile)
	if err != nil {
		log.Fatalf("Failed to extract text: %v", err)
	}

	fmt.Printf("Extracted text (%d characters):\n%s\n", len(text), text)
}

// ExampleWithMetadata demonstrates extraction with processing metadata.
func Example_withMetadata() {
	ctx := context.Background()

	extractor, err := textract.NewGoogleVisionTextExtractor(ctx)
	if err != nil {
		log.Fatalf("Failed to create text extractor: %v", err)
	}

	pdfFile, err := os.Open("sample_ticket.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	result, err := extractor.ExtractTextWithMetadata(ctx, pdfFile)
	if err != nil {
		log.Fatalf("Failed to extract text: %v", err)
	}

	fmt.Printf("Extraction results:\n")
	fmt.Printf("  Pages processed: %d\n", result.PageCount)
	fmt.Printf("  Confidence: %.2f%%\n", result.Confidence*100)
	fmt.Printf("  Languages: %s\n", strings.Join(result.LanguageCodes, ", "))
	fmt.Printf("  Processing time: %v\n", result.ProcessingDuration)
}

// ExampleErrorHandling demonstrates proper error handling patterns.
func Example_errorHandling() {
	ctx := context.Background()

	extractor, err := textract.NewDocumentAITextExtractor(ctx)
	if err != nil {
		log.Fatalf("Failed to create text extractor: %v", err)
	}

	pdfFile, err := os.Open("large_document.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	result, err := extractor.ExtractTextWithMetadata(ctx, pdfFile)
	if err != nil {
		switch {
		case err == textract.ErrPDFTooLarge:
			log.Printf("PDF is too large for processing. Maximum size is 20MB.")
			return
		case err == textract.ErrTooManyPages:
			log.Printf("PDF has too many pages. Maximum is 5 pages for synchronous processing.")
			return
		case err == textract.ErrInvalidPDF:
			log.Printf("The file is not a valid PDF document.")
			return
		case err == textract.ErrEmptyDocument:
			log.Printf("No readable text found in the document.")
			return
		default:
			log.Fatalf("Text extraction failed: %v", err)
		}
	}

	fmt.Printf("Successfully processed %d pages\n", result.PageCount)
}
