// Package textract provides plain-text extraction from airline-ticket PDFs.
//
// Two backends are supported, matching the two OCR paths the invoicing
// service exposes in production:
//   - Google Document AI (default): the processor configured for ticket
//     layouts, returning the document's full text.
//   - Google Cloud Vision: document text detection over inline PDF content.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_PROJECT_ID: Google Cloud project ID (Document AI backend)
//   - GOOGLE_LOCATION: Processing location, e.g. "us" or "eu" (Document AI)
//   - GOOGLE_PROCESSOR_ID: Document AI processor ID
//
// API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Vision: maximum 5 pages for synchronous processing
//
// The extracted text is deliberately opaque: layout noise, inconsistent
// whitespace and page separators are all preserved and left to the parsers.
package textract

import (
	"context"
	"io"
	"time"
)

// TextExtractor defines the interface for document text extraction services.
type TextExtractor interface {
	// ExtractText extracts the full plain text from a PDF document.
	ExtractText(ctx context.Context, pdfData io.Reader) (string, error)

	// ExtractTextWithMetadata extracts text along with processing metadata.
	ExtractTextWithMetadata(ctx context.Context, pdfData io.Reader) (*Result, error)
}

// Result contains the results of text extraction with metadata.
type Result struct {
	// Text is the extracted text content, concatenated in reading order.
	Text string `json:"text"`

	// PageCount is the number of pages that were processed (0 if unknown).
	PageCount int `json:"page_count"`

	// Confidence is the average confidence score across all detected text
	// (0.0 to 1.0). Document AI does not report per-text confidence for the
	// plain-text path, so it may be 0.
	Confidence float32 `json:"confidence"`

	// LanguageCodes contains the detected languages in the document.
	LanguageCodes []string `json:"language_codes,omitempty"`

	// ProcessedAt is the timestamp when extraction completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the extraction took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}
