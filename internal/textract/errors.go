package textract

import (
	"errors"
	"fmt"
)

// Common text extraction errors
var (
	// ErrPDFTooLarge is returned when the PDF exceeds the maximum file size
	// limit (20MB for synchronous processing on both backends).
	ErrPDFTooLarge = errors.New("PDF file size exceeds the maximum limit (20MB)")

	// ErrInvalidPDF is returned when the provided data is not a valid PDF document.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrExtractionFailed is returned when the backend fails to process the document.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrInvalidConfiguration is returned when the Document AI configuration
	// (project, location, processor) is incomplete.
	ErrInvalidConfiguration = errors.New("invalid Document AI configuration")

	// ErrTooManyPages is returned when the PDF has too many pages for
	// synchronous Vision processing (maximum 5 pages).
	ErrTooManyPages = errors.New("PDF has too many pages (maximum 5 pages for synchronous processing)")

	// ErrEmptyDocument is returned when the PDF contains no readable text.
	ErrEmptyDocument = errors.New("document contains no readable text")
)

// ExtractionError wraps errors with additional context about the extraction failure.
type ExtractionError struct {
	// Op is the operation that failed (e.g., "ExtractTextWithMetadata").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("textract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("textract: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapExtractionError wraps an error as an ExtractionError if it isn't already one.
func WrapExtractionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return err // Already wrapped
	}

	return &ExtractionError{Op: op, Err: err, Details: details}
}
