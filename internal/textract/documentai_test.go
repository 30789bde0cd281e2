package textract_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tickettools/internal/textract"
)

// Input validation runs before any Document AI call, so these paths are
// testable without a client.
func TestDocumentAIInputValidation(t *testing.T) {
	extractor := textract.NewDocumentAITextExtractorWithConfig(textract.DocumentAIConfig{
		ProjectID:   "test-project",
		Location:    "us",
		ProcessorID: "test-processor",
	}, nil)

	t.Run("rejects oversized documents", func(t *testing.T) {
		oversized := bytes.NewReader(make([]byte, textract.MaxDocumentSizeBytes+1))

		_, err := extractor.ExtractTextWithMetadata(context.Background(), oversized)
		require.ErrorIs(t, err, textract.ErrPDFTooLarge)
	})

	t.Run("rejects non-PDF content", func(t *testing.T) {
		_, err := extractor.ExtractTextWithMetadata(context.Background(), strings.NewReader("plain text, not a PDF"))
		require.ErrorIs(t, err, textract.ErrInvalidPDF)
	})

	t.Run("rejects truncated content", func(t *testing.T) {
		_, err := extractor.ExtractTextWithMetadata(context.Background(), strings.NewReader("%P"))
		require.ErrorIs(t, err, textract.ErrInvalidPDF)
	})
}

func TestExtractionErrorWrapping(t *testing.T) {
	err := textract.WrapExtractionError("Op", textract.ErrPDFTooLarge, "file size: 123 bytes")

	require.ErrorIs(t, err, textract.ErrPDFTooLarge)

	var ee *textract.ExtractionError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, "Op", ee.Op)
	require.Contains(t, err.Error(), "file size: 123 bytes")
}
