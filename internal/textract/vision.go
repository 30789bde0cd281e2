package textract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

const (
	// MaxPagesSync is the maximum number of pages for synchronous Vision processing
	MaxPagesSync = 5
)

// GoogleVisionTextExtractor implements TextExtractor using Google Cloud Vision API.
type GoogleVisionTextExtractor struct {
	client *vision.ImageAnnotatorClient
}

// NewGoogleVisionTextExtractor creates an extractor with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionTextExtractor(ctx context.Context) (TextExtractor, error) {
	const op = "NewGoogleVisionTextExtractor"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapExtractionError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapExtractionError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapExtractionError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionTextExtractor{client: client}, nil
}

// NewGoogleVisionTextExtractorWithClient creates an extractor with an explicit client (for testing).
func NewGoogleVisionTextExtractorWithClient(client *vision.ImageAnnotatorClient) TextExtractor {
	return &GoogleVisionTextExtractor{client: client}
}

// ExtractText extracts the full plain text from a PDF document.
func (g *GoogleVisionTextExtractor) ExtractText(ctx context.Context, pdfData io.Reader) (string, error) {
	result, err := g.ExtractTextWithMetadata(ctx, pdfData)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// ExtractTextWithMetadata extracts text along with processing metadata.
func (g *GoogleVisionTextExtractor) ExtractTextWithMetadata(ctx context.Context, pdfData io.Reader) (*Result, error) {
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

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  pdfBytes,
					MimeType: "application/pdf",
				},
				Features: []*visionpb.Feature{
					{
						Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
					},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}

	if len(resp.Responses) == 0 {
		return nil, WrapExtractionError(op, ErrExtractionFailed, "no response from Vision API")
	}

	fileResp := resp.Responses[0]
	if fileResp.Error != nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, fmt.Sprintf("Vision API error: %s", fileResp.Error.Message))
	}

	result, err := g.processVisionResponse(fileResp)
	if err != nil {
		return nil, WrapExtractionError(op, err, "failed to process Vision API response")
	}

	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)

	return result, nil
}

// processVisionResponse aggregates page texts, confidence and languages.
func (g *GoogleVisionTextExtractor) processVisionResponse(fileResp *visionpb.AnnotateFileResponse) (*Result, error) {
	if len(fileResp.Responses) == 0 {
		return nil, ErrEmptyDocument
	}

	pageCount := len(fileResp.Responses)
	if pageCount > MaxPagesSync {
		return nil, WrapExtractionError("processVisionResponse", ErrTooManyPages, fmt.Sprintf("document has %d pages", pageCount))
	}

	var allText strings.Builder
	var confidenceSum float32
	var confidenceCount int
	languageSet := make(map[string]bool)

	for pageIdx, page := range fileResp.Responses {
		if page.Error != nil {
			return nil, fmt.Errorf("error processing page %d: %s", pageIdx+1, page.Error.Message)
		}

		if page.FullTextAnnotation == nil {
			continue
		}

		if pageIdx > 0 {
			allText.WriteString("\n")
		}
		allText.WriteString(page.FullTextAnnotation.Text)

		for _, textAnnotation := range page.TextAnnotations {
			if textAnnotation.Confidence > 0 {
				confidenceSum += textAnnotation.Confidence
				confidenceCount++
			}
		}

		for _, pageInfo := range page.FullTextAnnotation.Pages {
			if pageInfo.Property == nil {
				continue
			}
			for _, lang := range pageInfo.Property.DetectedLanguages {
				if lang.LanguageCode != "" {
					languageSet[lang.LanguageCode] = true
				}
			}
		}
	}

	var avgConfidence float32
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float32(confidenceCount)
	}

	var languages []string
	for lang := range languageSet {
		languages = append(languages, lang)
	}

	extractedText := allText.String()
	if strings.TrimSpace(extractedText) == "" {
		return nil, ErrEmptyDocument
	}

	return &Result{
		Text:          extractedText,
		PageCount:     pageCount,
		Confidence:    avgConfidence,
		LanguageCodes: languages,
	}, nil
}

// Close closes the underlying Vision client.
func (g *GoogleVisionTextExtractor) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
