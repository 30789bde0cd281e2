package ticket_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickettools/internal/ticket"
)

// stubCompleter returns canned responses in order and records the requests
// it receives.
type stubCompleter struct {
	responses []string
	errs      []error
	requests  []openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	call := len(s.requests)
	s.requests = append(s.requests, req)

	if call < len(s.errs) && s.errs[call] != nil {
		return openai.ChatCompletionResponse{}, s.errs[call]
	}

	content := ""
	if call < len(s.responses) {
		content = s.responses[call]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}, nil
}

func newTestExtractor(client *stubCompleter) *ticket.ModelBackedExtractor {
	return ticket.NewModelBackedExtractorWithClient(client, ticket.ModelConfig{
		Model:      "mistralai/mistral-7b-instruct:free",
		MaxRetries: 2,
	})
}

func TestModelBackedExtractorExtract(t *testing.T) {
	client := &stubCompleter{responses: []string{
		"```json\n{\"bookingReference\":\"ABCDEF\",\"passengerName\":[\"DOE/JANE MS\"],\"flights\":[{\"flightNumber\":\"EK 202\",\"from\":\"DXB\",\"to\":\"JFK\",\"departure\":\"15 MAR 2025 08:30\"}]}\n```",
	}}

	inv, err := newTestExtractor(client).Extract(context.Background(), "some ticket text")
	require.NoError(t, err)

	assert.Equal(t, "ABCDEF", inv.BookingReference)
	assert.Equal(t, []string{"DOE/JANE MS"}, inv.PassengerNames)
	require.Len(t, inv.Flights, 1)
	assert.Equal(t, "EK 202", inv.Flights[0].FlightNumber)
	assert.Equal(t, "15 MAR 2025 08:30", inv.Flights[0].Departure)

	require.Len(t, client.requests, 1)
	require.Len(t, client.requests[0].Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, client.requests[0].Messages[0].Role)
	assert.Contains(t, client.requests[0].Messages[1].Content, "some ticket text")
}

func TestModelBackedExtractorEmptyText(t *testing.T) {
	client := &stubCompleter{}

	_, err := newTestExtractor(client).Extract(context.Background(), "   \n ")
	require.ErrorIs(t, err, ticket.ErrEmptyText)
	assert.Empty(t, client.requests)
}

func TestModelBackedExtractorInvalidJSON(t *testing.T) {
	client := &stubCompleter{responses: []string{
		`{"bookingReference": "ABCDEF", "flights": [}`,
	}}

	_, err := newTestExtractor(client).Extract(context.Background(), "text")

	var see *ticket.StructuredExtractionError
	require.ErrorAs(t, err, &see)
	assert.Contains(t, err.Error(), "invalid JSON format returned from model")
	// Malformed content is a model answer, not a transport failure; no retry.
	assert.Len(t, client.requests, 1)
}

func TestModelBackedExtractorNoJSONObject(t *testing.T) {
	client := &stubCompleter{responses: []string{
		"Sorry, I cannot find any ticket details in this text.",
	}}

	_, err := newTestExtractor(client).Extract(context.Background(), "text")

	var see *ticket.StructuredExtractionError
	require.ErrorAs(t, err, &see)
	require.ErrorIs(t, err, ticket.ErrNoJSONObject)
}

func TestModelBackedExtractorShapeViolation(t *testing.T) {
	client := &stubCompleter{responses: []string{
		`{"bookingReference":"ABCDEF","passengerName":["DOE/JANE MS"]}`,
	}}

	_, err := newTestExtractor(client).Extract(context.Background(), "text")

	var sve *ticket.SchemaViolationError
	require.ErrorAs(t, err, &sve)
}

func TestModelBackedExtractorRetriesTransportErrors(t *testing.T) {
	client := &stubCompleter{
		errs: []error{errors.New("connection reset"), nil},
		responses: []string{
			"",
			`{"bookingReference":"ABCDEF","passengerName":["DOE/JANE MS"],"flights":[]}`,
		},
	}

	inv, err := newTestExtractor(client).Extract(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF", inv.BookingReference)
	assert.Len(t, client.requests, 2)
}

func TestModelBackedExtractorAllAttemptsFail(t *testing.T) {
	transportErr := errors.New("upstream unavailable")
	client := &stubCompleter{errs: []error{transportErr, transportErr}}

	_, err := newTestExtractor(client).Extract(context.Background(), "text")
	require.Error(t, err)
	require.ErrorIs(t, err, transportErr)
	assert.Len(t, client.requests, 2)
}
