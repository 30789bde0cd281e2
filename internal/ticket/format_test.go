package ticket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickettools/internal/ticket"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ticket.TicketFormat
	}{
		{
			name: "sabre vendor marker",
			text: "Generated by Sabre\nBOOKING REF: ABC123",
			want: ticket.FormatSabre,
		},
		{
			name: "sabre itinerary header",
			text: "ITINERARY PREPARED FOR:\nDOE/JANE MS",
			want: ticket.FormatSabre,
		},
		{
			name: "gadget layout",
			text: "E-TICKET\nBooking Ref: 123456",
			want: ticket.FormatTicketGadget,
		},
		{
			name: "unrecognized text falls back to gadget",
			text: "some unrelated document",
			want: ticket.FormatTicketGadget,
		},
		{
			name: "empty text falls back to gadget",
			text: "",
			want: ticket.FormatTicketGadget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ticket.DetectFormat(tt.text))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ticket.TicketFormat
		wantErr bool
	}{
		{input: "gadget", want: ticket.FormatTicketGadget},
		{input: "ticket-gadget", want: ticket.FormatTicketGadget},
		{input: "sabre", want: ticket.FormatSabre},
		{input: "SABRE", want: ticket.FormatSabre},
		{input: "itinerary", want: ticket.FormatSabre},
		{input: "amadeus", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ticket.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    ticket.Strategy
		wantErr bool
	}{
		{input: "", want: ticket.StrategyAuto},
		{input: "auto", want: ticket.StrategyAuto},
		{input: "heuristic", want: ticket.StrategyHeuristic},
		{input: "regex", want: ticket.StrategyHeuristic},
		{input: "model", want: ticket.StrategyModel},
		{input: "llm", want: ticket.StrategyModel},
		{input: "magic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ticket.ParseStrategy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
