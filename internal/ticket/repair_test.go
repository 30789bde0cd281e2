package ticket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickettools/internal/ticket"
)

func TestRepairModelJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "plain object passes through",
			input: `{"bookingReference":"X"}`,
			want:  `{"bookingReference":"X"}`,
		},
		{
			name:  "json fence stripped",
			input: "```json\n{\"bookingReference\":\"X\"}\n```",
			want:  `{"bookingReference":"X"}`,
		},
		{
			name:  "bare fence stripped",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "uppercase fence tag stripped",
			input: "```JSON\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "prose around object sliced away",
			input: "Here is the extracted data:\n{\"a\":{\"b\":2}}\nLet me know if you need anything else.",
			want:  `{"a":{"b":2}}`,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  \n {\"a\":1} \n ",
			want:  `{"a":1}`,
		},
		{
			name:    "no braces",
			input:   "I could not find any ticket details in the text.",
			wantErr: ticket.ErrNoJSONObject,
		},
		{
			name:    "empty response",
			input:   "",
			wantErr: ticket.ErrNoJSONObject,
		},
		{
			name:    "reversed braces",
			input:   "} nothing here {",
			wantErr: ticket.ErrNoJSONObject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ticket.RepairModelJSON(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
