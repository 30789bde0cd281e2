package ticket

import (
	"fmt"
	"strings"
)

// TicketFormat identifies one of the fixed text layouts the heuristic
// parsers recognize.
type TicketFormat int

const (
	// FormatTicketGadget is the single-passenger "ticket gadget" layout:
	// labeled Booking Ref / Ticket Number fields and per-date sections with
	// departure and arrival blocks.
	FormatTicketGadget TicketFormat = iota

	// FormatSabre is the multi-passenger Sabre itinerary layout: an
	// "ITINERARY PREPARED FOR:" passenger list and tabular flight rows.
	FormatSabre
)

// String returns the flag-style name of the format.
func (f TicketFormat) String() string {
	switch f {
	case FormatSabre:
		return "sabre"
	default:
		return "gadget"
	}
}

// sabreMarkers are the content markers that select the Sabre parser.
var sabreMarkers = []string{"Sabre", "ITINERARY PREPARED FOR:"}

// DetectFormat decides which parsing strategy applies to a blob of raw
// extracted text. Unknown input falls back to the ticket-gadget format
// rather than failing: partial structured data is more useful downstream
// than a hard error, so extraction is always attempted.
func DetectFormat(rawText string) TicketFormat {
	for _, marker := range sabreMarkers {
		if strings.Contains(rawText, marker) {
			return FormatSabre
		}
	}
	return FormatTicketGadget
}

// ParseFormat converts a flag value into a TicketFormat.
func ParseFormat(s string) (TicketFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gadget", "ticketgadget", "ticket-gadget":
		return FormatTicketGadget, nil
	case "sabre", "itinerary":
		return FormatSabre, nil
	default:
		return FormatTicketGadget, fmt.Errorf("unknown ticket format: %q (expected gadget or sabre)", s)
	}
}
