package ticket

import (
	"regexp"
	"strings"

	"tickettools/internal/logger"
	"tickettools/pkg/models"
)

// knownAirlineCodes is the fixed vocabulary of 2-letter airline designators
// the ticket-gadget layout is known to carry in front of flight numbers.
const knownAirlineCodes = "G9|AA|AC|AF|AI|AY|AZ|BA|BR|CA|CX|DL|EK|EY|GA|JL|KE|KL|LH|LO|LX|MH|MS|NH|NZ|OS|PK|QF|QR|SA|SK|SQ|SU|TG|TK|UA|UL|VN|VS|WY|ZH"

var (
	gadgetNameRe         = regexp.MustCompile(`(?i)[A-Z]+\s+[A-Z]+/[A-Z]+(?:\s+[A-Z]+)?(?:\s+MR|MS|MRS)?`)
	gadgetBookingRefRe   = regexp.MustCompile(`(?i)Booking Ref:\s*(\d+)`)
	gadgetTicketNumberRe = regexp.MustCompile(`(?i)Ticket Number\s*\n\s*(\d+)`)
	gadgetClassRe        = regexp.MustCompile(`\b(ECONOMY|PREMIUM ECONOMY|BUSINESS|FIRST)\b`)

	// gadgetDateHeaderRe marks the start of a per-date section: a bare
	// "DD MMM YYYY" line with nothing after the year.
	gadgetDateHeaderRe = regexp.MustCompile(`\d{2}\s+[A-Z]{3}\s+\d{4}\s*\n`)
	gadgetDateRe       = regexp.MustCompile(`(\d{2}\s+[A-Z]{3}\s+\d{4})`)

	gadgetFlightNumberRe = regexp.MustCompile(`(?:` + knownAirlineCodes + `)\s*(\d+)`)

	// Departure block: airport code, two free-text location lines (second
	// one "City, Country"), then a combined date-time line.
	gadgetDepartureRe = regexp.MustCompile(`([A-Z]{3})\s*\n([^,\n]+)\s*\n([^,\n]+),\s*([^\n]+)\s*\n(\d{2}\s+[A-Z]{3}\s+\d{4}\s+\d{2}:\d{2})`)

	// Arrival block: same shape, located 5-10 lines further down the section.
	gadgetArrivalRe = regexp.MustCompile(`(?s)(?:.*?\n){5,10}([A-Z]{3})\s*\n([^,\n]+)\s*\n([^,\n]+),\s*([^\n]+)\s*\n(\d{2}\s+[A-Z]{3}\s+\d{4}\s+\d{2}:\d{2})`)

	gadgetTerminalRe = regexp.MustCompile(`Terminal:\s*([^\n]+)`)
	gadgetAirlineRe  = regexp.MustCompile(`\n([A-Za-z\s]+(?:Airways|Airlines|Air|Aviation)?)\n`)
	gadgetStatusRe   = regexp.MustCompile(`Status:\s*([^\n]+)`)

	gadgetDateTimeRe = regexp.MustCompile(`(\d{2}\s+[A-Z]{3}\s+\d{4})\s+(\d{2}:\d{2})`)
)

// ParseTicketGadget extracts passenger, booking and flight details from the
// ticket-gadget layout. The parser is deliberately permissive: sections that
// do not match the expected sub-patterns are dropped from the output rather
// than reported, and unmatched optional fields default to empty strings. It
// never fails; worst case is a ticket with no flights.
func ParseTicketGadget(rawText string) *models.ParsedTicket {
	log := logger.WithComponent("gadget-parser")

	ticket := &models.ParsedTicket{
		Flights: []models.FlightSegment{},
	}

	// This format is assumed single-passenger: only the first name match is used.
	if name := gadgetNameRe.FindString(rawText); name != "" {
		ticket.Passengers = []models.PassengerRecord{{Name: name}}
	} else {
		ticket.Passengers = []models.PassengerRecord{}
	}

	if m := gadgetBookingRefRe.FindStringSubmatch(rawText); m != nil {
		ticket.BookingReference = m[1]
	}
	if m := gadgetTicketNumberRe.FindStringSubmatch(rawText); m != nil {
		ticket.TransactionID = m[1]
	}

	// One shared travel class applies to every segment in this layout.
	travelClass := "ECONOMY"
	if m := gadgetClassRe.FindStringSubmatch(rawText); m != nil {
		travelClass = m[1]
	}

	for _, section := range splitAtDateHeaders(rawText) {
		if !gadgetDateRe.MatchString(section) {
			continue
		}

		flightMatch := gadgetFlightNumberRe.FindString(section)
		if flightMatch == "" {
			continue
		}

		departure := gadgetDepartureRe.FindStringSubmatch(section)
		arrival := gadgetArrivalRe.FindStringSubmatch(section)

		// A section contributes a segment only when both blocks matched.
		if departure == nil || arrival == nil {
			continue
		}

		depDate, depTime, ok := splitBlockDateTime(departure[5])
		if !ok {
			log.Debug().Str("datetime", departure[5]).Msg("skipping segment with malformed departure date-time")
			continue
		}
		arrDate, arrTime, ok := splitBlockDateTime(arrival[5])
		if !ok {
			log.Debug().Str("datetime", arrival[5]).Msg("skipping segment with malformed arrival date-time")
			continue
		}

		segment := models.FlightSegment{
			FlightNumber:  strings.Join(strings.Fields(flightMatch), " "),
			From:          departure[1],
			FromLocation:  strings.TrimSpace(departure[2]) + "\n" + strings.TrimSpace(departure[3]) + ", " + strings.TrimSpace(departure[4]),
			To:            arrival[1],
			ToLocation:    strings.TrimSpace(arrival[2]) + "\n" + strings.TrimSpace(arrival[3]) + ", " + strings.TrimSpace(arrival[4]),
			DepartureDate: depDate,
			DepartureTime: depTime,
			ArrivalDate:   arrDate,
			ArrivalTime:   arrTime,
			Class:         travelClass,
			Status:        "Confirmed",
		}

		if m := gadgetTerminalRe.FindStringSubmatch(section); m != nil {
			segment.Terminal = strings.TrimSpace(m[1])
		}
		if m := gadgetAirlineRe.FindStringSubmatch(section); m != nil {
			segment.Airline = strings.TrimSpace(m[1])
		}
		if m := gadgetStatusRe.FindStringSubmatch(section); m != nil {
			segment.Status = strings.TrimSpace(m[1])
		}

		ticket.Flights = append(ticket.Flights, segment)
	}

	log.Debug().
		Str("booking_ref", ticket.BookingReference).
		Int("flights", len(ticket.Flights)).
		Msg("ticket-gadget parse completed")

	return ticket
}

// splitAtDateHeaders splits the text into sections starting at each bare
// date-header line. The chunk before the first header is kept; it simply
// fails the per-section date check. RE2 has no lookahead, so the split is
// done on match start indices.
func splitAtDateHeaders(text string) []string {
	starts := gadgetDateHeaderRe.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return []string{text}
	}

	sections := make([]string, 0, len(starts)+1)
	prev := 0
	for _, loc := range starts {
		if loc[0] > prev {
			sections = append(sections, text[prev:loc[0]])
		}
		prev = loc[0]
	}
	sections = append(sections, text[prev:])
	return sections
}

// splitBlockDateTime applies the strict date-time capture to a matched
// block. The outer block pattern can match while this stricter shape does
// not; callers must skip the segment instead of assuming success.
func splitBlockDateTime(s string) (date, clock string, ok bool) {
	m := gadgetDateTimeRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
