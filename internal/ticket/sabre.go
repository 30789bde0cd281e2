package ticket

import (
	"regexp"
	"strings"

	"tickettools/internal/logger"
	"tickettools/pkg/models"
)

const sabrePassengerHeader = "ITINERARY PREPARED FOR:"

var (
	sabreBookingRefRe = regexp.MustCompile(`(?i)BOOKING REF:\s*([A-Z0-9]+)`)
	sabreEmailRe      = regexp.MustCompile(`(?i)EMAIL ADDRESS:\s*([A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,})`)

	// Passenger lines look like "LAST/FIRST [MIDDLE] MR"; anything else
	// between the header and the first table marker is OCR noise.
	sabrePassengerNameRe = regexp.MustCompile(`(?i)[A-Z]+/[A-Z]+(?:\s+[A-Z]+)?\s*(MR|MS|MRS)`)
	sabreStopMarkerRe    = regexp.MustCompile(`(?i)^(DAY|DATE|FLIGHT|STOP|EQP|CLASS|FLYING TIME|SERVICES)`)

	// Flight row: FROM HHMM TO HHMM FLIGHTNO CLASS
	sabreFlightRowRe  = regexp.MustCompile(`([A-Z]{3})\s+(\d{4})\s+([A-Z]{3})\s+(\d{4})\s+([A-Z]{2,3}\s*\d+)\s+([A-Z]+)`)
	sabreDayHeaderRe  = regexp.MustCompile(`DAY\s+DATE`)
	sabreDurationRe   = regexp.MustCompile(`\d+HR\s+\d+MIN`)
	sabreWhitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseSabre extracts booking details, the passenger list and flight
// segments from the Sabre itinerary layout. Like the ticket-gadget parser
// it is permissive: noisy lines in the passenger block are skipped and a
// day section may yield zero segments without this being an error.
func ParseSabre(rawText string) *models.ParsedTicket {
	log := logger.WithComponent("sabre-parser")

	ticket := &models.ParsedTicket{
		Passengers: []models.PassengerRecord{},
		Flights:    []models.FlightSegment{},
	}

	if m := sabreBookingRefRe.FindStringSubmatch(rawText); m != nil {
		ticket.BookingReference = strings.TrimSpace(m[1])
	}
	if m := sabreEmailRe.FindStringSubmatch(rawText); m != nil {
		ticket.Email = strings.TrimSpace(m[1])
	}

	ticket.Passengers = parseSabrePassengers(rawText)

	// Flight rows are matched globally within each DAY/DATE section.
	sections := sabreDayHeaderRe.Split(rawText, -1)
	for _, section := range sections[1:] {
		status := "Unknown"
		if strings.Contains(section, "CONFIRMED") {
			status = "Confirmed"
		}

		duration := ""
		if m := sabreDurationRe.FindString(section); m != "" {
			duration = sabreWhitespaceRe.ReplaceAllString(m, " ")
		}

		services := "NO MEALS"
		if strings.Contains(section, "MEALS") {
			services = "MEALS"
		}

		for _, row := range sabreFlightRowRe.FindAllStringSubmatch(section, -1) {
			from, depTime, to, arrTime, flightNumber, travelClass := row[1], row[2], row[3], row[4], row[5], row[6]

			ticket.Flights = append(ticket.Flights, models.FlightSegment{
				FlightNumber:  strings.TrimSpace(flightNumber),
				Airline:       strings.Fields(flightNumber)[0],
				From:          from,
				To:            to,
				DepartureTime: formatSabreTime(depTime),
				ArrivalTime:   formatSabreTime(arrTime),
				Class:         travelClass,
				Status:        status,
				Duration:      duration,
				Services:      services,
			})
		}
	}

	log.Debug().
		Str("booking_ref", ticket.BookingReference).
		Int("passengers", len(ticket.Passengers)).
		Int("flights", len(ticket.Flights)).
		Msg("sabre parse completed")

	return ticket
}

// parseSabrePassengers collects passenger name lines following the
// "ITINERARY PREPARED FOR:" header until the first table marker. Names and
// their (ticket-text-empty) document details are built together so the list
// can never drift out of alignment with a parallel detail list.
func parseSabrePassengers(rawText string) []models.PassengerRecord {
	passengers := []models.PassengerRecord{}

	var lines []string
	for _, line := range strings.Split(rawText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	start := -1
	for i, line := range lines {
		if strings.Contains(line, sabrePassengerHeader) {
			start = i
			break
		}
	}
	if start == -1 {
		return passengers
	}

	for _, line := range lines[start+1:] {
		if sabreStopMarkerRe.MatchString(line) {
			break
		}
		if sabrePassengerNameRe.MatchString(line) {
			passengers = append(passengers, models.PassengerRecord{Name: line})
		}
	}

	return passengers
}

// formatSabreTime reformats a 4-digit "HHMM" time to "HH:MM".
func formatSabreTime(t string) string {
	if len(t) != 4 {
		return t
	}
	return t[:2] + ":" + t[2:]
}
