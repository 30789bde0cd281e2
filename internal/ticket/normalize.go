package ticket

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tickettools/pkg/models"
)

// splitDateTimeRe captures the "DD MMM YYYY" and "HH:MM" parts of a
// combined date-time string.
var splitDateTimeRe = regexp.MustCompile(`(\d{1,2}\s\w{3}\s\d{4})\s+(\d{2}:\d{2})`)

// Normalize coerces a loosely-typed parsed object (from either heuristic
// path or the model path) into a NormalizedInvoice with guaranteed types.
//
// It is the single normalization boundary of the pipeline: leaf fields are
// best-effort coerced to trimmed strings (nil becomes ""), a scalar
// passenger name is wrapped into a one-element list, and only two shape
// rules are enforced: flights must be a sequence, and each flight element
// must be an object. Both violations surface as *SchemaViolationError; the
// flight-element message carries the 1-based index of the offender.
func Normalize(raw map[string]any) (*models.NormalizedInvoice, error) {
	inv := &models.NormalizedInvoice{
		BookingReference: coerceString(raw["bookingReference"]),
		TransactionID:    coerceString(raw["transactionId"]),
		PassengerNames:   normalizePassengerNames(raw),
		Flights:          []models.NormalizedFlight{},
	}

	flightsVal, ok := raw["flights"]
	if !ok {
		flightsVal = nil
	}
	flights, ok := flightsVal.([]any)
	if !ok {
		return nil, &SchemaViolationError{Field: "flights", Message: "'flights' must be an array"}
	}

	for i, el := range flights {
		flight, ok := el.(map[string]any)
		if !ok {
			return nil, &SchemaViolationError{
				Field:   "flights",
				Message: fmt.Sprintf("Flight #%d is not an object", i+1),
			}
		}
		inv.Flights = append(inv.Flights, models.NormalizedFlight{
			FlightNumber: coerceString(flight["flightNumber"]),
			From:         coerceString(flight["from"]),
			To:           coerceString(flight["to"]),
			Departure:    coerceString(flight["departure"]),
			Arrival:      coerceString(flight["arrival"]),
			Status:       coerceString(flight["status"]),
			Terminal:     coerceString(flight["terminal"]),
			Airline:      coerceString(flight["airline"]),
			Class:        coerceString(flight["class"]),
		})
	}

	inv.Passengers = normalizePassengers(raw, inv.PassengerNames)

	return inv, nil
}

// Document lowers a NormalizedInvoice back to the loose document shape the
// normalizer consumes. Normalizing the result is a no-op: every field is
// already a trimmed string or a slice of them.
func Document(inv *models.NormalizedInvoice) map[string]any {
	names := make([]any, 0, len(inv.PassengerNames))
	for _, n := range inv.PassengerNames {
		names = append(names, n)
	}

	flights := make([]any, 0, len(inv.Flights))
	for _, f := range inv.Flights {
		flights = append(flights, map[string]any{
			"flightNumber": f.FlightNumber,
			"from":         f.From,
			"to":           f.To,
			"departure":    f.Departure,
			"arrival":      f.Arrival,
			"status":       f.Status,
			"terminal":     f.Terminal,
			"airline":      f.Airline,
			"class":        f.Class,
		})
	}

	doc := map[string]any{
		"bookingReference": inv.BookingReference,
		"transactionId":    inv.TransactionID,
		"passengerName":    names,
		"flights":          flights,
	}

	if len(inv.Passengers) > 0 {
		passengers := make([]any, 0, len(inv.Passengers))
		for _, p := range inv.Passengers {
			passengers = append(passengers, map[string]any{
				"name":           p.Name,
				"passportNumber": p.PassportNumber,
				"nationality":    p.Nationality,
				"dob":            p.DateOfBirth,
				"gender":         p.Gender,
			})
		}
		doc["passengers"] = passengers
	}

	return doc
}

// SplitDateTime splits a combined "DD MMM YYYY HH:MM" string into its date
// and time parts. Input that does not match the expected shape yields an
// empty date and the original string as the time part, so nothing is lost.
func SplitDateTime(s string) (date, clock string) {
	if s == "" {
		return "", ""
	}
	m := splitDateTimeRe.FindStringSubmatch(s)
	if m == nil {
		return "", s
	}
	return m[1], m[2]
}

// normalizePassengerNames accepts either the passengerName or the
// passengerNames key; a sequence is mapped element-wise and a bare scalar
// is wrapped into a one-element list. Elements that are objects with a
// "name" key are unwrapped to that name.
func normalizePassengerNames(raw map[string]any) []string {
	v, ok := raw["passengerName"]
	if !ok {
		v = raw["passengerNames"]
	}

	seq, ok := v.([]any)
	if !ok {
		return []string{coerceString(v)}
	}

	names := make([]string, 0, len(seq))
	for _, el := range seq {
		if obj, ok := el.(map[string]any); ok {
			names = append(names, coerceString(obj["name"]))
			continue
		}
		names = append(names, coerceString(el))
	}
	return names
}

// normalizePassengers builds the structured passenger list. When the
// document carries a passengers array its entries are coerced; otherwise
// the records are constructed from the name list, which keeps the two
// sequences index-aligned by construction.
func normalizePassengers(raw map[string]any, names []string) []models.PassengerRecord {
	if seq, ok := raw["passengers"].([]any); ok && len(seq) > 0 {
		passengers := make([]models.PassengerRecord, 0, len(seq))
		for _, el := range seq {
			obj, ok := el.(map[string]any)
			if !ok {
				continue
			}
			passengers = append(passengers, models.PassengerRecord{
				Name:           coerceString(obj["name"]),
				PassportNumber: coerceString(obj["passportNumber"]),
				Nationality:    coerceString(obj["nationality"]),
				DateOfBirth:    coerceString(obj["dob"]),
				Gender:         coerceString(obj["gender"]),
			})
		}
		return passengers
	}

	passengers := make([]models.PassengerRecord, 0, len(names))
	for _, name := range names {
		passengers = append(passengers, models.PassengerRecord{Name: name})
	}
	return passengers
}

// coerceString stringifies a loosely-typed value, treating nil as the
// empty string, and trims surrounding whitespace.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
