package models

// PassengerRecord holds the identity details for one traveler on a ticket.
// Name and document details are built together at parse time so the name
// list and detail list can never drift out of alignment. Fields that the
// ticket text does not carry stay empty strings.
type PassengerRecord struct {
	Name           string `json:"name"`
	PassportNumber string `json:"passportNumber,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	DateOfBirth    string `json:"dob,omitempty"`
	Gender         string `json:"gender,omitempty"`
}

// FlightSegment is one flight leg as recovered by the heuristic parsers.
// Every field defaults to the empty string when the source text did not
// yield a match; absence is deliberately not distinguished from "empty"
// because downstream consumers expect plain strings, never missing keys.
type FlightSegment struct {
	FlightNumber string `json:"flightNumber"`
	Airline      string `json:"airline"`

	From         string `json:"from"`
	FromLocation string `json:"fromLocation,omitempty"`
	To           string `json:"to"`
	ToLocation   string `json:"toLocation,omitempty"`

	DepartureDate string `json:"departureDate"`
	DepartureTime string `json:"departureTime"`
	ArrivalDate   string `json:"arrivalDate"`
	ArrivalTime   string `json:"arrivalTime"`

	Class    string `json:"class"`
	Terminal string `json:"departureTerminal"`
	Status   string `json:"status"`
	Duration string `json:"duration,omitempty"`
	Services string `json:"services,omitempty"`
}

// ParsedTicket is the output of one heuristic parser pass over extracted
// ticket text. It is a best-effort structure: unmatched optional fields are
// empty and malformed sections are simply absent from Flights.
type ParsedTicket struct {
	BookingReference string            `json:"bookingReference"`
	Email            string            `json:"email,omitempty"`
	TransactionID    string            `json:"transactionId"`
	Passengers       []PassengerRecord `json:"passengers"`
	Flights          []FlightSegment   `json:"flightDetails"`
}

// PassengerNames returns the names of all passengers in document order.
func (t *ParsedTicket) PassengerNames() []string {
	names := make([]string, 0, len(t.Passengers))
	for _, p := range t.Passengers {
		names = append(names, p.Name)
	}
	return names
}

// NormalizedFlight is the wire shape of one flight leg after schema
// normalization. Departure and Arrival are combined "DD MMM YYYY HH:MM"
// strings; use SplitDateTime to break them apart for display.
type NormalizedFlight struct {
	FlightNumber string `json:"flightNumber"`
	From         string `json:"from"`
	To           string `json:"to"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	Status       string `json:"status"`
	Terminal     string `json:"terminal"`
	Airline      string `json:"airline"`
	Class        string `json:"class"`
}

// NormalizedInvoice is the pipeline's output contract. All fields are
// guaranteed trimmed strings or slices of trimmed strings; flights appear in
// document order and PassengerNames[i] corresponds to Passengers[i].
type NormalizedInvoice struct {
	BookingReference string             `json:"bookingReference"`
	TransactionID    string             `json:"transactionId"`
	PassengerNames   []string           `json:"passengerName"`
	Passengers       []PassengerRecord  `json:"passengers,omitempty"`
	Flights          []NormalizedFlight `json:"flights"`
}
