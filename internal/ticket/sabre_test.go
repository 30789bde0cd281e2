package ticket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickettools/internal/ticket"
)

const sabreSampleText = `Sabre
BOOKING REF: ABCDEF
EMAIL ADDRESS: JANE.DOE@EXAMPLE.COM
ITINERARY PREPARED FOR:
DOE/JANE MS
DOE/JOHN MR
Thank you for choosing us
DAY  DATE   FROM
MON 16JUN
KHI 0930 DXB 1130 EK 601 ECONOMY
CONFIRMED
FLYING TIME 2HR  30MIN
MEALS
DAY  DATE   FROM
TUE 17JUN
DXB 0005 LHR 0640 BA 104 BUSINESS
`

func TestParseSabre(t *testing.T) {
	parsed := ticket.ParseSabre(sabreSampleText)

	assert.Equal(t, "ABCDEF", parsed.BookingReference)
	assert.Equal(t, "JANE.DOE@EXAMPLE.COM", parsed.Email)

	require.Len(t, parsed.Passengers, 2)
	assert.Equal(t, "DOE/JANE MS", parsed.Passengers[0].Name)
	assert.Equal(t, "DOE/JOHN MR", parsed.Passengers[1].Name)

	require.Len(t, parsed.Flights, 2)

	first := parsed.Flights[0]
	assert.Equal(t, "EK 601", first.FlightNumber)
	assert.Equal(t, "EK", first.Airline)
	assert.Equal(t, "KHI", first.From)
	assert.Equal(t, "DXB", first.To)
	assert.Equal(t, "09:30", first.DepartureTime)
	assert.Equal(t, "11:30", first.ArrivalTime)
	assert.Equal(t, "ECONOMY", first.Class)
	assert.Equal(t, "Confirmed", first.Status)
	assert.Equal(t, "2HR 30MIN", first.Duration)
	assert.Equal(t, "MEALS", first.Services)

	second := parsed.Flights[1]
	assert.Equal(t, "BA 104", second.FlightNumber)
	assert.Equal(t, "BA", second.Airline)
	assert.Equal(t, "DXB", second.From)
	assert.Equal(t, "LHR", second.To)
	assert.Equal(t, "00:05", second.DepartureTime)
	assert.Equal(t, "06:40", second.ArrivalTime)
	assert.Equal(t, "BUSINESS", second.Class)
	assert.Equal(t, "Unknown", second.Status)
	assert.Empty(t, second.Duration)
	assert.Equal(t, "NO MEALS", second.Services)
}

func TestParseSabrePassengerBlockSkipsNoise(t *testing.T) {
	text := `ITINERARY PREPARED FOR:
AGENCY COPY
DOE/JANE MS
PAGE 1 OF 2
SMITH/ALAN JAMES MR
DAY  DATE
`

	parsed := ticket.ParseSabre(text)

	require.Len(t, parsed.Passengers, 2)
	assert.Equal(t, "DOE/JANE MS", parsed.Passengers[0].Name)
	assert.Equal(t, "SMITH/ALAN JAMES MR", parsed.Passengers[1].Name)
}

func TestParseSabreNoPassengerHeader(t *testing.T) {
	parsed := ticket.ParseSabre("BOOKING REF: XYZ999\nno itinerary table\n")

	assert.Equal(t, "XYZ999", parsed.BookingReference)
	assert.Empty(t, parsed.Passengers)
	assert.Empty(t, parsed.Flights)
}
