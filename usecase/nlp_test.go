package usecase

import (
	"testing"
	"time"

	domainNLP "github.com/onlyWebstar/travel-bot/domains/nlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNLP returns a service pinned to Monday 2026-03-02 so date extraction
// is deterministic.
func fixedNLP() *nlpService {
	ref := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	return &nlpService{now: func() time.Time { return ref }}
}

func TestResolve_ExactMatch(t *testing.T) {
	s := fixedNLP()

	r := s.Resolve("London")
	assert.Equal(t, "london", r.MatchedAlias)
	assert.Equal(t, 100, r.Confidence)
	assert.Equal(t, "LHR", r.AirportCode)

	r = s.Resolve("  NYC  ")
	assert.Equal(t, 100, r.Confidence)
	assert.Equal(t, "JFK", r.AirportCode)
}

func TestResolve_HighConfidenceTypo(t *testing.T) {
	s := fixedNLP()

	// One dropped letter scores 90+ and is treated as exact.
	r := s.Resolve("Londn")
	assert.Equal(t, 100, r.Confidence)
	assert.Equal(t, "LHR", r.AirportCode)
}

func TestResolve_MediumConfidenceSuggestion(t *testing.T) {
	s := fixedNLP()

	// Transposed letters land in the suggestion band.
	r := s.Resolve("Dubia")
	require.Equal(t, "dubai", r.MatchedAlias)
	assert.Equal(t, "DXB", r.AirportCode)
	assert.GreaterOrEqual(t, r.Confidence, 70)
	assert.Less(t, r.Confidence, 90)
}

func TestResolve_Unrecognized(t *testing.T) {
	s := fixedNLP()

	r := s.Resolve("xyz123")
	assert.Equal(t, domainNLP.ResolutionResult{}, r)

	r = s.Resolve("")
	assert.Equal(t, domainNLP.ResolutionResult{}, r)
}

func TestResolve_Deterministic(t *testing.T) {
	s := fixedNLP()

	first := s.Resolve("Dubia")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Resolve("Dubia"))
	}
}

func TestValidate(t *testing.T) {
	s := fixedNLP()

	ok, code, suggestion := s.Validate("London")
	assert.True(t, ok)
	assert.Equal(t, "LHR", code)
	assert.Empty(t, suggestion)

	ok, code, suggestion = s.Validate("Dubia")
	assert.False(t, ok)
	assert.Equal(t, "DXB", code)
	assert.Equal(t, "dubai", suggestion)

	ok, code, suggestion = s.Validate("qqqqqq")
	assert.False(t, ok)
	assert.Empty(t, code)
	assert.Empty(t, suggestion)
}

func TestExtract_FlightWithOriginAndDestination(t *testing.T) {
	s := fixedNLP()

	r := s.Extract("Flights from London to Paris")
	assert.Equal(t, domainNLP.IntentFlight, r.Intent)
	assert.Equal(t, "london", r.Origin)
	assert.Equal(t, "LHR", r.OriginCode)
	assert.Equal(t, "paris", r.Destination)
	assert.Equal(t, "CDG", r.DestinationCode)
	assert.Empty(t, r.Error)
	// No date in the message defaults to tomorrow.
	assert.Equal(t, "2026-03-03", r.Date)
}

func TestExtract_FlightDestinationOnlyUsesDefaultOrigin(t *testing.T) {
	s := fixedNLP()

	r := s.Extract("flights to Dubai tomorrow")
	assert.Equal(t, domainNLP.IntentFlight, r.Intent)
	assert.Equal(t, "Lagos", r.Origin)
	assert.Equal(t, "LOS", r.OriginCode)
	assert.Equal(t, "dubai", r.Destination)
	assert.Equal(t, "DXB", r.DestinationCode)
	assert.Equal(t, "2026-03-03", r.Date)
}

func TestExtract_FlightWithTypoDestination(t *testing.T) {
	s := fixedNLP()

	r := s.Extract("fly to Dubia")
	assert.Equal(t, domainNLP.IntentFlight, r.Intent)
	assert.Equal(t, "dubai", r.Destination)
	assert.Equal(t, "DXB", r.DestinationCode)
	assert.Equal(t, "Did you mean Dubai?", r.Suggestion)
	assert.Equal(t, 80, r.Confidence)
	assert.Empty(t, r.Error)
}

func TestExtract_UnrecognizedDestinationForcesUnknown(t *testing.T) {
	s := fixedNLP()

	r := s.Extract("fly to Xanadu")
	assert.Equal(t, domainNLP.IntentUnknown, r.Intent)
	assert.NotEmpty(t, r.Error)
	assert.Empty(t, r.DestinationCode)
}

func TestExtract_FlightWithoutLocationForcesUnknown(t *testing.T) {
	s := fixedNLP()

	r := s.Extract("xyz123 flights")
	assert.Equal(t, domainNLP.IntentUnknown, r.Intent)
	assert.NotEmpty(t, r.Error)
}

func TestExtract_HotelWithNights(t *testing.T) {
	s := fixedNLP()

	r := s.Extract("Hotels in Paris for 3 nights")
	assert.Equal(t, domainNLP.IntentHotel, r.Intent)
	assert.Equal(t, "paris", r.Destination)
	assert.Equal(t, "CDG", r.DestinationCode)
	// Check-in defaults to tomorrow, check-out is check-in plus the stay.
	assert.Equal(t, "2026-03-03", r.CheckIn)
	assert.Equal(t, "2026-03-06", r.CheckOut)
}

func TestExtract_HotelDefaultStay(t *testing.T) {
	s := fixedNLP()

	r := s.Extract("hotels in Dubai")
	assert.Equal(t, domainNLP.IntentHotel, r.Intent)
	assert.Equal(t, "2026-03-03", r.CheckIn)
	assert.Equal(t, "2026-03-05", r.CheckOut)
}

func TestExtract_HotelPartySize(t *testing.T) {
	s := fixedNLP()

	r := s.Extract("hotel in Paris for 4 guests and 2 rooms")
	assert.Equal(t, domainNLP.IntentHotel, r.Intent)
	assert.Equal(t, 4, r.Guests)
	assert.Equal(t, 2, r.Rooms)
}

func TestExtract_PartySizeDefaults(t *testing.T) {
	s := fixedNLP()

	r := s.Extract("hotels in Paris")
	assert.Equal(t, 1, r.Guests)
	assert.Equal(t, 1, r.Rooms)
}

func TestExtract_DateRelativeTerms(t *testing.T) {
	s := fixedNLP()

	assert.Equal(t, "2026-03-03", s.Extract("flights to London tomorrow").Date)
	assert.Equal(t, "2026-03-09", s.Extract("flights to London for next week").Date)
	assert.Equal(t, "2026-03-02", s.Extract("flights to London today").Date)
}

func TestExtract_DateWeekday(t *testing.T) {
	s := fixedNLP()

	// Reference date is a Monday; friday is four days out.
	assert.Equal(t, "2026-03-06", s.Extract("flights to London on friday").Date)
	// Naming today's weekday means next week.
	assert.Equal(t, "2026-03-09", s.Extract("flights to London on monday").Date)
}

func TestExtract_DateMonthDay(t *testing.T) {
	s := fixedNLP()

	assert.Equal(t, "2026-12-25", s.Extract("flights to London on december 25").Date)
	assert.Equal(t, "2026-12-25", s.Extract("flights to London on the 25th of december").Date)
	// A date already past this year rolls to the next.
	assert.Equal(t, "2027-01-15", s.Extract("flights to London on january 15").Date)
}

func TestExtract_DateISO(t *testing.T) {
	s := fixedNLP()

	assert.Equal(t, "2026-09-15", s.Extract("flights to Tokyo on 2026-09-15").Date)
}

func TestExtract_IntentClassification(t *testing.T) {
	s := fixedNLP()

	assert.Equal(t, domainNLP.IntentFlight, s.Extract("book flight to Paris").Intent)
	assert.Equal(t, domainNLP.IntentHotel, s.Extract("accommodation in Rome").Intent)
	assert.Equal(t, domainNLP.IntentUnknown, s.Extract("hello there").Intent)
}
