package nlp

// Intent is the coarse category of request a message expresses.
type Intent string

const (
	IntentFlight  Intent = "flight"
	IntentHotel   Intent = "hotel"
	IntentUnknown Intent = "unknown"
)

// ResolutionResult is the outcome of resolving a freeform city name against
// the destination dictionary. Confidence is 0-100; an unrecognized query
// leaves MatchedAlias and AirportCode empty with Confidence 0.
type ResolutionResult struct {
	MatchedAlias string `json:"matched_alias,omitempty"`
	Confidence   int    `json:"confidence"`
	AirportCode  string `json:"airport_code,omitempty"`
}

// ExtractionResult is the structured outcome of processing one chat message.
// When Error is set the intent is forced to unknown and no slot should be
// acted on; Suggestion carries a "Did you mean X?" prompt for low-confidence
// fuzzy matches that were substituted into a slot.
type ExtractionResult struct {
	Intent          Intent `json:"intent"`
	Origin          string `json:"origin,omitempty"`
	Destination     string `json:"destination,omitempty"`
	OriginCode      string `json:"origin_code,omitempty"`
	DestinationCode string `json:"destination_code,omitempty"`
	Date            string `json:"date,omitempty"`      // YYYY-MM-DD, one-way flight
	CheckIn         string `json:"check_in,omitempty"`  // YYYY-MM-DD, hotel stay
	CheckOut        string `json:"check_out,omitempty"` // YYYY-MM-DD, hotel stay
	Guests          int    `json:"guests"`
	Rooms           int    `json:"rooms"`
	Error           string `json:"error,omitempty"`
	Suggestion      string `json:"suggestion,omitempty"`
	Confidence      int    `json:"confidence"`
}

type INLPUsecase interface {
	// Extract parses a raw chat message into intent and slots. It never
	// fails: malformed input degrades to IntentUnknown with Error set.
	Extract(text string) ExtractionResult

	// Resolve matches a freeform city name against the destination table.
	Resolve(query string) ResolutionResult

	// Validate reports whether a destination is recognized outright.
	// A medium-confidence match returns ok=false with the suggested alias.
	Validate(query string) (ok bool, code string, suggestion string)
}
