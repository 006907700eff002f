package chat

import (
	"context"

	domainNLP "github.com/onlyWebstar/travel-bot/domains/nlp"
	domainTravel "github.com/onlyWebstar/travel-bot/domains/travel"
)

type MessageRequest struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name,omitempty"`
	Text      string `json:"text"`
}

// MessageResponse is the full answer to one chat message: the extraction
// that drove it, the search results and a ready-to-display reply string.
type MessageResponse struct {
	Intent     string                     `json:"intent"`
	Reply      string                     `json:"reply"`
	Extraction domainNLP.ExtractionResult `json:"extraction"`
	Flights    []domainTravel.Flight      `json:"flights,omitempty"`
	Hotels     []domainTravel.Hotel       `json:"hotels,omitempty"`
	Links      *domainTravel.BookingLinks `json:"booking_links,omitempty"`
}

type IChatUsecase interface {
	// HandleMessage runs the full pipeline: extract intent and slots,
	// fill a missing origin from the user's saved home city, search, save
	// the session context and format a reply.
	HandleMessage(ctx context.Context, request MessageRequest) (MessageResponse, error)
}
