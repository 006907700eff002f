package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainChat "github.com/onlyWebstar/travel-bot/domains/chat"
	domainNLP "github.com/onlyWebstar/travel-bot/domains/nlp"
	domainTravel "github.com/onlyWebstar/travel-bot/domains/travel"
	domainUser "github.com/onlyWebstar/travel-bot/domains/user"
	"github.com/sirupsen/logrus"
)

type chatService struct {
	nlp    domainNLP.INLPUsecase
	travel domainTravel.ITravelUsecase
	users  domainUser.IUserUsecase
	now    func() time.Time
}

func NewChatService(nlp domainNLP.INLPUsecase, travel domainTravel.ITravelUsecase, users domainUser.IUserUsecase) domainChat.IChatUsecase {
	return &chatService{
		nlp:    nlp,
		travel: travel,
		users:  users,
		now:    time.Now,
	}
}

func (service *chatService) HandleMessage(ctx context.Context, request domainChat.MessageRequest) (domainChat.MessageResponse, error) {
	extraction := service.nlp.Extract(request.Text)
	response := domainChat.MessageResponse{
		Intent:     string(extraction.Intent),
		Extraction: extraction,
	}

	if extraction.Error != "" {
		reply := extraction.Error
		if extraction.Suggestion != "" {
			reply += "\n\n" + extraction.Suggestion
		}
		response.Reply = reply
		return response, nil
	}

	switch extraction.Intent {
	case domainNLP.IntentFlight:
		return service.handleFlight(ctx, request, extraction)
	case domainNLP.IntentHotel:
		return service.handleHotel(ctx, request, extraction)
	default:
		response.Reply = "I can help you search flights and hotels. Try:\n" +
			"- \"Flights from London to Paris tomorrow\"\n" +
			"- \"Hotels in Dubai for 3 nights\""
		return response, nil
	}
}

func (service *chatService) handleFlight(ctx context.Context, request domainChat.MessageRequest, extraction domainNLP.ExtractionResult) (domainChat.MessageResponse, error) {
	response := domainChat.MessageResponse{
		Intent:     string(extraction.Intent),
		Extraction: extraction,
	}

	if extraction.Destination == "" || extraction.DestinationCode == "" {
		response.Reply = "Where would you like to fly?\n" +
			"Try \"Flights from London to Paris\" or \"Fly to Dubai\"."
		return response, nil
	}

	origin, originCode := extraction.Origin, extraction.OriginCode

	// A missing origin falls back to the user's learned home city before
	// the global default kicks in.
	usedHomeCity := false
	if origin == "" || strings.EqualFold(origin, "Lagos") && extraction.OriginCode == "LOS" {
		if home := service.users.GetHomeCity(ctx, request.UserID); home != "" && !strings.EqualFold(home, "Lagos") {
			if code := service.travel.AirportCode(ctx, home); code != "" {
				origin, originCode = home, code
				usedHomeCity = true
			}
		}
	}
	if origin == "" || originCode == "" {
		response.Reply = fmt.Sprintf("I don't recognize %q as a valid city. "+
			"Please say where you're flying from.", origin)
		return response, nil
	}

	date := extraction.Date
	if date == "" {
		date = service.now().AddDate(0, 0, 1).Format("2006-01-02")
	}

	searchReq := domainTravel.FlightSearchRequest{
		OriginCode:      originCode,
		DestinationCode: extraction.DestinationCode,
		Date:            date,
		Adults:          1,
	}
	flights, err := service.travel.SearchFlights(ctx, searchReq)
	if err != nil {
		return response, err
	}

	flights = service.filterByBudget(ctx, request.UserID, flights)

	if err := service.users.SaveSearchContext(ctx, request.UserID, request.FirstName, "flight", map[string]any{
		"flights": flightsToMaps(flights),
		"search_info": map[string]any{
			"origin":           origin,
			"origin_code":      originCode,
			"destination":      extraction.Destination,
			"destination_code": extraction.DestinationCode,
			"date":             date,
		},
	}); err != nil {
		logrus.Warnf("[CHAT] failed to save search context: %v", err)
	}

	// Learning runs after every search; it no-ops until enough history
	// accumulates.
	if _, err := service.users.LearnFromHistory(ctx, request.UserID); err != nil {
		logrus.Debugf("[CHAT] preference learning skipped: %v", err)
	}

	links := service.travel.FlightBookingLinks(searchReq)

	var reply strings.Builder
	fmt.Fprintf(&reply, "Flights: %s -> %s\n", titleCase(origin), titleCase(extraction.Destination))
	fmt.Fprintf(&reply, "Date: %s\n", date)
	if extraction.Suggestion != "" {
		fmt.Fprintf(&reply, "%s\n", extraction.Suggestion)
	}
	fmt.Fprintf(&reply, "Found %d flights\n\n", len(flights))
	for i, flight := range flights {
		fmt.Fprintf(&reply, "%d. %s - %s\n", i+1, flight.Airline, flight.Price)
		fmt.Fprintf(&reply, "   %s -> %s (%s)\n", flight.Departure, flight.Arrival, flight.Duration)
		if flight.Stops == 0 {
			reply.WriteString("   Direct flight\n")
		} else {
			fmt.Fprintf(&reply, "   %d stop(s)\n", flight.Stops)
		}
	}
	if usedHomeCity {
		reply.WriteString("\nUsing your home city from preferences.")
	}

	response.Reply = reply.String()
	response.Flights = flights
	response.Links = &links
	return response, nil
}

func (service *chatService) handleHotel(ctx context.Context, request domainChat.MessageRequest, extraction domainNLP.ExtractionResult) (domainChat.MessageResponse, error) {
	response := domainChat.MessageResponse{
		Intent:     string(extraction.Intent),
		Extraction: extraction,
	}

	if extraction.Destination == "" {
		response.Reply = "Which city do you need a hotel in?\n" +
			"Try \"Hotels in Paris for 3 nights\"."
		return response, nil
	}

	searchReq := domainTravel.HotelSearchRequest{
		City:     extraction.Destination,
		CheckIn:  extraction.CheckIn,
		CheckOut: extraction.CheckOut,
		Guests:   extraction.Guests,
		Rooms:    extraction.Rooms,
	}
	hotels, err := service.travel.SearchHotels(ctx, searchReq)
	if err != nil {
		return response, err
	}

	if err := service.users.SaveSearchContext(ctx, request.UserID, request.FirstName, "hotel", map[string]any{
		"hotels": hotels,
		"search_info": map[string]any{
			"destination": extraction.Destination,
			"check_in":    extraction.CheckIn,
			"check_out":   extraction.CheckOut,
			"guests":      extraction.Guests,
			"rooms":       extraction.Rooms,
		},
	}); err != nil {
		logrus.Warnf("[CHAT] failed to save search context: %v", err)
	}

	links := service.travel.HotelBookingLinks(searchReq)

	var reply strings.Builder
	fmt.Fprintf(&reply, "Hotels in %s\n", titleCase(extraction.Destination))
	fmt.Fprintf(&reply, "Check-in: %s, Check-out: %s\n", extraction.CheckIn, extraction.CheckOut)
	if extraction.Suggestion != "" {
		fmt.Fprintf(&reply, "%s\n", extraction.Suggestion)
	}
	fmt.Fprintf(&reply, "Found %d hotels\n\n", len(hotels))
	for i, hotel := range hotels {
		fmt.Fprintf(&reply, "%d. %s (%.1f)\n", i+1, hotel.Name, hotel.Rating)
		fmt.Fprintf(&reply, "   %s - %s\n", hotel.Address, hotel.Price)
	}

	response.Reply = reply.String()
	response.Hotels = hotels
	response.Links = &links
	return response, nil
}

// filterByBudget drops flights outside the user's learned budget range, but
// never filters down to an empty list.
func (service *chatService) filterByBudget(ctx context.Context, userID int64, flights []domainTravel.Flight) []domainTravel.Flight {
	budget := service.users.GetBudget(ctx, userID)
	if budget == nil {
		return flights
	}

	filtered := make([]domainTravel.Flight, 0, len(flights))
	for _, flight := range flights {
		price, ok := parsePrice(flight.Price)
		if !ok {
			filtered = append(filtered, flight)
			continue
		}
		priceUSD := price * 1.1
		if priceUSD >= budget.Min && priceUSD <= budget.Max {
			filtered = append(filtered, flight)
		}
	}

	if len(filtered) == 0 {
		return flights
	}
	return filtered
}

// flightsToMaps stores flights in the loosely typed session context shape
// the learning analysis reads back.
func flightsToMaps(flights []domainTravel.Flight) []any {
	out := make([]any, 0, len(flights))
	for _, flight := range flights {
		out = append(out, map[string]any{
			"price":     flight.Price,
			"airline":   flight.Airline,
			"departure": flight.Departure,
			"arrival":   flight.Arrival,
			"duration":  flight.Duration,
			"stops":     flight.Stops,
		})
	}
	return out
}
