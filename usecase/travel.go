package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
	domainNLP "github.com/onlyWebstar/travel-bot/domains/nlp"
	domainTravel "github.com/onlyWebstar/travel-bot/domains/travel"
	"github.com/sirupsen/logrus"
)

type travelService struct {
	flights domainTravel.FlightProvider
	hotels  domainTravel.HotelProvider
	nlp     domainNLP.INLPUsecase
	cache   domainCache.ICacheUsecase
}

func NewTravelService(flights domainTravel.FlightProvider, hotels domainTravel.HotelProvider, nlp domainNLP.INLPUsecase, cache domainCache.ICacheUsecase) domainTravel.ITravelUsecase {
	return &travelService{
		flights: flights,
		hotels:  hotels,
		nlp:     nlp,
		cache:   cache,
	}
}

func (service *travelService) SearchFlights(ctx context.Context, req domainTravel.FlightSearchRequest) ([]domainTravel.Flight, error) {
	if req.Adults < 1 {
		req.Adults = 1
	}

	params := map[string]any{
		"origin":      req.OriginCode,
		"destination": req.DestinationCode,
		"date":        req.Date,
		"adults":      req.Adults,
	}
	if payload, ok := service.cache.Get(ctx, "amadeus_flights", params); ok {
		var flights []domainTravel.Flight
		if err := json.Unmarshal(payload, &flights); err == nil {
			return flights, nil
		}
	}

	flights, err := service.flights.SearchFlights(ctx, req.OriginCode, req.DestinationCode, req.Date, req.Adults)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Put(ctx, "amadeus_flights", params, flights, domainCache.CategoryFlight); err != nil {
		logrus.Warnf("[TRAVEL] failed to cache flight results: %v", err)
	}
	return flights, nil
}

func (service *travelService) SearchHotels(ctx context.Context, req domainTravel.HotelSearchRequest) ([]domainTravel.Hotel, error) {
	if req.Guests < 1 {
		req.Guests = 1
	}
	if req.Rooms < 1 {
		req.Rooms = 1
	}

	params := map[string]any{
		"city":      strings.ToLower(req.City),
		"check_in":  req.CheckIn,
		"check_out": req.CheckOut,
		"guests":    req.Guests,
		"rooms":     req.Rooms,
	}
	if payload, ok := service.cache.Get(ctx, "booking_hotels", params); ok {
		var hotels []domainTravel.Hotel
		if err := json.Unmarshal(payload, &hotels); err == nil {
			return hotels, nil
		}
	}

	hotels, err := service.hotels.SearchHotels(ctx, req.City, req.CheckIn, req.CheckOut, req.Guests, req.Rooms)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Put(ctx, "booking_hotels", params, hotels, domainCache.CategoryHotel); err != nil {
		logrus.Warnf("[TRAVEL] failed to cache hotel results: %v", err)
	}
	return hotels, nil
}

// AirportCode resolves a city to its IATA code through the destination
// table, caching hits for a week since the mapping never changes.
func (service *travelService) AirportCode(ctx context.Context, city string) string {
	params := map[string]any{"city": strings.ToLower(city)}
	if payload, ok := service.cache.Get(ctx, "airport_codes", params); ok {
		var code string
		if err := json.Unmarshal(payload, &code); err == nil && code != "" {
			return code
		}
	}

	resolution := service.nlp.Resolve(city)
	if resolution.AirportCode == "" {
		return ""
	}

	if err := service.cache.Put(ctx, "airport_codes", params, resolution.AirportCode, domainCache.CategoryAirport); err != nil {
		logrus.Warnf("[TRAVEL] failed to cache airport code: %v", err)
	}
	return resolution.AirportCode
}

func (service *travelService) FlightBookingLinks(req domainTravel.FlightSearchRequest) domainTravel.BookingLinks {
	if req.Adults < 1 {
		req.Adults = 1
	}

	googleQuery := url.Values{
		"hl":  {"en"},
		"f":   {"0"},
		"tfs": {fmt.Sprintf("f.0.d0.%s.%s.%s.ECONOMY", req.Date, req.OriginCode, req.DestinationCode)},
	}
	expediaQuery := url.Values{
		"flight-type": {"on"},
		"mode":        {"s"},
		"trip":        {"oneway"},
		"leg1":        {fmt.Sprintf("from:%s,to:%s,departure:%sTANYT", req.OriginCode, req.DestinationCode, req.Date)},
		"passengers":  {fmt.Sprintf("adults:%d,children:0,seniors:0,infantinlap:Y", req.Adults)},
	}

	return domainTravel.BookingLinks{
		Skyscanner: fmt.Sprintf("https://www.skyscanner.com/transport/flights/%s/%s/%s/",
			strings.ToLower(req.OriginCode), strings.ToLower(req.DestinationCode), req.Date),
		GoogleFlights: "https://www.google.com/travel/flights?" + googleQuery.Encode(),
		Kayak: fmt.Sprintf("https://www.kayak.com/flights/%s-%s/%s?sort=bestflight_a&passengers=%d",
			req.OriginCode, req.DestinationCode, req.Date, req.Adults),
		Expedia: "https://www.expedia.com/Flights-Search?" + expediaQuery.Encode(),
	}
}

func (service *travelService) HotelBookingLinks(req domainTravel.HotelSearchRequest) domainTravel.BookingLinks {
	if req.Guests < 1 {
		req.Guests = 1
	}
	if req.Rooms < 1 {
		req.Rooms = 1
	}

	bookingQuery := url.Values{
		"ss":             {req.City},
		"checkin":        {req.CheckIn},
		"checkout":       {req.CheckOut},
		"group_adults":   {fmt.Sprintf("%d", req.Guests)},
		"no_rooms":       {fmt.Sprintf("%d", req.Rooms)},
		"group_children": {"0"},
	}
	hotelsQuery := url.Values{
		"q-destination":   {req.City},
		"q-check-in":      {req.CheckIn},
		"q-check-out":     {req.CheckOut},
		"q-rooms":         {fmt.Sprintf("%d", req.Rooms)},
		"q-room-0-adults": {fmt.Sprintf("%d", req.Guests)},
	}
	expediaQuery := url.Values{
		"destination": {req.City},
		"startDate":   {req.CheckIn},
		"endDate":     {req.CheckOut},
		"rooms":       {fmt.Sprintf("%d", req.Rooms)},
		"adults":      {fmt.Sprintf("%d", req.Guests)},
	}

	return domainTravel.BookingLinks{
		BookingCom: "https://www.booking.com/searchresults.html?" + bookingQuery.Encode(),
		Hotels:     "https://www.hotels.com/search.do?" + hotelsQuery.Encode(),
		Expedia:    "https://www.expedia.com/Hotel-Search?" + expediaQuery.Encode(),
	}
}
