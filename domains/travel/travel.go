package travel

import "context"

// Flight is one formatted flight offer, real or mock.
type Flight struct {
	Price     string `json:"price"`
	Airline   string `json:"airline"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Duration  string `json:"duration"`
	Stops     int    `json:"stops"`
}

// Hotel is one formatted hotel offer, real or mock.
type Hotel struct {
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Address string  `json:"address"`
	Price   string  `json:"price"`
	Phone   string  `json:"phone,omitempty"`
}

type FlightSearchRequest struct {
	OriginCode      string `json:"origin_code" query:"origin_code"`
	DestinationCode string `json:"destination_code" query:"destination_code"`
	Date            string `json:"date" query:"date"` // YYYY-MM-DD
	Adults          int    `json:"adults" query:"adults"`
}

type HotelSearchRequest struct {
	City     string `json:"city" query:"city"`
	CheckIn  string `json:"check_in" query:"check_in"`
	CheckOut string `json:"check_out" query:"check_out"`
	Guests   int    `json:"guests" query:"guests"`
	Rooms    int    `json:"rooms" query:"rooms"`
}

// BookingLinks points the user at external booking sites for a search.
// Pure URL templating, no live availability behind them.
type BookingLinks struct {
	Skyscanner    string `json:"skyscanner,omitempty"`
	GoogleFlights string `json:"google_flights,omitempty"`
	Kayak         string `json:"kayak,omitempty"`
	Expedia       string `json:"expedia,omitempty"`
	BookingCom    string `json:"booking_com,omitempty"`
	Hotels        string `json:"hotels,omitempty"`
}

// FlightProvider fetches flight offers from an external API. On failure the
// provider substitutes fixed mock entries instead of returning an error.
type FlightProvider interface {
	SearchFlights(ctx context.Context, originCode, destCode, date string, adults int) ([]Flight, error)
}

// HotelProvider fetches hotel offers, with the same mock-fallback contract.
type HotelProvider interface {
	SearchHotels(ctx context.Context, city, checkIn, checkOut string, guests, rooms int) ([]Hotel, error)
}

type ITravelUsecase interface {
	// SearchFlights consults the cache first and stores whatever the
	// provider returns, real or mock, on a miss.
	SearchFlights(ctx context.Context, req FlightSearchRequest) ([]Flight, error)
	SearchHotels(ctx context.Context, req HotelSearchRequest) ([]Hotel, error)

	// AirportCode maps a city name to its IATA code, cached for 7 days.
	AirportCode(ctx context.Context, city string) string

	FlightBookingLinks(req FlightSearchRequest) BookingLinks
	HotelBookingLinks(req HotelSearchRequest) BookingLinks
}
