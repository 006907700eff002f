package usecase

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	domainTravel "github.com/onlyWebstar/travel-bot/domains/travel"
	"github.com/onlyWebstar/travel-bot/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeFlightProvider struct {
	calls   int
	flights []domainTravel.Flight
}

func (f *fakeFlightProvider) SearchFlights(_ context.Context, _, _, _ string, _ int) ([]domainTravel.Flight, error) {
	f.calls++
	return f.flights, nil
}

type fakeHotelProvider struct {
	calls  int
	hotels []domainTravel.Hotel
}

func (f *fakeHotelProvider) SearchHotels(_ context.Context, _, _, _ string, _, _ int) ([]domainTravel.Hotel, error) {
	f.calls++
	return f.hotels, nil
}

func newTravelFixture(t *testing.T) (domainTravel.ITravelUsecase, *fakeFlightProvider, *fakeHotelProvider) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "travel_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cacheRepo := repository.NewCacheGormRepository(db)
	require.NoError(t, cacheRepo.InitSchema(context.Background()))
	cache := NewCacheService(repository.NewMemoryCacheStore(), cacheRepo, time.Hour)

	flights := &fakeFlightProvider{flights: []domainTravel.Flight{
		{Price: "EUR 328.59", Airline: "AT", Departure: "06:45", Arrival: "15:10", Duration: "9h25m", Stops: 1},
	}}
	hotels := &fakeHotelProvider{hotels: []domainTravel.Hotel{
		{Name: "Hotel Eiffel Tower", Rating: 4.5, Price: "EUR 120", Address: "Paris"},
	}}

	svc := NewTravelService(flights, hotels, NewNLPService(), cache)
	return svc, flights, hotels
}

func TestTravel_FlightSearchUsesCache(t *testing.T) {
	svc, flights, _ := newTravelFixture(t)
	ctx := context.Background()

	req := domainTravel.FlightSearchRequest{
		OriginCode:      "LOS",
		DestinationCode: "LHR",
		Date:            "2026-03-10",
		Adults:          1,
	}

	first, err := svc.SearchFlights(ctx, req)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, flights.calls)

	// The repeat search is answered from the cache.
	second, err := svc.SearchFlights(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, flights.calls)
}

func TestTravel_HotelSearchUsesCache(t *testing.T) {
	svc, _, hotels := newTravelFixture(t)
	ctx := context.Background()

	req := domainTravel.HotelSearchRequest{
		City:     "Paris",
		CheckIn:  "2026-03-10",
		CheckOut: "2026-03-13",
		Guests:   2,
		Rooms:    1,
	}

	first, err := svc.SearchHotels(ctx, req)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, hotels.calls)

	_, err = svc.SearchHotels(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, hotels.calls)

	// City comparison is case-insensitive for cache purposes.
	req.City = "paris"
	_, err = svc.SearchHotels(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, hotels.calls)
}

func TestTravel_AirportCode(t *testing.T) {
	svc, _, _ := newTravelFixture(t)
	ctx := context.Background()

	assert.Equal(t, "LHR", svc.AirportCode(ctx, "London"))
	assert.Equal(t, "CDG", svc.AirportCode(ctx, "paris"))
	assert.Empty(t, svc.AirportCode(ctx, "nowhere-at-all"))

	// Second lookup hits the cache and returns the same code.
	assert.Equal(t, "LHR", svc.AirportCode(ctx, "London"))
}

func TestTravel_FlightBookingLinks(t *testing.T) {
	svc, _, _ := newTravelFixture(t)

	links := svc.FlightBookingLinks(domainTravel.FlightSearchRequest{
		OriginCode:      "LOS",
		DestinationCode: "LHR",
		Date:            "2026-03-10",
		Adults:          2,
	})

	assert.Equal(t, "https://www.skyscanner.com/transport/flights/los/lhr/2026-03-10/", links.Skyscanner)
	assert.Contains(t, links.Kayak, "LOS-LHR/2026-03-10")
	assert.Contains(t, links.Kayak, "passengers=2")
	assert.Contains(t, links.GoogleFlights, "google.com/travel/flights")
	assert.Contains(t, links.Expedia, "expedia.com/Flights-Search")
	assert.Empty(t, links.BookingCom)
}

func TestTravel_HotelBookingLinks(t *testing.T) {
	svc, _, _ := newTravelFixture(t)

	links := svc.HotelBookingLinks(domainTravel.HotelSearchRequest{
		City:     "Paris",
		CheckIn:  "2026-03-10",
		CheckOut: "2026-03-13",
		Guests:   2,
		Rooms:    1,
	})

	assert.True(t, strings.HasPrefix(links.BookingCom, "https://www.booking.com/searchresults.html?"))
	assert.Contains(t, links.BookingCom, "ss=Paris")
	assert.Contains(t, links.BookingCom, "checkin=2026-03-10")
	assert.Contains(t, links.Hotels, "hotels.com")
	assert.Contains(t, links.Expedia, "Hotel-Search")
	assert.Empty(t, links.Skyscanner)
}
