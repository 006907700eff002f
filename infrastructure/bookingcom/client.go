package bookingcom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainTravel "github.com/onlyWebstar/travel-bot/domains/travel"
	"github.com/sirupsen/logrus"
)

// Client queries the Booking.com RapidAPI gateway. Like the flight side,
// every failure path falls back to per-city mock offers so the chat flow
// keeps answering without credentials.
type Client struct {
	baseURL string
	apiKey  string
	apiHost string
	http    *http.Client
}

func NewClient(apiKey, apiHost string) *Client {
	if apiHost == "" {
		apiHost = "booking-com.p.rapidapi.com"
	}
	return &Client{
		baseURL: "https://" + apiHost,
		apiKey:  apiKey,
		apiHost: apiHost,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SearchHotels(ctx context.Context, city, checkIn, checkOut string, guests, rooms int) ([]domainTravel.Hotel, error) {
	if guests < 1 {
		guests = 1
	}
	if rooms < 1 {
		rooms = 1
	}

	logrus.Infof("[BOOKING] searching hotels in %s from %s to %s", city, checkIn, checkOut)

	if c.apiKey == "" {
		logrus.Debug("[BOOKING] no API key configured, using mock data")
		return mockHotels(city), nil
	}

	destID, err := c.locationID(ctx, city)
	if err != nil || destID == "" {
		logrus.Warnf("[BOOKING] location lookup failed for %s, using mock data: %v", city, err)
		return mockHotels(city), nil
	}

	hotels, err := c.searchByLocation(ctx, destID, checkIn, checkOut, guests, rooms)
	if err != nil || len(hotels) == 0 {
		logrus.Warnf("[BOOKING] hotel search failed for %s, using mock data: %v", city, err)
		return mockHotels(city), nil
	}
	return hotels, nil
}

func (c *Client) locationID(ctx context.Context, city string) (string, error) {
	query := url.Values{
		"name":   {city},
		"locale": {"en-us"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/hotels/locations?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("location lookup returned status %d", resp.StatusCode)
	}

	var locations []struct {
		DestID string `json:"dest_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		return "", err
	}
	if len(locations) == 0 {
		return "", nil
	}
	return locations[0].DestID, nil
}

func (c *Client) searchByLocation(ctx context.Context, destID, checkIn, checkOut string, guests, rooms int) ([]domainTravel.Hotel, error) {
	query := url.Values{
		"checkin_date":       {checkIn},
		"checkout_date":      {checkOut},
		"units":              {"metric"},
		"dest_id":            {destID},
		"dest_type":          {"city"},
		"adults_number":      {strconv.Itoa(guests)},
		"room_number":        {strconv.Itoa(rooms)},
		"order_by":           {"popularity"},
		"filter_by_currency": {"USD"},
		"locale":             {"en-us"},
		"page_number":        {"0"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/hotels/search?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hotel search returned status %d", resp.StatusCode)
	}

	var payload struct {
		Result []struct {
			HotelName     string  `json:"hotel_name"`
			ReviewScore   float64 `json:"review_score"`
			Address       string  `json:"address"`
			MinTotalPrice float64 `json:"min_total_price"`
			Phone         string  `json:"phone"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	hotels := make([]domainTravel.Hotel, 0, 5)
	for i, h := range payload.Result {
		if i >= 5 {
			break
		}
		name := h.HotelName
		if name == "" {
			name = "Unknown Hotel"
		}
		hotels = append(hotels, domainTravel.Hotel{
			Name:    name,
			Rating:  h.ReviewScore,
			Address: h.Address,
			Price:   fmt.Sprintf("USD %.2f", h.MinTotalPrice),
			Phone:   h.Phone,
		})
	}
	return hotels, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
}

var mockHotelsByCity = map[string][]domainTravel.Hotel{
	"paris": {
		{Name: "Hotel Eiffel Tower", Rating: 4.5, Price: "EUR 120", Address: "15 Avenue de Tourville, Paris", Phone: "+33 1 45 55 55 55"},
		{Name: "Le Marais Boutique", Rating: 4.2, Price: "EUR 95", Address: "Rue de Turenne, Paris", Phone: "+33 1 42 78 78 78"},
		{Name: "Champs-Elysees Plaza", Rating: 4.7, Price: "EUR 180", Address: "Avenue des Champs-Elysees, Paris", Phone: "+33 1 53 53 53 53"},
	},
	"london": {
		{Name: "London Bridge Hotel", Rating: 4.3, Price: "GBP 110", Address: "8 Holyrood Street, London", Phone: "+44 20 7403 3333"},
		{Name: "Kensington Gardens", Rating: 4.1, Price: "GBP 85", Address: "Kensington High Street, London", Phone: "+44 20 7937 1234"},
		{Name: "The Shard Residence", Rating: 4.8, Price: "GBP 220", Address: "32 London Bridge St, London", Phone: "+44 20 7234 8000"},
	},
	"dubai": {
		{Name: "Burj Al Arab", Rating: 5.0, Price: "AED 1200", Address: "Jumeirah Beach Road, Dubai", Phone: "+971 4 301 7777"},
		{Name: "Dubai Marina Hotel", Rating: 4.4, Price: "AED 450", Address: "Dubai Marina, Dubai", Phone: "+971 4 436 1111"},
		{Name: "City Centre Business", Rating: 4.2, Price: "AED 320", Address: "Deira, Dubai", Phone: "+971 4 295 2222"},
	},
	"new york": {
		{Name: "Times Square Suites", Rating: 4.3, Price: "USD 150", Address: "7th Avenue, New York", Phone: "+1 212-586-1234"},
		{Name: "Central Park View", Rating: 4.6, Price: "USD 200", Address: "Central Park West, New York", Phone: "+1 212-541-1234"},
		{Name: "Manhattan Luxury", Rating: 4.4, Price: "USD 175", Address: "5th Avenue, New York", Phone: "+1 212-755-1234"},
	},
	"lagos": {
		{Name: "Eko Hotels & Suites", Rating: 4.5, Price: "NGN 45,000", Address: "Plot 1415 Adetokunbo Ademola, VI", Phone: "+234 1 277 2700"},
		{Name: "Radisson Blu", Rating: 4.3, Price: "NGN 38,000", Address: "38-40 Ozumba Mbadiwe, VI", Phone: "+234 1 461 1000"},
		{Name: "Ibis Lagos Airport", Rating: 4.0, Price: "NGN 25,000", Address: "Mobolaji Johnson Airport Rd", Phone: "+234 1 280 4888"},
	},
}

func mockHotels(city string) []domainTravel.Hotel {
	if hotels, ok := mockHotelsByCity[strings.ToLower(city)]; ok {
		return hotels
	}

	title := titleCity(city)
	return []domainTravel.Hotel{
		{Name: "Grand " + title + " Hotel", Rating: 4.2, Price: "USD 100", Address: "City Center, " + title, Phone: "+1 234-567-8900"},
		{Name: title + " City Suites", Rating: 4.0, Price: "USD 85", Address: "Downtown, " + title, Phone: "+1 234-567-8901"},
		{Name: "Comfort Inn " + title, Rating: 3.8, Price: "USD 65", Address: "Business District, " + title, Phone: "+1 234-567-8902"},
	}
}

func titleCity(city string) string {
	words := strings.Fields(strings.ToLower(city))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
