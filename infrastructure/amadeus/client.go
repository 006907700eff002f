package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
	domainTravel "github.com/onlyWebstar/travel-bot/domains/travel"
	"github.com/sirupsen/logrus"
)

// Client talks to the Amadeus flight-offers API. Any failure, token,
// network or upstream, degrades to fixed mock offers so the chat flow never
// breaks on provider trouble. Responses are cached by the caller; the token
// is cached here (25-minute TTL, category token).
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	cache        domainCache.ICacheUsecase
	http         *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(baseURL, clientID, clientSecret string, cache domainCache.ICacheUsecase) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		cache:        cache,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

type cachedToken struct {
	AccessToken string `json:"access_token"`
	Expiry      int64  `json:"expiry"` // unix seconds
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a valid OAuth token, preferring the in-process copy,
// then the cache, then a fresh request. Tokens are refreshed 5 minutes
// before their 30-minute upstream expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	tokenParams := map[string]any{"client_id": c.clientID}
	if payload, ok := c.cache.Get(ctx, "amadeus_token", tokenParams); ok {
		var cached cachedToken
		if err := json.Unmarshal(payload, &cached); err == nil && time.Now().Unix() < cached.Expiry {
			c.storeToken(cached.AccessToken, time.Unix(cached.Expiry, 0))
			return cached.AccessToken, nil
		}
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	logrus.Debug("[AMADEUS] requesting API token")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed: %d - %s", resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}

	expiry := time.Now().Add(25 * time.Minute)
	c.storeToken(tr.AccessToken, expiry)

	cached := cachedToken{AccessToken: tr.AccessToken, Expiry: expiry.Unix()}
	if err := c.cache.Put(ctx, "amadeus_token", tokenParams, cached, domainCache.CategoryToken); err != nil {
		logrus.Warnf("[AMADEUS] failed to cache token: %v", err)
	}
	return tr.AccessToken, nil
}

func (c *Client) storeToken(token string, expiry time.Time) {
	c.mu.Lock()
	c.token = token
	c.tokenExpiry = expiry
	c.mu.Unlock()
}

// offersResponse mirrors the subset of the flight-offers payload we format.
type offersResponse struct {
	Data []struct {
		Price struct {
			Currency string `json:"currency"`
			Total    string `json:"total"`
		} `json:"price"`
		Itineraries []struct {
			Duration string `json:"duration"`
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Departure   struct {
					At string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					At string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
	} `json:"data"`
}

func (c *Client) SearchFlights(ctx context.Context, originCode, destCode, date string, adults int) ([]domainTravel.Flight, error) {
	if adults < 1 {
		adults = 1
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		logrus.Warnf("[AMADEUS] no API token, using mock data: %v", err)
		return mockFlights(), nil
	}

	query := url.Values{
		"originLocationCode":      {originCode},
		"destinationLocationCode": {destCode},
		"departureDate":           {date},
		"adults":                  {strconv.Itoa(adults)},
		"max":                     {"5"},
		"currencyCode":            {"EUR"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v2/shopping/flight-offers?"+query.Encode(), nil)
	if err != nil {
		return mockFlights(), nil
	}
	req.Header.Set("Authorization", "Bearer "+token)

	logrus.Infof("[AMADEUS] searching flights %s -> %s on %s", originCode, destCode, date)
	resp, err := c.http.Do(req)
	if err != nil {
		logrus.Warnf("[AMADEUS] network error, using mock data: %v", err)
		return mockFlights(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logrus.Warnf("[AMADEUS] API error (%d): %s", resp.StatusCode, body)
		return mockFlights(), nil
	}

	var offers offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		logrus.Warnf("[AMADEUS] failed to decode response, using mock data: %v", err)
		return mockFlights(), nil
	}

	flights := formatOffers(offers)
	if len(flights) == 0 {
		return mockFlights(), nil
	}
	return flights, nil
}

func formatOffers(offers offersResponse) []domainTravel.Flight {
	flights := make([]domainTravel.Flight, 0, len(offers.Data))
	for _, offer := range offers.Data {
		if len(offer.Itineraries) == 0 {
			continue
		}
		itinerary := offer.Itineraries[0]
		if len(itinerary.Segments) == 0 {
			continue
		}

		first := itinerary.Segments[0]
		last := itinerary.Segments[len(itinerary.Segments)-1]

		dep, errDep := time.Parse(time.RFC3339, normalizeISO(first.Departure.At))
		arr, errArr := time.Parse(time.RFC3339, normalizeISO(last.Arrival.At))
		if errDep != nil || errArr != nil {
			continue
		}

		flights = append(flights, domainTravel.Flight{
			Price:     fmt.Sprintf("%s %s", offer.Price.Currency, offer.Price.Total),
			Airline:   first.CarrierCode,
			Departure: dep.Format("15:04"),
			Arrival:   arr.Format("15:04"),
			Duration:  strings.ToLower(strings.TrimPrefix(itinerary.Duration, "PT")),
			Stops:     len(itinerary.Segments) - 1,
		})
	}
	return flights
}

// normalizeISO tolerates the timezone-less timestamps the sandbox API emits.
func normalizeISO(ts string) string {
	if ts == "" {
		return ts
	}
	if strings.HasSuffix(ts, "Z") || strings.Contains(ts[10:], "+") {
		return ts
	}
	return ts + "Z"
}

func mockFlights() []domainTravel.Flight {
	return []domainTravel.Flight{
		{Price: "EUR 328.59", Airline: "AT", Departure: "06:45", Arrival: "15:10", Duration: "9h25m", Stops: 1},
		{Price: "EUR 450.00", Airline: "LH", Departure: "10:30", Arrival: "18:45", Duration: "8h15m", Stops: 1},
		{Price: "EUR 280.00", Airline: "AF", Departure: "14:20", Arrival: "22:30", Duration: "10h10m", Stops: 2},
		{Price: "EUR 395.00", Airline: "BA", Departure: "11:15", Arrival: "19:30", Duration: "8h15m", Stops: 1},
		{Price: "EUR 510.00", Airline: "EK", Departure: "16:40", Arrival: "01:25", Duration: "10h45m", Stops: 1},
	}
}
