package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	domainUser "github.com/onlyWebstar/travel-bot/domains/user"
	"github.com/sirupsen/logrus"
)

// minSearchesToLearn gates preference learning so one-off searches don't
// overwrite a profile.
const minSearchesToLearn = 3

type userService struct {
	repo       domainUser.Repository
	sessionTTL time.Duration
	now        func() time.Time
}

func NewUserService(repo domainUser.Repository, sessionTTL time.Duration) domainUser.IUserUsecase {
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	return &userService{
		repo:       repo,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (service *userService) SaveSearchContext(ctx context.Context, userID int64, firstName, searchType string, data map[string]any) error {
	now := service.now()

	if firstName == "" {
		firstName = "Traveler"
	}
	if err := service.repo.UpsertUser(ctx, &domainUser.User{
		UserID:     userID,
		FirstName:  firstName,
		Language:   "en",
		CreatedAt:  now,
		LastActive: now,
	}); err != nil {
		return err
	}

	session := &domainUser.Session{
		UserID: userID,
		Context: domainUser.SearchContext{
			Type:      searchType,
			Data:      data,
			Timestamp: now,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(service.sessionTTL),
	}
	if err := service.repo.SaveSession(ctx, session); err != nil {
		return err
	}

	logrus.Debugf("[USER] saved %s search context for user %d", searchType, userID)
	return nil
}

func (service *userService) GetActiveSession(ctx context.Context, userID int64) (*domainUser.Session, error) {
	return service.repo.GetActiveSession(ctx, userID, service.now())
}

func (service *userService) GetHomeCity(ctx context.Context, userID int64) string {
	prefs, err := service.repo.GetPreferences(ctx, userID)
	if err != nil || prefs == nil {
		return ""
	}
	return prefs.HomeCity
}

func (service *userService) GetBudget(ctx context.Context, userID int64) *domainUser.BudgetRange {
	prefs, err := service.repo.GetPreferences(ctx, userID)
	if err != nil || prefs == nil {
		return nil
	}
	return prefs.Budget
}

func (service *userService) GetPreferences(ctx context.Context, userID int64) (*domainUser.Preferences, error) {
	prefs, err := service.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, domainUser.ErrUserNotFound
	}
	return prefs, nil
}

// LearnFromHistory mines the last ten sessions for patterns and fills in
// preference fields the user has not set themselves. Existing explicit
// values are never overwritten, except a home city still at the default.
func (service *userService) LearnFromHistory(ctx context.Context, userID int64) (bool, error) {
	analysis, err := service.analyzeHistory(ctx, userID)
	if err != nil {
		return false, err
	}
	if analysis == nil || analysis.TotalSearches < minSearchesToLearn {
		logrus.Debugf("[USER] not enough search history for user %d", userID)
		return false, nil
	}

	prefs, err := service.repo.GetPreferences(ctx, userID)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return false, err
	}
	if prefs == nil {
		prefs = &domainUser.Preferences{UserID: userID}
	}

	updated := false

	if analysis.HomeCity != "" && (prefs.HomeCity == "" || strings.EqualFold(prefs.HomeCity, "Lagos")) {
		prefs.HomeCity = analysis.HomeCity
		prefs.Learned = true
		updated = true
	}

	if len(analysis.CommonAirlines) > 0 && len(prefs.PreferredAirlines) == 0 {
		top := analysis.CommonAirlines
		if len(top) > 2 {
			top = top[:2]
		}
		prefs.PreferredAirlines = top
		updated = true
	}

	if analysis.AvgPriceRange != nil && prefs.Budget == nil {
		prefs.Budget = analysis.AvgPriceRange
		prefs.Learned = true
		updated = true
	}

	if !updated {
		return false, nil
	}

	prefs.UpdatedAt = service.now()
	if err := service.repo.SavePreferences(ctx, prefs); err != nil {
		return false, err
	}

	logrus.Infof("[USER] updated preferences for user %d from search history", userID)
	return true, nil
}

func (service *userService) LearningSummary(ctx context.Context, userID int64) (*domainUser.LearningAnalysis, error) {
	return service.analyzeHistory(ctx, userID)
}

func (service *userService) analyzeHistory(ctx context.Context, userID int64) (*domainUser.LearningAnalysis, error) {
	sessions, err := service.repo.RecentSessions(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	var destinations, airlines, cities []string
	var prices []float64

	for _, session := range sessions {
		info, _ := session.Context.Data["search_info"].(map[string]any)
		if dest, ok := info["destination"].(string); ok && dest != "" {
			destinations = append(destinations, dest)
		}
		if origin, ok := info["origin"].(string); ok && origin != "" {
			cities = append(cities, origin)
		}

		if session.Context.Type != "flight" {
			continue
		}
		flights, _ := session.Context.Data["flights"].([]any)
		for _, raw := range flights {
			flight, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if airline, ok := flight["airline"].(string); ok && airline != "" {
				airlines = append(airlines, airline)
			}
			if priceStr, ok := flight["price"].(string); ok {
				if price, ok := parsePrice(priceStr); ok {
					prices = append(prices, price)
				}
			}
		}
	}

	return &domainUser.LearningAnalysis{
		FavoriteDestinations: topItems(destinations, 3),
		CommonAirlines:       topItems(airlines, 3),
		HomeCity:             mostCommon(cities),
		AvgPriceRange:        priceRange(prices),
		TotalSearches:        len(sessions),
	}, nil
}

// parsePrice pulls the amount out of strings like "EUR 328.59" or "450".
func parsePrice(s string) (float64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	raw := strings.ReplaceAll(fields[len(fields)-1], ",", "")
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// topItems returns up to count items ordered by frequency, most common
// first. Ties break on first appearance so results stay deterministic.
func topItems(items []string, count int) []string {
	if len(items) == 0 {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string
	for i, item := range items {
		if _, ok := counts[item]; !ok {
			firstSeen[item] = i
			order = append(order, item)
		}
		counts[item]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > count {
		order = order[:count]
	}
	return order
}

func mostCommon(items []string) string {
	top := topItems(items, 1)
	if len(top) == 0 {
		return ""
	}
	return top[0]
}

// priceRange buckets the average observed price into one of three budget
// categories. Prices arrive in EUR; the buckets are USD.
func priceRange(prices []float64) *domainUser.BudgetRange {
	if len(prices) == 0 {
		return nil
	}

	var sum float64
	for _, p := range prices {
		sum += p
	}
	avgUSD := sum / float64(len(prices)) * 1.1

	switch {
	case avgUSD < 500:
		return &domainUser.BudgetRange{Min: 0, Max: 500, Category: "Budget"}
	case avgUSD < 1500:
		return &domainUser.BudgetRange{Min: 500, Max: 1500, Category: "Mid-range"}
	default:
		return &domainUser.BudgetRange{Min: 1500, Max: 10000, Category: "Premium"}
	}
}
