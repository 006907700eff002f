package usecase

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	domainUser "github.com/onlyWebstar/travel-bot/domains/user"
	"github.com/onlyWebstar/travel-bot/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type userFixture struct {
	svc  *userService
	repo *repository.UserGormRepository
	now  time.Time
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "user_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := repository.NewUserGormRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))

	f := &userFixture{
		repo: repo,
		now:  time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC),
	}
	f.svc = &userService{
		repo:       repo,
		sessionTTL: 30 * time.Minute,
		now:        func() time.Time { return f.now },
	}
	return f
}

func (f *userFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// saveFlightSearch records one flight search session the way the chat flow
// does, with results and search_info attached for later mining.
func (f *userFixture) saveFlightSearch(t *testing.T, userID int64, origin, destination string, flights []map[string]any) {
	t.Helper()
	err := f.svc.SaveSearchContext(context.Background(), userID, "Ada", "flight", map[string]any{
		"search_info": map[string]any{
			"origin":      origin,
			"destination": destination,
		},
		"flights": flights,
	})
	require.NoError(t, err)
}

func TestUser_SaveSearchContextCreatesUserAndSession(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.saveFlightSearch(t, 42, "Paris", "London", nil)

	u, err := f.repo.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "en", u.Language)

	session, err := f.svc.GetActiveSession(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "flight", session.Context.Type)
	assert.WithinDuration(t, f.now.Add(30*time.Minute), session.ExpiresAt, time.Second)

	info, ok := session.Context.Data["search_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "London", info["destination"])
}

func TestUser_DefaultFirstName(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	err := f.svc.SaveSearchContext(ctx, 7, "", "hotel", map[string]any{})
	require.NoError(t, err)

	u, err := f.repo.GetUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Traveler", u.FirstName)
}

func TestUser_SessionExpiresAfterTTL(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.saveFlightSearch(t, 42, "Paris", "London", nil)

	f.advance(29 * time.Minute)
	_, err := f.svc.GetActiveSession(ctx, 42)
	require.NoError(t, err)

	f.advance(2 * time.Minute)
	_, err = f.svc.GetActiveSession(ctx, 42)
	assert.ErrorIs(t, err, domainUser.ErrSessionNotFound)
}

func TestUser_ActiveSessionIsNewest(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.saveFlightSearch(t, 42, "Paris", "London", nil)
	f.advance(5 * time.Minute)
	f.saveFlightSearch(t, 42, "Paris", "Dubai", nil)

	session, err := f.svc.GetActiveSession(ctx, 42)
	require.NoError(t, err)
	info := session.Context.Data["search_info"].(map[string]any)
	assert.Equal(t, "Dubai", info["destination"])
}

func TestUser_LearnFromHistoryNeedsThreeSearches(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.saveFlightSearch(t, 42, "Paris", "London", nil)
	f.advance(time.Minute)
	f.saveFlightSearch(t, 42, "Paris", "Dubai", nil)

	learned, err := f.svc.LearnFromHistory(ctx, 42)
	require.NoError(t, err)
	assert.False(t, learned)

	_, err = f.svc.GetPreferences(ctx, 42)
	assert.ErrorIs(t, err, domainUser.ErrUserNotFound)
}

func TestUser_LearnFromHistory(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	flights := []map[string]any{
		{"airline": "AF", "price": "EUR 300.00"},
		{"airline": "AF", "price": "EUR 320.00"},
		{"airline": "LH", "price": "EUR 280.00"},
	}
	for i := 0; i < 3; i++ {
		f.saveFlightSearch(t, 42, "Paris", "London", flights)
		f.advance(time.Minute)
	}

	learned, err := f.svc.LearnFromHistory(ctx, 42)
	require.NoError(t, err)
	assert.True(t, learned)

	prefs, err := f.svc.GetPreferences(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Paris", prefs.HomeCity)
	assert.Equal(t, []string{"AF", "LH"}, prefs.PreferredAirlines)
	require.NotNil(t, prefs.Budget)
	assert.Equal(t, "Budget", prefs.Budget.Category)
	assert.True(t, prefs.Learned)
}

func TestUser_LearningKeepsExplicitPreferences(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.SavePreferences(ctx, &domainUser.Preferences{
		UserID:            42,
		HomeCity:          "Berlin",
		PreferredAirlines: []string{"EK"},
	}))

	flights := []map[string]any{{"airline": "AF", "price": "EUR 2000.00"}}
	for i := 0; i < 3; i++ {
		f.saveFlightSearch(t, 42, "Paris", "London", flights)
		f.advance(time.Minute)
	}

	learned, err := f.svc.LearnFromHistory(ctx, 42)
	require.NoError(t, err)
	assert.True(t, learned) // budget was still unset

	prefs, err := f.svc.GetPreferences(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", prefs.HomeCity)
	assert.Equal(t, []string{"EK"}, prefs.PreferredAirlines)
	require.NotNil(t, prefs.Budget)
	assert.Equal(t, "Premium", prefs.Budget.Category)
}

func TestUser_LearningReplacesDefaultHomeCity(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.SavePreferences(ctx, &domainUser.Preferences{
		UserID:   42,
		HomeCity: "Lagos",
	}))

	for i := 0; i < 3; i++ {
		f.saveFlightSearch(t, 42, "Paris", "London", nil)
		f.advance(time.Minute)
	}

	learned, err := f.svc.LearnFromHistory(ctx, 42)
	require.NoError(t, err)
	assert.True(t, learned)

	prefs, err := f.svc.GetPreferences(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Paris", prefs.HomeCity)
}

func TestUser_LearningSummary(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.saveFlightSearch(t, 42, "Paris", "London", nil)
	f.advance(time.Minute)
	f.saveFlightSearch(t, 42, "Paris", "London", nil)
	f.advance(time.Minute)
	f.saveFlightSearch(t, 42, "Lagos", "Dubai", nil)

	analysis, err := f.svc.LearningSummary(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, 3, analysis.TotalSearches)
	assert.Equal(t, []string{"London", "Dubai"}, analysis.FavoriteDestinations)
	assert.Equal(t, "Paris", analysis.HomeCity)
	assert.Nil(t, analysis.AvgPriceRange)
}

func TestUser_LearningSummaryEmptyHistory(t *testing.T) {
	f := newUserFixture(t)

	analysis, err := f.svc.LearningSummary(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, analysis)
}

func TestUser_TopItemsTieBreak(t *testing.T) {
	got := topItems([]string{"b", "a", "b", "a", "c"}, 2)
	assert.Equal(t, []string{"b", "a"}, got)

	assert.Nil(t, topItems(nil, 3))
}

func TestUser_ParsePrice(t *testing.T) {
	price, ok := parsePrice("EUR 1,328.59")
	require.True(t, ok)
	assert.InDelta(t, 1328.59, price, 0.001)

	price, ok = parsePrice("450")
	require.True(t, ok)
	assert.InDelta(t, 450, price, 0.001)

	_, ok = parsePrice("")
	assert.False(t, ok)
	_, ok = parsePrice("EUR abc")
	assert.False(t, ok)
}
