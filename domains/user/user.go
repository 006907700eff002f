package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

type User struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	FirstName  string    `json:"first_name"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// SearchContext is the payload persisted with a session: the last search a
// user ran, kept for 30 minutes so follow-up messages can reference it.
type SearchContext struct {
	Type      string         `json:"type"` // "flight" or "hotel"
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type Session struct {
	SessionID string        `json:"session_id"`
	UserID    int64         `json:"user_id"`
	Context   SearchContext `json:"context"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

type BudgetRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Category string  `json:"category,omitempty"`
}

type Preferences struct {
	UserID            int64        `json:"user_id"`
	PreferredAirlines []string     `json:"preferred_airlines,omitempty"`
	HomeCity          string       `json:"home_city,omitempty"`
	Budget            *BudgetRange `json:"budget,omitempty"`
	Learned           bool         `json:"learned"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// LearningAnalysis summarizes patterns mined from recent search sessions.
type LearningAnalysis struct {
	FavoriteDestinations []string     `json:"favorite_destinations"`
	CommonAirlines       []string     `json:"common_airlines"`
	HomeCity             string       `json:"home_city,omitempty"`
	AvgPriceRange        *BudgetRange `json:"avg_price_range,omitempty"`
	TotalSearches        int          `json:"total_searches"`
}

type Repository interface {
	UpsertUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, userID int64) (*User, error)

	SaveSession(ctx context.Context, s *Session) error
	GetActiveSession(ctx context.Context, userID int64, now time.Time) (*Session, error)
	RecentSessions(ctx context.Context, userID int64, limit int) ([]*Session, error)

	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	SavePreferences(ctx context.Context, p *Preferences) error
}

type IUserUsecase interface {
	// SaveSearchContext records the latest search for a user, creating the
	// user row on first contact, and refreshes the 30-minute session TTL.
	SaveSearchContext(ctx context.Context, userID int64, firstName, searchType string, data map[string]any) error
	GetActiveSession(ctx context.Context, userID int64) (*Session, error)

	GetHomeCity(ctx context.Context, userID int64) string
	GetBudget(ctx context.Context, userID int64) *BudgetRange
	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)

	// LearnFromHistory mines recent sessions and persists any newly learned
	// preferences. Returns false when history is too thin to learn from.
	LearnFromHistory(ctx context.Context, userID int64) (bool, error)
	LearningSummary(ctx context.Context, userID int64) (*LearningAnalysis, error)
}
