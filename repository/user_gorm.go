package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	domainUser "github.com/onlyWebstar/travel-bot/domains/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Persistence Models ---

type userModel struct {
	UserID     int64  `gorm:"primaryKey"`
	Username   string `gorm:"size:255"`
	FirstName  string `gorm:"size:255;not null"`
	Language   string `gorm:"size:10;default:'en'"`
	CreatedAt  time.Time
	LastActive time.Time
}

func (userModel) TableName() string {
	return "users"
}

type sessionModel struct {
	SessionID string `gorm:"primaryKey;size:36"`
	UserID    int64  `gorm:"index:idx_sessions_user"`
	Context   string `gorm:"type:text;default:'{}'"` // JSON
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index:idx_sessions_expires"`
}

func (sessionModel) TableName() string {
	return "sessions"
}

type preferencesModel struct {
	UserID            int64  `gorm:"primaryKey"`
	PreferredAirlines string `gorm:"type:text"`              // comma-separated
	BudgetRanges      string `gorm:"type:text;default:'{}'"` // JSON
	UpdatedAt         time.Time
}

func (preferencesModel) TableName() string {
	return "preferences"
}

// budgetRanges is the JSON shape persisted in preferences.budget_ranges.
// It also carries the learned home city, as the original schema did.
type budgetRanges struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Category string  `json:"category,omitempty"`
	HomeCity string  `json:"home_city,omitempty"`
	Learned  bool    `json:"learned,omitempty"`
}

// --- Repository Implementation ---

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&userModel{}, &sessionModel{}, &preferencesModel{})
}

func (r *UserGormRepository) UpsertUser(ctx context.Context, u *domainUser.User) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.LastActive = now
	if u.Language == "" {
		u.Language = "en"
	}

	m := userModel{
		UserID:     u.UserID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		Language:   u.Language,
		CreatedAt:  u.CreatedAt,
		LastActive: u.LastActive,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "language", "last_active"}),
	}).Create(&m).Error
}

func (r *UserGormRepository) GetUser(ctx context.Context, userID int64) (*domainUser.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainUser.ErrUserNotFound
		}
		return nil, err
	}
	return &domainUser.User{
		UserID:     m.UserID,
		Username:   m.Username,
		FirstName:  m.FirstName,
		Language:   m.Language,
		CreatedAt:  m.CreatedAt,
		LastActive: m.LastActive,
	}, nil
}

// SaveSession appends a session row. History is kept so preference learning
// can mine past searches; the active session is always the newest unexpired
// row. The search context is serialized to JSON text for SQLite
// compatibility.
func (r *UserGormRepository) SaveSession(ctx context.Context, s *domainUser.Session) error {
	if s.SessionID == "" {
		s.SessionID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	contextJSON, err := json.Marshal(s.Context)
	if err != nil {
		return err
	}

	m := sessionModel{
		SessionID: s.SessionID,
		UserID:    s.UserID,
		Context:   string(contextJSON),
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *UserGormRepository) GetActiveSession(ctx context.Context, userID int64, now time.Time) (*domainUser.Session, error) {
	var m sessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at desc").
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainUser.ErrSessionNotFound
		}
		return nil, err
	}
	return fromSessionModel(m)
}

func (r *UserGormRepository) RecentSessions(ctx context.Context, userID int64, limit int) ([]*domainUser.Session, error) {
	if limit <= 0 {
		limit = 10
	}
	var models []sessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*domainUser.Session, 0, len(models))
	for _, m := range models {
		s, err := fromSessionModel(m)
		if err != nil {
			continue // skip rows with corrupt context JSON
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *UserGormRepository) GetPreferences(ctx context.Context, userID int64) (*domainUser.Preferences, error) {
	var m preferencesModel
	if err := r.db.WithContext(ctx).First(&m, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domainUser.ErrUserNotFound
		}
		return nil, err
	}

	var ranges budgetRanges
	if m.BudgetRanges != "" {
		if err := json.Unmarshal([]byte(m.BudgetRanges), &ranges); err != nil {
			ranges = budgetRanges{}
		}
	}

	prefs := &domainUser.Preferences{
		UserID:    m.UserID,
		HomeCity:  ranges.HomeCity,
		Learned:   ranges.Learned,
		UpdatedAt: m.UpdatedAt,
	}
	if m.PreferredAirlines != "" {
		for _, a := range strings.Split(m.PreferredAirlines, ",") {
			if a = strings.TrimSpace(a); a != "" {
				prefs.PreferredAirlines = append(prefs.PreferredAirlines, a)
			}
		}
	}
	if ranges.Min != 0 || ranges.Max != 0 {
		prefs.Budget = &domainUser.BudgetRange{Min: ranges.Min, Max: ranges.Max, Category: ranges.Category}
	}
	return prefs, nil
}

func (r *UserGormRepository) SavePreferences(ctx context.Context, p *domainUser.Preferences) error {
	ranges := budgetRanges{HomeCity: p.HomeCity, Learned: p.Learned}
	if p.Budget != nil {
		ranges.Min = p.Budget.Min
		ranges.Max = p.Budget.Max
		ranges.Category = p.Budget.Category
	}
	rangesJSON, err := json.Marshal(ranges)
	if err != nil {
		return err
	}

	m := preferencesModel{
		UserID:            p.UserID,
		PreferredAirlines: strings.Join(p.PreferredAirlines, ", "),
		BudgetRanges:      string(rangesJSON),
		UpdatedAt:         time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"preferred_airlines", "budget_ranges", "updated_at"}),
	}).Create(&m).Error
}

func fromSessionModel(m sessionModel) (*domainUser.Session, error) {
	var sc domainUser.SearchContext
	if m.Context != "" {
		if err := json.Unmarshal([]byte(m.Context), &sc); err != nil {
			return nil, err
		}
	}
	return &domainUser.Session{
		SessionID: m.SessionID,
		UserID:    m.UserID,
		Context:   sc,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}, nil
}
