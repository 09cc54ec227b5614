package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/botforge/botgate/internal/typ"
)

var (
	// ErrNotFound is returned when no active record matches the lookup
	ErrNotFound = errors.New("bot config not found")
	// ErrDuplicate is returned when a create violates the botId unique index
	ErrDuplicate = errors.New("bot config already exists")
)

// BotStore persists bot configurations in SQLite using GORM.
type BotStore struct {
	db *gorm.DB
}

// Open creates or loads the bot store at dbPath. Use ":memory:" for tests.
func Open(dbPath string) (*BotStore, error) {
	logrus.Infof("Opening SQLite database for bot store: %s", dbPath)
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = dbPath + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=1"
	}
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open bot database: %w", err)
	}

	// in-memory databases exist per connection; keep the pool at one
	if dbPath == ":memory:" {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := gdb.AutoMigrate(&typ.BotConfig{}); err != nil {
		return nil, fmt.Errorf("failed to migrate bot database: %w", err)
	}

	return &BotStore{db: gdb}, nil
}

// NewBotID generates a unique bot identifier. The shape stays compatible
// with identifiers issued by earlier deployments (bot_<millis>_<suffix>).
func NewBotID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("bot_%d_%s", time.Now().UnixMilli(), suffix)
}

// Create stores a new configuration record. Defaults are applied and the
// record validated before insert. A botId collision returns ErrDuplicate.
func (s *BotStore) Create(cfg *typ.BotConfig) error {
	cfg.ApplyDefaults()
	if cfg.BotID == "" {
		cfg.BotID = NewBotID()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.IsActive = true

	if err := s.db.Create(cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, cfg.BotID)
		}
		return fmt.Errorf("failed to create bot config: %w", err)
	}
	return nil
}

// GetActive returns the active record for botID. Soft-deleted records
// behave as not found.
func (s *BotStore) GetActive(botID string) (*typ.BotConfig, error) {
	var cfg typ.BotConfig
	err := s.db.Where("bot_id = ? AND is_active = ?", botID, true).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up bot config: %w", err)
	}
	return &cfg, nil
}

// GetAny returns the record for botID regardless of its active flag.
// Privileged lookup; handlers never expose it.
func (s *BotStore) GetAny(botID string) (*typ.BotConfig, error) {
	var cfg typ.BotConfig
	err := s.db.Where("bot_id = ?", botID).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up bot config: %w", err)
	}
	return &cfg, nil
}

// immutableFields may not be changed through Update
var immutableFields = map[string]struct{}{
	"botId":     {},
	"createdBy": {},
}

// Update applies a partial update to an active record. Attempts to change
// botId or createdBy are rejected before anything is written.
func (s *BotStore) Update(botID string, patch map[string]interface{}) (*typ.BotConfig, error) {
	for field := range patch {
		if _, immutable := immutableFields[field]; immutable {
			return nil, fmt.Errorf("field %q cannot be modified", field)
		}
	}

	cfg, err := s.GetActive(botID)
	if err != nil {
		return nil, err
	}

	applyPatch(cfg, patch)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Save(cfg).Error; err != nil {
		return nil, fmt.Errorf("failed to update bot config: %w", err)
	}
	return cfg, nil
}

// SoftDelete flips isActive to false. Already-inactive or absent records
// return ErrNotFound.
func (s *BotStore) SoftDelete(botID string) error {
	result := s.db.Model(&typ.BotConfig{}).
		Where("bot_id = ? AND is_active = ?", botID, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to delete bot config: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of active records, newest first, optionally filtered
// by a case-insensitive substring match on companyName.
func (s *BotStore) List(page, limit int, companyName string) ([]typ.BotConfig, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := s.db.Model(&typ.BotConfig{}).Where("is_active = ?", true)
	if companyName != "" {
		query = query.Where("LOWER(company_name) LIKE ?", "%"+strings.ToLower(companyName)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bot configs: %w", err)
	}

	var configs []typ.BotConfig
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&configs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bot configs: %w", err)
	}
	return configs, total, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// applyPatch copies recognized fields from a JSON patch onto the record
func applyPatch(cfg *typ.BotConfig, patch map[string]interface{}) {
	if v, ok := patch["companyName"].(string); ok {
		cfg.CompanyName = v
	}
	if v, ok := patch["industry"].(string); ok {
		cfg.Industry = v
	}
	if v, ok := patch["tone"].(string); ok {
		cfg.Tone = typ.Tone(v)
	}
	if v, ok := patch["primaryRole"].(string); ok {
		cfg.PrimaryRole = v
	}
	if v, ok := patch["websiteUrl"].(string); ok {
		cfg.WebsiteURL = v
	}
	if v, ok := patch["supportEmail"].(string); ok {
		cfg.SupportEmail = v
	}
	if v, ok := patch["businessHours"].(string); ok {
		cfg.BusinessHours = v
	}
	if v, ok := patch["language"].(string); ok {
		cfg.Language = v
	}
	if v, ok := patch["fallbackMessage"].(string); ok {
		cfg.FallbackMessage = v
	}
	if v, ok := patch["greetingMessage"].(string); ok {
		cfg.GreetingMessage = v
	}
	if v, ok := patch["maxResponseLength"].(float64); ok {
		cfg.MaxResponseLength = int(v)
	}
	if v, ok := patch["allowedOrigins"]; ok {
		cfg.AllowedOrigins = toStringList(v)
	}
	if v, ok := patch["allowedTopics"]; ok {
		cfg.AllowedTopics = toStringList(v)
	}
	if v, ok := patch["restrictions"]; ok {
		cfg.Restrictions = toStringList(v)
	}
	if v, ok := patch["personalityTraits"]; ok {
		cfg.PersonalityTraits = toStringList(v)
	}
}

func toStringList(v interface{}) typ.StringList {
	items, ok := v.([]interface{})
	if !ok {
		return typ.StringList{}
	}
	out := make(typ.StringList, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
