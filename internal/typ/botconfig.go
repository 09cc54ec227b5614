package typ

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Tone represents the conversational tone configured for a bot
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneCasual       Tone = "casual"
	ToneFormal       Tone = "formal"
	ToneEnthusiastic Tone = "enthusiastic"
	ToneHelpful      Tone = "helpful"
)

// toneDescriptions maps each tone to the phrasing used in the generated
// system message. Unknown tones fall back to the professional description.
var toneDescriptions = map[Tone]string{
	ToneProfessional: "professional and courteous",
	ToneFriendly:     "friendly and approachable",
	ToneCasual:       "casual and relaxed",
	ToneFormal:       "formal and respectful",
	ToneEnthusiastic: "enthusiastic and energetic",
	ToneHelpful:      "helpful and supportive",
}

// Description returns the system-message phrasing for the tone
func (t Tone) Description() string {
	if desc, ok := toneDescriptions[t]; ok {
		return desc
	}
	return "professional and courteous"
}

// Valid reports whether the tone is a member of the enumeration
func (t Tone) Valid() bool {
	_, ok := toneDescriptions[t]
	return ok
}

// PersonalityTrait represents a single configurable personality trait
type PersonalityTrait string

const (
	TraitPatient        PersonalityTrait = "patient"
	TraitKnowledgeable  PersonalityTrait = "knowledgeable"
	TraitEmpathetic     PersonalityTrait = "empathetic"
	TraitEfficient      PersonalityTrait = "efficient"
	TraitDetailOriented PersonalityTrait = "detail-oriented"
	TraitProactive      PersonalityTrait = "proactive"
)

var validTraits = map[PersonalityTrait]struct{}{
	TraitPatient:        {},
	TraitKnowledgeable:  {},
	TraitEmpathetic:     {},
	TraitEfficient:      {},
	TraitDetailOriented: {},
	TraitProactive:      {},
}

// Valid reports whether the trait is a member of the enumeration
func (p PersonalityTrait) Valid() bool {
	_, ok := validTraits[p]
	return ok
}

// StringList is a string slice stored as a JSON array in a single column
type StringList []string

// Value implements driver.Valuer for GORM serialization
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM deserialization
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}
	switch v := value.(type) {
	case string:
		return json.Unmarshal([]byte(v), s)
	case []byte:
		return json.Unmarshal(v, s)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Default field values applied at creation time
const (
	DefaultPrimaryRole     = "customer support assistant"
	DefaultLanguage        = "English"
	DefaultFallbackMessage = "I apologize, but I can only assist with questions related to our company and services."
	DefaultGreetingMessage = "Hello! How can I help you today?"
	DefaultCreatedBy       = "system"

	DefaultMaxResponseLength = 1000
	MinResponseLength        = 100
	MaxResponseLength        = 2000
)

// BotConfig is a tenant's persisted bot configuration record
type BotConfig struct {
	ID                uint             `json:"-" gorm:"primaryKey;autoIncrement;column:id"`
	BotID             string           `json:"botId" gorm:"column:bot_id;uniqueIndex;not null"`
	CompanyName       string           `json:"companyName" gorm:"column:company_name;not null"`
	Industry          string           `json:"industry,omitempty" gorm:"column:industry"`
	AllowedOrigins    StringList       `json:"allowedOrigins" gorm:"column:allowed_origins;type:text"`
	Tone              Tone             `json:"tone" gorm:"column:tone;not null"`
	PrimaryRole       string           `json:"primaryRole" gorm:"column:primary_role;not null"`
	AllowedTopics     StringList       `json:"allowedTopics" gorm:"column:allowed_topics;type:text"`
	Restrictions      StringList       `json:"restrictions" gorm:"column:restrictions;type:text"`
	WebsiteURL        string           `json:"websiteUrl,omitempty" gorm:"column:website_url"`
	SupportEmail      string           `json:"supportEmail,omitempty" gorm:"column:support_email"`
	BusinessHours     string           `json:"businessHours,omitempty" gorm:"column:business_hours"`
	MaxResponseLength int              `json:"maxResponseLength" gorm:"column:max_response_length;not null"`
	Language          string           `json:"language" gorm:"column:language;not null"`
	PersonalityTraits StringList       `json:"personalityTraits" gorm:"column:personality_traits;type:text"`
	FallbackMessage   string           `json:"fallbackMessage" gorm:"column:fallback_message;not null"`
	GreetingMessage   string           `json:"greetingMessage" gorm:"column:greeting_message;not null"`
	CreatedBy         string           `json:"createdBy" gorm:"column:created_by;not null"`
	IsActive          bool             `json:"isActive" gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time        `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt         time.Time        `json:"updatedAt" gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (BotConfig) TableName() string {
	return "bot_configs"
}

// ApplyDefaults fills zero-valued fields with their creation-time defaults.
// BotID is left alone; the store generates it.
func (c *BotConfig) ApplyDefaults() {
	if c.Tone == "" {
		c.Tone = ToneProfessional
	}
	if c.PrimaryRole == "" {
		c.PrimaryRole = DefaultPrimaryRole
	}
	if c.MaxResponseLength == 0 {
		c.MaxResponseLength = DefaultMaxResponseLength
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.FallbackMessage == "" {
		c.FallbackMessage = DefaultFallbackMessage
	}
	if c.GreetingMessage == "" {
		c.GreetingMessage = DefaultGreetingMessage
	}
	if c.CreatedBy == "" {
		c.CreatedBy = DefaultCreatedBy
	}
	if c.AllowedOrigins == nil {
		c.AllowedOrigins = StringList{}
	}
	if c.AllowedTopics == nil {
		c.AllowedTopics = StringList{}
	}
	if c.Restrictions == nil {
		c.Restrictions = StringList{}
	}
	if c.PersonalityTraits == nil {
		c.PersonalityTraits = StringList{}
	}
}

// Validate enforces the write-time invariants on the record
func (c *BotConfig) Validate() error {
	if c.CompanyName == "" {
		return fmt.Errorf("companyName is required")
	}
	if !c.Tone.Valid() {
		return fmt.Errorf("invalid tone: %q", c.Tone)
	}
	for _, trait := range c.PersonalityTraits {
		if !PersonalityTrait(trait).Valid() {
			return fmt.Errorf("invalid personality trait: %q", trait)
		}
	}
	if c.MaxResponseLength < MinResponseLength || c.MaxResponseLength > MaxResponseLength {
		return fmt.Errorf("maxResponseLength must be between %d and %d", MinResponseLength, MaxResponseLength)
	}
	return nil
}

// OriginAllowed reports whether origin is an exact member of the allow-list
func (c *BotConfig) OriginAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}
