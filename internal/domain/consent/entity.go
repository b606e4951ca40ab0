package consent

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category of personal data processing a visitor can opt in to
type Category string

const (
	CategoryNecessary       Category = "necessary"
	CategoryAnalytics       Category = "analytics"
	CategoryMarketing       Category = "marketing"
	CategoryPersonalization Category = "personalization"
)

// Categories lists every category in display order
var Categories = []Category{CategoryNecessary, CategoryAnalytics, CategoryMarketing, CategoryPersonalization}

// CurrentPolicyVersion is the privacy policy revision new consents refer to
const CurrentPolicyVersion = "2024-06"

// SubjectType tells whether consent belongs to an account or a browser
type SubjectType string

const (
	SubjectUser      SubjectType = "user"
	SubjectAnonymous SubjectType = "anonymous"
)

// Subject identifies whose consent is recorded
type Subject struct {
	Type SubjectType
	ID   uuid.UUID
}

// Settings is the per-category state, stored as JSONB
type Settings map[Category]bool

// DefaultSettings grants only what the service cannot run without
func DefaultSettings() Settings {
	s := make(Settings, len(Categories))
	for _, c := range Categories {
		s[c] = c == CategoryNecessary
	}
	return s
}

// Value implements driver.Valuer
func (s Settings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *Settings) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*s = DefaultSettings()
		return nil
	default:
		return errors.New("consent: unsupported settings type")
	}
	return json.Unmarshal(raw, s)
}

// Record is one entry of the append-only consent history
type Record struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	SubjectType   SubjectType `db:"subject_type" json:"subject_type"`
	SubjectID     uuid.UUID   `db:"subject_id" json:"subject_id"`
	Version       int         `db:"version" json:"version"`
	PolicyVersion string      `db:"policy_version" json:"policy_version"`
	Settings      Settings    `db:"settings" json:"categories"`
	IPAddress     string      `db:"ip_address" json:"-"`
	UserAgent     string      `db:"user_agent" json:"-"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
}

// UpdateRequest for PUT /consent
type UpdateRequest struct {
	Categories    map[string]bool `json:"categories" validate:"required"`
	PolicyVersion string          `json:"policy_version" validate:"omitempty,max=32"`
}
