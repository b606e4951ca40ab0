package consent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles PDPA consent settings
type Service struct {
	repo Repository
}

// NewService creates consent service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Current returns the latest consent, or the defaults at version 0 when
// the subject never recorded one
func (s *Service) Current(ctx context.Context, subject Subject) (*Record, error) {
	rec, err := s.repo.Latest(ctx, subject)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}
	return &Record{
		SubjectType:   subject.Type,
		SubjectID:     subject.ID,
		PolicyVersion: CurrentPolicyVersion,
		Settings:      DefaultSettings(),
	}, nil
}

// Update appends a new consent version. Categories left out keep
// their current value.
func (s *Service) Update(ctx context.Context, subject Subject, req *UpdateRequest, ip, userAgent string) (*Record, error) {
	current, err := s.Current(ctx, subject)
	if err != nil {
		return nil, err
	}

	settings := make(Settings, len(Categories))
	for c, v := range current.Settings {
		settings[c] = v
	}
	for name, granted := range req.Categories {
		c := Category(name)
		if !isKnown(c) {
			return nil, ErrUnknownCategory
		}
		if c == CategoryNecessary && !granted {
			return nil, ErrNecessaryRequired
		}
		settings[c] = granted
	}
	settings[CategoryNecessary] = true

	policy := req.PolicyVersion
	if policy == "" {
		policy = CurrentPolicyVersion
	}

	rec := &Record{
		ID:            uuid.New(),
		SubjectType:   subject.Type,
		SubjectID:     subject.ID,
		PolicyVersion: policy,
		Settings:      settings,
		IPAddress:     ip,
		UserAgent:     userAgent,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		return nil, err
	}

	log.Info().
		Str("subject_type", string(subject.Type)).
		Str("subject_id", subject.ID.String()).
		Int("version", rec.Version).
		Bool("analytics", settings[CategoryAnalytics]).
		Bool("marketing", settings[CategoryMarketing]).
		Msg("consent recorded")
	return rec, nil
}

// History returns the subject's consent versions, newest first
func (s *Service) History(ctx context.Context, subject Subject, limit int) ([]*Record, error) {
	return s.repo.History(ctx, subject, limit)
}

func isKnown(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
