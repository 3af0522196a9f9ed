package domain

import (
	"context"
	"time"
)

// ProfilePreferences is the free-form preference bag stored as JSONB.
type ProfilePreferences struct {
	PriorPRDs  string `json:"prior_prds,omitempty"`
	IncludePRD bool   `json:"include_prd"`
}

// Profile holds the candidate data that seeds artifact generation. The
// pipeline reads it, never writes it.
type Profile struct {
	ID          string             `json:"id"`
	UserID      string             `json:"-"`
	Name        string             `json:"name"`
	Headline    string             `json:"headline"`
	CVText      string             `json:"cv_text"`
	ResumeURL   string             `json:"resume_url"`
	Skills      []string           `json:"skills"`
	TargetRoles []string           `json:"target_roles"`
	Preferences ProfilePreferences `json:"preferences"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CandidateName returns the name used to address the candidate in generated
// artifacts, falling back to the headline.
func (p *Profile) CandidateName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Headline != "" {
		return p.Headline
	}
	return "Candidate"
}

// ProfileUpdate is the explicit partial-update shape for profile writes.
type ProfileUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,max=120"`
	Headline    *string  `json:"headline" validate:"omitempty,max=200"`
	CVText      *string  `json:"cv_text"`
	ResumeURL   *string  `json:"resume_url" validate:"omitempty,url"`
	Skills      []string `json:"skills"`
	TargetRoles []string `json:"target_roles"`
	PriorPRDs   *string  `json:"prior_prds"`
	IncludePRD  *bool    `json:"include_prd"`
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*Profile, error)
}
