package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"careeros-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// GetByUserID retrieves the candidate profile for a user.
func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT id, user_id, name, headline, cv_text, resume_url, skills, target_roles, preferences, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`

	var (
		profile  domain.Profile
		prefsRaw []byte
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.Name, &profile.Headline,
		&profile.CVText, &profile.ResumeURL, &profile.Skills, &profile.TargetRoles,
		&prefsRaw, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if len(prefsRaw) > 0 {
		if err := json.Unmarshal(prefsRaw, &profile.Preferences); err != nil {
			return nil, err
		}
	}
	return &profile, nil
}

// Upsert creates or replaces the profile keyed by user id.
func (r *profileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	prefsRaw, err := json.Marshal(profile.Preferences)
	if err != nil {
		return err
	}

	now := time.Now()
	if profile.ID == "" {
		profile.ID = uuid.NewString()
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.TargetRoles == nil {
		profile.TargetRoles = []string{}
	}

	query := `
		INSERT INTO profiles (id, user_id, name, headline, cv_text, resume_url, skills, target_roles, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id)
		DO UPDATE SET name = $3, headline = $4, cv_text = $5, resume_url = $6, skills = $7, target_roles = $8, preferences = $9, updated_at = $11`

	_, err = r.db.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Name,
		profile.Headline,
		profile.CVText,
		profile.ResumeURL,
		profile.Skills,
		profile.TargetRoles,
		prefsRaw,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}
