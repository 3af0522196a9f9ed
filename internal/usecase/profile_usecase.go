package usecase

import (
	"context"
	"errors"

	"careeros-backend/internal/domain"
	"careeros-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	validate    *validator.Validate
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(profileRepo domain.ProfileRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo: profileRepo,
		validate:    validate,
	}
}

// GetProfile returns the user's profile, or an empty one if none exists yet
// so the client always has a shape to edit.
func (uc *profileUsecase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.Profile{
				UserID:      userID,
				Skills:      []string{},
				TargetRoles: []string{},
				Preferences: domain.ProfilePreferences{IncludePRD: true},
			}, nil
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

// UpdateProfile applies a partial update and upserts the profile. Fields
// left nil in the request are preserved.
func (uc *profileUsecase) UpdateProfile(ctx context.Context, userID string, in domain.ProfileUpdate) (*domain.Profile, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	profile, err := uc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		profile.Name = *in.Name
	}
	if in.Headline != nil {
		profile.Headline = *in.Headline
	}
	if in.CVText != nil {
		profile.CVText = *in.CVText
	}
	if in.ResumeURL != nil {
		profile.ResumeURL = *in.ResumeURL
	}
	if in.Skills != nil {
		profile.Skills = in.Skills
	}
	if in.TargetRoles != nil {
		profile.TargetRoles = in.TargetRoles
	}
	if in.PriorPRDs != nil {
		profile.Preferences.PriorPRDs = *in.PriorPRDs
	}
	if in.IncludePRD != nil {
		profile.Preferences.IncludePRD = *in.IncludePRD
	}

	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}
