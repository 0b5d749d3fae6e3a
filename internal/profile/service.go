package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/mkohara/roastery/pkg/db/models"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

// hyphenated form only, matching what the storefront submits
var postCodePattern = regexp.MustCompile(`^\d{3}-\d{4}$`)

// UpsertProfileInput carries the writable profile fields.
type UpsertProfileInput struct {
	DisplayName string
	IconURL     string
	PostCode    string
	Address     string
	AboutMe     string
}

// Service exposes profile reads and writes for the calling user.
type Service interface {
	Get(ctx context.Context, userID string) (*ProfileDTO, error)
	Upsert(ctx context.Context, userID string, input UpsertProfileInput) (*ProfileDTO, error)
}

type profileStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, prof *models.Profile) error
}

type service struct {
	repo profileStore
}

// NewService constructs the profile service.
func NewService(repo profileStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID string) (*ProfileDTO, error) {
	prof, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return toDTO(prof), nil
}

func (s *service) Upsert(ctx context.Context, userID string, input UpsertProfileInput) (*ProfileDTO, error) {
	if input.DisplayName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}
	if input.PostCode != "" && !postCodePattern.MatchString(input.PostCode) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post code must look like 123-4567")
	}

	prof := &models.Profile{
		UserID:      userID,
		DisplayName: input.DisplayName,
		IconURL:     input.IconURL,
		PostCode:    input.PostCode,
		Address:     input.Address,
		AboutMe:     input.AboutMe,
	}
	if err := s.repo.Upsert(ctx, prof); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save profile")
	}

	saved, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload profile")
	}
	return toDTO(saved), nil
}
