package beans

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mkohara/roastery/pkg/db/models"
	"github.com/mkohara/roastery/pkg/enums"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context) ([]BeanDTO, error)
	ListByUser(ctx context.Context, userID string) ([]BeanDTO, error)
	Get(ctx context.Context, id int) (*BeanDTO, error)
	Create(ctx context.Context, userID string, input CreateBeanInput) (*BeanDTO, error)
	Update(ctx context.Context, id int, userID string, input UpdateBeanInput) (*BeanDTO, error)
	Delete(ctx context.Context, id int, userID string) error
}

// CreateBeanInput holds the validated payload to create a listing.
type CreateBeanInput struct {
	Name         string
	Origin       string
	Price        int
	Process      string
	RoastProfile string
	FlavorNotes  []string
	Description  *string
	ImageURL     *string
}

// UpdateBeanInput mirrors create; listings are replaced whole per the contract.
type UpdateBeanInput = CreateBeanInput

type beanStore interface {
	List(ctx context.Context) ([]models.Bean, error)
	ListByUser(ctx context.Context, userID string) ([]models.Bean, error)
	FindByID(ctx context.Context, id int) (*models.Bean, error)
	Create(ctx context.Context, bean *models.Bean) (*models.Bean, error)
	Update(ctx context.Context, id int, userID string, bean *models.Bean) (*models.Bean, error)
	Delete(ctx context.Context, id int, userID string) error
}

type service struct {
	repo beanStore
}

// NewService constructs the catalog service.
func NewService(repo beanStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("beans repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]BeanDTO, error) {
	beans, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list beans")
	}
	return toDTOs(beans), nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]BeanDTO, error) {
	beans, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list beans by user")
	}
	return toDTOs(beans), nil
}

func (s *service) Get(ctx context.Context, id int) (*BeanDTO, error) {
	bean, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bean not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get bean")
	}
	return toDTO(bean), nil
}

func (s *service) Create(ctx context.Context, userID string, input CreateBeanInput) (*BeanDTO, error) {
	bean, err := buildBean(userID, input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, bean)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create bean")
	}
	return toDTO(created), nil
}

func (s *service) Update(ctx context.Context, id int, userID string, input UpdateBeanInput) (*BeanDTO, error) {
	bean, err := buildBean(userID, input)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, userID, bean)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bean not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update bean")
	}
	return toDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, id int, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "bean not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete bean")
	}
	return nil
}

func buildBean(userID string, input CreateBeanInput) (*models.Bean, error) {
	process, err := enums.ParseBeanProcess(strings.ToLower(input.Process))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid process").
			WithDetails(map[string]string{"process": input.Process})
	}
	profile, err := enums.ParseRoastProfile(strings.ToLower(input.RoastProfile))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid roast profile").
			WithDetails(map[string]string{"roast_profile": input.RoastProfile})
	}
	return &models.Bean{
		Name:         input.Name,
		Origin:       input.Origin,
		Price:        input.Price,
		Process:      process,
		RoastProfile: profile,
		FlavorNotes:  input.FlavorNotes,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		UserID:       userID,
	}, nil
}
