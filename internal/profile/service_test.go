package profile

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/mkohara/roastery/pkg/db/models"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

type stubProfileStore struct {
	stored *models.Profile
}

func (s *stubProfileStore) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if s.stored == nil || s.stored.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.stored, nil
}

func (s *stubProfileStore) Upsert(ctx context.Context, prof *models.Profile) error {
	s.stored = prof
	return nil
}

func newProfileService(t *testing.T, store *stubProfileStore) Service {
	t.Helper()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGetMissingProfileIsNotFound(t *testing.T) {
	svc := newProfileService(t, &stubProfileStore{})

	_, err := svc.Get(context.Background(), "user-1")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpsertRequiresDisplayName(t *testing.T) {
	svc := newProfileService(t, &stubProfileStore{})

	_, err := svc.Upsert(context.Background(), "user-1", UpsertProfileInput{})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpsertValidatesPostCode(t *testing.T) {
	svc := newProfileService(t, &stubProfileStore{})

	cases := map[string]bool{
		"150-0001": true,
		"1500001":  false,
		"15-00001": false,
		"":         true,
	}
	for postCode, ok := range cases {
		_, err := svc.Upsert(context.Background(), "user-1", UpsertProfileInput{
			DisplayName: "Mika",
			PostCode:    postCode,
		})
		if ok && err != nil {
			t.Fatalf("post code %q should be accepted, got %v", postCode, err)
		}
		if !ok {
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("post code %q should be rejected, got %v", postCode, err)
			}
		}
	}
}

func TestUpsertStampsCallingUser(t *testing.T) {
	store := &stubProfileStore{}
	svc := newProfileService(t, store)

	saved, err := svc.Upsert(context.Background(), "user-1", UpsertProfileInput{
		DisplayName: "Mika",
		Address:     "Shibuya",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved.UserID != "user-1" || saved.Address != "Shibuya" {
		t.Fatalf("unexpected profile %+v", saved)
	}
}
