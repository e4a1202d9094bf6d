package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/ledger-service/internal/dbctx"
	"github.com/nurpe/ledger-service/internal/model"
	"github.com/nurpe/ledger-service/internal/repository"
)

// IdentityService turns a declared profile id into a resolved principal.
type IdentityService struct {
	profiles *repository.ProfileRepository
}

func NewIdentityService(profiles *repository.ProfileRepository) *IdentityService {
	return &IdentityService{profiles: profiles}
}

func (s *IdentityService) Resolve(ctx context.Context, profileID uuid.UUID) (model.Principal, error) {
	if profileID == uuid.Nil {
		return model.Principal{}, ErrUnauthorized
	}
	profile, err := s.profiles.GetByID(dbctx.New(ctx), profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Principal{}, ErrUnauthorized
		}
		return model.Principal{}, err
	}
	return model.PrincipalFromProfile(profile), nil
}

func (s *IdentityService) ResolveClient(ctx context.Context, profileID uuid.UUID) (model.Principal, error) {
	if profileID == uuid.Nil {
		return model.Principal{}, ErrUnauthorized
	}
	profile, err := s.profiles.GetByIDAndType(dbctx.New(ctx), profileID, model.ProfileTypeClient)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Principal{}, ErrUnauthorized
		}
		return model.Principal{}, err
	}
	return model.PrincipalFromProfile(profile), nil
}
