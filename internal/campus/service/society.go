package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/pkg/idx"
	"github.com/campushub/campushub/pkg/slogx"
)

var (
	ErrSocietyNotFound  = errors.New("society not found")
	ErrSocietyNameTaken = errors.New("society name already in use")
	ErrHeadNotFound     = errors.New("head account not found")
	ErrAdminOnly        = errors.New("operation requires admin role")
	ErrNotAuthorized    = errors.New("not authorized for this resource")
)

type SocietyService struct {
	Store store.Store
}

type CreateSocietyInput struct {
	Name         string
	HeadEmail    string
	ContactEmail string
	Description  string
}

// CreateSociety registers a new society and appoints its head. Only
// admins may create societies; the head is promoted to organizer if they
// are still a plain student.
func (s *SocietyService) CreateSociety(ctx context.Context, actor domain.Actor, in CreateSocietyInput) (domain.Society, error) {
	log := slogx.FromContext(ctx)

	if !actor.IsAdmin() {
		return domain.Society{}, ErrAdminOnly
	}

	var society domain.Society
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Resolve the head by email.
		head, err := tx.Accounts().GetAccountByEmail(ctx, normalizeEmail(in.HeadEmail))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrHeadNotFound
			}
			return err
		}

		// 2. Insert; the unique name index reports a taken name.
		society = domain.Society{
			ID:           idx.New().String(),
			Name:         strings.TrimSpace(in.Name),
			HeadID:       head.ID,
			ContactEmail: normalizeEmail(in.ContactEmail),
			Description:  strings.TrimSpace(in.Description),
			Active:       true,
		}
		if err := tx.Societies().CreateSociety(ctx, society); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrSocietyNameTaken
			}
			return err
		}

		// 3. Heading a society grants the organizer role.
		if head.Role == domain.RoleStudent {
			if err := tx.Accounts().UpdateRole(ctx, head.ID, domain.RoleOrganizer); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Society{}, err
	}

	log.Info("society created",
		slog.String("society_id", society.ID),
		slog.String("name", society.Name),
	)
	return society, nil
}

type UpdateSocietyInput struct {
	ContactEmail string
	Description  string
	Active       bool
}

// UpdateSociety mutates contact details and the active flag. Allowed for
// the society head and admins.
func (s *SocietyService) UpdateSociety(ctx context.Context, actor domain.Actor, societyID string, in UpdateSocietyInput) (domain.Society, error) {
	society, err := s.GetSociety(ctx, societyID)
	if err != nil {
		return domain.Society{}, err
	}

	if society.HeadID != actor.AccountID && !actor.IsAdmin() {
		return domain.Society{}, ErrNotAuthorized
	}

	society.ContactEmail = normalizeEmail(in.ContactEmail)
	society.Description = strings.TrimSpace(in.Description)
	society.Active = in.Active

	if err := s.Store.Societies().UpdateSociety(ctx, society); err != nil {
		return domain.Society{}, err
	}
	return s.GetSociety(ctx, societyID)
}

// GetSociety returns a society by id.
func (s *SocietyService) GetSociety(ctx context.Context, id string) (domain.Society, error) {
	society, err := s.Store.Societies().GetSocietyByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Society{}, ErrSocietyNotFound
		}
		return domain.Society{}, err
	}
	return society, nil
}

// ListSocieties returns all societies ordered by name.
func (s *SocietyService) ListSocieties(ctx context.Context) ([]domain.Society, error) {
	return s.Store.Societies().ListSocieties(ctx)
}
