package service

import (
	"context"

	"github.com/vbonduro/homeinv/internal/domain"
)

func areaRef(id int64) domain.Ref { return domain.Ref{Kind: domain.KindArea, ID: id} }

// CreateArea adds an area under userID, which must be the principal.
func (s *Service) CreateArea(ctx context.Context, principal, userID int64, in domain.AreaInput) (*domain.Area, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var area *domain.Area
	err := s.inTx(ctx, func(tx *txScope) error {
		exists, err := tx.Lineage.UserExists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ParentNotFound(domain.KindUser, userID)
		}
		if err := allow(tx.resolver.AuthorizeParent(ctx, principal, domain.Ref{Kind: domain.KindUser, ID: userID})); err != nil {
			return err
		}
		area, err = tx.Areas.Create(ctx, userID, in.Name, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return area, nil
}

func (s *Service) ListAreas(ctx context.Context, principal, userID int64) ([]*domain.Area, error) {
	var areas []*domain.Area
	err := s.inTx(ctx, func(tx *txScope) error {
		exists, err := tx.Lineage.UserExists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NotFound(domain.KindUser, userID)
		}
		if err := requireSelf(principal, userID); err != nil {
			return err
		}
		areas, err = tx.Areas.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return areas, nil
}

func (s *Service) GetArea(ctx context.Context, principal, id int64) (*domain.Area, error) {
	var area *domain.Area
	err := s.inTx(ctx, func(tx *txScope) error {
		var err error
		area, err = load(ctx, tx, s.cache, principal, areaRef(id), tx.Areas.GetByID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return area, nil
}

func (s *Service) UpdateArea(ctx context.Context, principal, id int64, patch domain.AreaPatch) (*domain.Area, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var area *domain.Area
	err := s.inTx(ctx, func(tx *txScope) error {
		a, err := loadFresh(ctx, tx, principal, areaRef(id), tx.Areas.GetByID)
		if err != nil {
			return err
		}
		patch.Apply(a)
		area, err = tx.Areas.Update(ctx, a, s.now())
		return err
	})
	s.cache.Invalidate(areaRef(id))
	if err != nil {
		return nil, err
	}
	return area, nil
}

// DeleteArea removes an area that holds no rooms.
func (s *Service) DeleteArea(ctx context.Context, principal, id int64) error {
	err := s.inTx(ctx, func(tx *txScope) error {
		if _, err := loadFresh(ctx, tx, principal, areaRef(id), tx.Areas.GetByID); err != nil {
			return err
		}
		if err := tx.guard.CheckDeleteArea(ctx, id); err != nil {
			return err
		}
		return tx.Areas.Delete(ctx, id)
	})
	if err == nil {
		s.cache.Invalidate(areaRef(id))
	}
	return err
}
