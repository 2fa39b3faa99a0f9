package service

import (
	"context"

	"github.com/vbonduro/homeinv/internal/domain"
)

func roomRef(id int64) domain.Ref { return domain.Ref{Kind: domain.KindRoom, ID: id} }

func (s *Service) CreateRoom(ctx context.Context, principal, areaID int64, in domain.RoomInput) (*domain.Room, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var room *domain.Room
	err := s.inTx(ctx, func(tx *txScope) error {
		if err := allow(tx.resolver.AuthorizeParent(ctx, principal, areaRef(areaID))); err != nil {
			return err
		}
		var err error
		room, err = tx.Rooms.Create(ctx, areaID, in.Name, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// ListRooms lists an owned area's rooms. An empty area yields an empty
// slice.
func (s *Service) ListRooms(ctx context.Context, principal, areaID int64) ([]*domain.Room, error) {
	var rooms []*domain.Room
	err := s.inTx(ctx, func(tx *txScope) error {
		if err := allow(tx.resolver.AuthorizeRef(ctx, principal, areaRef(areaID))); err != nil {
			return err
		}
		var err error
		rooms, err = tx.Rooms.ListByArea(ctx, areaID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *Service) GetRoom(ctx context.Context, principal, id int64) (*domain.Room, error) {
	var room *domain.Room
	err := s.inTx(ctx, func(tx *txScope) error {
		var err error
		room, err = load(ctx, tx, s.cache, principal, roomRef(id), tx.Rooms.GetByID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) UpdateRoom(ctx context.Context, principal, id int64, patch domain.RoomPatch) (*domain.Room, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var room *domain.Room
	err := s.inTx(ctx, func(tx *txScope) error {
		r, err := loadFresh(ctx, tx, principal, roomRef(id), tx.Rooms.GetByID)
		if err != nil {
			return err
		}
		patch.Apply(r)
		room, err = tx.Rooms.Update(ctx, r, s.now())
		return err
	})
	s.cache.Invalidate(roomRef(id))
	if err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom removes a room that holds no furniture.
func (s *Service) DeleteRoom(ctx context.Context, principal, id int64) error {
	err := s.inTx(ctx, func(tx *txScope) error {
		if _, err := loadFresh(ctx, tx, principal, roomRef(id), tx.Rooms.GetByID); err != nil {
			return err
		}
		if err := tx.guard.CheckDeleteRoom(ctx, id); err != nil {
			return err
		}
		return tx.Rooms.Delete(ctx, id)
	})
	if err == nil {
		s.cache.Invalidate(roomRef(id))
	}
	return err
}
