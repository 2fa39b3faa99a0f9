package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vbonduro/homeinv/internal/domain"
)

type RoomStore struct {
	q Querier
}

func NewRoomStore(q Querier) *RoomStore {
	return &RoomStore{q: q}
}

func (s *RoomStore) Create(ctx context.Context, areaID int64, name string, now time.Time) (*domain.Room, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO rooms (area_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
	`, areaID, name, now, now)
	if err != nil {
		if constraintOf(err) == constraintForeignKey {
			return nil, domain.ParentNotFound(domain.KindArea, areaID)
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *RoomStore) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	room := &domain.Room{}
	err := s.q.QueryRowContext(ctx, `
		SELECT id, area_id, name, created_at, updated_at FROM rooms WHERE id = ?
	`, id).Scan(&room.ID, &room.AreaID, &room.Name, &room.CreatedAt, &room.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.CreatedAt, room.UpdatedAt = room.CreatedAt.UTC(), room.UpdatedAt.UTC()
	return room, nil
}

func (s *RoomStore) ListByArea(ctx context.Context, areaID int64) ([]*domain.Room, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, area_id, name, created_at, updated_at FROM rooms
		WHERE area_id = ? ORDER BY name ASC, id ASC
	`, areaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer closeRows(rows)

	rooms := []*domain.Room{}
	for rows.Next() {
		room := &domain.Room{}
		if err := rows.Scan(&room.ID, &room.AreaID, &room.Name, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		room.CreatedAt, room.UpdatedAt = room.CreatedAt.UTC(), room.UpdatedAt.UTC()
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return rooms, nil
}

func (s *RoomStore) Update(ctx context.Context, room *domain.Room, now time.Time) (*domain.Room, error) {
	result, err := s.q.ExecContext(ctx, `
		UPDATE rooms SET name = ?, updated_at = ? WHERE id = ?
	`, room.Name, now, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	if err := requireRow(result, domain.KindRoom, room.ID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, room.ID)
}

func (s *RoomStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM rooms WHERE id = ?
	`, id)
	if err != nil {
		if constraintOf(err) == constraintForeignKey {
			return domain.HasDependents("furniture")
		}
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return requireRow(result, domain.KindRoom, id)
}
