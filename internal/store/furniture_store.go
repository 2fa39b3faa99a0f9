package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vbonduro/homeinv/internal/domain"
)

type FurnitureStore struct {
	q Querier
}

func NewFurnitureStore(q Querier) *FurnitureStore {
	return &FurnitureStore{q: q}
}

const furnitureColumns = `id, room_id, name, row_count, location, description, created_at, updated_at`

func (s *FurnitureStore) Create(ctx context.Context, f *domain.Furniture) (*domain.Furniture, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO furniture (room_id, name, row_count, location, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.RoomID, f.Name, f.Rows, nullString(f.Location), nullString(f.Description), f.CreatedAt, f.UpdatedAt)
	if err != nil {
		switch constraintOf(err) {
		case constraintForeignKey:
			return nil, domain.ParentNotFound(domain.KindRoom, f.RoomID)
		case constraintCheck:
			return nil, &domain.ValidationError{Field: "rows", Reason: "must be at least 1"}
		}
		return nil, fmt.Errorf("failed to create furniture: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *FurnitureStore) GetByID(ctx context.Context, id int64) (*domain.Furniture, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+furnitureColumns+` FROM furniture WHERE id = ?`, id)
	f, err := scanFurniture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get furniture: %w", err)
	}
	return f, nil
}

func (s *FurnitureStore) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Furniture, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+furnitureColumns+` FROM furniture WHERE room_id = ? ORDER BY name ASC, id ASC
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list furniture: %w", err)
	}
	defer closeRows(rows)

	list := []*domain.Furniture{}
	for rows.Next() {
		f, err := scanFurniture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan furniture: %w", err)
		}
		list = append(list, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating furniture: %w", err)
	}

	return list, nil
}

func (s *FurnitureStore) Update(ctx context.Context, f *domain.Furniture, now time.Time) (*domain.Furniture, error) {
	result, err := s.q.ExecContext(ctx, `
		UPDATE furniture SET name = ?, row_count = ?, location = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, f.Name, f.Rows, nullString(f.Location), nullString(f.Description), now, f.ID)
	if err != nil {
		if constraintOf(err) == constraintCheck {
			return nil, &domain.ValidationError{Field: "rows", Reason: "must be at least 1"}
		}
		return nil, fmt.Errorf("failed to update furniture: %w", err)
	}
	if err := requireRow(result, domain.KindFurniture, f.ID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, f.ID)
}

func (s *FurnitureStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM furniture WHERE id = ?
	`, id)
	if err != nil {
		if constraintOf(err) == constraintForeignKey {
			return domain.HasDependents("items")
		}
		return fmt.Errorf("failed to delete furniture: %w", err)
	}
	return requireRow(result, domain.KindFurniture, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFurniture(sc scanner) (*domain.Furniture, error) {
	f := &domain.Furniture{}
	var location, description sql.NullString
	if err := sc.Scan(&f.ID, &f.RoomID, &f.Name, &f.Rows, &location, &description, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Location = stringPtr(location)
	f.Description = stringPtr(description)
	f.CreatedAt, f.UpdatedAt = f.CreatedAt.UTC(), f.UpdatedAt.UTC()
	return f, nil
}
