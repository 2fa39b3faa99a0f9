package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vbonduro/homeinv/internal/domain"
)

type AreaStore struct {
	q Querier
}

func NewAreaStore(q Querier) *AreaStore {
	return &AreaStore{q: q}
}

func (s *AreaStore) Create(ctx context.Context, userID int64, name string, now time.Time) (*domain.Area, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO areas (user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
	`, userID, name, now, now)
	if err != nil {
		if constraintOf(err) == constraintForeignKey {
			return nil, domain.ParentNotFound(domain.KindUser, userID)
		}
		return nil, fmt.Errorf("failed to create area: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *AreaStore) GetByID(ctx context.Context, id int64) (*domain.Area, error) {
	area := &domain.Area{}
	err := s.q.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at FROM areas WHERE id = ?
	`, id).Scan(&area.ID, &area.UserID, &area.Name, &area.CreatedAt, &area.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get area: %w", err)
	}

	area.CreatedAt, area.UpdatedAt = area.CreatedAt.UTC(), area.UpdatedAt.UTC()
	return area, nil
}

func (s *AreaStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Area, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at FROM areas
		WHERE user_id = ? ORDER BY name ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer closeRows(rows)

	areas := []*domain.Area{}
	for rows.Next() {
		area := &domain.Area{}
		if err := rows.Scan(&area.ID, &area.UserID, &area.Name, &area.CreatedAt, &area.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		area.CreatedAt, area.UpdatedAt = area.CreatedAt.UTC(), area.UpdatedAt.UTC()
		areas = append(areas, area)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating areas: %w", err)
	}

	return areas, nil
}

func (s *AreaStore) Update(ctx context.Context, area *domain.Area, now time.Time) (*domain.Area, error) {
	result, err := s.q.ExecContext(ctx, `
		UPDATE areas SET name = ?, updated_at = ? WHERE id = ?
	`, area.Name, now, area.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update area: %w", err)
	}
	if err := requireRow(result, domain.KindArea, area.ID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, area.ID)
}

func (s *AreaStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM areas WHERE id = ?
	`, id)
	if err != nil {
		if constraintOf(err) == constraintForeignKey {
			return domain.HasDependents("rooms")
		}
		return fmt.Errorf("failed to delete area: %w", err)
	}
	return requireRow(result, domain.KindArea, id)
}
