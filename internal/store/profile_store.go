package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vbonduro/homeinv/internal/domain"
)

type ProfileStore struct {
	q Querier
}

func NewProfileStore(q Querier) *ProfileStore {
	return &ProfileStore{q: q}
}

func (s *ProfileStore) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO profiles (user_id, nickname, image_key, created_at) VALUES (?, ?, ?, ?)
	`, p.UserID, p.Nickname, nullString(p.ImageKey), p.CreatedAt)
	if err != nil {
		switch constraintOf(err) {
		case constraintUnique:
			return nil, &domain.ConflictError{Reason: "profile already exists"}
		case constraintForeignKey:
			return nil, domain.ParentNotFound(domain.KindUser, p.UserID)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.get(ctx, `WHERE id = ?`, id)
}

func (s *ProfileStore) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	return s.get(ctx, `WHERE user_id = ?`, userID)
}

// Update writes nickname and image key back and stamps updated_at.
func (s *ProfileStore) Update(ctx context.Context, p *domain.Profile, now time.Time) (*domain.Profile, error) {
	result, err := s.q.ExecContext(ctx, `
		UPDATE profiles SET nickname = ?, image_key = ?, updated_at = ? WHERE id = ?
	`, p.Nickname, nullString(p.ImageKey), now, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if err := requireRow(result, domain.KindUser, p.UserID); err != nil {
		return nil, err
	}
	return s.get(ctx, `WHERE id = ?`, p.ID)
}

func (s *ProfileStore) get(ctx context.Context, where string, arg any) (*domain.Profile, error) {
	p := &domain.Profile{}
	var key sql.NullString
	var updated sql.NullTime
	err := s.q.QueryRowContext(ctx, `
		SELECT id, user_id, nickname, image_key, created_at, updated_at FROM profiles `+where, arg,
	).Scan(&p.ID, &p.UserID, &p.Nickname, &key, &p.CreatedAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.ImageKey = stringPtr(key)
	p.CreatedAt = p.CreatedAt.UTC()
	if updated.Valid {
		t := updated.Time.UTC()
		p.UpdatedAt = &t
	}
	return p, nil
}
