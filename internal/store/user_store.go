package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vbonduro/homeinv/internal/domain"
)

const birthdayLayout = "2006-01-02"

type UserStore struct {
	q Querier
}

func NewUserStore(q Querier) *UserStore {
	return &UserStore{q: q}
}

const userColumns = `id, email, password_hash, name, phone, birthday, gender, disabled, verification_code, registered_at`

func (s *UserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, name, phone, birthday, gender, disabled, verification_code, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.Email, u.PasswordHash, u.Name, u.Phone, u.Birthday.Format(birthdayLayout), string(u.Gender),
		u.Disabled, nullString(u.VerificationCode), u.RegisteredAt)
	if err != nil {
		switch constraintOf(err) {
		case constraintUnique:
			return nil, &domain.ConflictError{Reason: "email or phone already registered"}
		case constraintCheck:
			return nil, &domain.ValidationError{Field: "gender", Reason: "unknown value"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
}

func (s *UserStore) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE phone = ?)`, phone)
}

// Activate enables the account and clears its verification code.
func (s *UserStore) Activate(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE users SET disabled = 0, verification_code = NULL WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}
	return requireRow(result, domain.KindUser, id)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE users SET password_hash = ? WHERE id = ?
	`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRow(result, domain.KindUser, id)
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	var birthday, gender string
	var code sql.NullString
	err := s.q.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &birthday, &gender,
		&u.Disabled, &code, &u.RegisteredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.Birthday, err = time.Parse(birthdayLayout, birthday)
	if err != nil {
		return nil, fmt.Errorf("failed to parse birthday of user %d: %w", u.ID, err)
	}
	u.Gender = domain.Gender(gender)
	u.VerificationCode = stringPtr(code)
	u.RegisteredAt = u.RegisteredAt.UTC()
	return u, nil
}

func (s *UserStore) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := s.q.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return found, nil
}

// requireRow turns an update or delete that touched nothing into NotFound.
func requireRow(result sql.Result, kind domain.Kind, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return domain.NotFound(kind, id)
	}
	return nil
}
