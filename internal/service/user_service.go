package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/vbonduro/homeinv/internal/auth"
	"github.com/vbonduro/homeinv/internal/domain"
	"github.com/vbonduro/homeinv/internal/notify"
)

const verificationCodeLen = 6

// Signup registers a disabled account and sends its verification code once
// the row is committed. A failed delivery is logged; the account stands.
func (s *Service) Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	code, err := auth.NewVerificationCode(verificationCodeLen)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = s.inTx(ctx, func(tx *txScope) error {
		if err := tx.guard.CheckSignup(ctx, in.Email, in.Phone); err != nil {
			return err
		}
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return err
		}
		user, err = tx.Users.Create(ctx, &domain.User{
			Email:            in.Email,
			PasswordHash:     hash,
			Name:             in.Name,
			Phone:            in.Phone,
			Birthday:         in.Birthday,
			Gender:           in.Gender,
			Disabled:         true,
			VerificationCode: &code,
			RegisteredAt:     s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	if err := s.notifier.SendVerification(ctx, notify.Verification{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Code:   code,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification code", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// VerifyCode activates the account registered under email when code
// matches the one issued at signup.
func (s *Service) VerifyCode(ctx context.Context, email, code string) error {
	return s.inTx(ctx, func(tx *txScope) error {
		user, err := tx.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: no account for %s", domain.ErrNotFound, email)
		}
		if !user.Disabled {
			return &domain.ConflictError{Reason: "account already verified"}
		}
		if user.VerificationCode == nil ||
			subtle.ConstantTimeCompare([]byte(*user.VerificationCode), []byte(code)) != 1 {
			return &domain.ValidationError{Field: "code", Reason: "does not match"}
		}
		return tx.Users.Activate(ctx, user.ID)
	})
}

// Login checks credentials and issues a token pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	var user *domain.User
	err := s.inTx(ctx, func(tx *txScope) error {
		var err error
		user, err = tx.Users.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
	}
	if user.Disabled {
		return nil, fmt.Errorf("%w: email not verified", domain.ErrForbidden)
	}
	return s.tokens.Issue(user.ID)
}

func (s *Service) ChangePassword(ctx context.Context, principal int64, current, next string) error {
	if err := domain.ValidatePassword(next); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *txScope) error {
		user, err := tx.Users.GetByID(ctx, principal)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NotFound(domain.KindUser, principal)
		}
		if !s.hasher.Verify(user.PasswordHash, current) {
			return fmt.Errorf("%w: current password does not match", domain.ErrUnauthenticated)
		}
		hash, err := s.hasher.Hash(next)
		if err != nil {
			return err
		}
		return tx.Users.UpdatePassword(ctx, user.ID, hash)
	})
}

// GetUserInfo returns the account and its profile, if any, to its owner.
func (s *Service) GetUserInfo(ctx context.Context, principal, userID int64) (*domain.UserInfo, error) {
	info := &domain.UserInfo{}
	err := s.inTx(ctx, func(tx *txScope) error {
		user, err := loadSelf(ctx, tx, principal, userID)
		if err != nil {
			return err
		}
		info.User = user
		info.Profile, err = tx.Profiles.GetByUserID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// loadSelf loads a user row and allows only the user themself.
func loadSelf(ctx context.Context, tx *txScope, principal, userID int64) (*domain.User, error) {
	user, err := tx.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound(domain.KindUser, userID)
	}
	if err := requireSelf(principal, userID); err != nil {
		return nil, err
	}
	return user, nil
}
