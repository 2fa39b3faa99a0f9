package service

import (
	"context"
	"fmt"

	"github.com/vbonduro/homeinv/internal/domain"
)

func profilePrefix(userID int64) string { return fmt.Sprintf("profile_%d", userID) }

func profileNotFound(userID int64) error {
	return &domain.NotFoundError{Entity: "profile", ID: userID}
}

// CreateProfile creates the user's single profile, optionally with an image.
func (s *Service) CreateProfile(ctx context.Context, principal, userID int64, in domain.ProfileInput, img *Image) (*domain.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var newKey string
	var profile *domain.Profile
	err := s.inTx(ctx, func(tx *txScope) error {
		user, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ParentNotFound(domain.KindUser, userID)
		}
		if err := requireSelf(principal, userID); err != nil {
			return err
		}
		existing, err := tx.Profiles.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.ConflictError{Reason: "profile already exists"}
		}

		p := &domain.Profile{UserID: userID, Nickname: in.Nickname, CreatedAt: s.now()}
		if img != nil {
			if newKey, err = s.saveImage(ctx, profilePrefix(userID), img); err != nil {
				return err
			}
			p.ImageKey = &newKey
		}
		profile, err = tx.Profiles.Create(ctx, p)
		return err
	})
	if err != nil {
		s.discardImage(ctx, newKey, "profile create failed")
		return nil, err
	}
	return profile, nil
}

func (s *Service) GetProfile(ctx context.Context, principal, userID int64) (*domain.Profile, error) {
	var profile *domain.Profile
	err := s.inTx(ctx, func(tx *txScope) error {
		var err error
		profile, err = loadProfile(ctx, tx, principal, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies a nickname patch and/or replaces the image. The old
// image is removed after commit.
func (s *Service) UpdateProfile(ctx context.Context, principal, userID int64, patch domain.ProfilePatch, img *Image) (*domain.Profile, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var newKey, oldKey string
	var profile *domain.Profile
	err := s.inTx(ctx, func(tx *txScope) error {
		p, err := loadProfile(ctx, tx, principal, userID)
		if err != nil {
			return err
		}
		patch.Apply(p)
		if img != nil {
			if newKey, err = s.saveImage(ctx, profilePrefix(userID), img); err != nil {
				return err
			}
			if p.ImageKey != nil {
				oldKey = *p.ImageKey
			}
			p.ImageKey = &newKey
		}
		profile, err = tx.Profiles.Update(ctx, p, s.now())
		return err
	})
	if err != nil {
		s.discardImage(ctx, newKey, "profile update failed")
		return nil, err
	}
	s.discardImage(ctx, oldKey, "profile image replaced")
	return profile, nil
}

// ProfileImage opens the profile picture for its owner.
func (s *Service) ProfileImage(ctx context.Context, principal, userID int64) (*OpenImage, error) {
	var key *string
	err := s.inTx(ctx, func(tx *txScope) error {
		p, err := loadProfile(ctx, tx, principal, userID)
		if err != nil {
			return err
		}
		key = p.ImageKey
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.openImage(ctx, "profile", userID, key)
}

func loadProfile(ctx context.Context, tx *txScope, principal, userID int64) (*domain.Profile, error) {
	if _, err := loadSelf(ctx, tx, principal, userID); err != nil {
		return nil, err
	}
	p, err := tx.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, profileNotFound(userID)
	}
	return p, nil
}
