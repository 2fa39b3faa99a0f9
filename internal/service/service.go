// Package service runs every inventory operation as one transaction:
// load the target or its parent, authorize the principal against the live
// ownership chain, consult the integrity guard, then write.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/homeinv/internal/auth"
	"github.com/vbonduro/homeinv/internal/cache"
	"github.com/vbonduro/homeinv/internal/domain"
	"github.com/vbonduro/homeinv/internal/guard"
	"github.com/vbonduro/homeinv/internal/imagestore"
	"github.com/vbonduro/homeinv/internal/notify"
	"github.com/vbonduro/homeinv/internal/ownership"
	"github.com/vbonduro/homeinv/internal/store"
	"github.com/vbonduro/homeinv/internal/vision"
)

// ErrScanUnavailable is returned by ScanFurniture when no vision backend is
// configured.
var ErrScanUnavailable = errors.New("furniture scan is not configured")

type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type TokenIssuer interface {
	Issue(userID int64) (*auth.TokenPair, error)
}

// Deps are the collaborators of a Service. Cache, Clock and Logger may be
// left nil; Vision may be nil to disable furniture scans.
type Deps struct {
	DB       *store.DB
	Cache    cache.Cache
	Images   imagestore.Store
	Notifier notify.Sender
	Hasher   Hasher
	Tokens   TokenIssuer
	Vision   vision.Analyzer
	Clock    func() time.Time
	Logger   *slog.Logger
}

type Service struct {
	db       *store.DB
	cache    cache.Cache
	images   imagestore.Store
	notifier notify.Sender
	hasher   Hasher
	tokens   TokenIssuer
	vision   vision.Analyzer
	clock    func() time.Time
	logger   *slog.Logger
}

func New(d Deps) *Service {
	s := &Service{
		db:       d.DB,
		cache:    d.Cache,
		images:   d.Images,
		notifier: d.Notifier,
		hasher:   d.Hasher,
		tokens:   d.Tokens,
		vision:   d.Vision,
		clock:    d.Clock,
		logger:   d.Logger,
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Service) now() time.Time { return s.clock().UTC() }

// txScope is the per-transaction view: stores plus a resolver and guard
// bound to the same transaction.
type txScope struct {
	*store.Stores
	resolver *ownership.Resolver
	guard    *guard.Guard
}

func (s *Service) inTx(ctx context.Context, fn func(tx *txScope) error) error {
	return s.db.InTx(ctx, func(st *store.Stores) error {
		return fn(&txScope{
			Stores:   st,
			resolver: ownership.NewResolver(st.Lineage),
			guard:    guard.New(st.Lineage, st.Users),
		})
	})
}

// allow turns a resolver decision into an error.
func allow(d ownership.Decision, err error) error {
	if err != nil {
		return err
	}
	if d != ownership.Allow {
		return domain.ErrForbidden
	}
	return nil
}

// requireSelf guards User and Profile endpoints.
func requireSelf(principal, userID int64) error {
	return allow(ownership.AuthorizeSelf(principal, userID), nil)
}

type ownedPtr[E any] interface {
	*E
	domain.Owned
}

// load fetches the target of a read and authorizes it. A cached record is
// still authorized by a live walk from its own row.
func load[E any, P ownedPtr[E]](
	ctx context.Context,
	tx *txScope,
	c cache.Cache,
	principal int64,
	ref domain.Ref,
	get func(context.Context, int64) (P, error),
) (P, error) {
	if v, ok := cache.Typed[P](c, ref); ok {
		if err := allow(tx.resolver.AuthorizeRef(ctx, principal, ref)); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.Invalidate(ref)
			}
			return nil, err
		}
		return v, nil
	}

	v, err := loadFresh(ctx, tx, principal, ref, get)
	if err != nil {
		return nil, err
	}
	c.Set(ref, v)
	return v, nil
}

// loadFresh reads the row inside tx without consulting the cache. Updates
// and deletes start from it so a stale cached record is never written back.
func loadFresh[E any, P ownedPtr[E]](
	ctx context.Context,
	tx *txScope,
	principal int64,
	ref domain.Ref,
	get func(context.Context, int64) (P, error),
) (P, error) {
	v, err := get(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NotFound(ref.Kind, ref.ID)
	}
	if err := allow(tx.resolver.Authorize(ctx, principal, v)); err != nil {
		return nil, err
	}
	return v, nil
}

// saveImage writes an upload before its key is persisted.
func (s *Service) saveImage(ctx context.Context, prefix string, img *Image) (string, error) {
	key, err := s.images.Save(ctx, prefix, img.MimeType, bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return key, nil
}

// discardImage removes an image best-effort. Failures are logged only.
func (s *Service) discardImage(ctx context.Context, key, reason string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil && !errors.Is(err, imagestore.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to delete image", "image_key", key, "reason", reason, "error", err)
	}
}

func (s *Service) openImage(ctx context.Context, entity string, id int64, key *string) (*OpenImage, error) {
	if key == nil {
		return nil, &domain.NotFoundError{Entity: entity + " image", ID: id}
	}
	rc, mimeType, err := s.images.Get(ctx, *key)
	if errors.Is(err, imagestore.ErrNotFound) {
		return nil, &domain.NotFoundError{Entity: entity + " image", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return &OpenImage{Body: rc, MimeType: mimeType}, nil
}
