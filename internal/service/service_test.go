package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/homeinv/internal/auth"
	"github.com/vbonduro/homeinv/internal/cache"
	"github.com/vbonduro/homeinv/internal/db"
	"github.com/vbonduro/homeinv/internal/domain"
	"github.com/vbonduro/homeinv/internal/imagestore"
	"github.com/vbonduro/homeinv/internal/imagestore/local"
	"github.com/vbonduro/homeinv/internal/notify"
	"github.com/vbonduro/homeinv/internal/store"
	"github.com/vbonduro/homeinv/internal/vision"
)

var testNow = time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)

// plainHasher keeps tests fast; bcrypt is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "h:" + pw, nil }
func (plainHasher) Verify(hash, pw string) bool    { return hash == "h:"+pw }

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Verification
	err  error
}

func (r *recordingSender) SendVerification(_ context.Context, v notify.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, v)
	return r.err
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type stubVision struct {
	result *vision.AnalysisResult
	err    error
	calls  int
}

func (s *stubVision) Analyze(_ context.Context, _ io.Reader, _ string) (*vision.AnalysisResult, error) {
	s.calls++
	return s.result, s.err
}

type fixture struct {
	svc    *Service
	raw    *sql.DB
	sql    *store.Stores
	images imagestore.Store
	sender *recordingSender
	vision *stubVision
}

type option func(*Deps)

func withCache(c cache.Cache) option { return func(d *Deps) { d.Cache = c } }

func withHasher(h Hasher) option { return func(d *Deps) { d.Hasher = h } }

func withoutVision() option { return func(d *Deps) { d.Vision = nil } }

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	images, err := local.New(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		raw:    d,
		sql:    store.New(d),
		images: images,
		sender: &recordingSender{},
		vision: &stubVision{result: &vision.AnalysisResult{}},
	}
	deps := Deps{
		DB:       store.NewDB(d),
		Images:   images,
		Notifier: f.sender,
		Hasher:   plainHasher{},
		Tokens:   auth.NewTokens("test-secret", time.Hour, 24*time.Hour),
		Vision:   f.vision,
		Clock:    func() time.Time { return testNow },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(&deps)
	}
	f.svc = New(deps)
	return f
}

// user creates a verified account directly in the store.
func (f *fixture) user(t *testing.T, email, phone string) int64 {
	t.Helper()
	u, err := f.sql.Users.Create(context.Background(), &domain.User{
		Email:        email,
		PasswordHash: "h:secret1",
		Name:         "Tester",
		Phone:        phone,
		Birthday:     time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		Gender:       domain.GenderOther,
		RegisteredAt: testNow,
	})
	require.NoError(t, err)
	return u.ID
}

// chain builds area, room and a 3-row furniture unit owned by userID.
func (f *fixture) chain(t *testing.T, userID int64) (*domain.Area, *domain.Room, *domain.Furniture) {
	t.Helper()
	ctx := context.Background()
	a, err := f.svc.CreateArea(ctx, userID, userID, domain.AreaInput{Name: "Home"})
	require.NoError(t, err)
	r, err := f.svc.CreateRoom(ctx, userID, a.ID, domain.RoomInput{Name: "Kitchen"})
	require.NoError(t, err)
	fu, err := f.svc.CreateFurniture(ctx, userID, r.ID, domain.FurnitureInput{Name: "Shelf", Rows: 3})
	require.NoError(t, err)
	return a, r, fu
}

func (f *fixture) imageExists(t *testing.T, key string) bool {
	t.Helper()
	rc, _, err := f.images.Get(context.Background(), key)
	if errors.Is(err, imagestore.ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	_ = rc.Close()
	return true
}

func jpeg(b string) *Image { return &Image{Data: []byte(b), MimeType: "image/jpeg"} }

func TestScenario_OwnershipAndGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.io", "01000000001")
	b := f.user(t, "b@x.io", "01000000002")

	a1, err := f.svc.CreateArea(ctx, a, a, domain.AreaInput{Name: "Home"})
	require.NoError(t, err)

	_, err = f.svc.GetArea(ctx, b, a1.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	r1, err := f.svc.CreateRoom(ctx, a, a1.ID, domain.RoomInput{Name: "Kitchen"})
	require.NoError(t, err)
	f1, err := f.svc.CreateFurniture(ctx, a, r1.ID, domain.FurnitureInput{Name: "Fridge", Rows: 4})
	require.NoError(t, err)
	i1, err := f.svc.CreateItem(ctx, a, f1.ID, domain.ItemInput{Name: "Milk", Type: domain.ItemTypeFood, Quantity: 3, RowNumber: 1})
	require.NoError(t, err)

	items, err := f.svc.ListItems(ctx, a, f1.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, i1.ID, items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)

	err = f.svc.DeleteFurniture(ctx, a, f1.ID)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "has dependents: items", conflict.Reason)

	_, err = f.svc.GetItem(ctx, a, i1.ID)
	require.NoError(t, err, "blocked delete must leave the child intact")

	require.NoError(t, f.svc.DeleteItem(ctx, a, i1.ID))
	require.NoError(t, f.svc.DeleteFurniture(ctx, a, f1.ID))

	_, err = f.svc.GetFurniture(ctx, a, f1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthorize_OtherUserDeniedEverywhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.io", "01000000001")
	b := f.user(t, "b@x.io", "01000000002")
	area, room, fu := f.chain(t, a)
	it, err := f.svc.CreateItem(ctx, a, fu.ID, domain.ItemInput{Name: "Tape", Type: domain.ItemTypeOffice, Quantity: 1, RowNumber: 2})
	require.NoError(t, err)

	name := "Stolen"
	checks := map[string]error{}
	_, checks["get room"] = f.svc.GetRoom(ctx, b, room.ID)
	_, checks["get furniture"] = f.svc.GetFurniture(ctx, b, fu.ID)
	_, checks["get item"] = f.svc.GetItem(ctx, b, it.ID)
	_, checks["update area"] = f.svc.UpdateArea(ctx, b, area.ID, domain.AreaPatch{Name: &name})
	_, checks["list rooms"] = f.svc.ListRooms(ctx, b, area.ID)
	_, checks["list items"] = f.svc.ListItems(ctx, b, fu.ID)
	_, checks["create room"] = f.svc.CreateRoom(ctx, b, area.ID, domain.RoomInput{Name: "x"})
	_, checks["create item"] = f.svc.CreateItem(ctx, b, fu.ID, domain.ItemInput{Name: "x", Type: domain.ItemTypeOther, Quantity: 1, RowNumber: 1})
	_, checks["create area for a"] = f.svc.CreateArea(ctx, b, a, domain.AreaInput{Name: "x"})
	_, checks["list areas of a"] = f.svc.ListAreas(ctx, b, a)
	checks["delete item"] = f.svc.DeleteItem(ctx, b, it.ID)
	checks["delete area"] = f.svc.DeleteArea(ctx, b, area.ID)

	for name, err := range checks {
		assert.ErrorIs(t, err, domain.ErrForbidden, name)
	}

	got, err := f.svc.GetItem(ctx, a, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tape", got.Name)
}

func TestNotFound_TargetAndParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.io", "01000000001")

	_, err := f.svc.GetArea(ctx, a, 999)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.False(t, nf.Parent)

	_, err = f.svc.CreateRoom(ctx, a, 999, domain.RoomInput{Name: "Kitchen"})
	require.ErrorAs(t, err, &nf)
	assert.True(t, nf.Parent)
	assert.Equal(t, "area", nf.Entity)

	_, err = f.svc.CreateArea(ctx, 999, 999, domain.AreaInput{Name: "Home"})
	assert.True(t, domain.IsParentNotFound(err))

	_, err = f.svc.ListItems(ctx, a, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidation_RejectedBeforeStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.io", "01000000001")

	_, err := f.svc.CreateArea(ctx, a, a, domain.AreaInput{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	areas, err := f.svc.ListAreas(ctx, a, a)
	require.NoError(t, err)
	assert.Empty(t, areas)
	assert.NotNil(t, areas, "an empty list is distinct from not found")
}

func TestIntegrity_BrokenChainIsNotForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.io", "01000000001")
	area, room, _ := f.chain(t, a)

	exec := func(q string, args ...any) {
		_, err := f.raw.ExecContext(ctx, q, args...)
		require.NoError(t, err)
	}
	exec(`PRAGMA foreign_keys = OFF`)
	exec(`DELETE FROM areas WHERE id = ?`, area.ID)

	_, err := f.svc.GetRoom(ctx, a, room.ID)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
	assert.NotErrorIs(t, err, domain.ErrForbidden)
}
