package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/homeinv/internal/domain"
)

type fakeCounts struct {
	rooms, furniture, items map[int64]int
	err                     error
}

func (f fakeCounts) CountRooms(_ context.Context, id int64) (int, error)     { return f.rooms[id], f.err }
func (f fakeCounts) CountFurniture(_ context.Context, id int64) (int, error) { return f.furniture[id], f.err }
func (f fakeCounts) CountItems(_ context.Context, id int64) (int, error)     { return f.items[id], f.err }

type fakeAccounts struct {
	emails, phones map[string]bool
}

func (f fakeAccounts) EmailExists(_ context.Context, e string) (bool, error) { return f.emails[e], nil }
func (f fakeAccounts) PhoneExists(_ context.Context, p string) (bool, error) { return f.phones[p], nil }

func TestCheckDelete_BlocksWhenChildrenExist(t *testing.T) {
	g := New(fakeCounts{
		rooms:     map[int64]int{1: 2},
		furniture: map[int64]int{1: 1},
		items:     map[int64]int{1: 5},
	}, fakeAccounts{})
	ctx := context.Background()

	err := g.CheckDeleteArea(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "has dependents: rooms")

	assert.EqualError(t, g.CheckDeleteRoom(ctx, 1), "has dependents: furniture")
	assert.EqualError(t, g.CheckDeleteFurniture(ctx, 1), "has dependents: items")
}

func TestCheckDelete_AllowsChildless(t *testing.T) {
	g := New(fakeCounts{}, fakeAccounts{})
	ctx := context.Background()

	assert.NoError(t, g.CheckDeleteArea(ctx, 7))
	assert.NoError(t, g.CheckDeleteRoom(ctx, 7))
	assert.NoError(t, g.CheckDeleteFurniture(ctx, 7))
}

func TestCheckDelete_PropagatesCountError(t *testing.T) {
	boom := errors.New("boom")
	g := New(fakeCounts{err: boom}, fakeAccounts{})

	err := g.CheckDeleteRoom(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

func TestCheckSignup(t *testing.T) {
	g := New(fakeCounts{}, fakeAccounts{
		emails: map[string]bool{"taken@x.io": true},
		phones: map[string]bool{"01011112222": true},
	})
	ctx := context.Background()

	assert.EqualError(t, g.CheckSignup(ctx, "taken@x.io", "01099998888"), "email already registered")
	assert.EqualError(t, g.CheckSignup(ctx, "new@x.io", "01011112222"), "phone already registered")
	assert.NoError(t, g.CheckSignup(ctx, "new@x.io", "01099998888"))
}
