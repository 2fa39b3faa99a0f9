package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/homeinv/internal/cache"
	"github.com/vbonduro/homeinv/internal/domain"
)

func TestArea_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@x.io", "01000000001")

	created, err := f.svc.CreateArea(ctx, u, u, domain.AreaInput{Name: "Garage"})
	require.NoError(t, err)

	got, err := f.svc.GetArea(ctx, u, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garage", got.Name)
	assert.Equal(t, u, got.UserID)

	name := "Shed"
	_, err = f.svc.UpdateArea(ctx, u, created.ID, domain.AreaPatch{Name: &name})
	require.NoError(t, err)

	got, err = f.svc.GetArea(ctx, u, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shed", got.Name)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, u, got.UserID)
}

func TestDelete_BlockedByChildrenThenAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@x.io", "01000000001")
	area, room, fu := f.chain(t, u)

	err := f.svc.DeleteArea(ctx, u, area.ID)
	assert.EqualError(t, err, "has dependents: rooms")
	err = f.svc.DeleteRoom(ctx, u, room.ID)
	assert.EqualError(t, err, "has dependents: furniture")

	_, err = f.svc.GetRoom(ctx, u, room.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteFurniture(ctx, u, fu.ID))
	require.NoError(t, f.svc.DeleteRoom(ctx, u, room.ID))
	require.NoError(t, f.svc.DeleteArea(ctx, u, area.ID))

	_, err = f.svc.GetArea(ctx, u, area.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	rooms, err := f.sql.Rooms.ListByArea(ctx, area.ID)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestRoomAndFurniture_ListAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@x.io", "01000000001")
	area, room, fu := f.chain(t, u)

	rooms, err := f.svc.ListRooms(ctx, u, area.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	name := "Pantry"
	room, err = f.svc.UpdateRoom(ctx, u, room.ID, domain.RoomPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Pantry", room.Name)

	list, err := f.svc.ListFurniture(ctx, u, room.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fu.ID, list[0].ID)

	loc := "north wall"
	fu, err = f.svc.UpdateFurniture(ctx, u, fu.ID, domain.FurniturePatch{Location: domain.Value(loc)})
	require.NoError(t, err)
	require.NotNil(t, fu.Location)
	assert.Equal(t, loc, *fu.Location)

	fu, err = f.svc.UpdateFurniture(ctx, u, fu.ID, domain.FurniturePatch{Location: domain.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, fu.Location)
}

func TestUpdateFurniture_RowsBelowOccupiedRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@x.io", "01000000001")
	_, _, fu := f.chain(t, u)
	_, err := f.svc.CreateItem(ctx, u, fu.ID, domain.ItemInput{Name: "Jar", Type: domain.ItemTypeFood, Quantity: 1, RowNumber: 3})
	require.NoError(t, err)

	rows := 2
	_, err = f.svc.UpdateFurniture(ctx, u, fu.ID, domain.FurniturePatch{Rows: &rows})
	assert.ErrorIs(t, err, domain.ErrValidation)

	rows = 5
	got, err := f.svc.UpdateFurniture(ctx, u, fu.ID, domain.FurniturePatch{Rows: &rows})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rows)
}

func TestCache_StillAuthorizesAndInvalidates(t *testing.T) {
	lru := cache.NewLRU(16, time.Minute)
	f := newFixture(t, withCache(lru))
	ctx := context.Background()
	a := f.user(t, "a@x.io", "01000000001")
	b := f.user(t, "b@x.io", "01000000002")

	area, err := f.svc.CreateArea(ctx, a, a, domain.AreaInput{Name: "Home"})
	require.NoError(t, err)

	_, err = f.svc.GetArea(ctx, a, area.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, lru.Len())

	_, err = f.svc.GetArea(ctx, b, area.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "cached record is not an authorization")

	name := "Cabin"
	_, err = f.svc.UpdateArea(ctx, a, area.ID, domain.AreaPatch{Name: &name})
	require.NoError(t, err)
	got, err := f.svc.GetArea(ctx, a, area.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cabin", got.Name)

	require.NoError(t, f.svc.DeleteArea(ctx, a, area.ID))
	_, err = f.svc.GetArea(ctx, a, area.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCache_StaleEntryForDeletedRowIsNotFound(t *testing.T) {
	lru := cache.NewLRU(16, time.Minute)
	f := newFixture(t, withCache(lru))
	ctx := context.Background()
	a := f.user(t, "a@x.io", "01000000001")
	area, err := f.svc.CreateArea(ctx, a, a, domain.AreaInput{Name: "Home"})
	require.NoError(t, err)
	_, err = f.svc.GetArea(ctx, a, area.ID)
	require.NoError(t, err)

	require.NoError(t, f.sql.Areas.Delete(ctx, area.ID))

	_, err = f.svc.GetArea(ctx, a, area.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, lru.Len())
}
