package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/homeinv/internal/cache"
	"github.com/vbonduro/homeinv/internal/domain"
)

func item(name string, row int) domain.ItemInput {
	return domain.ItemInput{Name: name, Type: domain.ItemTypeHousehold, Quantity: 1, RowNumber: row}
}

func TestCreateItem_RowOutsideFurniture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@x.io", "01000000001")
	_, _, fu := f.chain(t, u)

	_, err := f.svc.CreateItem(ctx, u, fu.ID, item("Lamp", 4))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "row_number", verr.Field)
}

func TestUpdateItem_PatchAndMove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.io", "01000000001")
	b := f.user(t, "b@x.io", "01000000002")
	_, room, fu := f.chain(t, a)
	_, _, foreign := f.chain(t, b)

	other, err := f.svc.CreateFurniture(ctx, a, room.ID, domain.FurnitureInput{Name: "Drawer", Rows: 1})
	require.NoError(t, err)

	expires, err := domain.ParseDate("2026-01-31")
	require.NoError(t, err)
	it, err := f.svc.CreateItem(ctx, a, fu.ID, domain.ItemInput{
		Name: "Soup", Type: domain.ItemTypeFood, Quantity: 2, RowNumber: 2, ExpiresOn: &expires,
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateItem(ctx, a, it.ID, domain.ItemPatch{FurnitureID: &foreign.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden, "cannot move into someone else's furniture")

	_, err = f.svc.UpdateItem(ctx, a, it.ID, domain.ItemPatch{FurnitureID: &other.ID})
	assert.ErrorIs(t, err, domain.ErrValidation, "row 2 does not exist in a 1-row drawer")

	row := 1
	qty := 5
	moved, err := f.svc.UpdateItem(ctx, a, it.ID, domain.ItemPatch{
		FurnitureID: &other.ID,
		RowNumber:   &row,
		Quantity:    &qty,
		ExpiresOn:   domain.Null[domain.Date](),
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, moved.FurnitureID)
	assert.Equal(t, 5, moved.Quantity)
	assert.Nil(t, moved.ExpiresOn)
	assert.Equal(t, testNow, moved.UpdatedAt)

	left, err := f.svc.ListItems(ctx, a, fu.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestItemImage_SetReplaceDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@x.io", "01000000001")
	_, _, fu := f.chain(t, u)
	it, err := f.svc.CreateItem(ctx, u, fu.ID, item("Drill", 1))
	require.NoError(t, err)

	_, err = f.svc.ItemImage(ctx, u, it.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	it, err = f.svc.SetItemImage(ctx, u, it.ID, Image{Data: []byte("one"), MimeType: "image/png"})
	require.NoError(t, err)
	require.NotNil(t, it.ImageKey)
	first := *it.ImageKey
	assert.Contains(t, first, ".png")

	it, err = f.svc.SetItemImage(ctx, u, it.ID, *jpeg("two"))
	require.NoError(t, err)
	second := *it.ImageKey
	assert.False(t, f.imageExists(t, first))

	img, err := f.svc.ItemImage(ctx, u, it.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	require.NoError(t, img.Body.Close())
	assert.Equal(t, "two", string(data))

	require.NoError(t, f.svc.DeleteItem(ctx, u, it.ID))
	assert.False(t, f.imageExists(t, second), "deleted item's image no longer resolves")

	_, err = f.svc.GetItem(ctx, u, it.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchItems_Substring(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.io", "01000000001")
	b := f.user(t, "b@x.io", "01000000002")
	_, _, fa := f.chain(t, a)
	_, _, fb := f.chain(t, b)

	for _, n := range []string{"Green Apple", "Banana", "100% juice"} {
		_, err := f.svc.CreateItem(ctx, a, fa.ID, item(n, 1))
		require.NoError(t, err)
	}
	_, err := f.svc.CreateItem(ctx, b, fb.ID, item("Apple Pie", 1))
	require.NoError(t, err)

	got, err := f.svc.SearchItems(ctx, a, "apple")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Green Apple", got[0].Name)

	got, err = f.svc.SearchItems(ctx, a, "%")
	require.NoError(t, err)
	require.Len(t, got, 1, "LIKE wildcards are matched literally")

	_, err = f.svc.SearchItems(ctx, a, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearchItems_InitialSound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@x.io", "01000000001")
	_, _, fu := f.chain(t, u)

	for _, n := range []string{"감자", "고구마", "가위", "사과", "김치찌개"} {
		_, err := f.svc.CreateItem(ctx, u, fu.ID, item(n, 1))
		require.NoError(t, err)
	}

	names := func(items []*domain.Item) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Name)
		}
		return out
	}

	got, err := f.svc.SearchItems(ctx, u, "ㄱ")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"감자", "고구마", "가위", "김치찌개"}, names(got))
	assert.NotContains(t, names(got), "사과", "a later ㄱ syllable does not make a ㄱ-initial name")

	got, err = f.svc.SearchItems(ctx, u, "ㄱㅈ")
	require.NoError(t, err)
	assert.Equal(t, []string{"감자"}, names(got))

	got, err = f.svc.SearchItems(ctx, u, "ㅅ")
	require.NoError(t, err)
	assert.Equal(t, []string{"사과"}, names(got))
}

func TestUpdateItem_StartsFromStoredRowNotCachedCopy(t *testing.T) {
	lru := cache.NewLRU(16, time.Minute)
	f := newFixture(t, withCache(lru))
	ctx := context.Background()
	u := f.user(t, "a@x.io", "01000000001")
	_, _, fu := f.chain(t, u)
	it, err := f.svc.CreateItem(ctx, u, fu.ID, item("Jar", 1))
	require.NoError(t, err)

	_, err = f.svc.GetItem(ctx, u, it.ID)
	require.NoError(t, err)
	require.Equal(t, 1, lru.Len())

	_, err = f.raw.ExecContext(ctx, `UPDATE items SET name = 'Big jar', image_key = 'item_x.jpg' WHERE id = ?`, it.ID)
	require.NoError(t, err)

	qty := 3
	got, err := f.svc.UpdateItem(ctx, u, it.ID, domain.ItemPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, "Big jar", got.Name)
	require.NotNil(t, got.ImageKey)
	assert.Equal(t, "item_x.jpg", *got.ImageKey)

	stored, err := f.sql.Items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ImageKey)
	assert.Equal(t, "item_x.jpg", *stored.ImageKey)
}
