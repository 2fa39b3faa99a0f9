package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vbonduro/homeinv/internal/domain"
	"github.com/vbonduro/homeinv/internal/hangul"
	"github.com/vbonduro/homeinv/internal/store"
)

func itemRef(id int64) domain.Ref { return domain.Ref{Kind: domain.KindItem, ID: id} }

func itemPrefix(id int64) string { return fmt.Sprintf("item_%d", id) }

func (s *Service) CreateItem(ctx context.Context, principal, furnitureID int64, in domain.ItemInput) (*domain.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var item *domain.Item
	err := s.inTx(ctx, func(tx *txScope) error {
		if err := allow(tx.resolver.AuthorizeParent(ctx, principal, furnitureRef(furnitureID))); err != nil {
			return err
		}
		f, err := tx.Furniture.GetByID(ctx, furnitureID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ParentNotFound(domain.KindFurniture, furnitureID)
		}
		if err := domain.CheckRow(f, in.RowNumber); err != nil {
			return err
		}
		now := s.now()
		item, err = tx.Items.Create(ctx, &domain.Item{
			FurnitureID: furnitureID,
			Name:        in.Name,
			Type:        in.Type,
			Quantity:    in.Quantity,
			RowNumber:   in.RowNumber,
			ExpiresOn:   in.ExpiresOn,
			ReceivedAt:  now,
			UpdatedAt:   now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) ListItems(ctx context.Context, principal, furnitureID int64) ([]*domain.Item, error) {
	var items []*domain.Item
	err := s.inTx(ctx, func(tx *txScope) error {
		if err := allow(tx.resolver.AuthorizeRef(ctx, principal, furnitureRef(furnitureID))); err != nil {
			return err
		}
		var err error
		items, err = tx.Items.ListByFurniture(ctx, furnitureID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) GetItem(ctx context.Context, principal, id int64) (*domain.Item, error) {
	var item *domain.Item
	err := s.inTx(ctx, func(tx *txScope) error {
		var err error
		item, err = load(ctx, tx, s.cache, principal, itemRef(id), tx.Items.GetByID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies patch. A move to another furniture unit is authorized
// against the destination as if creating there.
func (s *Service) UpdateItem(ctx context.Context, principal, id int64, patch domain.ItemPatch) (*domain.Item, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var item *domain.Item
	err := s.inTx(ctx, func(tx *txScope) error {
		it, err := loadFresh(ctx, tx, principal, itemRef(id), tx.Items.GetByID)
		if err != nil {
			return err
		}
		if patch.FurnitureID != nil && *patch.FurnitureID != it.FurnitureID {
			if err := allow(tx.resolver.AuthorizeParent(ctx, principal, furnitureRef(*patch.FurnitureID))); err != nil {
				return err
			}
		}
		patch.Apply(it)

		f, err := tx.Furniture.GetByID(ctx, it.FurnitureID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ParentNotFound(domain.KindFurniture, it.FurnitureID)
		}
		if err := domain.CheckRow(f, it.RowNumber); err != nil {
			return err
		}
		item, err = tx.Items.Update(ctx, it, s.now())
		return err
	})
	s.cache.Invalidate(itemRef(id))
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem always succeeds for the owner. The item's image is removed
// after commit, best-effort.
func (s *Service) DeleteItem(ctx context.Context, principal, id int64) error {
	var imageKey string
	err := s.inTx(ctx, func(tx *txScope) error {
		it, err := loadFresh(ctx, tx, principal, itemRef(id), tx.Items.GetByID)
		if err != nil {
			return err
		}
		if it.ImageKey != nil {
			imageKey = *it.ImageKey
		}
		return tx.Items.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(itemRef(id))
	s.discardImage(ctx, imageKey, "item deleted")
	return nil
}

// SetItemImage stores img and points the item at it, replacing any previous
// image.
func (s *Service) SetItemImage(ctx context.Context, principal, id int64, img Image) (*domain.Item, error) {
	var newKey, oldKey string
	var item *domain.Item
	err := s.inTx(ctx, func(tx *txScope) error {
		it, err := loadFresh(ctx, tx, principal, itemRef(id), tx.Items.GetByID)
		if err != nil {
			return err
		}
		if newKey, err = s.saveImage(ctx, itemPrefix(id), &img); err != nil {
			return err
		}
		if it.ImageKey != nil {
			oldKey = *it.ImageKey
		}
		it.ImageKey = &newKey
		item, err = tx.Items.Update(ctx, it, s.now())
		return err
	})
	s.cache.Invalidate(itemRef(id))
	if err != nil {
		s.discardImage(ctx, newKey, "item image update failed")
		return nil, err
	}
	s.discardImage(ctx, oldKey, "item image replaced")
	return item, nil
}

func (s *Service) ItemImage(ctx context.Context, principal, id int64) (*OpenImage, error) {
	var key *string
	err := s.inTx(ctx, func(tx *txScope) error {
		it, err := load(ctx, tx, s.cache, principal, itemRef(id), tx.Items.GetByID)
		if err != nil {
			return err
		}
		key = it.ImageKey
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.openImage(ctx, "item", id, key)
}

// SearchItems finds the principal's items by name. A query made only of
// Hangul leading consonants matches names by their initial-sound signature;
// anything else is a case-insensitive substring match.
func (s *Service) SearchItems(ctx context.Context, principal int64, query string) ([]*domain.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &domain.ValidationError{Field: "q", Reason: "required"}
	}

	search := store.ItemSearch{OwnerID: principal, Substring: query}
	initial := hangul.IsInitialQuery(query)
	if initial {
		first := []rune(query)[0]
		search.NameFrom, search.NameTo, _ = hangul.SyllableRange(first)
	}

	var items []*domain.Item
	err := s.inTx(ctx, func(tx *txScope) error {
		var err error
		items, err = tx.Items.Search(ctx, search)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !initial {
		return items, nil
	}

	matched := items[:0]
	for _, it := range items {
		if hangul.Matches(it.Name, query) {
			matched = append(matched, it)
		}
	}
	return matched, nil
}
