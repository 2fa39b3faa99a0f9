package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vbonduro/homeinv/internal/domain"
	"github.com/vbonduro/homeinv/internal/vision"
)

func furnitureRef(id int64) domain.Ref { return domain.Ref{Kind: domain.KindFurniture, ID: id} }

func (s *Service) CreateFurniture(ctx context.Context, principal, roomID int64, in domain.FurnitureInput) (*domain.Furniture, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var furniture *domain.Furniture
	err := s.inTx(ctx, func(tx *txScope) error {
		if err := allow(tx.resolver.AuthorizeParent(ctx, principal, roomRef(roomID))); err != nil {
			return err
		}
		now := s.now()
		var err error
		furniture, err = tx.Furniture.Create(ctx, &domain.Furniture{
			RoomID:      roomID,
			Name:        in.Name,
			Rows:        in.Rows,
			Location:    in.Location,
			Description: in.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return furniture, nil
}

func (s *Service) ListFurniture(ctx context.Context, principal, roomID int64) ([]*domain.Furniture, error) {
	var list []*domain.Furniture
	err := s.inTx(ctx, func(tx *txScope) error {
		if err := allow(tx.resolver.AuthorizeRef(ctx, principal, roomRef(roomID))); err != nil {
			return err
		}
		var err error
		list, err = tx.Furniture.ListByRoom(ctx, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) GetFurniture(ctx context.Context, principal, id int64) (*domain.Furniture, error) {
	var furniture *domain.Furniture
	err := s.inTx(ctx, func(tx *txScope) error {
		var err error
		furniture, err = load(ctx, tx, s.cache, principal, furnitureRef(id), tx.Furniture.GetByID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return furniture, nil
}

// UpdateFurniture applies patch. Shrinking rows below an occupied row is
// rejected.
func (s *Service) UpdateFurniture(ctx context.Context, principal, id int64, patch domain.FurniturePatch) (*domain.Furniture, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var furniture *domain.Furniture
	err := s.inTx(ctx, func(tx *txScope) error {
		f, err := loadFresh(ctx, tx, principal, furnitureRef(id), tx.Furniture.GetByID)
		if err != nil {
			return err
		}
		if patch.Rows != nil && *patch.Rows < f.Rows {
			occupied, err := tx.Items.MaxRowNumber(ctx, id)
			if err != nil {
				return err
			}
			if occupied > *patch.Rows {
				return &domain.ValidationError{Field: "rows", Reason: fmt.Sprintf("row %d is still occupied", occupied)}
			}
		}
		patch.Apply(f)
		furniture, err = tx.Furniture.Update(ctx, f, s.now())
		return err
	})
	s.cache.Invalidate(furnitureRef(id))
	if err != nil {
		return nil, err
	}
	return furniture, nil
}

// DeleteFurniture removes a furniture unit that holds no items.
func (s *Service) DeleteFurniture(ctx context.Context, principal, id int64) error {
	err := s.inTx(ctx, func(tx *txScope) error {
		if _, err := loadFresh(ctx, tx, principal, furnitureRef(id), tx.Furniture.GetByID); err != nil {
			return err
		}
		if err := tx.guard.CheckDeleteFurniture(ctx, id); err != nil {
			return err
		}
		return tx.Furniture.Delete(ctx, id)
	})
	if err == nil {
		s.cache.Invalidate(furnitureRef(id))
	}
	return err
}

// ScanFurniture asks the vision model what sits on the furniture in img
// and records one item per detected line. The model call runs outside any
// transaction; ownership is checked before and again when writing.
func (s *Service) ScanFurniture(ctx context.Context, principal, id int64, img Image) ([]*domain.Item, error) {
	if s.vision == nil {
		return nil, ErrScanUnavailable
	}
	if _, err := s.GetFurniture(ctx, principal, id); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "vision analysis started", "furniture_id", id, "mime_type", img.MimeType, "bytes", len(img.Data))
	result, err := s.vision.Analyze(ctx, bytes.NewReader(img.Data), img.MimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}
	s.logger.InfoContext(ctx, "vision analysis complete", "furniture_id", id, "items_detected", len(result.Items))

	items := make([]*domain.Item, 0, len(result.Items))
	err = s.inTx(ctx, func(tx *txScope) error {
		f, err := loadFresh(ctx, tx, principal, furnitureRef(id), tx.Furniture.GetByID)
		if err != nil {
			return err
		}
		now := s.now()
		for _, detected := range result.Items {
			in := detectedInput(detected, f.Rows)
			if err := in.Validate(); err != nil {
				s.logger.WarnContext(ctx, "skipping detected item", "furniture_id", id, "name", detected.Name, "error", err)
				continue
			}
			item, err := tx.Items.Create(ctx, &domain.Item{
				FurnitureID: id,
				Name:        in.Name,
				Type:        in.Type,
				Quantity:    in.Quantity,
				RowNumber:   in.RowNumber,
				ReceivedAt:  now,
				UpdatedAt:   now,
			})
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "scan complete", "furniture_id", id, "items_stored", len(items))
	return items, nil
}

// detectedInput maps a model line onto an item: type other, quantity
// defaulting to 1 and row clamped into the furniture's rows.
func detectedInput(d vision.DetectedItem, rows int) domain.ItemInput {
	row := vision.LeadingInt(d.Row, 1)
	row = max(1, min(row, rows))
	return domain.ItemInput{
		Name:      d.Name,
		Type:      domain.ItemTypeOther,
		Quantity:  vision.LeadingInt(d.Quantity, 1),
		RowNumber: row,
	}
}
