package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vbonduro/homeinv/internal/domain"
)

type ItemStore struct {
	q Querier
}

func NewItemStore(q Querier) *ItemStore {
	return &ItemStore{q: q}
}

const itemColumns = `i.id, i.furniture_id, i.name, i.type, i.quantity, i.row_number, i.image_key, i.expires_on, i.received_at, i.updated_at`

func (s *ItemStore) Create(ctx context.Context, it *domain.Item) (*domain.Item, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO items (furniture_id, name, type, quantity, row_number, image_key, expires_on, received_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, it.FurnitureID, it.Name, string(it.Type), it.Quantity, it.RowNumber, nullString(it.ImageKey),
		nullDate(it.ExpiresOn), it.ReceivedAt, it.UpdatedAt)
	if err != nil {
		switch constraintOf(err) {
		case constraintForeignKey:
			return nil, domain.ParentNotFound(domain.KindFurniture, it.FurnitureID)
		case constraintCheck:
			return nil, &domain.ValidationError{Reason: "item violates quantity, row or type constraint"}
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items i WHERE i.id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

func (s *ItemStore) ListByFurniture(ctx context.Context, furnitureID int64) ([]*domain.Item, error) {
	return s.list(ctx, `
		SELECT `+itemColumns+` FROM items i
		WHERE i.furniture_id = ? ORDER BY i.row_number ASC, i.name ASC, i.id ASC
	`, furnitureID)
}

// MaxRowNumber returns the highest row occupied in a furniture unit, 0 when
// it holds no items.
func (s *ItemStore) MaxRowNumber(ctx context.Context, furnitureID int64) (int, error) {
	var max int
	err := s.q.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(row_number), 0) FROM items WHERE furniture_id = ?
	`, furnitureID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max row number: %w", err)
	}
	return max, nil
}

// ItemSearch selects candidate items owned by OwnerID. A row matches when
// its lower-cased name contains Substring, or when NameFrom is set and the
// name sorts in [NameFrom, NameTo).
type ItemSearch struct {
	OwnerID   int64
	Substring string
	NameFrom  string
	NameTo    string
}

func (s *ItemStore) Search(ctx context.Context, q ItemSearch) ([]*domain.Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(q.Substring)) + "%"
	return s.list(ctx, `
		SELECT `+itemColumns+` FROM items i
		JOIN furniture f ON f.id = i.furniture_id
		JOIN rooms r     ON r.id = f.room_id
		JOIN areas a     ON a.id = r.area_id
		WHERE a.user_id = ?
		  AND (LOWER(i.name) LIKE ? ESCAPE '\'
		       OR (? <> '' AND i.name >= ? AND i.name < ?))
		ORDER BY i.name ASC, i.id ASC
	`, q.OwnerID, pattern, q.NameFrom, q.NameFrom, q.NameTo)
}

// Update writes every mutable column back, including a move to another
// furniture unit.
func (s *ItemStore) Update(ctx context.Context, it *domain.Item, now time.Time) (*domain.Item, error) {
	result, err := s.q.ExecContext(ctx, `
		UPDATE items SET furniture_id = ?, name = ?, type = ?, quantity = ?, row_number = ?,
		                 image_key = ?, expires_on = ?, updated_at = ?
		WHERE id = ?
	`, it.FurnitureID, it.Name, string(it.Type), it.Quantity, it.RowNumber,
		nullString(it.ImageKey), nullDate(it.ExpiresOn), now, it.ID)
	if err != nil {
		switch constraintOf(err) {
		case constraintForeignKey:
			return nil, domain.ParentNotFound(domain.KindFurniture, it.FurnitureID)
		case constraintCheck:
			return nil, &domain.ValidationError{Reason: "item violates quantity, row or type constraint"}
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if err := requireRow(result, domain.KindItem, it.ID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, it.ID)
}

func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM items WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return requireRow(result, domain.KindItem, id)
}

func (s *ItemStore) list(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer closeRows(rows)

	items := []*domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func scanItem(sc scanner) (*domain.Item, error) {
	it := &domain.Item{}
	var typ string
	var key, expires sql.NullString
	if err := sc.Scan(&it.ID, &it.FurnitureID, &it.Name, &typ, &it.Quantity, &it.RowNumber,
		&key, &expires, &it.ReceivedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Type = domain.ItemType(typ)
	it.ImageKey = stringPtr(key)
	if expires.Valid {
		d, err := domain.ParseDate(expires.String)
		if err != nil {
			return nil, fmt.Errorf("item %d has malformed expires_on %q: %w", it.ID, expires.String, err)
		}
		it.ExpiresOn = &d
	}
	it.ReceivedAt, it.UpdatedAt = it.ReceivedAt.UTC(), it.UpdatedAt.UTC()
	return it, nil
}

func nullDate(d *domain.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
