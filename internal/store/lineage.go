package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Lineage answers parent and child-count questions about the containment
// tree without loading whole rows.
type Lineage struct {
	q Querier
}

func NewLineage(q Querier) *Lineage {
	return &Lineage{q: q}
}

func (l *Lineage) AreaParent(ctx context.Context, areaID int64) (int64, bool, error) {
	return l.parent(ctx, `SELECT user_id FROM areas WHERE id = ?`, areaID)
}

func (l *Lineage) RoomParent(ctx context.Context, roomID int64) (int64, bool, error) {
	return l.parent(ctx, `SELECT area_id FROM rooms WHERE id = ?`, roomID)
}

func (l *Lineage) FurnitureParent(ctx context.Context, furnitureID int64) (int64, bool, error) {
	return l.parent(ctx, `SELECT room_id FROM furniture WHERE id = ?`, furnitureID)
}

func (l *Lineage) ItemParent(ctx context.Context, itemID int64) (int64, bool, error) {
	return l.parent(ctx, `SELECT furniture_id FROM items WHERE id = ?`, itemID)
}

func (l *Lineage) UserExists(ctx context.Context, userID int64) (bool, error) {
	var found bool
	err := l.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, userID).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return found, nil
}

func (l *Lineage) CountRooms(ctx context.Context, areaID int64) (int, error) {
	return l.count(ctx, `SELECT COUNT(*) FROM rooms WHERE area_id = ?`, areaID)
}

func (l *Lineage) CountFurniture(ctx context.Context, roomID int64) (int, error) {
	return l.count(ctx, `SELECT COUNT(*) FROM furniture WHERE room_id = ?`, roomID)
}

func (l *Lineage) CountItems(ctx context.Context, furnitureID int64) (int, error) {
	return l.count(ctx, `SELECT COUNT(*) FROM items WHERE furniture_id = ?`, furnitureID)
}

func (l *Lineage) parent(ctx context.Context, query string, id int64) (int64, bool, error) {
	var parentID int64
	err := l.q.QueryRowContext(ctx, query, id).Scan(&parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up parent: %w", err)
	}
	return parentID, true, nil
}

func (l *Lineage) count(ctx context.Context, query string, id int64) (int, error) {
	var n int
	if err := l.q.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count children: %w", err)
	}
	return n, nil
}
