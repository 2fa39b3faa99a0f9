// Package guard refuses writes that would break referential integrity or
// account uniqueness.
package guard

import (
	"context"

	"github.com/vbonduro/homeinv/internal/domain"
)

type ChildCounter interface {
	CountRooms(ctx context.Context, areaID int64) (int, error)
	CountFurniture(ctx context.Context, roomID int64) (int, error)
	CountItems(ctx context.Context, furnitureID int64) (int, error)
}

type AccountIndex interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

type Guard struct {
	children ChildCounter
	accounts AccountIndex
}

func New(children ChildCounter, accounts AccountIndex) *Guard {
	return &Guard{children: children, accounts: accounts}
}

func (g *Guard) CheckDeleteArea(ctx context.Context, areaID int64) error {
	n, err := g.children.CountRooms(ctx, areaID)
	return block(n, err, "rooms")
}

func (g *Guard) CheckDeleteRoom(ctx context.Context, roomID int64) error {
	n, err := g.children.CountFurniture(ctx, roomID)
	return block(n, err, "furniture")
}

func (g *Guard) CheckDeleteFurniture(ctx context.Context, furnitureID int64) error {
	n, err := g.children.CountItems(ctx, furnitureID)
	return block(n, err, "items")
}

// CheckSignup rejects an email or phone that is already registered.
func (g *Guard) CheckSignup(ctx context.Context, email, phone string) error {
	taken, err := g.accounts.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return &domain.ConflictError{Reason: "email already registered"}
	}
	taken, err = g.accounts.PhoneExists(ctx, phone)
	if err != nil {
		return err
	}
	if taken {
		return &domain.ConflictError{Reason: "phone already registered"}
	}
	return nil
}

func block(n int, err error, children string) error {
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.HasDependents(children)
	}
	return nil
}
