// Package ownership decides whether a principal owns an entity by walking
// its live parent chain up to the owning user.
package ownership

import (
	"context"
	"fmt"

	"github.com/vbonduro/homeinv/internal/domain"
)

// ParentLookup returns the direct parent id of one row per entity kind.
// ok is false when the row itself does not exist.
type ParentLookup interface {
	AreaParent(ctx context.Context, areaID int64) (userID int64, ok bool, err error)
	RoomParent(ctx context.Context, roomID int64) (areaID int64, ok bool, err error)
	FurnitureParent(ctx context.Context, furnitureID int64) (roomID int64, ok bool, err error)
	ItemParent(ctx context.Context, itemID int64) (furnitureID int64, ok bool, err error)
}

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

type Resolver struct {
	lookup ParentLookup
}

func NewResolver(lookup ParentLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// ResolveOwner walks from the entity's parent up to the owning user. A
// missing row at any hop is an integrity error.
func (r *Resolver) ResolveOwner(ctx context.Context, e domain.Owned) (int64, error) {
	return r.walk(ctx, e.ParentRef(), false)
}

func (r *Resolver) Authorize(ctx context.Context, principal int64, e domain.Owned) (Decision, error) {
	owner, err := r.ResolveOwner(ctx, e)
	if err != nil {
		return Deny, err
	}
	return decide(principal, owner), nil
}

// AuthorizeParent authorizes a create against the requested parent. A
// missing parent is reported as a parent NotFound.
func (r *Resolver) AuthorizeParent(ctx context.Context, principal int64, parent domain.Ref) (Decision, error) {
	if parent.Kind == domain.KindUser {
		return AuthorizeSelf(principal, parent.ID), nil
	}
	owner, err := r.walk(ctx, parent, true)
	if err != nil {
		return Deny, err
	}
	return decide(principal, owner), nil
}

// AuthorizeRef authorizes by id alone, starting the live walk at the target
// row. Used when the target record itself came from cache.
func (r *Resolver) AuthorizeRef(ctx context.Context, principal int64, ref domain.Ref) (Decision, error) {
	if ref.Kind == domain.KindUser {
		return AuthorizeSelf(principal, ref.ID), nil
	}
	owner, err := r.walkFrom(ctx, ref, func(ref domain.Ref) error { return domain.NotFound(ref.Kind, ref.ID) })
	if err != nil {
		return Deny, err
	}
	return decide(principal, owner), nil
}

// AuthorizeSelf covers User and Profile endpoints, where the target id is
// the owner.
func AuthorizeSelf(principal, userID int64) Decision {
	return decide(principal, userID)
}

func (r *Resolver) walk(ctx context.Context, start domain.Ref, startIsParent bool) (int64, error) {
	if start.Kind == domain.KindUser {
		return start.ID, nil
	}
	onFirstMiss := func(ref domain.Ref) error { return integrity(ref) }
	if startIsParent {
		onFirstMiss = func(ref domain.Ref) error { return domain.ParentNotFound(ref.Kind, ref.ID) }
	}
	return r.walkFrom(ctx, start, onFirstMiss)
}

// walkFrom climbs one hop per lookup until it reaches a user id. The first
// hop's miss is reported through onFirstMiss; later misses are integrity
// errors.
func (r *Resolver) walkFrom(ctx context.Context, ref domain.Ref, onFirstMiss func(domain.Ref) error) (int64, error) {
	first := true
	for {
		parent, ok, err := r.parentOf(ctx, ref)
		if err != nil {
			return 0, err
		}
		if !ok {
			if first {
				return 0, onFirstMiss(ref)
			}
			return 0, integrity(ref)
		}
		if ref.Kind == domain.KindArea {
			return parent, nil
		}
		ref = domain.Ref{Kind: parentKind(ref.Kind), ID: parent}
		first = false
	}
}

func (r *Resolver) parentOf(ctx context.Context, ref domain.Ref) (int64, bool, error) {
	switch ref.Kind {
	case domain.KindArea:
		return r.lookup.AreaParent(ctx, ref.ID)
	case domain.KindRoom:
		return r.lookup.RoomParent(ctx, ref.ID)
	case domain.KindFurniture:
		return r.lookup.FurnitureParent(ctx, ref.ID)
	case domain.KindItem:
		return r.lookup.ItemParent(ctx, ref.ID)
	default:
		return 0, false, fmt.Errorf("no parent lookup for %s", ref.Kind)
	}
}

func parentKind(k domain.Kind) domain.Kind {
	switch k {
	case domain.KindItem:
		return domain.KindFurniture
	case domain.KindFurniture:
		return domain.KindRoom
	case domain.KindRoom:
		return domain.KindArea
	default:
		return domain.KindUser
	}
}

func integrity(ref domain.Ref) error {
	return fmt.Errorf("%w: %s %d missing from ownership chain", domain.ErrIntegrity, ref.Kind, ref.ID)
}

func decide(principal, owner int64) Decision {
	if principal == owner {
		return Allow
	}
	return Deny
}
