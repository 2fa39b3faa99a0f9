// Package cache holds an advisory read-through cache for entity records.
// It is never consulted for ownership decisions.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vbonduro/homeinv/internal/domain"
)

// Cache is keyed by entity ref. Implementations store copies so callers may
// mutate what they get back.
type Cache interface {
	Get(ref domain.Ref) (any, bool)
	Set(ref domain.Ref, v any)
	Invalidate(ref domain.Ref)
}

// LRU is a size-bounded cache whose entries expire after a fixed TTL.
type LRU struct {
	lru *expirable.LRU[domain.Ref, any]
}

func NewLRU(size int, ttl time.Duration) *LRU {
	return &LRU{lru: expirable.NewLRU[domain.Ref, any](size, nil, ttl)}
}

func (c *LRU) Get(ref domain.Ref) (any, bool) {
	v, ok := c.lru.Get(ref)
	if !ok {
		return nil, false
	}
	return clone(v), true
}

func (c *LRU) Set(ref domain.Ref, v any) {
	c.lru.Add(ref, clone(v))
}

func (c *LRU) Invalidate(ref domain.Ref) {
	c.lru.Remove(ref)
}

func (c *LRU) Len() int { return c.lru.Len() }

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(domain.Ref) (any, bool) { return nil, false }
func (Noop) Set(domain.Ref, any)        {}
func (Noop) Invalidate(domain.Ref)      {}

// clone copies the entity records the service caches. Other values are
// stored as given.
func clone(v any) any {
	switch e := v.(type) {
	case *domain.Area:
		c := *e
		return &c
	case *domain.Room:
		c := *e
		return &c
	case *domain.Furniture:
		c := *e
		c.Location = copyPtr(e.Location)
		c.Description = copyPtr(e.Description)
		return &c
	case *domain.Item:
		c := *e
		c.ImageKey = copyPtr(e.ImageKey)
		c.ExpiresOn = copyPtr(e.ExpiresOn)
		return &c
	default:
		return v
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Typed fetches ref and asserts its type.
func Typed[T any](c Cache, ref domain.Ref) (T, bool) {
	v, ok := c.Get(ref)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
