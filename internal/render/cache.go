package render

import (
	"fmt"
	"reflect"

	"gomark/internal/markup"
)

// Kind enumerates the reusable drawing resources. Values start at 0 and
// are contiguous so that iterating up to KindCount visits every kind.
type Kind int

const (
	KindStarPoint Kind = iota
	KindBlackStone
	KindWhiteStone
	KindCrossHairStone
	KindBlackLastMove
	KindWhiteLastMove
	KindBlackTerritory
	KindWhiteTerritory
	KindCircleSymbol
	KindSquareSymbol
	KindTriangleSymbol
	KindXSymbol
	KindSelectedSymbol
	KindConnectionLine
	KindConnectionArrow
	KindLabel
	// Per-position markup layers, rebuilt from the markup model.
	KindSymbolLayer
	KindTerritoryLayer
	KindConnectionLayer
	KindLabelLayer
	KindCount
)

var kindNames = [KindCount]string{
	"star-point", "black-stone", "white-stone", "cross-hair-stone",
	"black-last-move", "white-last-move", "black-territory", "white-territory",
	"circle", "square", "triangle", "x", "selected",
	"connection-line", "connection-arrow", "label",
	"symbol-layer", "territory-layer", "connection-layer", "label-layer",
}

func (k Kind) Valid() bool {
	return k >= 0 && k < KindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// LayerFor returns the layer kind holding the drawn markup of category c.
func LayerFor(c markup.Category) (Kind, bool) {
	switch c {
	case markup.CategorySymbol:
		return KindSymbolLayer, true
	case markup.CategoryTerritory:
		return KindTerritoryLayer, true
	case markup.CategoryConnection:
		return KindConnectionLayer, true
	case markup.CategoryLabel:
		return KindLabelLayer, true
	}
	return 0, false
}

// Resource is an opaque drawing resource. Resources that hold on to
// something that must be freed implement Releaser.
type Resource any

type Releaser interface {
	Release()
}

// Cache keeps at most one resource per Kind. It is owned by a drawing
// context and used from that context's goroutine only, so it does no
// locking. The zero value is ready to use; Close releases every resource.
type Cache struct {
	slots [KindCount]Resource
	open  bool
	hits  int
	miss  int
}

func NewCache() *Cache {
	return &Cache{}
}

// Open marks the cache live. Get and Set open it on first use as well.
func (c *Cache) Open() {
	c.open = true
}

func (c *Cache) IsOpen() bool {
	return c.open
}

// Get returns the resource cached for kind. A missing resource is normal
// and simply means the caller has to create it.
func (c *Cache) Get(kind Kind) (Resource, bool) {
	c.open = true
	if !kind.Valid() || c.slots[kind] == nil {
		c.miss++
		return nil, false
	}
	c.hits++
	return c.slots[kind], true
}

// Set installs r for kind, releasing the resource it replaces.
func (c *Cache) Set(kind Kind, r Resource) {
	c.open = true
	if !kind.Valid() {
		return
	}
	if old, ok := c.slots[kind].(Releaser); ok && !sameResource(old, r) {
		old.Release()
	}
	c.slots[kind] = r
}

// GetOrCreate is the read-through path used by renderers.
func (c *Cache) GetOrCreate(kind Kind, create func() Resource) Resource {
	if r, ok := c.Get(kind); ok {
		return r
	}
	r := create()
	c.Set(kind, r)
	return r
}

func (c *Cache) Invalidate(kind Kind) {
	if !kind.Valid() {
		return
	}
	release(c.slots[kind])
	c.slots[kind] = nil
}

// InvalidateLayers drops every per-position markup layer.
func (c *Cache) InvalidateLayers() {
	for k := KindSymbolLayer; k <= KindLabelLayer; k++ {
		c.Invalidate(k)
	}
}

func (c *Cache) InvalidateAll() {
	for k := Kind(0); k < KindCount; k++ {
		c.Invalidate(k)
	}
}

// Close releases every resource. The cache can be reused afterwards and
// reopens on first use.
func (c *Cache) Close() {
	c.InvalidateAll()
	c.open = false
}

// Stats reports hits and misses since the cache was created.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.miss
}

// sameResource reports whether a and b are the same value. Values of a
// type that cannot be compared are never the same.
func sameResource(a, b Resource) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func release(r Resource) {
	if rel, ok := r.(Releaser); ok {
		rel.Release()
	}
}
