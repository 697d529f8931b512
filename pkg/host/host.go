package host

import (
	"github.com/matzehuels/footprint/pkg/catalog"
	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/geom"
)

// ElementID identifies an element in a document.
type ElementID string

// ElementKind is the kind of a realized element.
type ElementKind string

// Element kinds.
const (
	KindWall   ElementKind = "wall"
	KindDoor   ElementKind = "door"
	KindWindow ElementKind = "window"
	KindRoof   ElementKind = "roof"
)

// Element is a realized element as reported by the document.
type Element struct {
	ID       ElementID        `json:"id" bson:"id"`
	Kind     ElementKind      `json:"kind" bson:"kind"`
	Symbol   catalog.Key      `json:"symbol" bson:"symbol"`
	Level    string           `json:"level" bson:"level"`
	TopLevel string           `json:"top_level,omitempty" bson:"top_level,omitempty"`
	Host     ElementID        `json:"host,omitempty" bson:"host,omitempty"`
	Line     *geom.Line       `json:"line,omitempty" bson:"line,omitempty"`
	Point    *geom.Point3     `json:"point,omitempty" bson:"point,omitempty"`
	Bounds   geom.BoundingBox `json:"bounds" bson:"bounds"`
}

// Transaction is a scoped unit of change. Exactly one of Commit or Rollback
// must be called.
type Transaction interface {
	Name() string
	Commit() error
	Rollback() error
}

// Document is the host model that computed geometry is realized in.
//
// Mutating methods fail unless a transaction is open.
type Document interface {
	// Levels returns the document's levels in no particular order.
	Levels() []footprint.Level

	// Catalog returns the document's family catalog.
	Catalog() *catalog.Catalog

	// Begin opens a transaction. Transactions may not nest.
	Begin(name string) (Transaction, error)

	// BeginGroup opens a group of transactions that commits or rolls back
	// as one.
	BeginGroup(name string) (Transaction, error)

	// CreateWall realizes a wall along line, starting at base.
	CreateWall(line geom.Line, base footprint.Level, wallType catalog.Key) (ElementID, error)

	// SetWallTop binds a wall's top to a level.
	SetWallTop(wall ElementID, top footprint.Level) error

	// PlaceInstance places a family instance at point, hosted by host.
	PlaceInstance(point geom.Point3, symbol catalog.Key, host ElementID, level footprint.Level) (ElementID, error)

	// CreateExtrusionRoof extrudes a roof profile between its span.
	CreateExtrusionRoof(profile footprint.RoofProfile, level footprint.Level, roofType catalog.Key) (ElementID, error)

	// Element returns a realized element.
	Element(id ElementID) (Element, error)

	// Elements returns all realized elements in creation order.
	Elements() []Element
}
