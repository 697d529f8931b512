// Package memory is an in-process host document.
//
// It keeps elements in a map and implements transactions by snapshotting the
// document when a transaction or group starts; rolling back restores the
// snapshot. Element geometry is reduced to what callers need: location lines,
// insertion points and axis-aligned bounding boxes.
package memory

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/footprint/pkg/catalog"
	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/geom"
	"github.com/matzehuels/footprint/pkg/host"
	"github.com/matzehuels/footprint/pkg/units"
)

// DefaultWallHeight is the unconnected height of a new wall, in internal units.
const DefaultWallHeight = 10.0

// Document is an in-memory [host.Document]. It is safe for concurrent use,
// though transactions are document-wide.
type Document struct {
	mu       sync.Mutex
	levels   []footprint.Level
	catalog  *catalog.Catalog
	elements map[host.ElementID]host.Element
	order    []host.ElementID
	frames   []*frame
	history  []string
}

type frame struct {
	name     string
	group    bool
	closed   bool
	catalog  *catalog.Catalog
	elements map[host.ElementID]host.Element
	order    []host.ElementID
	history  int
}

// NewDocument returns a document with the given levels and catalog. A nil
// catalog is replaced by [catalog.Default].
func NewDocument(levels []footprint.Level, cat *catalog.Catalog) *Document {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Document{
		levels:   slices.Clone(levels),
		catalog:  cat,
		elements: make(map[host.ElementID]host.Element),
	}
}

// Levels returns a copy of the document's levels.
func (d *Document) Levels() []footprint.Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.levels)
}

// Catalog returns the live catalog. A rollback may replace it, so callers
// should not hold on to the pointer across transactions.
func (d *Document) Catalog() *catalog.Catalog {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.catalog
}

// History returns the names of committed transactions, oldest first.
func (d *Document) History() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.history)
}

// Begin opens a transaction.
func (d *Document) Begin(name string) (host.Transaction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if top := d.top(); top != nil && !top.group {
		return nil, errors.New(errors.ErrCodeTransaction, "transaction %q already open", top.name)
	}
	return d.push(name, false), nil
}

// BeginGroup opens a transaction group.
func (d *Document) BeginGroup(name string) (host.Transaction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if top := d.top(); top != nil && !top.group {
		return nil, errors.New(errors.ErrCodeTransaction, "cannot start group %q inside transaction %q", name, top.name)
	}
	return d.push(name, true), nil
}

func (d *Document) top() *frame {
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

func (d *Document) push(name string, group bool) *tx {
	f := &frame{
		name:     name,
		group:    group,
		catalog:  d.catalog.Clone(),
		elements: make(map[host.ElementID]host.Element, len(d.elements)),
		order:    slices.Clone(d.order),
		history:  len(d.history),
	}
	for k, v := range d.elements {
		f.elements[k] = v
	}
	d.frames = append(d.frames, f)
	return &tx{doc: d, frame: f}
}

// tx is a handle on an open frame.
type tx struct {
	doc   *Document
	frame *frame
}

func (t *tx) Name() string { return t.frame.name }

func (t *tx) Commit() error {
	d := t.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.close(t.frame); err != nil {
		return err
	}
	if !t.frame.group {
		d.history = append(d.history, t.frame.name)
	}
	return nil
}

func (t *tx) Rollback() error {
	d := t.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.close(t.frame); err != nil {
		return err
	}
	d.catalog = t.frame.catalog
	d.elements = t.frame.elements
	d.order = t.frame.order
	d.history = d.history[:t.frame.history]
	return nil
}

func (d *Document) close(f *frame) error {
	if f.closed {
		return errors.New(errors.ErrCodeTransaction, "transaction %q already closed", f.name)
	}
	if d.top() != f {
		return errors.New(errors.ErrCodeTransaction, "transaction %q is not the innermost open transaction", f.name)
	}
	f.closed = true
	d.frames = d.frames[:len(d.frames)-1]
	return nil
}

// requireTx fails unless a (non-group) transaction is open. Callers hold d.mu.
func (d *Document) requireTx(op string) error {
	if top := d.top(); top == nil || top.group {
		return errors.New(errors.ErrCodeTransaction, "%s requires an open transaction", op)
	}
	return nil
}

func (d *Document) add(e host.Element) host.ElementID {
	e.ID = host.ElementID(uuid.NewString())
	d.elements[e.ID] = e
	d.order = append(d.order, e.ID)
	return e.ID
}

func (d *Document) symbol(key catalog.Key) (catalog.Symbol, error) {
	return d.catalog.Lookup(key)
}

func (d *Document) level(l footprint.Level) error {
	for _, x := range d.levels {
		if x == l {
			return nil
		}
	}
	return errors.NotFound("level", l.Name)
}

// CreateWall creates a wall of the given type along line, based at base, with
// [DefaultWallHeight] until its top is bound.
func (d *Document) CreateWall(line geom.Line, base footprint.Level, wallType catalog.Key) (host.ElementID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireTx("create wall"); err != nil {
		return "", err
	}
	if line.Length() == 0 {
		return "", errors.InvalidArgument("wall line has zero length")
	}
	if err := d.level(base); err != nil {
		return "", err
	}
	sym, err := d.symbol(wallType)
	if err != nil {
		return "", err
	}
	l := line
	return d.add(host.Element{
		Kind:   host.KindWall,
		Symbol: wallType,
		Level:  base.Name,
		Line:   &l,
		Bounds: wallBounds(line, units.MM(sym.ThicknessMM), base.Elevation, base.Elevation+DefaultWallHeight),
	}), nil
}

// SetWallTop binds the wall's top to the level.
func (d *Document) SetWallTop(id host.ElementID, top footprint.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireTx("set wall top"); err != nil {
		return err
	}
	if err := d.level(top); err != nil {
		return err
	}
	e, ok := d.elements[id]
	if !ok || e.Kind != host.KindWall {
		return errors.NotFound("wall", string(id))
	}
	if top.Elevation <= e.Bounds.Min.Z {
		return errors.InvalidArgument("top level %q is not above the wall base", top.Name)
	}
	sym, err := d.symbol(e.Symbol)
	if err != nil {
		return err
	}
	e.TopLevel = top.Name
	e.Bounds = wallBounds(*e.Line, units.MM(sym.ThicknessMM), e.Bounds.Min.Z, top.Elevation)
	d.elements[id] = e
	return nil
}

// PlaceInstance places an active door or window symbol on a host wall.
func (d *Document) PlaceInstance(point geom.Point3, key catalog.Key, hostID host.ElementID, level footprint.Level) (host.ElementID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireTx("place instance"); err != nil {
		return "", err
	}
	if err := d.level(level); err != nil {
		return "", err
	}
	sym, err := d.symbol(key)
	if err != nil {
		return "", err
	}
	if !sym.Active {
		return "", errors.InvalidArgument("symbol %s is not active", key)
	}
	var kind host.ElementKind
	switch key.Category {
	case catalog.Doors:
		kind = host.KindDoor
	case catalog.Windows:
		kind = host.KindWindow
	default:
		return "", errors.InvalidArgument("cannot place %s as a hosted instance", key.Category)
	}
	wall, ok := d.elements[hostID]
	if !ok || wall.Kind != host.KindWall {
		return "", errors.NotFound("host wall", string(hostID))
	}
	if !wall.Line.Contains(point.WithZ(wall.Line.Start.Z), units.MM(1)) {
		return "", errors.InvalidArgument("point (%g, %g) is not on host wall", point.X, point.Y)
	}

	p := point
	dir := wall.Line.Direction()
	half := dir.Scale(units.MM(sym.WidthMM) / 2)
	bottom := point.Z + units.MM(sym.SillMM)
	a := point.Sub(half).WithZ(bottom)
	b := point.Add(half).WithZ(bottom + units.MM(sym.HeightMM))
	return d.add(host.Element{
		Kind:   kind,
		Symbol: key,
		Level:  level.Name,
		Host:   hostID,
		Point:  &p,
		Bounds: geom.BoundsOf(a, b),
	}), nil
}

// CreateExtrusionRoof creates a roof from the profile's bounds.
func (d *Document) CreateExtrusionRoof(profile footprint.RoofProfile, level footprint.Level, roofType catalog.Key) (host.ElementID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireTx("create roof"); err != nil {
		return "", err
	}
	if err := d.level(level); err != nil {
		return "", err
	}
	sym, err := d.symbol(roofType)
	if err != nil {
		return "", err
	}
	if roofType.Category != catalog.Roofs {
		return "", errors.InvalidArgument("%s is not a roof type", roofType)
	}
	if profile.Span() <= 0 {
		return "", errors.InvalidArgument("roof extrusion span is empty")
	}
	t := units.MM(sym.ThicknessMM)
	return d.add(host.Element{
		Kind:   host.KindRoof,
		Symbol: roofType,
		Level:  level.Name,
		Bounds: geom.BoundsOf(
			geom.XYZ(profile.ExtrusionStart, profile.CurveStart, level.Elevation),
			geom.XYZ(profile.ExtrusionEnd, profile.CurveEnd, profile.Ridge.Z+t),
		),
	}), nil
}

// Element returns the element with the given id.
func (d *Document) Element(id host.ElementID) (host.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.elements[id]
	if !ok {
		return host.Element{}, errors.NotFound("element", string(id))
	}
	return e, nil
}

// Elements returns all elements in creation order.
func (d *Document) Elements() []host.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]host.Element, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.elements[id])
	}
	return out
}

// wallBounds returns the box of a straight wall of thickness t centered on
// line, from z0 to z1.
func wallBounds(line geom.Line, t, z0, z1 float64) geom.BoundingBox {
	dir := line.Direction()
	n := geom.XYZ(-dir.Y, dir.X, 0).Scale(t / 2)
	return geom.BoundsOf(
		line.Start.Add(n).WithZ(z0),
		line.Start.Sub(n).WithZ(z0),
		line.End.Add(n).WithZ(z1),
		line.End.Sub(n).WithZ(z1),
	)
}

var _ host.Document = (*Document)(nil)
