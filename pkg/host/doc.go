// Package host defines the contract of the modeling application that realizes
// a computed building, and the glue that drives it.
//
// The geometry in package footprint only computes values. Turning them into
// walls, doors, windows and a roof is done through a [Document], inside
// transactions:
//
//	err := host.InTransaction(ctx, doc, "Create walls", func() error {
//	    _, err := doc.CreateWall(line, base, wallType)
//	    return err
//	})
//
// [InTransaction] commits only when the callback succeeds and rolls back on
// error, panic or context cancellation. [Realize] applies a whole building in
// four named transactions wrapped in a group, so a failure at any stage leaves
// the document unchanged.
//
// Package memory provides an in-process [Document] used by the CLI, the HTTP
// API and tests.
package host
