// Package pkg provides the libraries behind footprint, a procedural builder
// for a simple rectangular building between two named levels.
//
// # Overview
//
// A build computes four walls, a door, three windows and a gable extrusion
// roof, then optionally realizes them in a host document inside scoped
// transactions. The packages split into three areas:
//
//  1. Geometry: [footprint], [geom], [units]
//  2. Host: [host], [host/memory], [catalog]
//  3. Delivery: [pipeline], [model], [render], [cache], [store], [config]
//
// # Architecture
//
//	levels + dimensions
//	         ↓
//	    [footprint] (resolve levels, wall loop, openings, roof profile)
//	         ↓
//	    [model] (serializable building)
//	         ↓                      ↓
//	    [host] realize         [render] svg, elevation, json, dot, graph
//
// [pipeline] runs these stages with caching through [cache] and reports
// them to [observability] hooks. Every failure carries an [errors] code.
//
// # Quick Start
//
//	b, err := footprint.Build(footprint.Spec{
//	    Width:         units.MM(10000),
//	    Depth:         units.MM(5000),
//	    WallThickness: units.MM(200),
//	    Levels:        levels,
//	    BaseLevel:     "Level 1",
//	    TopLevel:      "Level 2",
//	})
//	if err != nil {
//	    return err // NOT_FOUND, INVALID_DIMENSION or INVALID_ARGUMENT
//	}
//
// [footprint]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/footprint
// [geom]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/geom
// [units]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/units
// [host]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/host
// [host/memory]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/host/memory
// [catalog]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/catalog
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/pipeline
// [model]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/model
// [render]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/footprint/pkg/errors
package pkg
