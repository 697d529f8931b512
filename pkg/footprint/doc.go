// Package footprint computes the layout of a simple rectangular building.
//
// The layout is produced by four stages that run strictly in order, each
// consuming the previous stage's output:
//
//  1. Level resolution: pick the base and top levels by exact name ([ResolveLevel])
//  2. Wall loop: four wall segments around the origin ([BuildWallLoop])
//  3. Openings: one door and one window per remaining wall ([PlaceDoor], [PlaceWindows])
//  4. Roof: a gable extrusion profile over the loop ([BuildRoofProfile])
//
// [Build] runs all four stages from a [Spec]. Every function here is pure: no
// stage mutates its inputs, and a failing stage stops the build before any
// later stage runs. Realizing the result in a host document is the job of
// package host.
//
// All lengths are internal units (decimal feet); see package units.
package footprint
