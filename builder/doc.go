// Package builder provides reusable “functional‐options”‐style building blocks
// for graph fixtures. It lives alongside core and matrix packages to centralize
// common configuration, ID schemes, weight distributions, and validation logic,
// keeping implementations DRY, testable, and consistent.
//
// The package offers the following key components:
//
//   - Configuration primitives:
//     – BuilderOption:     a function that mutates builderConfig before use.
//     – builderConfig:     holds RNG, ID‐scheme, weight function.
//   - Topology constructors, composed through BuildGraph:
//     – Cycle(n):          simple cycle C_n.
//     – Path(n):           simple path P_n.
//     – Complete(n):       complete simple graph K_n.
//     – Grid(rows, cols):  orthogonal grid with "r,c" coordinate IDs.
//   - Vertex‐ID schemes (IDFn implementations):
//     – DefaultIDFn:       decimal strings ("0","1",…).
//     – SymbolIDFn:        single letters ("A","B",…).
//     – ExcelColumnIDFn:   Excel‐style columns ("A","Z","AA",…).
//     – AlphanumericIDFn:  base-36 strings ("0"…"z","10",…).
//     – HexIDFn:           lowercase hexadecimal ("0","a","ff",…).
//   - Edge‐weight distributions (WeightFn implementations):
//     – DefaultWeightFn:   constant weight DefaultEdgeWeight.
//     – ConstantWeightFn:  fixed user-provided value.
//     – UniformWeightFn:   uniform ∼U[min,max].
//
// Guarantees:
//
//   - Idempotent configuration: re-running the same builder on a fresh graph
//     yields an identical topology.
//   - Fast‐fail on invalid option parameters via panics in option‐constructors.
//   - Sentinel errors (ErrTooFewVertices, ErrConstructFailed) for invalid
//     build parameters, wrapped with method context for easy filtering.
//   - Documented algorithmic complexity (O(n), O(n²), O(V+E), etc.) per constructor.
//
// See individual function documentation for detailed contracts, panic conditions,
// parameter descriptions, and performance notes.
package builder
