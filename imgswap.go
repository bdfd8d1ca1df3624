// Package imgswap finds image elements in HTML documents and rewrites
// their attributes while leaving the rest of the markup alone.
//
// This package contains domain types, interfaces and the pure tree logic
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., html/, goquery/,
// sqlite/).
package imgswap
