// Package ir provides canonical record types for keycalc session traces.
//
// This package contains value and record definitions only. All other
// internal packages may import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types in records - numbers travel as their display text,
//     which is exactly what the calculator showed (and "NaN" survives JSON)
//   - Logical clocks (seq) only, never wall-clock timestamps
//   - All JSON tags use snake_case
//   - Content hashes use RFC 8785 canonical JSON with domain separation
package ir
