// Package calc implements the keycalc calculation engine.
//
// The engine is a pure state-transition function: Apply folds one Command
// into a State and returns the next State. Nothing else is kept between
// calls, so a host that runs several sessions simply owns one State per
// session.
//
// ARCHITECTURE:
//
// Macro-states:
// There are exactly two macro-states, "no pending operator" and "pending
// operator", cross-cut by the Awaiting flag (the next digit starts a fresh
// operand) and the Evaluated flag (the display holds a result produced by
// Equals and the next digit starts a new calculation).
//
// Dispatch:
// Commands are a tagged variant (Kind). Apply looks the Kind up in a fixed
// table of transition functions, and binary, unary and memory commands are
// resolved through their own tables. Every enum value has a table entry;
// tests walk the enums to keep it that way.
//
// Error model:
// Apply never fails. Division by zero, out-of-domain input and overflow
// produce NaN or ±Inf, rendered as "NaN", "Infinity" and "-Infinity".
// The presentation layer decides how to flag those. Errors exist only at
// the boundary, when turning text tokens into commands (ParseToken).
//
// INVARIANTS:
//   - Display always parses with ParseDisplay (a trailing "." is allowed)
//   - A first operand exists if and only if Operator != OpNone
//   - Clear never touches Memory or Angle
package calc
