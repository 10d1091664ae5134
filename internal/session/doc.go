// Package session hosts a calc engine for one user.
//
// A Session owns exactly one calc.State and records every applied command
// as an ir.Step on an in-memory tape. Sessions never share state; a host
// serving several users creates one Session each.
//
// ARCHITECTURE:
//
// Single-Writer Loop:
// Key presses can be applied synchronously with Press, or enqueued from any
// goroutine with Enqueue and drained by Run. Run processes presses one at a
// time in FIFO order, so every press completes before the next starts.
//
// Press Flow:
//  1. The Resolver turns the key into one or more calc commands
//     (aliases and macros come from the keymap)
//  2. Each command is folded into the state with calc.Apply
//  3. Each result is stamped with the next logical clock value and
//     appended to the tape
//  4. Observers are notified after the lock is released
//
// Replay:
// Replay re-presses the keys of a recorded tape in a fresh session and
// compares the produced steps one by one. The engine is deterministic, so
// any divergence is reported as a *ReplayError.
//
// Clock:
// Steps are ordered by a monotonic seq from the Clock, never by wall time.
package session
