// Package harness runs calculator conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files. Keys are pressed in order through a session
// that resolves them with the default keymap, so keypad labels such as
// "0." or "x^2" work as well as canonical tokens:
//
//	name: chained_operators
//	description: "A second operator commits the pending one"
//	angle_mode: deg      # optional, deg or rad
//	memory: 0            # optional starting memory
//	keys: ["5", "+", "3", "*", "2", "="]
//	expect:
//	  - after: 4         # checked after the 4th key press
//	    display: "8"
//	    pending: "8 *"
//	assertions:
//	  - type: display
//	    value: "16"
//
// Quote keys: several tokens ("-", "*", "%") are YAML indicators.
//
// # Assertion Types
//
//   - display: final display text equals value
//   - memory: final memory register, formatted, equals value
//   - angle: final angle mode ("DEG" or "RAD") equals value
//   - pending: final pending operation ("8 *", or "" for none) equals value
//   - sentinel: final display is NaN or an infinity; value, if set, names which
//
// # Deterministic Testing
//
// Every run uses a fresh testutil.DeterministicClock and a fixed session
// ID (scenario.session_id or testutil.DefaultSessionID), so the same
// scenario always yields byte-identical steps. RunWithGolden compares the
// canonical JSON of those steps against testdata/golden/<name>.golden.
package harness
