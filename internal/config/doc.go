// Package config loads keycalc settings from CUE.
//
// A configuration file is unified with an embedded schema (#Config), so
// unknown fields and ill-typed values are rejected with a source position.
// User settings are layered over the built-in defaults: scalar fields
// replace the default, key bindings are merged by name.
//
//	angle_mode: "rad"
//	memory:     0
//	status:     true
//	keys: {
//		"sq":   "square"
//		"half": ["/", "2", "="]
//	}
//
// Every binding target must be a canonical command token (see
// calc.Tokens); aliases do not chain.
package config
