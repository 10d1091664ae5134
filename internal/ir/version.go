package ir

// Version constants for trace records.
const (
	// IRVersion is the trace record schema version.
	IRVersion = "1"

	// EngineVersion is the keycalc engine version stamped on tapes.
	EngineVersion = "0.1.0"
)
