package ir

// Step records one command applied to a session and the state it produced.
//
// A single key press can expand to several commands (keymap macros such as
// "0." -> "0", "."). Every command gets its own Step; Press ties the steps
// of one key press together.
type Step struct {
	Seq      int64  `json:"seq"`
	Press    int64  `json:"press"`
	Key      string `json:"key"`
	Command  string `json:"command"`
	Display  string `json:"display"`
	Pending  string `json:"pending,omitempty"`
	Memory   string `json:"memory"`
	Angle    string `json:"angle"`
	Awaiting bool   `json:"awaiting"`
}

// ToIR converts the step to an IRObject for canonical encoding.
// Pending is omitted when empty, matching the JSON tags.
func (s Step) ToIR() IRObject {
	obj := IRObject{
		"seq":      IRInt(s.Seq),
		"press":    IRInt(s.Press),
		"key":      IRString(s.Key),
		"command":  IRString(s.Command),
		"display":  IRString(s.Display),
		"memory":   IRString(s.Memory),
		"angle":    IRString(s.Angle),
		"awaiting": IRBool(s.Awaiting),
	}
	if s.Pending != "" {
		obj["pending"] = IRString(s.Pending)
	}
	return obj
}

// Tape is the ordered step log of one session. Tapes live in memory only;
// they end with the hosting process.
type Tape struct {
	SessionID     string `json:"session_id"`
	IRVersion     string `json:"ir_version"`
	EngineVersion string `json:"engine_version"`
	Steps         []Step `json:"steps"`
}

// Keys returns the key presses that produced the tape, one entry per press.
func (t Tape) Keys() []string {
	var keys []string
	last := int64(-1)
	for _, s := range t.Steps {
		if s.Press != last {
			keys = append(keys, s.Key)
			last = s.Press
		}
	}
	return keys
}

// StepsIR converts steps to an IRArray for canonical encoding.
func StepsIR(steps []Step) IRArray {
	arr := make(IRArray, len(steps))
	for i, s := range steps {
		arr[i] = s.ToIR()
	}
	return arr
}
