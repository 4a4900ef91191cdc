// Package task defines the task model extracted from meeting notes and
// the normalization step that makes model output safe to persist.
//
// The extraction model returns loosely typed JSON: any field may be a
// string, a number, missing, or out of vocabulary. Raw captures that
// shape without loss; Normalize is the single chokepoint that converts
// it into the closed-vocabulary Task the record store accepts.
package task

import (
	"encoding/json"
	"strings"
)

// Flex is a scalar the extraction model may emit as a string, a number,
// or not at all. It decodes defensively instead of failing the whole
// task item on a type mismatch.
type Flex struct {
	str   string
	num   float64
	isNum bool
	set   bool
}

// String returns the trimmed string form of the value. Numbers are not
// formatted here; callers that care about the numeric form use Number.
func (f Flex) String() string {
	return strings.TrimSpace(f.str)
}

// Number returns the numeric value and whether the model emitted a
// JSON number.
func (f Flex) Number() (float64, bool) {
	return f.num, f.isNum
}

// IsSet reports whether the field was present and non-null in the JSON.
func (f Flex) IsSet() bool {
	return f.set
}

// UnmarshalJSON accepts strings, numbers, booleans and null. Anything
// else (arrays, objects) is kept as its raw text so normalization can
// still apply its fallback rules.
func (f *Flex) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*f = Flex{}
	case string:
		*f = Flex{str: val, set: true}
	case float64:
		*f = Flex{num: val, isNum: true, set: true}
	case bool:
		// Booleans are vocabulary misses; keep the literal for the
		// synonym lookup to reject.
		if val {
			*f = Flex{str: "true", set: true}
		} else {
			*f = Flex{str: "false", set: true}
		}
	default:
		*f = Flex{str: string(b), set: true}
	}
	return nil
}

// MarshalJSON round-trips the decoded value.
func (f Flex) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	if f.isNum {
		return json.Marshal(f.num)
	}
	return json.Marshal(f.str)
}

// FlexString returns a Flex holding a string. Used by parsers and tests.
func FlexString(s string) Flex {
	return Flex{str: s, set: true}
}

// FlexNumber returns a Flex holding a number.
func FlexNumber(n float64) Flex {
	return Flex{num: n, isNum: true, set: true}
}

// Raw is one task item as returned by the extraction model. Untrusted:
// every field may be absent, mistyped or out of vocabulary.
type Raw struct {
	Name        Flex `json:"name"`
	Field       Flex `json:"field"`
	Process     Flex `json:"process"`
	Function    Flex `json:"function"`
	Start       Flex `json:"start"`
	End         Flex `json:"end"`
	Description Flex `json:"description"`
	Priority    Flex `json:"priority"`
	Progress    Flex `json:"progress"`
}

// Task is a normalized task item. Every field is guaranteed to be one
// of its closed-vocabulary values or a well-formed date/integer; raw
// model output never passes through.
type Task struct {
	Name        string
	Field       string
	Process     string
	Function    string
	Priority    string
	Start       string // ISO calendar date, YYYY-MM-DD
	End         string
	Description string
	Progress    int // always in [0, 100]
}
