// ABOUTME: Structural validation of outbound control instructions.
// ABOUTME: Pure, no I/O; rejects anything that does not match exactly one target shape.

package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies which of the three instruction shapes an element matched.
type Kind string

// Instruction target kinds.
const (
	KindDevice Kind = "device"
	KindGroup  Kind = "group"
	KindScene  Kind = "scene"
)

// Instruction is one validated unit of a control submission, targeting
// exactly one device, group, or scene. Raw preserves the caller's original
// JSON element so submission is byte-equivalent to the accepted input.
type Instruction struct {
	Kind     Kind
	TargetID string
	Property string
	Value    any
	ExtData  map[string]any
	Raw      json.RawMessage
}

// Batch is an ordered sequence of validated instructions. Order matches the
// caller's submission order; the backend may still apply elements
// independently.
type Batch []Instruction

// MarshalJSON reassembles the batch from the callers' raw elements, keeping
// the submitted body identical to the accepted input.
func (b Batch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, in := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(in.Raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Violation describes one rejected element. Index is -1 when the payload as
// a whole is malformed.
type Violation struct {
	Index  int
	Reason string
}

func (v Violation) String() string {
	if v.Index < 0 {
		return v.Reason
	}
	return fmt.Sprintf("command[%d]: %s", v.Index, v.Reason)
}

// SchemaViolation reports every element of a control batch that failed
// structural validation. Detection happens before any network call, so an
// invalid batch is never partially submitted.
type SchemaViolation struct {
	Violations []Violation
}

func (e *SchemaViolation) Error() string {
	reasons := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		reasons[i] = v.String()
	}
	return "invalid control batch: " + strings.Join(reasons, "; ")
}

// Validator validates control batches. The zero value performs structural
// validation only; StrictDelay additionally enforces the delay-extension
// contract on ext_data.
type Validator struct {
	StrictDelay bool
}

// discriminator fields; exactly one must be present per instruction.
var discriminators = []struct {
	field string
	kind  Kind
}{
	{"device_id", KindDevice},
	{"group_id", KindGroup},
	{"scene_id", KindScene},
}

// Validate checks that raw is a sequence of control instructions, each
// matching exactly one of the three target shapes with correctly-typed
// fields. It never performs I/O. On success the returned batch preserves
// element order and original bytes; on failure every violation found is
// reported in one SchemaViolation.
func (v Validator) Validate(raw json.RawMessage) (Batch, error) {
	// Unmarshal alone cannot enforce the sequence requirement: a literal
	// null decodes into a nil slice without error.
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &SchemaViolation{Violations: []Violation{
			{Index: -1, Reason: "payload must be a JSON array of control instructions"},
		}}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, &SchemaViolation{Violations: []Violation{
			{Index: -1, Reason: "payload must be a JSON array of control instructions"},
		}}
	}

	batch := make(Batch, 0, len(elements))
	var violations []Violation

	for i, element := range elements {
		in, errs := v.validateElement(element)
		if len(errs) > 0 {
			for _, reason := range errs {
				violations = append(violations, Violation{Index: i, Reason: reason})
			}
			continue
		}
		batch = append(batch, in)
	}

	if len(violations) > 0 {
		return nil, &SchemaViolation{Violations: violations}
	}

	return batch, nil
}

// validateElement checks one instruction object and returns the parsed form
// or the list of reasons it was rejected.
func (v Validator) validateElement(element json.RawMessage) (Instruction, []string) {
	var fields map[string]any
	if err := json.Unmarshal(element, &fields); err != nil {
		return Instruction{}, []string{"element must be a JSON object"}
	}

	var matched []Kind
	var targetID string
	var reasons []string

	for _, d := range discriminators {
		val, present := fields[d.field]
		if !present {
			continue
		}
		matched = append(matched, d.kind)
		id, ok := val.(string)
		if !ok {
			reasons = append(reasons, fmt.Sprintf("%s must be a string", d.field))
			continue
		}
		targetID = id
	}

	switch len(matched) {
	case 0:
		return Instruction{}, []string{"exactly one of device_id, group_id, scene_id is required"}
	case 1:
		// exactly one target; fall through to shape checks
	default:
		return Instruction{}, []string{fmt.Sprintf("ambiguous target: %d identifier fields present, want exactly one", len(matched))}
	}
	if len(reasons) > 0 {
		return Instruction{}, reasons
	}

	kind := matched[0]
	in := Instruction{Kind: kind, TargetID: targetID, Raw: element}

	property, propertyPresent := fields["property"]
	value, valuePresent := fields["value"]

	switch kind {
	case KindDevice, KindGroup:
		if !propertyPresent {
			reasons = append(reasons, "property is required")
		} else if s, ok := property.(string); !ok {
			reasons = append(reasons, "property must be a string")
		} else {
			in.Property = s
		}
		if !valuePresent {
			reasons = append(reasons, "value is required")
		} else {
			in.Value = value
		}
	case KindScene:
		if propertyPresent || valuePresent {
			reasons = append(reasons, "scene instructions carry no property or value")
		}
	}

	ext, extPresent := fields["ext_data"]
	if !extPresent {
		reasons = append(reasons, "ext_data is required (may be empty)")
	} else if m, ok := ext.(map[string]any); !ok {
		reasons = append(reasons, "ext_data must be an object")
	} else {
		in.ExtData = m
		if v.StrictDelay {
			reasons = append(reasons, validateDelay(m)...)
		}
	}

	if len(reasons) > 0 {
		return Instruction{}, reasons
	}
	return in, nil
}
