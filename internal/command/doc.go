// Package command defines the control-instruction schema and its validator.
//
// # Shapes
//
// A control batch is an ordered JSON array where each element matches exactly
// one of three shapes, discriminated by its identifier field:
//
//	{"device_id": "...", "property": "...", "value": <any>, "ext_data": {...}}
//	{"group_id":  "...", "property": "...", "value": <any>, "ext_data": {...}}
//	{"scene_id":  "...", "ext_data": {...}}
//
// The identifier fields are mutually exclusive. property and value are
// required for device and group instructions and rejected on scene
// instructions. ext_data is always required and may be empty.
//
// # Extension data
//
// ext_data is an open string-keyed object. The recognized delay-control keys
// (delayEnabled, delayUnit, delayDuration) form an advisory contract that is
// documented to the calling agent but not enforced structurally unless the
// validator's StrictDelay mode is enabled.
//
// # Semantics
//
// Validation is pure and total: it performs no I/O and reports every
// violation found in a single SchemaViolation. Accepted batches preserve the
// caller's element order and original bytes, so the submitted body is
// identical to the validated input.
package command
