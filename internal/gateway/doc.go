// Package gateway composes the session cache, authenticated transport, and
// command validation into the two operations the protocol runtime invokes:
//
//   - ListControllable: resolve the session, query the entity listing, and
//     return the backend body verbatim.
//   - SubmitControl: validate the control batch, POST it unchanged, and
//     return the backend's JSON response.
//
// The gateway applies no retry policy and performs no local recovery; every
// error from its collaborators propagates unchanged to the caller.
package gateway
