// Package backend implements the authenticated transport to the Hearth
// smart-home cloud and the session-descriptor cache every call depends on.
//
// # Transport
//
// Client issues bearer-authenticated HTTP requests with two result shapes:
//
//   - RequestText returns the raw response body verbatim.
//   - RequestJSON returns the body after confirming it is valid JSON,
//     preserving the original bytes.
//
// Failures are classified, never retried:
//
//   - TransportError: non-success HTTP status (body kept for diagnostics)
//   - MalformedResponseError: success status but unparsable JSON body
//
// # Session resolution
//
// SessionResolver memoizes the {userId, homeId} descriptor fetched from the
// parameter endpoint. The fetch happens at most once per process lifetime;
// concurrent first callers are coalesced onto a single in-flight request via
// singleflight. Resolution failures are split into ConfigFetchError
// (transport-level) and ConfigLogicError (backend-reported business code or
// a broken envelope); an unparsable success body keeps its
// MalformedResponseError classification. No failure populates the cache.
package backend
