// ABOUTME: Error taxonomy for Hearth cloud calls and session resolution.
// ABOUTME: Callers distinguish transport, contract, and business failures via errors.As.

package backend

import "fmt"

// TransportError reports a non-success HTTP status from the backend. The raw
// response body is preserved for diagnostics but not otherwise interpreted.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}

// MalformedResponseError reports a successful HTTP status whose body is not
// valid JSON. It is distinct from TransportError because it signals a contract
// violation by the backend rather than a network or auth failure.
type MalformedResponseError struct {
	Body string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("backend returned unparsable JSON body: %s", e.Body)
}

// ConfigFetchError reports a transport-level failure while resolving the
// session descriptor.
type ConfigFetchError struct {
	Err error
}

func (e *ConfigFetchError) Error() string {
	return fmt.Sprintf("fetching session descriptor: %v", e.Err)
}

func (e *ConfigFetchError) Unwrap() error {
	return e.Err
}

// ConfigLogicError reports that the backend answered the session-descriptor
// fetch with a non-success business code, or with an incomplete descriptor.
type ConfigLogicError struct {
	Code    int
	Message string
}

func (e *ConfigLogicError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("session descriptor rejected by backend (code %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("session descriptor rejected by backend (code %d)", e.Code)
}
