// ABOUTME: Optional strict validation of the delay-extension keys in ext_data.
// ABOUTME: The delay contract is advisory by default; this enforces it when enabled.

package command

import "fmt"

// delayUnits are the accepted values for delayUnit.
var delayUnits = map[string]bool{
	"h": true,
	"m": true,
	"s": true,
}

// validateDelay enforces the delay-extension contract on ext_data:
// delayEnabled must be a bool, and when true, delayUnit must be one of
// h/m/s and delayDuration must be a number. When delayEnabled is absent or
// false no other delay key is required.
func validateDelay(ext map[string]any) []string {
	enabledRaw, present := ext["delayEnabled"]
	if !present {
		return nil
	}

	enabled, ok := enabledRaw.(bool)
	if !ok {
		return []string{"ext_data.delayEnabled must be a boolean"}
	}
	if !enabled {
		return nil
	}

	var reasons []string

	unitRaw, unitPresent := ext["delayUnit"]
	if !unitPresent {
		reasons = append(reasons, "ext_data.delayUnit is required when delayEnabled is true")
	} else if unit, ok := unitRaw.(string); !ok || !delayUnits[unit] {
		reasons = append(reasons, fmt.Sprintf("ext_data.delayUnit must be one of h, m, s (got %v)", unitRaw))
	}

	durationRaw, durationPresent := ext["delayDuration"]
	if !durationPresent {
		reasons = append(reasons, "ext_data.delayDuration is required when delayEnabled is true")
	} else if _, ok := durationRaw.(float64); !ok {
		reasons = append(reasons, "ext_data.delayDuration must be a number")
	}

	return reasons
}
