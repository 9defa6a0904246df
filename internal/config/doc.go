// Package config loads hearth-gateway configuration.
//
// # Sources
//
// Configuration comes from two layered sources:
//
//  1. An optional YAML file (HEARTH_CONFIG or the XDG default path). Values
//     in the file may reference environment variables as ${VAR_NAME}.
//  2. HEARTH_* environment variables, which override the file:
//
//     HEARTH_TOKEN     bearer credential for the Hearth cloud (required)
//     HEARTH_BASE_URL  backend endpoint override (optional)
//     HEARTH_DEBUG     verbose diagnostics toggle (optional)
//
// # Startup contract
//
// A missing credential is a fatal startup condition: Load returns an error
// and main exits non-zero before any tool is registered. The credential is
// not validated beyond presence; an incorrect token is only discovered on
// the first authenticated backend call.
package config
