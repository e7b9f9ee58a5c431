// Package huntarr provides an HTTP client for the Huntarr web API.
//
// # Overview
//
// The client covers the five endpoints huntsched needs: loading and saving
// the schedule document, reading settings (standard app instances and the
// server timezone), and listing Movie Hunt and TV Hunt instances.
//
// # Architecture
//
//   - client.go: HTTP client, base URL handling and request plumbing
//   - types.go: wire types; tolerant decoding of the legacy shapes
//
// # Client Usage
//
//	client, err := huntarr.NewClient("http://127.0.0.1:9705", "", 10*time.Second)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	payload, err := client.LoadSchedules(ctx)
//	if errors.Is(err, huntarr.ErrTimeout) {
//		// the abort timeout fired
//	}
//
// # Timeouts
//
// Schedule load and save run under the client's abort timeout and report
// ErrTimeout when it fires. Directory fetches pass NoTimeout and are bounded
// only by the caller's context.
//
// # Wire Format
//
// Rule times arrive either as {"hour":H,"minute":M} or as "HH:MM"; RawRule
// keeps the raw JSON and the schedule package normalises it. Saves always
// send the object form. A save answered with {"success":false} returns
// ErrSaveRejected; any status of 400 or above is an error naming the path.
package huntarr
