// Package web is the HTTP front of the provisioning service.
//
// Routes:
//
//	GET  /                    form with the host's public IP and suggested domain
//	POST /                    start a run, 303 to /runs/{id}
//	GET  /runs/{id}           progress page, refreshes until the run is finished
//	GET  /api/runs            JSON list of retained runs
//	POST /api/runs            JSON {domain, email}, 202 {id, status_url}
//	GET  /api/runs/{id}       JSON progress snapshot
//	GET  /api/runs/{id}/ws    WebSocket stream of snapshots until the run finishes
//	GET  /health/live         ALIVE
//	GET  /health/ready        READY, or 503 when a readiness check fails
//
// Handlers return a Response; rendering errors are mapped to status codes in
// one place. API routes answer errors as {"error": "..."}.
package web
