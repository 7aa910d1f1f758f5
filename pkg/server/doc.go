// Package server provides the HTTP API for browsing and administering the
// mirror.
//
// The server exposes a read-only view of the mirrored IAM state (accounts,
// roles, users, trust edges) along with account registration management and
// on-demand sync triggers.
//
// # Usage
//
//	s := server.NewServer(store, a, db, cfg, "0.0.0.0", "8080")
//	endpoints.RegisterAll(s)
//	if err := s.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// Request logging uses Apache common log format on stdout. Mutating
// endpoints can be protected with bearer token authentication, see the
// middleware package.
package server
