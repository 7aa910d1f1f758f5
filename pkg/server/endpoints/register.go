package endpoints

import "iam-mirror/pkg/server"

// RegisterAll mounts every endpoint group on the server's router.
func RegisterAll(s *server.Server) {
	RegisterStatusEndpoints(s)
	RegisterAccountEndpoints(s)
	RegisterRoleEndpoints(s)
	RegisterUserEndpoints(s)
	RegisterTrustEndpoints(s)
	RegisterSyncEndpoints(s)
}
