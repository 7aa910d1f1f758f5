package endpoints

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/config"
	"iam-mirror/pkg/server"
)

// SyncResponse represents the response from the sync endpoints
type SyncResponse struct {
	Reports []analyzer.AccountReport `json:"reports"`
}

// RegisterSyncEndpoints registers the on-demand sync endpoints
func RegisterSyncEndpoints(s *server.Server) {
	s.Router.HandleFunc("/sync", handleSyncAll(s.Analyzer, s.Config)).Methods("POST")
	s.Router.HandleFunc("/sync/{account}", handleSyncAccount(s.Analyzer, s.Config)).Methods("POST")
}

func handleSyncAll(a *analyzer.Analyzer, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.SyncTimeout())
		defer cancel()

		reports, err := a.SyncAll(ctx)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "sync failed")
			return
		}
		respondWithJSON(w, http.StatusOK, SyncResponse{Reports: reports})
	}
}

func handleSyncAccount(a *analyzer.Analyzer, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := mux.Vars(r)["account"]

		ctx, cancel := context.WithTimeout(r.Context(), cfg.SyncTimeout())
		defer cancel()

		report, err := a.SyncAccount(ctx, accountID)
		if errors.Is(err, analyzer.ErrAccountNotFound) {
			respondWithError(w, http.StatusNotFound, "account not found")
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "sync failed")
			return
		}
		respondWithJSON(w, http.StatusOK, SyncResponse{Reports: []analyzer.AccountReport{report}})
	}
}
