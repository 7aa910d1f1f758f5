package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/server"
)

// TrustEdge represents one role a principal is trusted to assume
type TrustEdge struct {
	Account     string `json:"account"`
	AccountName string `json:"account_name"`
	Role        string `json:"role"`
}

// RegisterTrustEndpoints registers the inverted trust view endpoints
func RegisterTrustEndpoints(s *server.Server) {
	store := s.Store

	s.Router.HandleFunc("/trusted-users", handleTrustedUsers(store)).Methods("GET")
	s.Router.HandleFunc("/trusted-users/{arn:.+}", handleTrustedUserDetails(store)).Methods("GET")
}

// collectTrustEdges builds the principal ARN to trust edge mapping across
// all accounts.
func collectTrustEdges(store analyzer.Store) (map[string][]TrustEdge, error) {
	accounts, err := store.ListAccounts()
	if err != nil {
		return nil, err
	}

	edges := make(map[string][]TrustEdge)
	for _, account := range accounts {
		roles, err := store.ListRoles(account.ID)
		if err != nil {
			return nil, err
		}
		for _, role := range roles {
			trusted, err := store.ListTrustedUsers(role.ID)
			if err != nil {
				return nil, err
			}
			for _, edge := range trusted {
				edges[edge.UserArn] = append(edges[edge.UserArn], TrustEdge{
					Account:     account.ID,
					AccountName: account.AccountName,
					Role:        role.RoleName,
				})
			}
		}
	}
	return edges, nil
}

func handleTrustedUsers(store analyzer.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		edges, err := collectTrustEdges(store)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to collect trust edges")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"trusted_users": edges})
	}
}

// handleTrustedUserDetails reports every role a single principal can
// assume, with the roles' policy documents.
func handleTrustedUserDetails(store analyzer.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userArn := mux.Vars(r)["arn"]

		edges, err := collectTrustEdges(store)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to collect trust edges")
			return
		}

		matched, ok := edges[userArn]
		if !ok {
			respondWithError(w, http.StatusNotFound, "no trusted roles found for principal")
			return
		}

		type roleDetail struct {
			TrustEdge
			AttachedPolicies []PolicyResponse `json:"attached_policies"`
			InlinePolicies   []PolicyResponse `json:"inline_policies"`
		}

		details := make([]roleDetail, 0, len(matched))
		for _, edge := range matched {
			role, err := store.FindRole(edge.Account, edge.Role)
			if err != nil || role == nil {
				respondWithError(w, http.StatusInternalServerError, "failed to resolve role")
				return
			}
			attached, err := store.ListAttachedPolicies(role.ID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to list attached policies")
				return
			}
			inline, err := store.ListInlinePolicies(role.ID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to list inline policies")
				return
			}

			detail := roleDetail{
				TrustEdge:        edge,
				AttachedPolicies: []PolicyResponse{},
				InlinePolicies:   []PolicyResponse{},
			}
			for _, policy := range attached {
				detail.AttachedPolicies = append(detail.AttachedPolicies, PolicyResponse{
					Name: policy.Name, Document: []byte(policy.Document),
				})
			}
			for _, policy := range inline {
				detail.InlinePolicies = append(detail.InlinePolicies, PolicyResponse{
					Name: policy.Name, Document: []byte(policy.Document),
				})
			}
			details = append(details, detail)
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"user_arn": userArn,
			"roles":    details,
		})
	}
}
