package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/model"
	"iam-mirror/pkg/server"
)

// RoleSummary represents one mirrored role without its policy documents
type RoleSummary struct {
	RoleName           string          `json:"role_name"`
	TrustPolicy        json.RawMessage `json:"trust_policy"`
	PermissionsSummary json.RawMessage `json:"permissions_summary"`
}

// PolicyResponse represents a named policy document
type PolicyResponse struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

// RoleResponse represents the response from GET /accounts/{account}/roles/{role}
type RoleResponse struct {
	RoleName         string           `json:"role_name"`
	AttachedPolicies []PolicyResponse `json:"attached_policies"`
	InlinePolicies   []PolicyResponse `json:"inline_policies"`
	TrustedUsers     []string         `json:"trusted_users"`
}

// AddRoleRequest is the body of POST /accounts/{account}/roles
type AddRoleRequest struct {
	RoleName string `json:"role_name"`
}

// RegisterRoleEndpoints registers the mirrored role endpoints
func RegisterRoleEndpoints(s *server.Server) {
	store := s.Store

	s.Router.HandleFunc("/accounts/{account}/roles", handleListRoles(store)).Methods("GET")
	s.Router.HandleFunc("/accounts/{account}/roles", handleAddRole(store)).Methods("POST")
	s.Router.HandleFunc("/accounts/{account}/roles/{role}", handleGetRole(store)).Methods("GET")
	s.Router.HandleFunc("/accounts/{account}/roles/{role}", handleRemoveRole(store, s.Analyzer)).Methods("DELETE")
}

func handleListRoles(store analyzer.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := mux.Vars(r)["account"]

		account, err := store.GetAccount(accountID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to get account")
			return
		}
		if account == nil {
			respondWithError(w, http.StatusNotFound, "account not found")
			return
		}

		roles, err := store.ListRoles(accountID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list roles")
			return
		}

		summaries := make([]RoleSummary, 0, len(roles))
		for _, role := range roles {
			summaries = append(summaries, RoleSummary{
				RoleName:           role.RoleName,
				TrustPolicy:        json.RawMessage(role.TrustPolicy),
				PermissionsSummary: json.RawMessage(role.PermissionsSummary),
			})
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"roles": summaries})
	}
}

func handleGetRole(store analyzer.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		accountID := vars["account"]
		roleName := vars["role"]

		role, err := store.FindRole(accountID, roleName)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to get role")
			return
		}
		if role == nil {
			respondWithError(w, http.StatusNotFound, "role not found")
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
		trusted, err := store.ListTrustedUsers(role.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list trusted users")
			return
		}

		response := RoleResponse{
			RoleName:         role.RoleName,
			AttachedPolicies: []PolicyResponse{},
			InlinePolicies:   []PolicyResponse{},
			TrustedUsers:     []string{},
		}
		for _, policy := range attached {
			response.AttachedPolicies = append(response.AttachedPolicies, PolicyResponse{
				Name:     policy.Name,
				Document: json.RawMessage(policy.Document),
			})
		}
		for _, policy := range inline {
			response.InlinePolicies = append(response.InlinePolicies, PolicyResponse{
				Name:     policy.Name,
				Document: json.RawMessage(policy.Document),
			})
		}
		for _, edge := range trusted {
			response.TrustedUsers = append(response.TrustedUsers, edge.UserArn)
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

// handleAddRole adds a role name to the account's analysis list. The role is
// mirrored on the next sync.
func handleAddRole(store analyzer.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := mux.Vars(r)["account"]

		var request AddRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.RoleName == "" {
			respondWithError(w, http.StatusBadRequest, "role_name is required")
			return
		}

		account, err := store.GetAccount(accountID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to get account")
			return
		}
		if account == nil {
			respondWithError(w, http.StatusNotFound, "account not found")
			return
		}

		for _, name := range account.RolesToAnalyze {
			if name == request.RoleName {
				respondWithJSON(w, http.StatusOK, accountResponse(account))
				return
			}
		}

		account.RolesToAnalyze = append(account.RolesToAnalyze, request.RoleName)
		if err := store.UpsertAccount(account); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to save account")
			return
		}
		respondWithJSON(w, http.StatusOK, accountResponse(account))
	}
}

// handleRemoveRole drops a role from the analysis list and removes its
// mirrored state immediately.
func handleRemoveRole(store analyzer.Store, a *analyzer.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		accountID := vars["account"]
		roleName := vars["role"]

		account, err := store.GetAccount(accountID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to get account")
			return
		}
		if account == nil {
			respondWithError(w, http.StatusNotFound, "account not found")
			return
		}

		var remaining model.RoleList
		for _, name := range account.RolesToAnalyze {
			if name != roleName {
				remaining = append(remaining, name)
			}
		}
		if remaining == nil {
			remaining = model.RoleList{}
		}
		account.RolesToAnalyze = remaining
		if err := store.UpsertAccount(account); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to save account")
			return
		}

		if err := a.RemoveRole(r.Context(), accountID, roleName); err != nil && !errors.Is(err, analyzer.ErrAccountNotFound) {
			respondWithError(w, http.StatusInternalServerError, "failed to remove role")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
