package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/server"
)

// UserResponse represents the response from GET /accounts/{account}/users/{user}
type UserResponse struct {
	UserName         string           `json:"user_name"`
	AttachedPolicies []PolicyResponse `json:"attached_policies"`
	InlinePolicies   []PolicyResponse `json:"inline_policies"`
}

// RegisterUserEndpoints registers the mirrored user endpoints
func RegisterUserEndpoints(s *server.Server) {
	store := s.Store

	s.Router.HandleFunc("/accounts/{account}/users", handleListUsers(store)).Methods("GET")
	s.Router.HandleFunc("/accounts/{account}/users/{user}", handleGetUser(store)).Methods("GET")
}

func handleListUsers(store analyzer.Store) http.HandlerFunc {
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

		users, err := store.ListUsers(accountID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list users")
			return
		}

		names := make([]string, 0, len(users))
		for _, user := range users {
			names = append(names, user.UserName)
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"users": names})
	}
}

func handleGetUser(store analyzer.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		accountID := vars["account"]
		userName := vars["user"]

		user, err := store.FindUser(accountID, userName)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to get user")
			return
		}
		if user == nil {
			respondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		attached, err := store.ListUserAttachedPolicies(user.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list attached policies")
			return
		}
		inline, err := store.ListUserInlinePolicies(user.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list inline policies")
			return
		}

		response := UserResponse{
			UserName:         user.UserName,
			AttachedPolicies: []PolicyResponse{},
			InlinePolicies:   []PolicyResponse{},
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
		respondWithJSON(w, http.StatusOK, response)
	}
}
