package endpoints

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/config"
	"iam-mirror/pkg/model"
	"iam-mirror/pkg/server"
)

var accountIDPattern = regexp.MustCompile(`^\d{12}$`)

// AccountResponse represents one watched account
type AccountResponse struct {
	ID             string   `json:"id"`
	AccountName    string   `json:"account_name"`
	RoleArn        string   `json:"role_arn"`
	RolesToAnalyze []string `json:"roles_to_analyze"`
}

// AccountListResponse represents the response from GET /accounts
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Count    int               `json:"count"`
}

// AccountRequest is the body of PUT /accounts/{account}
type AccountRequest struct {
	AccountName    string   `json:"account_name"`
	RoleArn        string   `json:"role_arn"`
	RolesToAnalyze []string `json:"roles_to_analyze"`
}

// RegisterAccountEndpoints registers the account registry endpoints
func RegisterAccountEndpoints(s *server.Server) {
	store := s.Store

	s.Router.HandleFunc("/accounts", handleListAccounts(store, s.Config)).Methods("GET")
	s.Router.HandleFunc("/accounts/{account}", handleGetAccount(store)).Methods("GET")
	s.Router.HandleFunc("/accounts/{account}", handlePutAccount(store)).Methods("PUT")
	s.Router.HandleFunc("/accounts/{account}", handleDeleteAccount(store)).Methods("DELETE")
}

func accountResponse(account *model.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		AccountName:    account.AccountName,
		RoleArn:        account.RoleArn,
		RolesToAnalyze: account.RolesToAnalyze,
	}
}

func handleListAccounts(store analyzer.Store, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := store.ListAccounts()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list accounts")
			return
		}

		if search := strings.ToLower(r.URL.Query().Get("search")); search != "" {
			var filtered []model.Account
			for _, account := range accounts {
				if strings.Contains(strings.ToLower(account.AccountName), search) {
					filtered = append(filtered, account)
				}
			}
			accounts = filtered
		}

		total := len(accounts)
		limit, offset := listWindow(r, cfg)
		if offset > len(accounts) {
			offset = len(accounts)
		}
		accounts = accounts[offset:]
		if len(accounts) > limit {
			accounts = accounts[:limit]
		}

		response := AccountListResponse{Accounts: []AccountResponse{}, Count: total}
		for i := range accounts {
			response.Accounts = append(response.Accounts, accountResponse(&accounts[i]))
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

func handleGetAccount(store analyzer.Store) http.HandlerFunc {
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
		respondWithJSON(w, http.StatusOK, accountResponse(account))
	}
}

func handlePutAccount(store analyzer.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := mux.Vars(r)["account"]
		if !accountIDPattern.MatchString(accountID) {
			respondWithError(w, http.StatusUnprocessableEntity, "account ID must be a 12-digit AWS account number")
			return
		}

		var request AccountRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if request.AccountName == "" || request.RoleArn == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "account_name and role_arn are required")
			return
		}

		existing, err := store.GetAccount(accountID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to get account")
			return
		}

		account := model.Account{
			ID:             accountID,
			AccountName:    request.AccountName,
			RoleArn:        request.RoleArn,
			RolesToAnalyze: model.RoleList(request.RolesToAnalyze),
		}
		if account.RolesToAnalyze == nil {
			account.RolesToAnalyze = model.RoleList{}
		}
		if err := store.UpsertAccount(&account); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to save account")
			return
		}

		code := http.StatusOK
		if existing == nil {
			code = http.StatusCreated
		}
		respondWithJSON(w, code, accountResponse(&account))
	}
}

func handleDeleteAccount(store analyzer.Store) http.HandlerFunc {
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

		if err := store.DeleteAccount(accountID); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete account")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
