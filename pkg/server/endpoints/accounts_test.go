package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAccounts(t *testing.T) {
	s, mock, err := NewMockTestServer()
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "account_name", "role_arn", "roles_to_analyze"}).
		AddRow("111111111111", "production", "arn:aws:iam::111111111111:role/MirrorAudit", `["Admin"]`).
		AddRow("222222222222", "staging", "arn:aws:iam::222222222222:role/MirrorAudit", `[]`)
	mock.ExpectQuery(`SELECT .* FROM "accounts"`).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response AccountListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	require.Len(t, response.Accounts, 2)
	assert.Equal(t, "production", response.Accounts[0].AccountName)
	assert.Equal(t, []string{"Admin"}, response.Accounts[0].RolesToAnalyze)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAccountsSearch(t *testing.T) {
	s, mock, err := NewMockTestServer()
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "account_name", "role_arn", "roles_to_analyze"}).
		AddRow("111111111111", "production", "arn:aws:iam::111111111111:role/MirrorAudit", `[]`).
		AddRow("222222222222", "staging", "arn:aws:iam::222222222222:role/MirrorAudit", `[]`)
	mock.ExpectQuery(`SELECT .* FROM "accounts"`).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/accounts?search=prod", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response AccountListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.Accounts, 1)
	assert.Equal(t, "production", response.Accounts[0].AccountName)
}

func TestGetAccountNotFound(t *testing.T) {
	s, mock, err := NewMockTestServer()
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_name", "role_arn", "roles_to_analyze"}))

	req := httptest.NewRequest(http.MethodGet, "/accounts/999999999999", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutAccountRejectsBadID(t *testing.T) {
	s, _, err := NewMockTestServer()
	require.NoError(t, err)

	body := strings.NewReader(`{"account_name":"production","role_arn":"arn:aws:iam::1:role/r"}`)
	req := httptest.NewRequest(http.MethodPut, "/accounts/not-a-number", body)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPutAccountRejectsMissingFields(t *testing.T) {
	s, _, err := NewMockTestServer()
	require.NoError(t, err)

	body := strings.NewReader(`{"account_name":"production"}`)
	req := httptest.NewRequest(http.MethodPut, "/accounts/111111111111", body)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPutAccountCreates(t *testing.T) {
	s, mock, err := NewMockTestServer()
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_name", "role_arn", "roles_to_analyze"}))
	mock.ExpectExec(`INSERT INTO "accounts" .* ON CONFLICT \("id"\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := strings.NewReader(`{
		"account_name": "production",
		"role_arn": "arn:aws:iam::111111111111:role/MirrorAudit",
		"roles_to_analyze": ["Admin"]
	}`)
	req := httptest.NewRequest(http.MethodPut, "/accounts/111111111111", body)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "111111111111", response.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountNotFound(t *testing.T) {
	s, mock, err := NewMockTestServer()
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_name", "role_arn", "roles_to_analyze"}))

	req := httptest.NewRequest(http.MethodDelete, "/accounts/999999999999", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
