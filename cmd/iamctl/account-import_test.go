package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iam-mirror/pkg/model"
)

func TestParseAccountRecords(t *testing.T) {
	input := strings.NewReader(
		"111111111111,production,arn:aws:iam::111111111111:role/MirrorAudit,Admin;Deploy\n" +
			"222222222222,staging,arn:aws:iam::222222222222:role/MirrorAudit,\n")

	accounts, err := parseAccountRecords(input)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "111111111111", accounts[0].ID)
	assert.Equal(t, "production", accounts[0].AccountName)
	assert.Equal(t, model.RoleList{"Admin", "Deploy"}, accounts[0].RolesToAnalyze)

	assert.Equal(t, "222222222222", accounts[1].ID)
	assert.Equal(t, model.RoleList{}, accounts[1].RolesToAnalyze)
}

func TestParseAccountRecordsRejectsBadArn(t *testing.T) {
	input := strings.NewReader("111111111111,production,not-an-arn,Admin\n")

	_, err := parseAccountRecords(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}

func TestParseAccountRecordsRejectsMismatchedAccount(t *testing.T) {
	input := strings.NewReader("111111111111,production,arn:aws:iam::222222222222:role/MirrorAudit,\n")

	_, err := parseAccountRecords(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to account 222222222222")
}

func TestParseAccountRecordsRejectsMissingFields(t *testing.T) {
	input := strings.NewReader("111111111111,,arn:aws:iam::111111111111:role/MirrorAudit,\n")

	_, err := parseAccountRecords(input)
	require.Error(t, err)
}
