package awsiam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountNumber(t *testing.T) {
	tests := []struct {
		name     string
		arn      string
		expected string
	}{
		{
			name:     "root principal",
			arn:      "arn:aws:iam::222222222222:root",
			expected: "222222222222",
		},
		{
			name:     "user principal",
			arn:      "arn:aws:iam::333333333333:user/bob",
			expected: "333333333333",
		},
		{
			name:     "role",
			arn:      "arn:aws:iam::111111111111:role/Analyzer",
			expected: "111111111111",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := AccountNumber(tt.arn)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, account)
		})
	}
}

func TestAccountNumber_Invalid(t *testing.T) {
	_, err := AccountNumber("not-an-arn")
	assert.Error(t, err)
}
