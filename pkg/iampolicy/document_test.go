package iampolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_StatementForms(t *testing.T) {
	tests := []struct {
		name          string
		document      string
		expectedCount int
	}{
		{
			name:          "statement as list",
			document:      `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"s3:GetObject"}]}`,
			expectedCount: 1,
		},
		{
			name:          "statement as single object",
			document:      `{"Version":"2012-10-17","Statement":{"Effect":"Allow","Action":"s3:GetObject"}}`,
			expectedCount: 1,
		},
		{
			name:          "no statement field",
			document:      `{"Version":"2012-10-17"}`,
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.document))
			require.NoError(t, err)
			assert.Len(t, doc.Statement, tt.expectedCount)
		})
	}
}

func TestParse_ActionForms(t *testing.T) {
	t.Run("action as string", func(t *testing.T) {
		doc, err := Parse([]byte(`{"Statement":[{"Effect":"Allow","Action":"iam:GetRole"}]}`))
		require.NoError(t, err)
		assert.Equal(t, StringList{"iam:GetRole"}, doc.Statement[0].Action)
	})

	t.Run("action as list", func(t *testing.T) {
		doc, err := Parse([]byte(`{"Statement":[{"Effect":"Allow","Action":["iam:GetRole","iam:ListRoles"]}]}`))
		require.NoError(t, err)
		assert.Equal(t, StringList{"iam:GetRole", "iam:ListRoles"}, doc.Statement[0].Action)
	})

	t.Run("missing action", func(t *testing.T) {
		doc, err := Parse([]byte(`{"Statement":[{"Effect":"Allow"}]}`))
		require.NoError(t, err)
		assert.Empty(t, doc.Statement[0].Action)
	})
}

func TestParse_PrincipalForms(t *testing.T) {
	t.Run("wildcard string principal", func(t *testing.T) {
		doc, err := Parse([]byte(`{"Statement":[{"Effect":"Allow","Principal":"*"}]}`))
		require.NoError(t, err)
		require.NotNil(t, doc.Statement[0].Principal)
		assert.Empty(t, doc.Statement[0].Principal.AWS)
	})

	t.Run("principal map with service only", func(t *testing.T) {
		doc, err := Parse([]byte(`{"Statement":[{"Effect":"Allow","Principal":{"Service":"ec2.amazonaws.com"}}]}`))
		require.NoError(t, err)
		assert.Empty(t, doc.Statement[0].Principal.AWS)
		assert.Equal(t, StringList{"ec2.amazonaws.com"}, doc.Statement[0].Principal.Service)
	})
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse policy document")
}
