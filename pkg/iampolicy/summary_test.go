package iampolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse([]byte(text))
	require.NoError(t, err)
	return doc
}

func TestSummary_Add(t *testing.T) {
	tests := []struct {
		name     string
		document string
		expected map[string][]string
	}{
		{
			name:     "single allow statement",
			document: `{"Statement":[{"Effect":"Allow","Action":["s3:GetObject","s3:PutObject"]}]}`,
			expected: map[string][]string{"Allow": {"s3:GetObject", "s3:PutObject"}},
		},
		{
			name:     "missing effect defaults to Allow",
			document: `{"Statement":[{"Action":"sts:AssumeRole"}]}`,
			expected: map[string][]string{"Allow": {"sts:AssumeRole"}},
		},
		{
			name:     "allow and deny buckets",
			document: `{"Statement":[{"Effect":"Allow","Action":"*"},{"Effect":"Deny","Action":"iam:DeleteRole"}]}`,
			expected: map[string][]string{"Allow": {"*"}, "Deny": {"iam:DeleteRole"}},
		},
		{
			name:     "statement without actions contributes nothing",
			document: `{"Statement":[{"Effect":"Allow"}]}`,
			expected: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := NewSummary()
			summary.Add(mustParse(t, tt.document))

			assert.Len(t, summary, len(tt.expected))
			for effect, actions := range tt.expected {
				assert.Equal(t, actions, summary.Actions(effect))
			}
		})
	}
}

func TestSummary_AddIsIdempotent(t *testing.T) {
	doc := mustParse(t, `{"Statement":[{"Effect":"Allow","Action":["s3:GetObject","s3:GetObject","s3:ListBucket"]}]}`)

	once := NewSummary()
	once.Add(doc)

	twice := NewSummary()
	twice.Add(doc)
	twice.Add(doc)

	assert.Equal(t, once.Actions("Allow"), twice.Actions("Allow"))
	assert.Equal(t, []string{"s3:GetObject", "s3:ListBucket"}, twice.Actions("Allow"))
}

func TestSummary_OrderIndependent(t *testing.T) {
	a := mustParse(t, `{"Statement":[{"Effect":"Allow","Action":"s3:GetObject"},{"Effect":"Allow","Action":"ec2:DescribeInstances"}]}`)
	b := mustParse(t, `{"Statement":[{"Effect":"Allow","Action":"ec2:DescribeInstances"},{"Effect":"Allow","Action":"s3:GetObject"}]}`)

	first := NewSummary()
	first.Add(a)
	first.Add(b)

	second := NewSummary()
	second.Add(b)
	second.Add(a)

	assert.Equal(t, first.Actions("Allow"), second.Actions("Allow"))
}

func TestSummary_Serialize(t *testing.T) {
	summary := NewSummary()
	summary.Add(mustParse(t, `{"Statement":[{"Effect":"Allow","Action":["s3:PutObject","s3:GetObject"]}]}`))

	text, err := summary.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `{"Allow":["s3:GetObject","s3:PutObject"]}`, text)
}

func TestSummary_SerializeEmpty(t *testing.T) {
	text, err := NewSummary().Serialize()
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
}
