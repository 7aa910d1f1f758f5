package analyzer

import (
	"context"
	"sync"

	"iam-mirror/pkg/awsiam"
)

// docFetcher resolves managed policy documents for one account sync. The
// same managed policy is frequently attached to several roles and users, so
// resolved documents are cached for the duration of the sync.
type docFetcher struct {
	client awsiam.Client

	mu    sync.Mutex
	cache map[string][]byte
}

func newDocFetcher(client awsiam.Client) *docFetcher {
	return &docFetcher{
		client: client,
		cache:  make(map[string][]byte),
	}
}

// managedPolicyDocument resolves the default version document for the
// managed policy identified by policyArn.
func (f *docFetcher) managedPolicyDocument(ctx context.Context, policyArn string) ([]byte, error) {
	f.mu.Lock()
	document, ok := f.cache[policyArn]
	f.mu.Unlock()
	if ok {
		return document, nil
	}

	policy, err := f.client.GetPolicy(ctx, policyArn)
	if err != nil {
		return nil, err
	}
	document, err = f.client.GetPolicyVersion(ctx, policy.Arn, policy.DefaultVersionID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.cache[policyArn] = document
	f.mu.Unlock()
	return document, nil
}
