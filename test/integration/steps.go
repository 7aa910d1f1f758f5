package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// StepsContext holds per-scenario state for the godog steps
type StepsContext struct {
	tc          *TestContext
	lastStatus  int
	lastBody    []byte
	lastReports []syncReport
	roleArnByID map[string]string
}

type syncReport struct {
	AccountID string `json:"account_id"`
	Status    string `json:"status"`
	Error     string `json:"error"`
}

func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc, roleArnByID: make(map[string]string)}
}

// RegisterSteps wires the step definitions into the scenario context
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		s.lastStatus = 0
		s.lastBody = nil
		s.lastReports = nil
		s.roleArnByID = make(map[string]string)
		return ctx, s.tc.Reset()
	})

	sc.Step(`^account "([^"]*)" is registered as "([^"]*)" watching roles "([^"]*)"$`, s.accountIsRegistered)
	sc.Step(`^the upstream account "([^"]*)" has role "([^"]*)" trusted by "([^"]*)"$`, s.upstreamHasRole)
	sc.Step(`^the upstream role "([^"]*)" in account "([^"]*)" has inline policy "([^"]*)" allowing "([^"]*)"$`, s.upstreamRoleHasInlinePolicy)
	sc.Step(`^the upstream account "([^"]*)" has user "([^"]*)"$`, s.upstreamHasUser)
	sc.Step(`^the upstream account "([^"]*)" is unreachable$`, s.upstreamIsUnreachable)
	sc.Step(`^I sync account "([^"]*)"$`, s.syncAccount)
	sc.Step(`^the sync status is "([^"]*)"$`, s.syncStatusIs)
	sc.Step(`^role "([^"]*)" is mirrored for account "([^"]*)"$`, s.roleIsMirrored)
	sc.Step(`^role "([^"]*)" is not mirrored for account "([^"]*)"$`, s.roleIsNotMirrored)
	sc.Step(`^user "([^"]*)" is mirrored for account "([^"]*)"$`, s.userIsMirrored)
	sc.Step(`^principal "([^"]*)" can assume role "([^"]*)" in account "([^"]*)"$`, s.principalCanAssume)
	sc.Step(`^I stop watching role "([^"]*)" for account "([^"]*)"$`, s.stopWatchingRole)
	sc.Step(`^the health endpoint reports "([^"]*)"$`, s.healthReports)
}

func (s *StepsContext) auditRoleArn(accountID string) string {
	arn, ok := s.roleArnByID[accountID]
	if !ok {
		arn = fmt.Sprintf("arn:aws:iam::%s:role/MirrorAudit", accountID)
		s.roleArnByID[accountID] = arn
	}
	return arn
}

func (s *StepsContext) request(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.lastStatus = resp.StatusCode
	s.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) accountIsRegistered(accountID, name, roles string) error {
	watched := []string{}
	for _, role := range strings.Split(roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			watched = append(watched, role)
		}
	}

	err := s.request(http.MethodPut, "/accounts/"+accountID, map[string]any{
		"account_name":     name,
		"role_arn":         s.auditRoleArn(accountID),
		"roles_to_analyze": watched,
	})
	if err != nil {
		return err
	}
	if s.lastStatus != http.StatusCreated && s.lastStatus != http.StatusOK {
		return fmt.Errorf("expected 200 or 201 registering account, got %d: %s", s.lastStatus, s.lastBody)
	}
	return nil
}

func (s *StepsContext) upstreamHasRole(accountID, roleName, principalArn string) error {
	trustPolicy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{"Effect": "Allow", "Principal": {"AWS": %q}, "Action": "sts:AssumeRole"}]
	}`, principalArn)

	roleArn := fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, roleName)
	s.tc.Upstream.Account(s.auditRoleArn(accountID)).AddRole(roleName, roleArn, trustPolicy)
	return nil
}

func (s *StepsContext) upstreamRoleHasInlinePolicy(roleName, accountID, policyName, action string) error {
	document := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{"Effect": "Allow", "Action": %q, "Resource": "*"}]
	}`, action)

	s.tc.Upstream.Account(s.auditRoleArn(accountID)).PutInlineRolePolicy(roleName, policyName, document)
	return nil
}

func (s *StepsContext) upstreamHasUser(accountID, userName string) error {
	userArn := fmt.Sprintf("arn:aws:iam::%s:user/%s", accountID, userName)
	s.tc.Upstream.Account(s.auditRoleArn(accountID)).AddUser(userName, userArn)
	return nil
}

// upstreamIsUnreachable leaves the audit role ARN unregistered with the
// fake resolver so AssumeRole fails.
func (s *StepsContext) upstreamIsUnreachable(accountID string) error {
	s.roleArnByID[accountID] = fmt.Sprintf("arn:aws:iam::%s:role/Unreachable", accountID)
	return nil
}

func (s *StepsContext) syncAccount(accountID string) error {
	if err := s.request(http.MethodPost, "/sync/"+accountID, nil); err != nil {
		return err
	}
	if s.lastStatus != http.StatusOK {
		return fmt.Errorf("sync returned %d: %s", s.lastStatus, s.lastBody)
	}

	var response struct {
		Reports []syncReport `json:"reports"`
	}
	if err := json.Unmarshal(s.lastBody, &response); err != nil {
		return err
	}
	s.lastReports = response.Reports
	return nil
}

func (s *StepsContext) syncStatusIs(status string) error {
	if len(s.lastReports) == 0 {
		return fmt.Errorf("no sync reports recorded")
	}
	report := s.lastReports[len(s.lastReports)-1]
	if report.Status != status {
		return fmt.Errorf("expected sync status %q, got %q (error: %s)", status, report.Status, report.Error)
	}
	return nil
}

func (s *StepsContext) roleIsMirrored(roleName, accountID string) error {
	if err := s.request(http.MethodGet, "/accounts/"+accountID+"/roles/"+roleName, nil); err != nil {
		return err
	}
	if s.lastStatus != http.StatusOK {
		return fmt.Errorf("expected role %s to be mirrored, got %d", roleName, s.lastStatus)
	}
	return nil
}

func (s *StepsContext) roleIsNotMirrored(roleName, accountID string) error {
	if err := s.request(http.MethodGet, "/accounts/"+accountID+"/roles/"+roleName, nil); err != nil {
		return err
	}
	if s.lastStatus != http.StatusNotFound {
		return fmt.Errorf("expected role %s to be absent, got %d", roleName, s.lastStatus)
	}
	return nil
}

func (s *StepsContext) userIsMirrored(userName, accountID string) error {
	if err := s.request(http.MethodGet, "/accounts/"+accountID+"/users/"+userName, nil); err != nil {
		return err
	}
	if s.lastStatus != http.StatusOK {
		return fmt.Errorf("expected user %s to be mirrored, got %d", userName, s.lastStatus)
	}
	return nil
}

func (s *StepsContext) principalCanAssume(principalArn, roleName, accountID string) error {
	if err := s.request(http.MethodGet, "/trusted-users/"+principalArn, nil); err != nil {
		return err
	}
	if s.lastStatus != http.StatusOK {
		return fmt.Errorf("expected trusted principal %s, got %d: %s", principalArn, s.lastStatus, s.lastBody)
	}

	var response struct {
		Roles []struct {
			Account string `json:"account"`
			Role    string `json:"role"`
		} `json:"roles"`
	}
	if err := json.Unmarshal(s.lastBody, &response); err != nil {
		return err
	}
	for _, detail := range response.Roles {
		if detail.Account == accountID && detail.Role == roleName {
			return nil
		}
	}
	return fmt.Errorf("principal %s cannot assume %s in %s: %s", principalArn, roleName, accountID, s.lastBody)
}

func (s *StepsContext) stopWatchingRole(roleName, accountID string) error {
	if err := s.request(http.MethodGet, "/accounts/"+accountID, nil); err != nil {
		return err
	}
	if s.lastStatus != http.StatusOK {
		return fmt.Errorf("account %s not found: %d", accountID, s.lastStatus)
	}

	var account struct {
		AccountName    string   `json:"account_name"`
		RoleArn        string   `json:"role_arn"`
		RolesToAnalyze []string `json:"roles_to_analyze"`
	}
	if err := json.Unmarshal(s.lastBody, &account); err != nil {
		return err
	}

	remaining := []string{}
	for _, role := range account.RolesToAnalyze {
		if role != roleName {
			remaining = append(remaining, role)
		}
	}

	err := s.request(http.MethodPut, "/accounts/"+accountID, map[string]any{
		"account_name":     account.AccountName,
		"role_arn":         account.RoleArn,
		"roles_to_analyze": remaining,
	})
	if err != nil {
		return err
	}
	if s.lastStatus != http.StatusOK && s.lastStatus != http.StatusCreated {
		return fmt.Errorf("failed to update account: %d", s.lastStatus)
	}
	return nil
}

func (s *StepsContext) healthReports(status string) error {
	if err := s.request(http.MethodGet, "/health", nil); err != nil {
		return err
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(s.lastBody, &health); err != nil {
		return err
	}
	if health.Status != status {
		return fmt.Errorf("expected health %q, got %q", status, health.Status)
	}
	return nil
}
