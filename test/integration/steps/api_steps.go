//go:build integration

package steps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

var placeholderPattern = regexp.MustCompile(`\{\{(movement|document):([^}]+)\}\}`)

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
	ctx.Step(`^I am authenticated for organization "([^"]*)"$`, iAmAuthenticatedForOrganization)
	ctx.Step(`^I am not authenticated$`, iAmNotAuthenticated)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
}

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func iSetHeaderTo(ctx context.Context, header, value string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.requestHeaders[header] = value
	return SetTestContext(ctx, tc), nil
}

func iAmAuthenticatedForOrganization(ctx context.Context, organization string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	tc.organizationID = organizationIDFor(organization)
	tc.userID = uuid.New()

	token, err := tc.injector.TokenService.IssueToken(ctx, tc.userID, tc.organizationID, time.Hour)
	if err != nil {
		return ctx, fmt.Errorf("failed to issue token: %w", err)
	}
	tc.accessToken = token
	return SetTestContext(ctx, tc), nil
}

func iAmNotAuthenticated(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.accessToken = ""
	return SetTestContext(ctx, tc), nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) (context.Context, error) {
	return sendRequest(ctx, method, endpoint, "")
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) (context.Context, error) {
	return sendRequest(ctx, method, endpoint, body.Content)
}

func sendRequest(ctx context.Context, method, endpoint, body string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	endpoint, err := tc.replacePlaceholders(endpoint)
	if err != nil {
		return ctx, err
	}
	body, err = tc.replacePlaceholders(body)
	if err != nil {
		return ctx, err
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, tc.server.URL+endpoint, reader)
	if err != nil {
		return ctx, fmt.Errorf("failed to create request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	resp, err := tc.server.Client().Do(req)
	if err != nil {
		return ctx, fmt.Errorf("failed to send request: %w", err)
	}

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return ctx, fmt.Errorf("failed to read response body: %w", err)
	}

	return SetTestContext(ctx, tc), nil
}

// replacePlaceholders swaps {{movement:alias}} and {{document:number}} for seeded ids.
func (tc *TestContext) replacePlaceholders(s string) (string, error) {
	var missing string
	replaced := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := placeholderPattern.FindStringSubmatch(match)
		ids := tc.movements
		if parts[1] == "document" {
			ids = tc.documents
		}
		id, ok := ids[parts[2]]
		if !ok {
			missing = match
			return match
		}
		return id.String()
	})
	if missing != "" {
		return "", fmt.Errorf("unknown placeholder %s", missing)
	}
	return replaced, nil
}
