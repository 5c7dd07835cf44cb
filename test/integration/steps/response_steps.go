//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items?$`, theResponseFieldShouldHaveItems)
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	var js json.RawMessage
	if err := json.Unmarshal(tc.responseBody, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	value, err := responseField(ctx, field)
	if err != nil {
		return err
	}
	expected, err = GetTestContext(ctx).replacePlaceholders(expected)
	if err != nil {
		return err
	}

	var actual string
	switch v := value.(type) {
	case float64:
		actual = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		actual = fmt.Sprintf("%v", v)
	}
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	_, err := responseField(ctx, field)
	return err
}

func theResponseFieldShouldHaveItems(ctx context.Context, field string, expected int) error {
	value, err := responseField(ctx, field)
	if err != nil {
		return err
	}
	items, ok := value.([]interface{})
	if !ok {
		return fmt.Errorf("field '%s' is not an array", field)
	}
	if len(items) != expected {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, expected, len(items))
	}
	return nil
}

// responseField resolves a dot path such as "candidates.0.document.id".
func responseField(ctx context.Context, path string) (interface{}, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return nil, fmt.Errorf("test context not found")
	}

	var data interface{}
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return getFieldValue(data, path)
}

func getFieldValue(data interface{}, path string) (interface{}, error) {
	current := data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found in response", path)
			}
			current = value
		case []interface{}:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index '%s' out of range in '%s'", part, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field '%s' not found in response", path)
		}
	}
	return current, nil
}
