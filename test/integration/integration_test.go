//go:build integration

// Package integration provides BDD integration tests using Godog/Cucumber.
package integration

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"

	"github.com/mycfo/backend/test/integration/steps"
)

// TestFeatures runs the API feature suite against a real database and Redis.
//
// GODOG_FORMAT, GODOG_PATHS (comma separated), GODOG_TAGS, GODOG_STOP_ON_FAILURE
// and GODOG_RANDOM (a seed, or -1 for a fresh one) tune a run.
func TestFeatures(t *testing.T) {
	opts := godog.Options{
		Format:        envOr("GODOG_FORMAT", "pretty"),
		Paths:         strings.Split(envOr("GODOG_PATHS", "features"), ","),
		Tags:          os.Getenv("GODOG_TAGS"),
		Output:        colors.Colored(os.Stdout),
		Concurrency:   1, // Scenarios share one database and one Redis
		Strict:        true,
		StopOnFailure: envFlag(t, "GODOG_STOP_ON_FAILURE"),
		Randomize:     envSeed(t, "GODOG_RANDOM"),
		TestingT:      t,
	}

	suite := godog.TestSuite{
		Name:                 "mycfo-api",
		ScenarioInitializer:  steps.InitializeScenario,
		TestSuiteInitializer: steps.InitializeTestSuite,
		Options:              &opts,
	}

	if suite.Run() != 0 {
		t.Fatal("feature suite failed")
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envFlag(t *testing.T, key string) bool {
	value := os.Getenv(key)
	if value == "" {
		return false
	}
	on, err := strconv.ParseBool(value)
	if err != nil {
		t.Fatalf("%s: %v", key, err)
	}
	return on
}

// envSeed reads a scenario order seed. Zero keeps file order.
func envSeed(t *testing.T, key string) int64 {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	seed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		t.Fatalf("%s: %v", key, err)
	}
	return seed
}
