//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	StateCatalogBaseline = "catalog baseline"
	StateOrderExists     = "order ORD-PACT-0001 exists"
	StateEmptyCart       = "session pact-session has an empty cart"
)

const (
	ExistingProductID = "vit-d3-5000"
	MissingProductID  = "no-such-product"

	ExistingOrderID = "ORD-PACT-0001"
	PactSessionID   = "pact-session"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCustomerPayload is a checkout customer that passes validation.
func ExampleCustomerPayload() map[string]any {
	return map[string]any{
		"firstName": "Pat",
		"lastName":  "Contract",
		"email":     "pat.contract@example.com",
		"phone":     "555-010-2030",
		"address": map[string]any{
			"street":  "42 Pact Way",
			"city":    "Portland",
			"state":   "OR",
			"zipCode": "97201",
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
