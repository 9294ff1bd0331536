package engines

import (
	"context"
	"testing"
)

func TestAPIEndpointsFindsCaller(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "routes.ts", "router.get('/api/invoices', handler)\n")
	writeFile(t, ac, "client.ts", "fetch('/api/invoices').then(r => r.json())\n")

	results := APIEndpoints(context.Background(), ac, "routes.ts")
	if len(results) != 1 || results[0].Path != "client.ts" {
		t.Fatalf("expected client.ts coupled, got %v", results)
	}
	if results[0].Source != SourceAPI {
		t.Fatalf("expected source api, got %s", results[0].Source)
	}
}

func TestAPIEndpointsGatedOnRouteDefinition(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "plain.ts", "export function helper() {}\n")

	results := APIEndpoints(context.Background(), ac, "plain.ts")
	if len(results) != 0 {
		t.Fatalf("expected no results without a route definition, got %v", results)
	}
}
