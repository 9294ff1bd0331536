package engines

import (
	"context"
	"testing"
)

func TestEnvironmentFindsSharedToken(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "stripeClient.ts", "const key = process.env.STRIPE_SECRET_KEY\n")
	writeFile(t, ac, "config.ts", "export const stripeKey = process.env.STRIPE_SECRET_KEY\n")

	results := Environment(context.Background(), ac, "stripeClient.ts")
	if len(results) != 1 || results[0].Path != "config.ts" {
		t.Fatalf("expected config.ts coupled, got %v", results)
	}
	if results[0].Source != SourceEnv {
		t.Fatalf("expected source env, got %s", results[0].Source)
	}
}

func TestEnvironmentIgnoresProtocolTokens(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "noop.ts", "const type = HTTP_STATUS_CODE\n")

	results := Environment(context.Background(), ac, "noop.ts")
	if len(results) != 0 {
		t.Fatalf("expected no results for protocol-prefixed token, got %v", results)
	}
}
