package engines

import (
	"context"
	"testing"
)

func TestContentFindsSharedErrorString(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "validator.ts", "throw new Error('unable to validate the submitted payment form')\n")
	writeFile(t, ac, "handler.ts", "console.log('unable to validate the submitted payment form')\n")

	results := Content(context.Background(), ac, "validator.ts")
	if len(results) != 1 || results[0].Path != "handler.ts" {
		t.Fatalf("expected handler.ts coupled, got %v", results)
	}
	if results[0].Source != SourceContent {
		t.Fatalf("expected source content, got %s", results[0].Source)
	}
}

func TestContentIgnoresShortNoiseStrings(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "styles.ts", "const cls = 'btn-primary-large'\n")

	results := Content(context.Background(), ac, "styles.ts")
	if len(results) != 0 {
		t.Fatalf("expected no results for kebab-only literal, got %v", results)
	}
}
