package engines

import (
	"context"
	"testing"
)

func TestSharedTypesFindsConsumer(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "user.ts", "export interface UserAccount { id: string }\n")
	writeFile(t, ac, "profile.ts", "import { UserAccount } from './user'\nfunction render(u: UserAccount) {}\n")

	results := SharedTypes(context.Background(), ac, "user.ts")
	if len(results) != 1 || results[0].Path != "profile.ts" {
		t.Fatalf("expected profile.ts coupled, got %v", results)
	}
	if results[0].Source != SourceType {
		t.Fatalf("expected source type, got %s", results[0].Source)
	}
}

func TestSharedTypesEmptyWhenNoTypeDecls(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "util.ts", "export function helper() {}\n")

	results := SharedTypes(context.Background(), ac, "util.ts")
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}
