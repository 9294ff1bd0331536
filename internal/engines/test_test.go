package engines

import (
	"context"
	"testing"
)

func TestIsTestFileRecognizesSuffixes(t *testing.T) {
	cases := map[string]bool{
		"widget.test.ts": true,
		"widget_test.go": true,
		"widget.spec.ts": true,
		"widget.ts":      false,
	}
	for path, want := range cases {
		if got := IsTestFile(path); got != want {
			t.Errorf("IsTestFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestTestsFindsMatchingTestFile(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "widget.ts", "export function renderWidget() {}\n")
	writeFile(t, ac, "widget.test.ts", "import { renderWidget } from './widget'\n")

	results := Tests(context.Background(), ac, "widget.ts")
	if len(results) != 1 || results[0].Path != "widget.test.ts" {
		t.Fatalf("expected widget.test.ts coupled, got %v", results)
	}
	if results[0].Score != testEvidenceScore {
		t.Fatalf("expected test evidence score %d, got %d", testEvidenceScore, results[0].Score)
	}
}

func TestTestsSkipsWhenTargetIsItselfATest(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "widget.test.ts", "test('widget', () => {})\n")

	results := Tests(context.Background(), ac, "widget.test.ts")
	if len(results) != 0 {
		t.Fatalf("expected no results for a test target, got %v", results)
	}
}
