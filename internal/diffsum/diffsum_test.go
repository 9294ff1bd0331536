package diffsum

import "testing"

func TestParseBinaryMarker(t *testing.T) {
	s := Parse(BinaryMarker)
	if s.ChangeType != ChangeUnknown || len(s.Added) != 0 || len(s.Removed) != 0 {
		t.Fatalf("expected empty unknown summary for binary marker, got %+v", s)
	}
}

func TestParseGitBinaryMessage(t *testing.T) {
	s := Parse("Binary files a/logo.png and b/logo.png differ")
	if s.ChangeType != ChangeUnknown {
		t.Fatalf("expected unknown change type for git binary message, got %v", s.ChangeType)
	}
}

func TestParseCountsHunksAndLines(t *testing.T) {
	diff := `diff --git a/foo.go b/foo.go
--- a/foo.go
+++ b/foo.go
@@ -1,3 +1,4 @@
 package foo
-func Old() {}
+func New() {}
+func Extra() {}
@@ -10,2 +11,2 @@
-old line
+new line
`
	s := Parse(diff)
	if s.HunkCount != 2 {
		t.Fatalf("expected 2 hunks, got %d", s.HunkCount)
	}
	if len(s.Added) != 3 || len(s.Removed) != 2 {
		t.Fatalf("expected 3 added / 2 removed, got %d/%d", len(s.Added), len(s.Removed))
	}
	if s.NetChange != 1 {
		t.Fatalf("expected net change 1, got %d", s.NetChange)
	}
}

func TestParseTruncatesAtTen(t *testing.T) {
	diff := "@@ -0,0 +1,20 @@\n"
	for i := 0; i < 15; i++ {
		diff += "+line\n"
	}
	s := Parse(diff)
	if len(s.Added) != maxSurfacedLines {
		t.Fatalf("expected truncation to %d, got %d", maxSurfacedLines, len(s.Added))
	}
	if s.NetChange != 15 {
		t.Fatalf("expected net change computed pre-truncation (15), got %d", s.NetChange)
	}
}

func TestParseDetectsBreakingRemovedFunction(t *testing.T) {
	diff := `@@ -1,2 +1,1 @@
-func PublicAPI() {}
 package foo
`
	s := Parse(diff)
	if !s.Breaking {
		t.Fatal("expected removed function declaration to be flagged breaking")
	}
}

func TestParseDetectsBreakingKeyword(t *testing.T) {
	diff := `@@ -1,1 +1,0 @@
-// deprecate this helper, remove after v2
`
	s := Parse(diff)
	if !s.Breaking {
		t.Fatal("expected removal-keyword line to be flagged breaking")
	}
}

func TestParseClassifiesImport(t *testing.T) {
	diff := `@@ -1,1 +1,2 @@
 package foo
+import "net/http"
`
	s := Parse(diff)
	if s.ChangeType != ChangeImport {
		t.Fatalf("expected import classification, got %v", s.ChangeType)
	}
}

func TestParseClassifiesSchema(t *testing.T) {
	diff := `@@ -0,0 +1,1 @@
+CREATE TABLE users (id INT PRIMARY KEY);
`
	s := Parse(diff)
	if s.ChangeType != ChangeSchema {
		t.Fatalf("expected schema classification, got %v", s.ChangeType)
	}
}

func TestParseClassifiesAPI(t *testing.T) {
	diff := `@@ -0,0 +1,1 @@
+router.post("/users", createUser)
`
	s := Parse(diff)
	if s.ChangeType != ChangeAPI {
		t.Fatalf("expected api classification, got %v", s.ChangeType)
	}
}

func TestParseClassifiesConfig(t *testing.T) {
	diff := `@@ -0,0 +1,1 @@
+const port = process.env.PORT
`
	s := Parse(diff)
	if s.ChangeType != ChangeConfig {
		t.Fatalf("expected config classification, got %v", s.ChangeType)
	}
}

func TestParseClassifiesTest(t *testing.T) {
	diff := `@@ -0,0 +1,1 @@
+func TestSomething(t *testing.T) {}
`
	s := Parse(diff)
	if s.ChangeType != ChangeTest {
		t.Fatalf("expected test classification, got %v", s.ChangeType)
	}
}

func TestParseClassifiesStyle(t *testing.T) {
	diff := `@@ -1,1 +1,1 @@
-  foo(1,2)
+foo(1, 2)
`
	s := Parse(diff)
	if s.ChangeType != ChangeStyle {
		t.Fatalf("expected style classification, got %v", s.ChangeType)
	}
}

func TestParseClassifiesUnknown(t *testing.T) {
	diff := `@@ -1,1 +1,2 @@
 plain line
+some unrelated new content here
`
	s := Parse(diff)
	if s.ChangeType != ChangeUnknown {
		t.Fatalf("expected unknown classification, got %v", s.ChangeType)
	}
}
