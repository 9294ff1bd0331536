package ignore

import "testing"

func TestBaselineMatchesNodeModules(t *testing.T) {
	f := Compile("", nil)
	if !f.Match("apps/web/node_modules/react/index.js") {
		t.Fatal("expected node_modules path to be ignored")
	}
}

func TestBaselineDoesNotMatchSourceFile(t *testing.T) {
	f := Compile("", nil)
	if f.Match("src/app/page.tsx") {
		t.Fatal("did not expect a normal source file to be ignored")
	}
}

func TestConfigPatternsAppendedLast(t *testing.T) {
	f := Compile("", []string{"**/*.generated.go"})
	if !f.Match("internal/api/types.generated.go") {
		t.Fatal("expected config pattern to match")
	}
}

func TestBackslashNormalisation(t *testing.T) {
	f := Compile("", nil)
	if !f.Match(`apps\web\node_modules\react\index.js`) {
		t.Fatal("expected back-slash path to normalise and match")
	}
}

func TestCompileCachedReturnsSameInstance(t *testing.T) {
	a := CompileCached("/repo", []string{"x"})
	b := CompileCached("/repo", []string{"x"})
	if a != b {
		t.Fatal("expected CompileCached to memoise by (root, patterns)")
	}
}
