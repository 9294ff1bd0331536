package engines

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/vcs"
)

// schemaGateRe gates engine 11: the target must itself carry a schema
// marker (raw SQL DDL, ORM decorator annotations, or a Mongoose/SQLAlchemy/
// Sequelize model declaration) before any extraction runs.
var schemaGateRe = regexp.MustCompile(`(?i)(create\s+table|alter\s+table|@(entity|table|column)|mongoose\.schema|sequelize\.define|class\s+\w+\(models\.Model\)|db\.Column\(|@Column\()`)

var schemaNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)create\s+table\s+(?:if\s+not\s+exists\s+)?[\x60"']?(\w+)`),
	regexp.MustCompile(`(?i)@(?:entity|table)\(\s*['"]?(\w+)`),
	regexp.MustCompile(`(?i)class\s+(\w+)\(models\.Model\)`),
	regexp.MustCompile(`(?i)mongoose\.schema`),
	regexp.MustCompile(`(?i)sequelize\.define\(\s*['"](\w+)`),
}

var genericSchemaNames = map[string]bool{
	"id": true, "data": true, "item": true, "entity": true, "model": true,
	"base": true, "abstract": true,
}

const maxSchemaNames = 5

// Schema implements §4.3.7 Engine 11 (source schema).
func Schema(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	key := cache.Key("engine:schema", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]CoupledFile)
	}
	result := schema(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func schema(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	source, err := vcs.ReadFile(ctx, ac.RepoRoot, targetPath)
	if err != nil || !schemaGateRe.MatchString(source) {
		return nil
	}

	names := extractSchemaNames(source)
	if len(names) == 0 {
		return nil
	}

	pattern := `(\b(` + alternationNames(names) + `)\b|['"](` + alternationNames(names) + `)['"])`
	candidates, err := vcs.GrepFiles(ctx, ac.RepoRoot, pattern, vcs.GrepOptions{ExtendedRegex: true})
	if err != nil || len(candidates) == 0 {
		return nil
	}

	sharedByFile := map[string]map[string]bool{}
	for _, name := range names {
		nameRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		for _, cand := range candidates {
			if cand == targetPath || ac.Ignore.Match(cand) {
				continue
			}
			content, err := vcs.ReadFile(ctx, ac.RepoRoot, cand)
			if err != nil {
				continue
			}
			if nameRe.MatchString(content) {
				if sharedByFile[cand] == nil {
					sharedByFile[cand] = map[string]bool{}
				}
				sharedByFile[cand][name] = true
			}
		}
	}

	var out []CoupledFile
	for file, shared := range sharedByFile {
		if len(shared) == 0 {
			continue
		}
		score := min(80, 45+12*len(shared))
		out = append(out, CoupledFile{
			Path:     file,
			Score:    score,
			Source:   SourceSchema,
			Reason:   schemaReason(file),
			Evidence: detail(strings.Join(sortedKeys(shared), ", ")),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return capResults(out)
}

func extractSchemaNames(source string) []string {
	seen := map[string]bool{}
	var out []string
	for _, re := range schemaNameRes {
		for _, m := range re.FindAllStringSubmatch(source, -1) {
			if len(m) < 2 {
				continue
			}
			name := m[1]
			if name == "" || genericSchemaNames[strings.ToLower(name)] || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
			if len(out) >= maxSchemaNames {
				return out
			}
		}
	}
	return out
}

// schemaReason tags a candidate as migration or query-layer code by path
// heuristic, per §4.3.7.
func schemaReason(path string) string {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "migrat") {
		return "Migration touching this schema"
	}
	if strings.Contains(lower, "repo") || strings.Contains(lower, "query") || strings.Contains(lower, "dao") {
		return "Query layer depending on this schema"
	}
	return "References this schema's tables or models"
}
