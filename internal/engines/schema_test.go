package engines

import (
	"context"
	"testing"
)

func TestSchemaFindsReferencingQueryLayer(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "migration.sql", "CREATE TABLE invoices (id SERIAL PRIMARY KEY)\n")
	writeFile(t, ac, "invoiceRepo.ts", "const rows = await db.query('select * from invoices')\n")

	results := Schema(context.Background(), ac, "migration.sql")
	if len(results) != 1 || results[0].Path != "invoiceRepo.ts" {
		t.Fatalf("expected invoiceRepo.ts coupled, got %v", results)
	}
	if results[0].Source != SourceSchema {
		t.Fatalf("expected source schema, got %s", results[0].Source)
	}
}

func TestSchemaGatedOnSchemaMarkers(t *testing.T) {
	ac := initContext(t)
	writeFile(t, ac, "plain.ts", "export function helper() {}\n")

	results := Schema(context.Background(), ac, "plain.ts")
	if len(results) != 0 {
		t.Fatalf("expected no results without a schema marker, got %v", results)
	}
}
