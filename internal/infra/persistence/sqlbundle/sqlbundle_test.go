package sqlbundle

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	for name, ddl := range map[string]string{"sqlite": SQLite(), "postgres": Postgres()} {
		stmts := SplitStatements(ddl)
		if len(stmts) == 0 {
			t.Fatalf("expected %s DDL to produce statements", name)
		}
		for _, stmt := range stmts {
			if strings.HasPrefix(strings.TrimSpace(stmt), "--") {
				t.Fatalf("statement unexpectedly starts with comment: %q", stmt)
			}
			if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
				t.Fatalf("statement missing semicolon terminator: %q", stmt)
			}
		}
	}
}

func TestSplitStatementsKeepsUnterminatedTail(t *testing.T) {
	stmts := SplitStatements("-- header\nCREATE TABLE a (id INT);\n\nSELECT 1")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(stmts), stmts)
	}
	if stmts[1] != "SELECT 1" {
		t.Fatalf("unexpected tail %q", stmts[1])
	}
}

func TestBundlesDeclareStateTable(t *testing.T) {
	if !strings.Contains(SQLite(), "CREATE TABLE IF NOT EXISTS state") {
		t.Fatal("expected sqlite DDL to create the state table")
	}
	if !strings.Contains(Postgres(), "JSONB") {
		t.Fatal("expected postgres DDL to store payload as JSONB")
	}
}
