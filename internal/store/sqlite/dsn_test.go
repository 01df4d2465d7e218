package sqlite

import (
	"strings"
	"testing"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "memory", dsn: "sqlite://:memory:", want: ":memory:"},
		{name: "absolute", dsn: "sqlite:///var/lib/prefset.db", want: "/var/lib/prefset.db"},
		{name: "relative", dsn: "sqlite://prefset.db", want: "./prefset.db"},
		{name: "dot relative", dsn: "sqlite://./data/prefset.db", want: "./data/prefset.db"},
		{name: "escaped", dsn: "sqlite://my%20sets.db", want: "./my sets.db"},
		{name: "query", dsn: "sqlite://prefset.db?_txlock=immediate", want: "./prefset.db?_txlock=immediate"},
		{name: "wrong scheme", dsn: "postgres://localhost/db", wantErr: true},
		{name: "no path", dsn: "sqlite://", wantErr: true},
		{name: "bad escape", dsn: "sqlite://bad%zz.db", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDSN: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestSplitStatements_KeepsTriggersWhole(t *testing.T) {
	statements := splitStatements(ddl)
	var triggers int
	for _, stmt := range statements {
		if strings.Contains(stmt, "CREATE TRIGGER") {
			triggers++
		}
	}
	if triggers != 3 {
		t.Fatalf("expected 3 trigger statements, got %d", triggers)
	}
	if len(statements) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(statements))
	}
}
