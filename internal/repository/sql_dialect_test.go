package repository

import "testing"

func TestBuildLikeConditionByDialect(t *testing.T) {
	cond, argCount := buildLikeConditionByDialect("sqlite", []string{"name", "description"})
	if cond != "name LIKE ? OR description LIKE ?" {
		t.Fatalf("unexpected sqlite condition: %s", cond)
	}
	if argCount != 2 {
		t.Fatalf("unexpected arg count: %d", argCount)
	}

	cond, argCount = buildLikeConditionByDialect("postgres", []string{"name"})
	if cond != "name ILIKE ?" {
		t.Fatalf("unexpected postgres condition: %s", cond)
	}
	if argCount != 1 {
		t.Fatalf("unexpected arg count: %d", argCount)
	}
}

func TestBuildLikeConditionSkipsEmptyColumns(t *testing.T) {
	cond, argCount := buildLikeConditionByDialect("sqlite", []string{"", "  ", "code"})
	if cond != "code LIKE ?" {
		t.Fatalf("unexpected condition: %s", cond)
	}
	if argCount != 1 {
		t.Fatalf("unexpected arg count: %d", argCount)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%mask%", 3)
	if len(args) != 3 {
		t.Fatalf("unexpected args length: %d", len(args))
	}
	for _, arg := range args {
		if arg != "%mask%" {
			t.Fatalf("unexpected arg: %v", arg)
		}
	}
}
