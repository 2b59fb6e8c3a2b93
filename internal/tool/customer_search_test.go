package tool

import (
	"strings"
	"testing"
)

func newSearchTool(t *testing.T) *CustomerSearch {
	t.Helper()
	dir, err := NewDirectory()
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	return NewCustomerSearch(dir)
}

func TestCustomerSearchFindsAllSeedCustomers(t *testing.T) {
	ts := newSearchTool(t)

	out, err := ts.Execute(map[string]interface{}{"minBalance": 500.0})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out, "Found 5 customers with overdue balance >= $500.00 and status 'overdue':") {
		t.Fatalf("unexpected header: %q", out)
	}
	for _, want := range []string{
		"1. Customer ID: C001, Name: John Doe, Balance: $650.00",
		"2. Customer ID: C002, Name: Jane Smith, Balance: $800.50",
		"3. Customer ID: C003, Name: Bob Johnson, Balance: $550.25",
		"4. Customer ID: C004, Name: Alice Williams, Balance: $1200.00",
		"5. Customer ID: C005, Name: Charlie Brown, Balance: $600.75",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing line %q in output:\n%s", want, out)
		}
	}
}

func TestCustomerSearchFiltersByThreshold(t *testing.T) {
	ts := newSearchTool(t)

	out, err := ts.Execute(map[string]interface{}{"minBalance": 700.0})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out, "Found 2 customers") {
		t.Fatalf("expected 2 matches above 700, got: %q", out)
	}
	if !strings.Contains(out, "C002") || !strings.Contains(out, "C004") {
		t.Fatalf("expected C002 and C004 in output:\n%s", out)
	}
	if strings.Contains(out, "C001") {
		t.Fatalf("C001 should be filtered out:\n%s", out)
	}
}

func TestCustomerSearchHonorsLimit(t *testing.T) {
	ts := newSearchTool(t)

	out, err := ts.Execute(map[string]interface{}{"minBalance": 500.0, "limit": 2})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out, "Found 2 customers") {
		t.Fatalf("expected limit of 2, got: %q", out)
	}
}

func TestCustomerSearchRequiresMinBalance(t *testing.T) {
	ts := newSearchTool(t)

	if _, err := ts.Execute(map[string]interface{}{}); err == nil {
		t.Fatalf("expected error for missing minBalance")
	}
}

func TestCustomerSearchRejectsNonNumericMinBalance(t *testing.T) {
	ts := newSearchTool(t)

	if _, err := ts.Execute(map[string]interface{}{"minBalance": "lots"}); err == nil {
		t.Fatalf("expected error for non-numeric minBalance")
	}
}

func TestCustomerSearchAcceptsNumericStrings(t *testing.T) {
	ts := newSearchTool(t)

	out, err := ts.Execute(map[string]interface{}{"minBalance": "750"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, ">= $750.00") {
		t.Fatalf("expected threshold to parse from a string: %q", out)
	}
}
