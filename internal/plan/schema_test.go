package plan

import "testing"

func TestParseDocument(t *testing.T) {
	raw := []byte(`{
        "steps": [
            {
                "description": "Search for customers with overdue balance >= $500.00",
                "toolName": "customer_search",
                "parameters": {"minBalance": 500, "status": "overdue", "limit": 100}
            },
            {
                "description": "Send reminder emails to identified customers",
                "toolName": "send_email_reminder",
                "parameters": {"customerIds": "", "templateType": "reminder"}
            }
        ]
    }`)

	p, err := ParseDocument(raw)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if got, want := len(p.Steps), 2; got != want {
		t.Fatalf("expected %d steps, got %d", want, got)
	}
	if p.Steps[0].ToolName != "customer_search" || p.Steps[1].ToolName != "send_email_reminder" {
		t.Fatalf("unexpected tool names: %v", p.ToolNames())
	}
	if p.Steps[0].Parameters["status"] != "overdue" {
		t.Fatalf("unexpected parameters: %#v", p.Steps[0].Parameters)
	}
}

func TestParseDocumentRejectsMissingFields(t *testing.T) {
	raw := []byte(`{"steps": [{"toolName": "customer_search"}]}`)
	if _, err := ParseDocument(raw); err == nil {
		t.Fatalf("expected schema violation for missing fields")
	}
}

func TestParseDocumentRejectsEmptySteps(t *testing.T) {
	raw := []byte(`{"steps": []}`)
	if _, err := ParseDocument(raw); err == nil {
		t.Fatalf("expected schema violation for empty steps")
	}
}

func TestParseDocumentRejectsTooManySteps(t *testing.T) {
	raw := []byte(`{"steps": [` +
		`{"description":"a","toolName":"customer_search","parameters":{}},` +
		`{"description":"b","toolName":"customer_search","parameters":{}},` +
		`{"description":"c","toolName":"customer_search","parameters":{}},` +
		`{"description":"d","toolName":"customer_search","parameters":{}},` +
		`{"description":"e","toolName":"customer_search","parameters":{}},` +
		`{"description":"f","toolName":"customer_search","parameters":{}}` +
		`]}`)
	if _, err := ParseDocument(raw); err == nil {
		t.Fatalf("expected schema violation for more than five steps")
	}
}

func TestParseDocumentRejectsMalformedJSON(t *testing.T) {
	if _, err := ParseDocument([]byte(`{"steps": [`)); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}
