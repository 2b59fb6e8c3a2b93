package tool

import (
	"fmt"
	"strings"
)

// CustomerSearch looks up customers in the directory by balance threshold
// and status.
type CustomerSearch struct {
	dir *Directory
}

// NewCustomerSearch builds the search tool over the given directory.
func NewCustomerSearch(dir *Directory) *CustomerSearch {
	return &CustomerSearch{dir: dir}
}

func (t *CustomerSearch) Name() string {
	return "customer_search"
}

func (t *CustomerSearch) Description() string {
	return "Search for customers based on specific criteria like overdue balance, status, etc."
}

func (t *CustomerSearch) ParameterHints() map[string]string {
	return map[string]string{
		"minBalance": "Minimum balance amount (e.g., 500)",
		"status":     "Customer status filter (active, overdue, etc.)",
		"limit":      "Maximum number of results to return",
	}
}

// Execute requires a numeric minBalance; status defaults to "overdue" and
// limit to 100.
func (t *CustomerSearch) Execute(params map[string]interface{}) (string, error) {
	raw, ok := params["minBalance"]
	if !ok {
		return "", fmt.Errorf("customer_search: parameter %q is required", "minBalance")
	}
	minBalance, err := floatParam("minBalance", raw)
	if err != nil {
		return "", fmt.Errorf("customer_search: %w", err)
	}
	status := stringParam(params["status"], "overdue")
	limit := 100
	if v, ok := params["limit"]; ok {
		f, err := floatParam("limit", v)
		if err != nil {
			return "", fmt.Errorf("customer_search: %w", err)
		}
		limit = int(f)
	}

	customers, err := t.dir.Search(minBalance, status, limit)
	if err != nil {
		return "", fmt.Errorf("customer_search: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d customers with overdue balance >= $%.2f and status '%s':", len(customers), minBalance, status)
	for i, c := range customers {
		fmt.Fprintf(&b, "\n%d. Customer ID: %s, Name: %s, Balance: $%.2f", i+1, c.ID, c.Name, c.Balance)
	}
	return b.String(), nil
}

// ExecuteWithContext ignores the context; the search has no upstream steps.
func (t *CustomerSearch) ExecuteWithContext(params map[string]interface{}, _ map[string]interface{}) (string, error) {
	return t.Execute(params)
}
