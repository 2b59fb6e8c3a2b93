package tool

import (
	"fmt"

	"github.com/blevesearch/bleve"
)

// Customer is a single record in the customer directory.
type Customer struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	Status  string  `json:"status"`
}

// Directory is an in-memory, full-text-indexed customer directory. It stands
// in for the billing database the search tool would query in production.
type Directory struct {
	index bleve.Index
	byID  map[string]Customer
}

// seedCustomers is the canned data set loaded when no external source is
// wired in.
var seedCustomers = []Customer{
	{ID: "C001", Name: "John Doe", Balance: 650.00, Status: "overdue"},
	{ID: "C002", Name: "Jane Smith", Balance: 800.50, Status: "overdue"},
	{ID: "C003", Name: "Bob Johnson", Balance: 550.25, Status: "overdue"},
	{ID: "C004", Name: "Alice Williams", Balance: 1200.00, Status: "overdue"},
	{ID: "C005", Name: "Charlie Brown", Balance: 600.75, Status: "overdue"},
}

// NewDirectory builds a directory over the given customers, or the seed data
// set when none are given.
func NewDirectory(customers ...Customer) (*Directory, error) {
	if len(customers) == 0 {
		customers = seedCustomers
	}
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create directory index: %w", err)
	}
	d := &Directory{index: idx, byID: make(map[string]Customer, len(customers))}
	for _, c := range customers {
		if err := idx.Index(c.ID, c); err != nil {
			return nil, fmt.Errorf("index customer %s: %w", c.ID, err)
		}
		d.byID[c.ID] = c
	}
	return d, nil
}

// Search returns customers with balance >= minBalance and the given status,
// ordered by customer id, capped at limit.
func (d *Directory) Search(minBalance float64, status string, limit int) ([]Customer, error) {
	if limit <= 0 {
		limit = 100
	}
	balanceQ := bleve.NewNumericRangeQuery(&minBalance, nil)
	balanceQ.SetField("balance")
	statusQ := bleve.NewMatchQuery(status)
	statusQ.SetField("status")

	req := bleve.NewSearchRequest(bleve.NewConjunctionQuery(balanceQ, statusQ))
	req.Size = limit
	req.SortBy([]string{"_id"})

	res, err := d.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("directory search: %w", err)
	}
	out := make([]Customer, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if c, ok := d.byID[hit.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Close releases the underlying index.
func (d *Directory) Close() error {
	return d.index.Close()
}
