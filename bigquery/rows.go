package bigquery

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

// The server caps a single tabledata page at this many rows.
const maxRowsPerPage = 10000

func itoa64(n int64) string { return strconv.FormatInt(n, 10) }

// RowPager iterates through table rows using repeated tabledata requests.
// It maintains start-index state and stops once the server-reported total
// is reached.
type RowPager struct {
	Client *Client
	Table  TableReference

	// Remaining bounds how many rows are still wanted; use ReadTableRows
	// for the common cases.
	Remaining int64

	index int64
	total int64
	done  bool
}

// Next returns the next page of rows, or nil when iteration finishes. Each
// row holds the cell values in schema order.
func (p *RowPager) Next(ctx context.Context) ([][]string, error) {
	if p.done || p.Remaining <= 0 {
		return nil, nil
	}
	pageSize := p.Remaining
	if pageSize > maxRowsPerPage {
		pageSize = maxRowsPerPage
	}
	q := url.Values{
		"maxResults": []string{itoa64(pageSize)},
		"startIndex": []string{itoa64(p.index)},
	}
	var out tableDataList
	err := p.Client.Transport.Do(ctx, &Call{
		Method: http.MethodGet,
		Path:   tablePath(p.Table) + "/data",
		Query:  q,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	p.total = out.TotalRows
	if remaining := p.total - p.index; p.Remaining > remaining {
		p.Remaining = remaining
	}
	if len(out.Rows) == 0 {
		p.done = true
		if p.Remaining > 0 {
			return nil, &InterfaceError{Message: "not enough rows returned by server for " +
				describeReference(p.Table)}
		}
		return nil, nil
	}
	rows := make([][]string, 0, len(out.Rows))
	for _, r := range out.Rows {
		cells := make([]string, 0, len(r.F))
		for _, cell := range r.F {
			cells = append(cells, cell.V)
		}
		rows = append(rows, cells)
	}
	p.index += int64(len(rows))
	p.Remaining -= int64(len(rows))
	if p.Remaining <= 0 {
		p.done = true
	}
	return rows, nil
}

// ReadTableRows reads at most maxRows rows from a table; maxRows <= 0 reads
// the whole table.
func (c *Client) ReadTableRows(ctx context.Context, ref TableReference, maxRows int64) ([][]string, error) {
	if maxRows <= 0 {
		maxRows = math.MaxInt64
	}
	pager := &RowPager{Client: c, Table: ref, Remaining: maxRows}
	var rows [][]string
	for {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		if page == nil {
			return rows, nil
		}
		rows = append(rows, page...)
	}
}

// GetTableSchema returns the schema of the table, which may be empty.
func (c *Client) GetTableSchema(ctx context.Context, ref TableReference) (*TableSchema, error) {
	table, err := c.GetTable(ctx, ref)
	if err != nil {
		return nil, err
	}
	if table.Schema == nil {
		return &TableSchema{}, nil
	}
	return table.Schema, nil
}

// ReadSchemaAndRows fetches the schema fields and up to maxRows rows of a
// table in one convenience call.
func (c *Client) ReadSchemaAndRows(ctx context.Context, ref TableReference, maxRows int64) ([]*TableFieldSchema, [][]string, error) {
	schema, err := c.GetTableSchema(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	rows, err := c.ReadTableRows(ctx, ref, maxRows)
	if err != nil {
		return nil, nil, err
	}
	return schema.Fields, rows, nil
}
