package bigquery

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

func tablePath(ref TableReference) string {
	return "/projects/" + url.PathEscape(ref.ProjectID) +
		"/datasets/" + url.PathEscape(ref.DatasetID) +
		"/tables/" + url.PathEscape(ref.TableID)
}

// ListTables returns the tables in a dataset.
func (c *Client) ListTables(ctx context.Context, ref DatasetReference, maxResults int64) ([]*Table, error) {
	q := url.Values{}
	if maxResults > 0 {
		q.Set("maxResults", itoa64(maxResults))
	}
	var out tableList
	err := c.Transport.Do(ctx, &Call{
		Method: http.MethodGet,
		Path:   datasetPath(ref) + "/tables",
		Query:  q,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Tables, nil
}

// ListTableRefs returns the references of the tables in a dataset.
func (c *Client) ListTableRefs(ctx context.Context, ref DatasetReference, maxResults int64) ([]TableReference, error) {
	tables, err := c.ListTables(ctx, ref, maxResults)
	if err != nil {
		return nil, err
	}
	refs := make([]TableReference, 0, len(tables))
	for _, t := range tables {
		if t.TableReference != nil {
			refs = append(refs, *t.TableReference)
		}
	}
	return refs, nil
}

// GetTable fetches the table resource.
func (c *Client) GetTable(ctx context.Context, ref TableReference) (*Table, error) {
	var out Table
	err := c.Transport.Do(ctx, &Call{
		Method: http.MethodGet,
		Path:   tablePath(ref),
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TableExists reports whether the table exists. Errors other than not-found
// are returned.
func (c *Client) TableExists(ctx context.Context, ref TableReference) (bool, error) {
	_, err := c.GetTable(ctx, ref)
	if err != nil {
		if errors.As(err, new(*NotFoundError)) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// TableOptions carries the mutable table fields for create and update calls.
// Nil pointer fields are left untouched on update.
type TableOptions struct {
	// Schema of the table, as accepted by ReadSchema.
	Schema string

	Description  *string
	FriendlyName *string

	// ExpirationTime is a millisecond epoch timestamp after which the table
	// is removed by the server.
	ExpirationTime *int64

	// IgnoreExisting makes CreateTable succeed silently when the table
	// already exists.
	IgnoreExisting bool
}

func (o *TableOptions) apply(t *Table) error {
	if o == nil {
		return nil
	}
	if o.Schema != "" {
		fields, err := ReadSchema(o.Schema)
		if err != nil {
			return err
		}
		t.Schema = &TableSchema{Fields: fields}
	}
	if o.Description != nil {
		t.Description = *o.Description
	}
	if o.FriendlyName != nil {
		t.FriendlyName = *o.FriendlyName
	}
	if o.ExpirationTime != nil {
		t.ExpirationTime = *o.ExpirationTime
	}
	return nil
}

// CreateTable creates a table. It fails with *DuplicateError when the table
// exists, unless opts.IgnoreExisting is set.
func (c *Client) CreateTable(ctx context.Context, ref TableReference, opts *TableOptions) error {
	body := &Table{TableReference: &ref}
	if err := opts.apply(body); err != nil {
		return err
	}
	err := c.Transport.Do(ctx, &Call{
		Method: http.MethodPost,
		Path:   datasetPath(ref.DatasetReference()) + "/tables",
		Body:   body,
	})
	if err != nil {
		if opts != nil && opts.IgnoreExisting && errors.As(err, new(*DuplicateError)) {
			return nil
		}
		return err
	}
	return nil
}

// UpdateTable patches the given fields of an existing table.
func (c *Client) UpdateTable(ctx context.Context, ref TableReference, opts *TableOptions) error {
	body := &Table{TableReference: &ref}
	if err := opts.apply(body); err != nil {
		return err
	}
	return c.Transport.Do(ctx, &Call{
		Method: http.MethodPatch,
		Path:   tablePath(ref),
		Body:   body,
	})
}

// DeleteTable removes a table. ignoreNotFound swallows *NotFoundError.
func (c *Client) DeleteTable(ctx context.Context, ref TableReference, ignoreNotFound bool) error {
	err := c.Transport.Do(ctx, &Call{
		Method: http.MethodDelete,
		Path:   tablePath(ref),
	})
	if err != nil && ignoreNotFound && errors.As(err, new(*NotFoundError)) {
		return nil
	}
	return err
}
