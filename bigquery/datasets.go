package bigquery

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// normalizeProjectReference substitutes the client's default project for a
// nil reference.
func (c *Client) normalizeProjectReference(ref *ProjectReference) (ProjectReference, error) {
	if ref != nil {
		return *ref, nil
	}
	def, err := c.GetProjectReference("")
	if err != nil {
		return ProjectReference{}, configurationError(
			"project reference or a default project is required")
	}
	return def, nil
}

func datasetPath(ref DatasetReference) string {
	return "/projects/" + url.PathEscape(ref.ProjectID) +
		"/datasets/" + url.PathEscape(ref.DatasetID)
}

// ListProjects returns the projects the caller can access.
func (c *Client) ListProjects(ctx context.Context, maxResults int64) ([]*Project, error) {
	q := url.Values{}
	if maxResults > 0 {
		q.Set("maxResults", itoa64(maxResults))
	}
	var out projectList
	err := c.Transport.Do(ctx, &Call{
		Method: http.MethodGet,
		Path:   "/projects",
		Query:  q,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// ListProjectRefs returns the references of the projects the caller can
// access.
func (c *Client) ListProjectRefs(ctx context.Context, maxResults int64) ([]ProjectReference, error) {
	projects, err := c.ListProjects(ctx, maxResults)
	if err != nil {
		return nil, err
	}
	refs := make([]ProjectReference, 0, len(projects))
	for _, p := range projects {
		if p.ProjectReference != nil {
			refs = append(refs, *p.ProjectReference)
		}
	}
	return refs, nil
}

// ListDatasets returns the datasets in a project. A nil reference uses the
// client's default project.
func (c *Client) ListDatasets(ctx context.Context, ref *ProjectReference, maxResults int64) ([]*Dataset, error) {
	pref, err := c.normalizeProjectReference(ref)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	if maxResults > 0 {
		q.Set("maxResults", itoa64(maxResults))
	}
	var out datasetList
	err = c.Transport.Do(ctx, &Call{
		Method: http.MethodGet,
		Path:   "/projects/" + url.PathEscape(pref.ProjectID) + "/datasets",
		Query:  q,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Datasets, nil
}

// ListDatasetRefs returns the references of the datasets in a project.
func (c *Client) ListDatasetRefs(ctx context.Context, ref *ProjectReference, maxResults int64) ([]DatasetReference, error) {
	datasets, err := c.ListDatasets(ctx, ref, maxResults)
	if err != nil {
		return nil, err
	}
	refs := make([]DatasetReference, 0, len(datasets))
	for _, d := range datasets {
		if d.DatasetReference != nil {
			refs = append(refs, *d.DatasetReference)
		}
	}
	return refs, nil
}

// GetDataset fetches the dataset resource.
func (c *Client) GetDataset(ctx context.Context, ref DatasetReference) (*Dataset, error) {
	var out Dataset
	err := c.Transport.Do(ctx, &Call{
		Method: http.MethodGet,
		Path:   datasetPath(ref),
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DatasetExists reports whether the dataset exists. Errors other than
// not-found are returned.
func (c *Client) DatasetExists(ctx context.Context, ref DatasetReference) (bool, error) {
	_, err := c.GetDataset(ctx, ref)
	if err != nil {
		if errors.As(err, new(*NotFoundError)) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DatasetOptions carries the mutable dataset fields for create and update
// calls. Nil pointer fields are left untouched on update.
type DatasetOptions struct {
	Description  *string
	FriendlyName *string
	ACL          []AccessEntry

	// IgnoreExisting makes CreateDataset succeed silently when the dataset
	// already exists.
	IgnoreExisting bool
}

func (o *DatasetOptions) apply(d *Dataset) {
	if o == nil {
		return
	}
	if o.Description != nil {
		d.Description = *o.Description
	}
	if o.FriendlyName != nil {
		d.FriendlyName = *o.FriendlyName
	}
	if o.ACL != nil {
		d.Access = o.ACL
	}
}

// CreateDataset creates a dataset. It fails with *DuplicateError when the
// dataset exists, unless opts.IgnoreExisting is set.
func (c *Client) CreateDataset(ctx context.Context, ref DatasetReference, opts *DatasetOptions) error {
	body := &Dataset{DatasetReference: &ref}
	opts.apply(body)
	err := c.Transport.Do(ctx, &Call{
		Method: http.MethodPost,
		Path:   "/projects/" + url.PathEscape(ref.ProjectID) + "/datasets",
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

// UpdateDataset patches the given fields of an existing dataset.
func (c *Client) UpdateDataset(ctx context.Context, ref DatasetReference, opts *DatasetOptions) error {
	body := &Dataset{DatasetReference: &ref}
	opts.apply(body)
	return c.Transport.Do(ctx, &Call{
		Method: http.MethodPatch,
		Path:   datasetPath(ref),
		Body:   body,
	})
}

// DeleteDataset removes a dataset. deleteContents asks the server to also
// remove any tables inside; without it the server refuses to delete a
// non-empty dataset. ignoreNotFound swallows *NotFoundError.
func (c *Client) DeleteDataset(ctx context.Context, ref DatasetReference, ignoreNotFound, deleteContents bool) error {
	q := url.Values{}
	if deleteContents {
		q.Set("deleteContents", "true")
	}
	err := c.Transport.Do(ctx, &Call{
		Method: http.MethodDelete,
		Path:   datasetPath(ref),
		Query:  q,
	})
	if err != nil && ignoreNotFound && errors.As(err, new(*NotFoundError)) {
		return nil
	}
	return err
}
