package client

import (
	"context"
	"net/url"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// CaseLawClient covers case law search and decision management.
type CaseLawClient struct {
	client *Client
}

// Search ranks decisions against the keywords of req.  No keywords matches
// every decision that passes the filters.
func (c *CaseLawClient) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	var body SearchRequest
	if req != nil {
		body = *req
	}
	if body.Limit < 0 {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "limit must not be negative")
	}
	if body.Keywords == nil {
		body.Keywords = []string{}
	}
	var out SearchResponse
	if err := c.client.post(ctx, "/api/v1/search", &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a decision by ID.
func (c *CaseLawClient) Get(ctx context.Context, id string) (*Decision, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeValidation, "decision id is required")
	}
	var out Decision
	if err := c.client.get(ctx, "/api/v1/decisions/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Add indexes a new decision.
func (c *CaseLawClient) Add(ctx context.Context, d *NewDecision) (*Decision, error) {
	if d == nil || d.ID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "decision id is required")
	}
	var out Decision
	if err := c.client.post(ctx, "/api/v1/decisions", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
