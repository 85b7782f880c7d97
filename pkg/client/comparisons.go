package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// ComparisonsClient covers rule comparison and choice-of-law analysis.
type ComparisonsClient struct {
	client *Client
}

// Topics lists the topics known to the catalog.
func (c *ComparisonsClient) Topics(ctx context.Context) ([]TopicInfo, error) {
	var out []TopicInfo
	if err := c.client.get(ctx, "/api/v1/topics", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Compare compares topic across the given jurisdictions.
func (c *ComparisonsClient) Compare(ctx context.Context, req *CompareRequest) (*Comparison, error) {
	if req == nil || req.Topic == "" {
		return nil, errors.New(errors.ErrCodeValidation, "topic is required")
	}
	if len(req.Jurisdictions) < 2 {
		return nil, errors.New(errors.ErrCodeInsufficientJurisdictions, "at least two jurisdictions are required")
	}
	var out Comparison
	if err := c.client.post(ctx, "/api/v1/compare", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report returns the plain-text comparison report.
func (c *ComparisonsClient) Report(ctx context.Context, topic string, jurisdictions []string) (string, error) {
	q := url.Values{}
	q.Set("topic", topic)
	q.Set("j", strings.Join(jurisdictions, ","))
	var report string
	if err := c.client.do(ctx, http.MethodGet, "/api/v1/compare/report?"+q.Encode(), nil, nil, &report); err != nil {
		return "", err
	}
	return report, nil
}

// AnalyzeChoiceOfLaw selects the governing law for a fact pattern.
func (c *ComparisonsClient) AnalyzeChoiceOfLaw(ctx context.Context, req *ChoiceOfLawRequest) (*ChoiceOfLawResult, error) {
	if req == nil || req.Forum == "" {
		return nil, errors.New(errors.ErrCodeValidation, "forum is required")
	}
	var out ChoiceOfLawResult
	if err := c.client.post(ctx, "/api/v1/choice-of-law", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approaches lists the supported choice-of-law approaches.
func (c *ComparisonsClient) Approaches(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.client.get(ctx, "/api/v1/approaches", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SelectApproach returns the approach forum applies.
func (c *ComparisonsClient) SelectApproach(ctx context.Context, forum string) (*ApproachSelection, error) {
	if forum == "" {
		return nil, errors.New(errors.ErrCodeValidation, "forum is required")
	}
	var out ApproachSelection
	if err := c.client.get(ctx, "/api/v1/approaches/"+url.PathEscape(forum), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
