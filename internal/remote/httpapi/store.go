package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hyeonwoo/lessondesk/internal/remote"
)

func (c *Client) restURL(collection string, q remote.Query) *url.URL {
	u := c.base.JoinPath("rest", "v1", collection)

	values := url.Values{}
	for _, f := range q.Filters {
		switch f.Op {
		case remote.OpIs:
			values.Set(f.Column, "is.null")
		default:
			values.Set(f.Column, fmt.Sprintf("%s.%v", f.Op, f.Value))
		}
	}
	if q.OrderBy != "" {
		dir := "desc"
		if q.Ascending {
			dir = "asc"
		}
		values.Set("order", q.OrderBy+"."+dir)
	}
	u.RawQuery = values.Encode()
	return u
}

func (c *Client) Select(ctx context.Context, collection string, q remote.Query) ([]remote.Record, error) {
	data, status, err := c.do(ctx, http.MethodGet, c.restURL(collection, q), nil, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &remote.RequestError{Collection: collection, Status: status, Message: errorMessage(data)}
	}

	var records []remote.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) Insert(ctx context.Context, collection string, records []remote.Record) ([]remote.Record, error) {
	headers := http.Header{"Prefer": {"return=representation"}}
	data, status, err := c.do(ctx, http.MethodPost, c.restURL(collection, remote.Query{}), records, headers)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &remote.RequestError{Collection: collection, Status: status, Message: errorMessage(data)}
	}

	var written []remote.Record
	if err := json.Unmarshal(data, &written); err != nil {
		return nil, err
	}
	return written, nil
}

func (c *Client) Update(ctx context.Context, collection string, q remote.Query, patch remote.Record) ([]remote.Record, error) {
	headers := http.Header{"Prefer": {"return=representation"}}
	data, status, err := c.do(ctx, http.MethodPatch, c.restURL(collection, q), patch, headers)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &remote.RequestError{Collection: collection, Status: status, Message: errorMessage(data)}
	}

	var touched []remote.Record
	if err := json.Unmarshal(data, &touched); err != nil {
		return nil, err
	}
	return touched, nil
}
