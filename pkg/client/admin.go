package client

import "context"

// AdminClient covers snapshot administration.
type AdminClient struct {
	client *Client
}

// Snapshot describes the snapshot the server is answering from.
func (c *AdminClient) Snapshot(ctx context.Context) (*SnapshotInfo, error) {
	var out SnapshotInfo
	if err := c.client.get(ctx, "/api/v1/snapshot", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reload asks the server to rebuild its snapshot from the feed.
func (c *AdminClient) Reload(ctx context.Context) (*SnapshotInfo, error) {
	var out SnapshotInfo
	if err := c.client.post(ctx, "/api/v1/admin/reload", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
