// internal/clients/patron_client.go
package clients

import (
	"context"
	"net/url"

	"libranexus/internal/library"
	"libranexus/internal/patrons"
)

// PatronClient resolves patrons through the patron service API.
type PatronClient struct {
	client
}

func NewPatronClient(baseURL string, opts ...Option) *PatronClient {
	return &PatronClient{client: newClient(baseURL, opts)}
}

func (c *PatronClient) FindPatronByID(ctx context.Context, id string) (*patrons.Party, error) {
	var resp patrons.PatronResponse
	if err := c.get(ctx, "/patrons/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	if resp.Patron == nil {
		return nil, library.NotFound("patron %s not found", id)
	}
	return resp.Patron, nil
}
