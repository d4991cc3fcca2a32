// internal/clients/catalog_client.go
package clients

import (
	"context"
	"net/url"

	"libranexus/internal/catalog"
	"libranexus/internal/library"
)

// CatalogClient resolves books through the catalog service API.
type CatalogClient struct {
	client
}

func NewCatalogClient(baseURL string, opts ...Option) *CatalogClient {
	return &CatalogClient{client: newClient(baseURL, opts)}
}

func (c *CatalogClient) FindBookByID(ctx context.Context, id string) (*catalog.Book, error) {
	var resp catalog.BookResponse
	if err := c.get(ctx, "/books/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	if resp.Book == nil {
		return nil, library.NotFound("book %s not found", id)
	}
	return resp.Book, nil
}
