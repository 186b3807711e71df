package ticketsafi

import (
	"context"
	"net/http"
	"net/url"

	"ticketsafi/web/internal/model"
)

func (c *Client) Stores(ctx context.Context) ([]model.Store, error) {
	data, err := c.getList(ctx, "/api/stores/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Store](data)
}

// Store returns a public storefront together with its upcoming events.
func (c *Client) Store(ctx context.Context, slug string) (*model.Store, error) {
	var store model.Store
	if err := c.getJSON(ctx, "/api/stores/"+url.PathEscape(slug)+"/", nil, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (c *Client) OrganizerStores(ctx context.Context) ([]model.Store, error) {
	data, err := c.getList(ctx, "/api/stores/organizer/list/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Store](data)
}

func (c *Client) CreateStore(ctx context.Context, s StoreSubmission) (*model.Store, error) {
	var store model.Store
	if err := c.sendMultipart(ctx, http.MethodPost, "/api/stores/create/", s, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// ManagedStore returns the calling organizer's own store.
func (c *Client) ManagedStore(ctx context.Context) (*model.Store, error) {
	var store model.Store
	if err := c.getJSON(ctx, "/api/stores/manage/", nil, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (c *Client) UpdateStore(ctx context.Context, s StoreSubmission) (*model.Store, error) {
	var store model.Store
	if err := c.sendMultipart(ctx, http.MethodPatch, "/api/stores/manage/", s, &store); err != nil {
		return nil, err
	}
	return &store, nil
}
