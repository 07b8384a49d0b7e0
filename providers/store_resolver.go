package providers

import (
	"context"
	"net/http"
	"price-manager-service/models"
	"strings"
)

// StoreResolver maps store view ids to the codes Magento uses to scope writes.
// The directory is fetched on every call.
type StoreResolver struct {
	gateway CatalogGateway
}

// NewStoreResolver creates a StoreResolver on top of gw.
func NewStoreResolver(gw CatalogGateway) *StoreResolver {
	return &StoreResolver{gateway: gw}
}

// StoreViews fetches the store view directory.
func (r *StoreResolver) StoreViews(ctx context.Context) ([]models.StoreView, error) {
	var views []models.StoreView
	if err := r.gateway.Call(ctx, Request{Method: http.MethodGet, Endpoint: "/store/storeViews"}, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// ResolveStoreCode returns the code of storeID, or "all" when storeID is 0
// or unknown so the write falls back to the global scope.
func (r *StoreResolver) ResolveStoreCode(ctx context.Context, storeID int) (string, error) {
	if storeID == 0 {
		return AllStoresCode, nil
	}
	views, err := r.StoreViews(ctx)
	if err != nil {
		return "", err
	}
	for _, v := range views {
		if v.ID == storeID {
			if v.Code == "" {
				return AllStoresCode, nil
			}
			return v.Code, nil
		}
	}
	return AllStoresCode, nil
}

// StoreDirectory indexes store views by case-folded code.
type StoreDirectory map[string]models.StoreView

// StoreCodeIndex builds a StoreDirectory. When two codes differ only in case
// the first view wins.
func StoreCodeIndex(views []models.StoreView) StoreDirectory {
	idx := make(StoreDirectory, len(views))
	for _, v := range views {
		key := strings.ToLower(v.Code)
		if _, dup := idx[key]; !dup {
			idx[key] = v
		}
	}
	return idx
}

// Lookup matches code case-insensitively and returns the view with its
// canonical Magento code.
func (d StoreDirectory) Lookup(code string) (models.StoreView, bool) {
	v, ok := d[strings.ToLower(strings.TrimSpace(code))]
	return v, ok
}
