package providers

import (
	"context"
	"net/url"

	"price-manager-service/models"
)

// Request describes one Magento REST call.
type Request struct {
	Method string
	// Endpoint is the path after the /V1 segment, e.g. "/store/storeViews".
	Endpoint string
	Query    url.Values
	Body     interface{}
	// StoreCode scopes the call; empty means the "all" scope.
	StoreCode string
}

// CatalogGateway issues authenticated calls against the Magento REST API.
type CatalogGateway interface {
	// Call performs the request and decodes a JSON response into out when out is non-nil.
	Call(ctx context.Context, req Request, out interface{}) error

	// BaseURL returns the Magento base URL without trailing slash.
	BaseURL() string
}

// GatewayFactory builds a gateway bound to the credentials of one request.
type GatewayFactory interface {
	NewGateway(auth models.MagentoAuth) (CatalogGateway, error)
}
