package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"price-manager-service/models"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RequestTimeout is the fixed per-call timeout towards Magento.
const RequestTimeout = 30 * time.Second

// AllStoresCode is the scope segment used for unscoped calls.
const AllStoresCode = "all"

// MagentoGateway implements CatalogGateway over the Magento REST API.
type MagentoGateway struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewMagentoGateway creates a gateway for the given installation and credentials.
func NewMagentoGateway(auth models.MagentoAuth, timeout time.Duration, logger *zap.Logger) (*MagentoGateway, error) {
	baseURL := auth.BaseURL()
	if baseURL == "" {
		return nil, fmt.Errorf("%w: magento_url is required", ErrMissingCredentials)
	}
	client, err := newAuthenticatedClient(auth, timeout, nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MagentoGateway{baseURL: baseURL, httpClient: client, logger: logger}, nil
}

// BaseURL implements CatalogGateway.
func (g *MagentoGateway) BaseURL() string { return g.baseURL }

// URL joins base URL, store scope, API version and endpoint.
func (g *MagentoGateway) URL(storeCode, endpoint string) string {
	scope := storeCode
	if scope == "" {
		scope = AllStoresCode
	}
	return fmt.Sprintf("%s/rest/%s/V1%s", g.baseURL, scope, endpoint)
}

// Call implements CatalogGateway. No retries are attempted.
func (g *MagentoGateway) Call(ctx context.Context, req Request, out interface{}) error {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("marshal magento request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	target := g.URL(req.StoreCode, req.Endpoint)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return &GatewayError{Kind: KindGatewayUnreachable, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.logger.Warn("magento call failed",
			zap.String("method", req.Method),
			zap.String("endpoint", req.Endpoint),
			zap.Error(err),
		)
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}

	g.logger.Debug("magento call",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &GatewayError{Kind: KindAuthenticationFailed, Status: resp.StatusCode, Body: string(respBody)}
	case resp.StatusCode == http.StatusNotFound:
		return &GatewayError{Kind: KindNotFound, Status: resp.StatusCode, Body: string(respBody)}
	case resp.StatusCode >= 400:
		g.logger.Error("magento API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", Truncate(string(respBody), 500)),
		)
		return &GatewayError{Kind: KindRemoteRejected, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode magento response: %w", err)
	}
	return nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &GatewayError{Kind: KindGatewayTimeout, Err: err}
	}
	return &GatewayError{Kind: KindGatewayUnreachable, Err: err}
}

// MagentoGatewayFactory builds MagentoGateway values per request.
type MagentoGatewayFactory struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewMagentoGatewayFactory creates a factory using the fixed RequestTimeout.
func NewMagentoGatewayFactory(logger *zap.Logger) *MagentoGatewayFactory {
	return &MagentoGatewayFactory{timeout: RequestTimeout, logger: logger}
}

// NewGateway implements GatewayFactory.
func (f *MagentoGatewayFactory) NewGateway(auth models.MagentoAuth) (CatalogGateway, error) {
	return NewMagentoGateway(auth, f.timeout, f.logger)
}
