package providers

import (
	"context"
	"fmt"
	"net/http"
	"price-manager-service/models"
	"time"

	"github.com/dghubble/oauth1"
)

// bearerTransport adds a static integration token to every request.
type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(r)
}

// newAuthenticatedClient returns an http.Client that signs requests with the
// scheme selected by auth. base may be nil.
func newAuthenticatedClient(auth models.MagentoAuth, timeout time.Duration, base http.RoundTripper) (*http.Client, error) {
	if base == nil {
		base = http.DefaultTransport
	}

	switch auth.Scheme() {
	case models.AuthTypeBearer:
		if auth.AccessToken == "" {
			return nil, fmt.Errorf("%w: access_token is required", ErrMissingCredentials)
		}
		return &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{token: auth.AccessToken, base: base},
		}, nil

	case models.AuthTypeOAuth1:
		if auth.ConsumerKey == "" || auth.ConsumerSecret == "" || auth.AccessToken == "" || auth.AccessTokenSecret == "" {
			return nil, fmt.Errorf("%w: consumer_key, consumer_secret, access_token and access_token_secret are required", ErrMissingCredentials)
		}
		config := oauth1.NewConfig(auth.ConsumerKey, auth.ConsumerSecret)
		config.Signer = &oauth1.HMAC256Signer{ConsumerSecret: auth.ConsumerSecret}
		token := oauth1.NewToken(auth.AccessToken, auth.AccessTokenSecret)

		ctx := context.WithValue(context.Background(), oauth1.HTTPClient, &http.Client{Transport: base})
		client := config.Client(ctx, token)
		client.Timeout = timeout
		return client, nil

	default:
		return nil, fmt.Errorf("%w: unsupported auth_type %q", ErrMissingCredentials, auth.AuthType)
	}
}
