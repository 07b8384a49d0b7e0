package models

import "strings"

// Magento authentication schemes.
const (
	AuthTypeBearer = "bearer"
	AuthTypeOAuth1 = "oauth1"
)

// MagentoAuth identifies one Magento installation and the credentials used to call it.
// JSON bodies carry it flattened next to the operation fields; the import
// endpoint binds it from the query string.
type MagentoAuth struct {
	MagentoURL        string `json:"magento_url" form:"magento_url" binding:"required"`
	AuthType          string `json:"auth_type,omitempty" form:"auth_type" binding:"omitempty,oneof=bearer oauth1"`
	AccessToken       string `json:"access_token" form:"access_token"`
	AccessTokenSecret string `json:"access_token_secret,omitempty" form:"access_token_secret"`
	ConsumerKey       string `json:"consumer_key,omitempty" form:"consumer_key"`
	ConsumerSecret    string `json:"consumer_secret,omitempty" form:"consumer_secret"`
}

// Scheme returns the effective auth scheme. An explicit auth_type wins,
// otherwise the presence of a consumer key selects OAuth1.
func (a MagentoAuth) Scheme() string {
	if a.AuthType != "" {
		return a.AuthType
	}
	if a.ConsumerKey != "" {
		return AuthTypeOAuth1
	}
	return AuthTypeBearer
}

// BaseURL is the Magento URL without trailing slashes.
func (a MagentoAuth) BaseURL() string {
	return strings.TrimRight(strings.TrimSpace(a.MagentoURL), "/")
}

// StoreView is a Magento store view as returned by GET /store/storeViews.
type StoreView struct {
	ID           int    `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	WebsiteID    int    `json:"website_id"`
	StoreGroupID int    `json:"store_group_id"`
}

// SavedConfig is the persisted connection configuration.
type SavedConfig struct {
	MagentoAuth
	UpdatedAt string `json:"updated_at,omitempty"`
}
