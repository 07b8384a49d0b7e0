package repository

import (
	"context"
	"errors"
	"fmt"
	"price-manager-service/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const configCollection = "magento_config"

type configDocument struct {
	ID                string `bson:"_id"`
	MagentoURL        string `bson:"magento_url"`
	AuthType          string `bson:"auth_type,omitempty"`
	AccessToken       string `bson:"access_token,omitempty"`
	AccessTokenSecret string `bson:"access_token_secret,omitempty"`
	ConsumerKey       string `bson:"consumer_key,omitempty"`
	ConsumerSecret    string `bson:"consumer_secret,omitempty"`
	UpdatedAt         string `bson:"updated_at,omitempty"`
}

// Percentages are stored as strings so no precision is lost.
type vatRateDocument struct {
	StoreID        int    `bson:"store_id"`
	StoreName      string `bson:"store_name"`
	VatRatePercent string `bson:"vat_rate_percent"`
}

type vatRatesDocument struct {
	ID    string            `bson:"_id"`
	Rates []vatRateDocument `bson:"rates"`
}

// MongoConfigRepository keeps both documents in the magento_config collection.
type MongoConfigRepository struct {
	collection *mongo.Collection
}

func NewMongoConfigRepository(db *mongo.Database) *MongoConfigRepository {
	return &MongoConfigRepository{collection: db.Collection(configCollection)}
}

func (r *MongoConfigRepository) SaveConfig(ctx context.Context, cfg *models.SavedConfig) error {
	doc := configDocument{
		ID:                configDocumentID,
		MagentoURL:        cfg.MagentoURL,
		AuthType:          cfg.AuthType,
		AccessToken:       cfg.AccessToken,
		AccessTokenSecret: cfg.AccessTokenSecret,
		ConsumerKey:       cfg.ConsumerKey,
		ConsumerSecret:    cfg.ConsumerSecret,
		UpdatedAt:         cfg.UpdatedAt,
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": configDocumentID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func (r *MongoConfigRepository) LoadConfig(ctx context.Context) (*models.SavedConfig, error) {
	var doc configDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": configDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &models.SavedConfig{
		MagentoAuth: models.MagentoAuth{
			MagentoURL:        doc.MagentoURL,
			AuthType:          doc.AuthType,
			AccessToken:       doc.AccessToken,
			AccessTokenSecret: doc.AccessTokenSecret,
			ConsumerKey:       doc.ConsumerKey,
			ConsumerSecret:    doc.ConsumerSecret,
		},
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (r *MongoConfigRepository) SaveVatRates(ctx context.Context, rates []models.VatRate) error {
	doc := vatRatesDocument{ID: vatRatesDocumentID, Rates: make([]vatRateDocument, 0, len(rates))}
	for _, rate := range rates {
		doc.Rates = append(doc.Rates, vatRateDocument{
			StoreID:        rate.StoreID,
			StoreName:      rate.StoreName,
			VatRatePercent: rate.VatRatePercent.String(),
		})
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": vatRatesDocumentID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save vat rates: %w", err)
	}
	return nil
}

func (r *MongoConfigRepository) LoadVatRates(ctx context.Context) ([]models.VatRate, error) {
	var doc vatRatesDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": vatRatesDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.VatRate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vat rates: %w", err)
	}
	return vatRatesFromDocuments(doc.Rates)
}

func vatRatesFromDocuments(docs []vatRateDocument) ([]models.VatRate, error) {
	rates := make([]models.VatRate, 0, len(docs))
	for _, d := range docs {
		pct, err := decimal.NewFromString(d.VatRatePercent)
		if err != nil {
			return nil, fmt.Errorf("store %d: invalid vat rate %q: %w", d.StoreID, d.VatRatePercent, err)
		}
		rates = append(rates, models.VatRate{StoreID: d.StoreID, StoreName: d.StoreName, VatRatePercent: pct})
	}
	return rates, nil
}
