package repository

import (
	"context"
	"fmt"
	"price-manager-service/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoConfigRepository.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type ddbConfig struct {
	ConfigID          string `dynamodbav:"config_id"`
	MagentoURL        string `dynamodbav:"magento_url"`
	AuthType          string `dynamodbav:"auth_type,omitempty"`
	AccessToken       string `dynamodbav:"access_token,omitempty"`
	AccessTokenSecret string `dynamodbav:"access_token_secret,omitempty"`
	ConsumerKey       string `dynamodbav:"consumer_key,omitempty"`
	ConsumerSecret    string `dynamodbav:"consumer_secret,omitempty"`
	UpdatedAt         string `dynamodbav:"updated_at,omitempty"`
}

type ddbVatRate struct {
	StoreID        int    `dynamodbav:"store_id"`
	StoreName      string `dynamodbav:"store_name"`
	VatRatePercent string `dynamodbav:"vat_rate_percent"`
}

type ddbVatRates struct {
	ConfigID string       `dynamodbav:"config_id"`
	Rates    []ddbVatRate `dynamodbav:"rates"`
}

// DynamoConfigRepository stores the config items in a table keyed by config_id.
type DynamoConfigRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoConfigRepository(client DynamoAPI, table string) *DynamoConfigRepository {
	return &DynamoConfigRepository{client: client, table: table}
}

func (r *DynamoConfigRepository) SaveConfig(ctx context.Context, cfg *models.SavedConfig) error {
	return r.put(ctx, ddbConfig{
		ConfigID:          configDocumentID,
		MagentoURL:        cfg.MagentoURL,
		AuthType:          cfg.AuthType,
		AccessToken:       cfg.AccessToken,
		AccessTokenSecret: cfg.AccessTokenSecret,
		ConsumerKey:       cfg.ConsumerKey,
		ConsumerSecret:    cfg.ConsumerSecret,
		UpdatedAt:         cfg.UpdatedAt,
	})
}

func (r *DynamoConfigRepository) LoadConfig(ctx context.Context) (*models.SavedConfig, error) {
	var item ddbConfig
	found, err := r.get(ctx, configDocumentID, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &models.SavedConfig{
		MagentoAuth: models.MagentoAuth{
			MagentoURL:        item.MagentoURL,
			AuthType:          item.AuthType,
			AccessToken:       item.AccessToken,
			AccessTokenSecret: item.AccessTokenSecret,
			ConsumerKey:       item.ConsumerKey,
			ConsumerSecret:    item.ConsumerSecret,
		},
		UpdatedAt: item.UpdatedAt,
	}, nil
}

func (r *DynamoConfigRepository) SaveVatRates(ctx context.Context, rates []models.VatRate) error {
	item := ddbVatRates{ConfigID: vatRatesDocumentID, Rates: make([]ddbVatRate, 0, len(rates))}
	for _, rate := range rates {
		item.Rates = append(item.Rates, ddbVatRate{
			StoreID:        rate.StoreID,
			StoreName:      rate.StoreName,
			VatRatePercent: rate.VatRatePercent.String(),
		})
	}
	return r.put(ctx, item)
}

func (r *DynamoConfigRepository) LoadVatRates(ctx context.Context) ([]models.VatRate, error) {
	var item ddbVatRates
	found, err := r.get(ctx, vatRatesDocumentID, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.VatRate{}, nil
	}
	docs := make([]vatRateDocument, 0, len(item.Rates))
	for _, rate := range item.Rates {
		docs = append(docs, vatRateDocument(rate))
	}
	return vatRatesFromDocuments(docs)
}

func (r *DynamoConfigRepository) get(ctx context.Context, id string, out interface{}) (bool, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"config_id": id})
	if err != nil {
		return false, fmt.Errorf("marshal key: %w", err)
	}
	res, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &r.table, Key: key})
	if err != nil {
		return false, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return false, fmt.Errorf("unmarshal item: %w", err)
	}
	return true, nil
}

func (r *DynamoConfigRepository) put(ctx context.Context, in interface{}) error {
	item, err := attributevalue.MarshalMap(in)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}
