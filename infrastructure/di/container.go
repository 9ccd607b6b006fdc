// Package di wires the application's dependencies. The graph is small enough
// to hand-wire with provider functions.
package di

import (
	"context"

	"notebookmark-backend/application/services"
	"notebookmark-backend/domain"
	"notebookmark-backend/infrastructure/ai"
	"notebookmark-backend/infrastructure/config"
	"notebookmark-backend/infrastructure/persistence/blob"
	dynamostore "notebookmark-backend/infrastructure/persistence/dynamodb"
	"notebookmark-backend/infrastructure/scraper"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Storage *services.StorageService
	Scraper *scraper.Scraper
	Intro   *ai.IntroGenerator
}

// InitializeContainer builds the dependency graph for one process.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dynamoClient := ProvideDynamoDBClient(awsCfg)
	blobStore := blob.NewStore(ProvideS3Client(awsCfg), cfg.AWSRegion, logger)

	storage := services.NewStorageService(
		dynamostore.NewTableStore[domain.Post](dynamoClient, cfg.PostsTable, logger),
		dynamostore.NewTableStore[domain.Note](dynamoClient, cfg.NotesTable, logger),
		dynamostore.NewTableStore[domain.Summary](dynamoClient, cfg.SummaryTable, logger),
		dynamostore.NewTableStore[domain.Settings](dynamoClient, cfg.SettingsTable, logger),
		blobStore,
		logger,
	)

	container := &Container{
		Config:  cfg,
		Logger:  logger,
		Storage: storage,
		Scraper: scraper.New(logger),
	}
	if cfg.OpenAIAPIKey != "" {
		container.Intro = ai.NewIntroGenerator(cfg.OpenAIAPIKey)
	}
	return container, nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *s3.Client {
	return s3.NewFromConfig(awsCfg)
}
