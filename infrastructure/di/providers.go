package di

import (
	"context"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"inquiry-backend/application/ports"
	"inquiry-backend/application/services"
	"inquiry-backend/infrastructure/config"
	"inquiry-backend/infrastructure/generation"
	"inquiry-backend/infrastructure/persistence/dynamodb"
	"inquiry-backend/infrastructure/persistence/memory"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
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

// ProvideComplexStore creates the durable snapshot store
func ProvideComplexStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ComplexStore {
	return dynamodb.NewComplexStore(client, cfg.SnapshotTable, logger)
}

// ProvideComplexRegistry creates the in-memory registry of live complexes
func ProvideComplexRegistry(logger *zap.Logger) ports.ComplexRegistry {
	return memory.NewComplexRegistry(logger)
}

// ProvideGenerator creates the OpenAI-backed content generator
func ProvideGenerator(cfg *config.Config, logger *zap.Logger) ports.ContentGenerator {
	return generation.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
}

// ProvideGenerationParams builds the sampling parameters passed on every
// generator call
func ProvideGenerationParams(cfg *config.Config) ports.GenerationParams {
	return ports.GenerationParams{
		Temperature: float32(cfg.GenTemperature),
		MaxTokens:   cfg.GenMaxTokens,
	}
}

// ProvideRand creates the planner's randomness source. A zero seed means
// non-reproducible runs.
func ProvideRand(cfg *config.Config) *rand.Rand {
	seed := cfg.PlannerSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// ProvideComplexService creates the complex lifecycle service
func ProvideComplexService(
	registry ports.ComplexRegistry,
	store ports.ComplexStore,
	generator ports.ContentGenerator,
	genParams ports.GenerationParams,
	logger *zap.Logger,
) *services.ComplexService {
	return services.NewComplexService(registry, store, generator, genParams, logger)
}

// ProvideExpansionService creates the expansion service
func ProvideExpansionService(
	registry ports.ComplexRegistry,
	generator ports.ContentGenerator,
	genParams ports.GenerationParams,
	logger *zap.Logger,
) *services.ExpansionService {
	return services.NewExpansionService(registry, generator, genParams, logger)
}

// ProvidePlannerService creates the auto-expansion planner
func ProvidePlannerService(
	registry ports.ComplexRegistry,
	expansion *services.ExpansionService,
	rng *rand.Rand,
	cfg *config.Config,
	logger *zap.Logger,
) *services.PlannerService {
	return services.NewPlannerService(
		registry,
		expansion,
		rng,
		cfg.SynthesisProbability,
		time.Duration(cfg.AutoExpandDelayMillis)*time.Millisecond,
		logger,
	)
}

// ProvideAnalyzerService creates the analyzer service
func ProvideAnalyzerService(
	registry ports.ComplexRegistry,
	generator ports.ContentGenerator,
	genParams ports.GenerationParams,
	logger *zap.Logger,
) *services.AnalyzerService {
	return services.NewAnalyzerService(registry, generator, genParams, logger)
}
