//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"inquiry-backend/application/services"
	"inquiry-backend/infrastructure/config"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Complexes *services.ComplexService
	Expansion *services.ExpansionService
	Planner   *services.PlannerService
	Analyzer  *services.AnalyzerService
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideComplexStore,
	ProvideComplexRegistry,
	ProvideGenerator,
	ProvideGenerationParams,
	ProvideRand,
	ProvideComplexService,
	ProvideExpansionService,
	ProvidePlannerService,
	ProvideAnalyzerService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
