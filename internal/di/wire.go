//go:build wireinject
// +build wireinject

package di

import (
	"MarketPulse/pkg/config"
	"MarketPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Foundation
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,
		ProvideRateLimiter,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideDocStore,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Feed collaborators
		ProvideNewsSources,
		ProvideBarProvider,
		ProvideClassifier,

		// Stores
		ProvideNewsPipeline,
		ProvideNewsStore,
		ProvideBarStore,
		ProvideIncidentStore,
		ProvideEventStore,
		ProvideSignalStore,
		ProvideOpportunityStore,
		ProvideOpportunityPublisher,

		// Realtime
		ProvideStreamHub,

		// Use cases
		ProvideIngestUseCase,
		ProvideEnrichUseCase,
		ProvideSignalsUseCase,
		ProvideOpportunitiesUseCase,
		ProvideBacktestUseCase,
		ProvideDailyUseCase,
		ProvideKafkaNewsHandler,
		ProvideQueue,

		// Application server
		ProvideHandlers,
		ProvideApp,
	)
	return &server.App{}, nil
}
