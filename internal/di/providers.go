package di

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/handler/api"
	mid "MarketPulse/internal/middleware"
	internalrepo "MarketPulse/internal/repository"
	icache "MarketPulse/internal/service/cache"
	"MarketPulse/internal/service/feeds"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/service/stream"
	"MarketPulse/internal/services/classify"
	"MarketPulse/internal/usecase"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	"MarketPulse/pkg/docstore"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	pkgmetrics "MarketPulse/pkg/metrics"
	pkgqueue "MarketPulse/pkg/queue"
	"MarketPulse/pkg/server"

	kafkago "github.com/segmentio/kafka-go"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS marketpulse",
		"CREATE TABLE IF NOT EXISTS marketpulse.eod_bars (" +
			"symbol String, d Date, open Float64, high Float64, low Float64, " +
			"close Float64, adj_close Float64, volume Float64, ver DateTime DEFAULT now()" +
			") ENGINE=ReplacingMergeTree(ver) ORDER BY (symbol, d)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideDocStore creates the Redis document store.
func ProvideDocStore(cfg *config.Config) (*docstore.RedisStore, error) {
	return docstore.NewRedisStore(
		docstore.WithRedisHost(cfg.Redis.Host),
		docstore.WithRedisPort(cfg.Redis.Port),
		docstore.WithRedisPassword(cfg.Redis.Password),
		docstore.WithRedisDB(cfg.Redis.DB),
		docstore.WithRedisPrefix(cfg.Redis.Prefix),
		docstore.WithDefaultLimit(cfg.Redis.DefaultLimit),
	)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return pkgmetrics.New()
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient() *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(30 * time.Second))
}

// ProvideRateLimiter creates the shared token-bucket limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideOpportunityPublisher creates the Kafka publisher, or nil when
// Kafka is off. The opportunities use case treats nil as "do not publish".
func ProvideOpportunityPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.OpportunityTopic)
}

// consumerHook threads trace metadata through message handling and counts
// handler failures.
func consumerHook(metrics domrepo.Metrics, l *applogger.Logger) pkgkafka.ConsumerHook {
	trace := pkgkafka.HookFuncs{
		Before: func(ctx context.Context, topic string, km kafkago.Message, data []byte) (context.Context, kafkago.Message, []byte, error) {
			ctx = pkgkafka.WithStartTime(ctx, time.Now())
			ctx = pkgkafka.WithTraceID(ctx, pkgkafka.ExtractTraceID(km))
			return ctx, km, data, nil
		},
	}
	failures := pkgkafka.HookFuncs{
		Err: func(ctx context.Context, topic string, km kafkago.Message, data []byte, err error) {
			metrics.RecordError("kafka_consume")
			if l != nil {
				l.Warn("kafka message failed",
					applogger.String("topic", topic),
					applogger.Error(err),
				)
			}
		},
	}
	return pkgkafka.NewHookChain(trace, failures)
}

// ProvideKafkaConsumer creates a Kafka consumer, or nil when Kafka is off.
func ProvideKafkaConsumer(cfg *config.Config, metrics domrepo.Metrics, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(consumerHook(metrics, l))
	return consumer, nil
}

// ProvideNewsSources builds the configured feed collaborators.
func ProvideNewsSources(cfg *config.Config, client *xhttp.Client, limiter *ratelimit.Limiter, l *applogger.Logger) []domrepo.NewsSource {
	var sources []domrepo.NewsSource
	if cfg.Feeds.GDELTEnabled {
		sources = append(sources, feeds.NewGDELT(client, l))
	}
	sources = append(sources, feeds.NewRSS(cfg.Feeds.RSSFeeds, client, l))
	if cfg.Feeds.AlphaVantageKey != "" {
		sources = append(sources, feeds.NewAlphaVantage(cfg.Feeds.AlphaVantageKey, client, limiter))
	}
	return sources
}

// ProvideBarProvider creates the EOD bar provider.
func ProvideBarProvider(cfg *config.Config, client *xhttp.Client, limiter *ratelimit.Limiter) domrepo.BarProvider {
	return feeds.NewAlphaVantage(cfg.Feeds.AlphaVantageKey, client, limiter)
}

// ProvideBarStore creates the ClickHouse bar store.
func ProvideBarStore(chClient *pkgch.Client, l *applogger.Logger) domrepo.BarStore {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideNewsPipeline wraps the raw news store with intake hygiene.
func ProvideNewsPipeline(store *docstore.RedisStore, metrics domrepo.Metrics, cfg *config.Config) *mid.NewsPipeline {
	var opts []mid.PipelineOption
	if cfg.Pipeline.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Pipeline.MaxRPS))
	}
	if cfg.Pipeline.BufferSize > 0 {
		opts = append(opts, mid.WithBufferSize(cfg.Pipeline.BufferSize))
	}
	return mid.NewNewsPipeline(internalrepo.NewDocNewsStore(store), metrics, opts...)
}

// ProvideNewsStore exposes the pipeline as the news store every writer uses.
func ProvideNewsStore(pipeline *mid.NewsPipeline) domrepo.NewsStore {
	return pipeline
}

// ProvideIncidentStore creates the incident store.
func ProvideIncidentStore(store *docstore.RedisStore) domrepo.IncidentStore {
	return internalrepo.NewDocIncidentStore(store)
}

// ProvideEventStore creates the event store.
func ProvideEventStore(store *docstore.RedisStore) domrepo.EventStore {
	return internalrepo.NewDocEventStore(store)
}

// ProvideSignalStore creates the signal store.
func ProvideSignalStore(store *docstore.RedisStore) domrepo.SignalStore {
	return internalrepo.NewDocSignalStore(store)
}

// ProvideOpportunityStore creates the opportunity store.
func ProvideOpportunityStore(store *docstore.RedisStore) domrepo.OpportunityStore {
	return internalrepo.NewDocOpportunityStore(store)
}

// ProvideClassifier builds the rule classifier, with the external HTTP
// classifier as optional fallback.
func ProvideClassifier(cfg *config.Config, client *xhttp.Client) *classify.Classifier {
	if cfg.Classifier.Endpoint != "" {
		return classify.New(classify.NewHTTPClassifier(cfg.Classifier.Endpoint, cfg.Classifier.APIKey, client))
	}
	return classify.New(nil)
}

// ProvideStreamHub creates the WebSocket broadcast hub.
func ProvideStreamHub(cfg *config.Config, l *applogger.Logger) *stream.Hub {
	var opts []stream.HubOption
	if cfg.Stream.PingInterval > 0 {
		opts = append(opts, stream.WithPingInterval(cfg.Stream.PingInterval))
	}
	return stream.NewHub(l, opts...)
}

// ProvideIngestUseCase creates the ingest use case.
func ProvideIngestUseCase(
	sources []domrepo.NewsSource,
	bars domrepo.BarProvider,
	newsStore domrepo.NewsStore,
	barStore domrepo.BarStore,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *usecase.IngestUseCase {
	return usecase.NewIngestUseCase(sources, bars, newsStore, barStore, metrics, l)
}

// ProvideEnrichUseCase creates the enrich use case.
func ProvideEnrichUseCase(
	newsStore domrepo.NewsStore,
	incidentStore domrepo.IncidentStore,
	eventStore domrepo.EventStore,
	classifier *classify.Classifier,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *usecase.EnrichUseCase {
	return usecase.NewEnrichUseCase(newsStore, incidentStore, eventStore, classifier, metrics, l)
}

// ProvideSignalsUseCase creates the signals use case.
func ProvideSignalsUseCase(
	incidentStore domrepo.IncidentStore,
	signalStore domrepo.SignalStore,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *usecase.SignalsUseCase {
	return usecase.NewSignalsUseCase(incidentStore, signalStore, metrics, l)
}

// ProvideOpportunitiesUseCase creates the opportunities use case. The hub is
// the live notifier; the publisher may be nil when Kafka is off.
func ProvideOpportunitiesUseCase(
	eventStore domrepo.EventStore,
	oppStore domrepo.OpportunityStore,
	publisher domrepo.Publisher,
	hub *stream.Hub,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *usecase.OpportunitiesUseCase {
	return usecase.NewOpportunitiesUseCase(eventStore, oppStore, publisher, hub, metrics, l)
}

// ProvideBacktestUseCase creates the backtest use case.
func ProvideBacktestUseCase(
	signalStore domrepo.SignalStore,
	barStore domrepo.BarStore,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *usecase.BacktestUseCase {
	return usecase.NewBacktestUseCase(signalStore, barStore, metrics, l)
}

// ProvideDailyUseCase creates the daily orchestrator, locked through the
// document store so overlapping scheduled runs are rejected.
func ProvideDailyUseCase(
	ingest *usecase.IngestUseCase,
	enrich *usecase.EnrichUseCase,
	signals *usecase.SignalsUseCase,
	opportunities *usecase.OpportunitiesUseCase,
	store *docstore.RedisStore,
	l *applogger.Logger,
) *usecase.DailyUseCase {
	return usecase.NewDailyUseCase(ingest, enrich, signals, opportunities, store, l)
}

// ProvideKafkaNewsHandler registers the handler for the raw news topic.
func ProvideKafkaNewsHandler(newsStore domrepo.NewsStore, metrics domrepo.Metrics, cfg *config.Config) *usecase.KafkaNewsHandler {
	return usecase.NewKafkaNewsHandler(cfg.Kafka.NewsTopic, newsStore, metrics)
}

// ProvideQueue creates the Redis job queue with the pipeline jobs registered.
func ProvideQueue(
	cfg *config.Config,
	store *docstore.RedisStore,
	l *applogger.Logger,
	ingest *usecase.IngestUseCase,
	enrich *usecase.EnrichUseCase,
	signals *usecase.SignalsUseCase,
	opportunities *usecase.OpportunitiesUseCase,
	daily *usecase.DailyUseCase,
) *pkgqueue.RedisQueue {
	workers := cfg.Pipeline.QueueWorkers
	if workers <= 0 {
		workers = 2
	}
	jobs := []pkgqueue.Job{
		usecase.NewIngestJob(ingest, l),
		usecase.NewEnrichJob(enrich, l),
		usecase.NewSignalsJob(signals, l),
		usecase.NewOpportunitiesJob(opportunities, l),
		usecase.NewDailyJob(daily, l),
	}
	return pkgqueue.NewRedisConsumer(l, &pkgqueue.QueueConfig{
		Workers:    workers,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, store.Client(), jobs, pkgqueue.WithKeyPrefix("marketpulse:queue"))
}

// ProvideHandlers assembles every HTTP handler.
func ProvideHandlers(
	cfg *config.Config,
	store *docstore.RedisStore,
	l *applogger.Logger,
	ingest *usecase.IngestUseCase,
	enrich *usecase.EnrichUseCase,
	signals *usecase.SignalsUseCase,
	opportunities *usecase.OpportunitiesUseCase,
	daily *usecase.DailyUseCase,
	backtest *usecase.BacktestUseCase,
	oppStore domrepo.OpportunityStore,
	hub *stream.Hub,
) server.Handlers {
	cron := api.NewCronHandler(l, cfg.Cron.Secret, ingest, enrich, signals, opportunities, daily)

	opps := api.NewOpportunitiesHandler(oppStore)
	opps.SetLogger(l)
	opps.SetCache(icache.NewRedisCacheFromClient(store.Client()))

	bt := api.NewBacktestHandler(backtest)
	bt.SetLogger(l)

	return server.Handlers{cron, opps, bt, api.NewStreamHandler(hub, l)}
}

// kafkaLogSink ships aggregated log batches to a Kafka topic.
type kafkaLogSink struct {
	producer *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal log batch: %w", err)
	}
	return s.producer.Publish(ctx, topic, nil, b)
}

// ProvideApp creates the application server. When Kafka is on, error logs
// are additionally aggregated and shipped as batches.
func ProvideApp(
	cfg *config.Config,
	handlers server.Handlers,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaNewsHandler,
	queue *pkgqueue.RedisQueue,
	pipeline *mid.NewsPipeline,
	hub *stream.Hub,
	chClient *pkgch.Client,
	store *docstore.RedisStore,
	publisher domrepo.Publisher,
	l *applogger.Logger,
) *server.App {
	if producer != nil && l != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "marketpulse.logs",
			Publisher:      kafkaLogSink{producer: producer},
		})
	}
	return server.New(cfg, handlers, consumer, kh, queue, pipeline, hub, chClient, store, publisher, l)
}
