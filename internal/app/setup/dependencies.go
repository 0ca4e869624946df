package setup

import (
	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/cardprocessor"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/locker"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/mobilemoney"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.EscrowConfig
	DB           *gorm.DB
	Redis        *redis.Client
	Broker       *kafka.DefaultKafkaPublisher
	Publisher    domain.EventPublisher
	Locker       domain.ReleaseLocker
	Cards        *cardprocessor.StripeProcessor
	Webhooks     *cardprocessor.WebhookParser
	Momo         *mobilemoney.HTTPProvider
	Airtel       *mobilemoney.HTTPProvider
	Alerter      domain.AdminAlerter
	Registry     *prometheus.Registry
	Metrics      *metrics.EscrowMetrics
	Repositories *Repositories
}

type Repositories struct {
	OrderRepo   domain.OrderRepository
	AuditRepo   domain.PayoutAuditRepository
	DisputeRepo domain.DisputeRepository
	Parties     domain.PartyDirectory
}

func InitializeDependencies(cfg *config.EscrowConfig) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)

	deps := &Dependencies{
		Config:  cfg,
		DB:      db,
		Alerter: notifier.NewWebhookAlerter(cfg.Alerts.WebhookURL),
		Repositories: &Repositories{
			OrderRepo:   repository.NewDefaultOrderRepository(db),
			AuditRepo:   repository.NewDefaultPayoutAuditRepository(db),
			DisputeRepo: repository.NewDefaultDisputeRepository(db),
			Parties:     repository.NewDefaultPartyRepository(db),
		},
	}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = metrics.NewEscrowMetrics(deps.Registry)

	if cfg.Redis.URL != "" {
		deps.Redis = locker.MustConnectRedis(cfg.Redis.URL)
		deps.Locker = locker.NewRedisLocker(deps.Redis, cfg.Redis.LockTTL)
	} else {
		deps.Locker = locker.NewLocalLocker()
	}

	if cfg.Kafka.Enabled {
		deps.Broker = kafka.NewDefaultKafkaPublisher(cfg.Kafka.Brokers)
		deps.Publisher = kafka.NewEventPublisher(deps.Broker, cfg.Kafka.EscrowTopic, cfg.Kafka.DisputeTopic)
	} else {
		deps.Publisher = kafka.NoopPublisher{}
	}

	deps.Cards = cardprocessor.NewStripeProcessor(cardprocessor.Config{
		SecretKey:  cfg.Stripe.SecretKey,
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
		Timeout:    cfg.Stripe.Timeout,
	})
	deps.Webhooks = cardprocessor.NewWebhookParser(cfg.Stripe.WebhookSecret, cfg.Stripe.RequireSignature)

	deps.Momo = mobilemoney.NewHTTPProvider(string(domain.MethodMomo), cfg.MobileMoney.Momo.Endpoint, cfg.MobileMoney.Momo.APIKey, cfg.MobileMoney.Timeout)
	deps.Airtel = mobilemoney.NewHTTPProvider(string(domain.MethodAirtel), cfg.MobileMoney.Airtel.Endpoint, cfg.MobileMoney.Airtel.APIKey, cfg.MobileMoney.Timeout)

	return deps, nil
}

// Close releases broker and cache connections. The database pool is closed by
// the caller after the servers have drained.
func (d *Dependencies) Close() {
	if d.Broker != nil {
		_ = d.Broker.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
}
