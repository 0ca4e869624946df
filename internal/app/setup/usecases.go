package setup

import (
	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/order"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/payout"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/release"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/webhook"
	"github.com/shopspring/decimal"
)

type UseCases struct {
	OrderUsecase   *order.DefaultOrderUsecase
	PayoutUsecase  *payout.DefaultPayoutUsecase
	DisputeUsecase *dispute.DefaultDisputeUsecase
	ReleaseUsecase *release.DefaultReleaseUsecase
	WebhookUsecase *webhook.DefaultWebhookUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	repos := deps.Repositories

	orderUsecase := order.NewDefaultOrderUsecase(
		repos.OrderRepo,
		repos.AuditRepo,
		repos.DisputeRepo,
		repos.Parties,
		deps.Cards,
		deps.Publisher,
		deps.Metrics,
		QuoteRules(deps.Config.Quote),
	)

	payoutUsecase := payout.NewDefaultPayoutUsecase(
		repos.Parties,
		repos.AuditRepo,
		map[domain.PaymentMethod]payout.Rail{
			domain.MethodCard:   payout.NewCardRail(deps.Cards),
			domain.MethodMomo:   payout.NewMobileMoneyRail(domain.MethodMomo, deps.Momo),
			domain.MethodAirtel: payout.NewMobileMoneyRail(domain.MethodAirtel, deps.Airtel),
			domain.MethodBank:   payout.NewBankRail(),
		},
		deps.Metrics,
	)

	disputeUsecase := dispute.NewDefaultDisputeUsecase(
		repos.DisputeRepo,
		repos.OrderRepo,
		deps.Publisher,
		deps.Alerter,
		deps.Metrics,
	)

	releaseUsecase := release.NewDefaultReleaseUsecase(
		repos.OrderRepo,
		orderUsecase,
		payoutUsecase,
		disputeUsecase,
		deps.Locker,
		deps.Metrics,
	)

	webhookUsecase := webhook.NewDefaultWebhookUsecase(
		deps.Webhooks,
		repos.OrderRepo,
		orderUsecase,
		deps.Metrics,
	)

	return &UseCases{
		OrderUsecase:   orderUsecase,
		PayoutUsecase:  payoutUsecase,
		DisputeUsecase: disputeUsecase,
		ReleaseUsecase: releaseUsecase,
		WebhookUsecase: webhookUsecase,
	}
}

// QuoteRules converts the configured fee schedule to exact decimals.
func QuoteRules(cfg config.Quote) domain.QuoteRules {
	return domain.QuoteRules{
		DepositPercent:    decimal.NewFromFloat(cfg.DepositPercent),
		ServiceFeeRate:    decimal.NewFromFloat(cfg.ServiceFeeRate),
		ServiceFeeMinimum: decimal.NewFromFloat(cfg.ServiceFeeMinimum),
		InsuranceFee:      decimal.NewFromFloat(cfg.InsuranceFee),
	}
}
