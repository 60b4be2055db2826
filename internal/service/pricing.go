package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/store"
)

const (
	JobCalculatePrices = "calculateprices"
	JobUpdatePrices    = "updatePrices"
)

var (
	lbpStep = decimal.NewFromInt(500)
	usdStep = decimal.New(1, -2)
)

// ceilTo rounds v up to the next multiple of step.
func ceilTo(v, step decimal.Decimal) decimal.Decimal {
	return v.Div(step).Ceil().Mul(step)
}

func (s *Service) exchangeRate() (decimal.Decimal, error) {
	rate := decimal.NewFromFloat(s.pricing.USDLBP)
	if !rate.IsPositive() {
		return decimal.Zero, invalid("USD to LBP exchange rate is not defined")
	}
	return rate, nil
}

// CalculatePrices fills whichever cost is zero from the other one: costUSD
// rounded up to the cent, costLBP rounded up to 500.
func (s *Service) CalculatePrices(ctx context.Context) ([]domain.Product, error) {
	return s.repriceProducts(ctx, JobCalculatePrices, func(rate decimal.Decimal, p *domain.Product) {
		if p.CostUSD == 0 {
			p.CostUSD = ceilTo(decimal.NewFromFloat(p.CostLBP).Div(rate), usdStep).InexactFloat64()
		}
		if p.CostLBP == 0 {
			p.CostLBP = ceilTo(decimal.NewFromFloat(p.CostUSD).Mul(rate), lbpStep).InexactFloat64()
		}
	})
}

// UpdatePrices sets suggestedPrice for every product with a USD cost from
// the current rate, margin and profit multipliers, rounded up to 500.
func (s *Service) UpdatePrices(ctx context.Context) ([]domain.Product, error) {
	margin := decimal.NewFromFloat(s.pricing.Margin)
	profit := decimal.NewFromFloat(s.pricing.Profit)
	return s.repriceProducts(ctx, JobUpdatePrices, func(rate decimal.Decimal, p *domain.Product) {
		if p.CostUSD == 0 {
			return
		}
		base := ceilTo(decimal.NewFromFloat(p.CostUSD).Mul(rate), lbpStep)
		p.SuggestedPrice = ceilTo(base.Mul(margin).Mul(profit), lbpStep).InexactFloat64()
	})
}

// RunPriceJob runs a pricing job by name. The scheduler uses it.
func (s *Service) RunPriceJob(ctx context.Context, job string) error {
	switch job {
	case JobCalculatePrices:
		_, err := s.CalculatePrices(ctx)
		return err
	case JobUpdatePrices:
		_, err := s.UpdatePrices(ctx)
		return err
	default:
		return invalid("unknown price job %q", job)
	}
}

func (s *Service) repriceProducts(ctx context.Context, job string, apply func(rate decimal.Decimal, p *domain.Product)) ([]domain.Product, error) {
	rate, err := s.exchangeRate()
	if err != nil {
		s.metrics.PriceJob(job, err)
		return nil, err
	}

	var products []domain.Product
	err = s.mutate(ctx, func() error {
		loaded, err := store.Load[domain.Product](ctx, s.store, store.Products)
		if err != nil {
			return err
		}
		for i := range loaded {
			apply(rate, &loaded[i])
		}
		products = loaded
		return store.Save(ctx, s.store, store.Products, loaded)
	}, store.Products)
	s.metrics.PriceJob(job, err)
	if err != nil {
		return nil, err
	}

	slog.Info("price job finished", "job", job, "products", len(products))
	return products, nil
}
