package orders

import (
	"context"
	"encoding/json"
	"math"

	"github.com/SoerenFox/pytr-Modified/api"
	"github.com/SoerenFox/pytr-Modified/portfolio"
	"github.com/SoerenFox/pytr-Modified/utils/log"
)

// StopOrderAPI extends the order API with stop-market placement.
type StopOrderAPI interface {
	API
	StopMarketOrder(ctx context.Context, p api.OrderParams) (json.RawMessage, error)
}

// PositionSource yields the current depot positions.
type PositionSource interface {
	Positions(ctx context.Context) ([]portfolio.Position, error)
}

// StopLossUpdater replaces all stop-market sell orders with fresh ones
// a fixed percentage below the current per-share value.
type StopLossUpdater struct {
	API       StopOrderAPI
	Positions PositionSource
	// Percent is the distance below the current price, as a fraction
	// (0.05 for 5%).
	Percent    float64
	Expiry     string
	ExpiryDate string
}

// Update cancels the existing stop-market sell orders and creates new
// ones per position. Positions below one whole share are skipped.
func (u *StopLossUpdater) Update(ctx context.Context) (deleted, created int, err error) {
	log.Info("fetching existing stop-market sell orders")
	orders, err := List(ctx, u.API)
	if err != nil {
		return 0, 0, err
	}
	for _, o := range orders {
		if o.Mode != "stopMarket" || o.Side != "sell" {
			continue
		}
		if _, err := u.API.CancelOrder(ctx, o.ID); err != nil {
			return deleted, 0, err
		}
		deleted++
	}
	log.Info("deleted %d old stop-market orders", deleted)

	positions, err := u.Positions.Positions(ctx)
	if err != nil {
		return deleted, 0, err
	}
	for _, pos := range positions {
		size := math.Floor(pos.NetSize)
		if size < 1 || pos.NetSize <= 0 {
			continue
		}
		stop := roundCents(pos.NetValue / pos.NetSize * (1 - u.Percent))
		exchange := "LSX"
		if len(pos.ExchangeIDs) > 0 {
			exchange = pos.ExchangeIDs[0]
		}
		_, err := u.API.StopMarketOrder(ctx, api.OrderParams{
			ISIN:       pos.ISIN,
			Exchange:   exchange,
			Side:       "sell",
			Size:       size,
			Stop:       stop,
			Expiry:     u.Expiry,
			ExpiryDate: u.ExpiryDate,
		})
		if err != nil {
			return deleted, created, err
		}
		created++
		log.Info("set stop loss for %s (%s): %g @ %.2f", pos.Name, pos.ISIN, size, stop)
	}
	log.Info("created %d new stop losses", created)
	return deleted, created, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
