package reducer

import (
	"context"
	"fmt"

	"perpscope/internal/model"
)

// Handle dispatches one decoded event to its reducer. Events must arrive in
// (block, tx index, log index) order; the caller owns that guarantee.
func (r *Reducer) Handle(ctx context.Context, ev model.Event) error {
	var err error
	switch p := ev.Payload.(type) {
	case model.VaultCreated:
		err = r.ApplyVaultCreated(ev, p)
	case model.PairAdded:
		err = r.ApplyPairAdded(ev, p)
	case model.MarginUpdated:
		err = r.ApplyMarginUpdate(ev, p)
	case model.IsolatedVaultOpened:
		err = r.ApplyIsolatedVaultOpened(ev, p)
	case model.IsolatedVaultClosed:
		err = r.ApplyIsolatedVaultClosed(ev, p)
	case model.VaultLiquidated:
		err = r.ApplyVaultLiquidated(ev, p)
	case model.PositionUpdated:
		err = r.ApplyTrade(ev, p)
	case model.PositionLiquidated:
		err = r.ApplyPositionLiquidated(ev, p)
	case model.FeeCollected:
		err = r.ApplyFeeCollected(ev, p)
	case model.TokenSupplied:
		err = r.ApplyTokenSupplied(ev, p)
	case model.TokenWithdrawn:
		err = r.ApplyTokenWithdrawn(ev, p)
	case model.InterestGrowthUpdated:
		err = r.ApplyInterestGrowth(ctx, ev, p)
	case model.InterestRateUpdated:
		err = r.ApplyInterestRate(ev, p)
	case model.PremiumGrowthUpdated:
		err = r.ApplyPremiumGrowth(ev, p)
	case model.Rebalanced:
		err = r.ApplyRebalanced(ev, p)
	case model.Swap:
		err = r.ApplySwap(ctx, ev, p)
	case model.PerpTraded:
		err = r.ApplyPerpTraded(ev, p)
	case model.PerpClosedByTPSLOrder:
		err = r.ApplyPerpClosedByTPSL(ev, p)
	case model.SpotTraded:
		err = r.ApplySpotTraded(ev, p)
	case model.DepositedToStrategy:
		err = r.ApplyStrategyDeposit(ev, p)
	case model.WithdrawnFromStrategy:
		err = r.ApplyStrategyWithdraw(ev, p)
	default:
		return fmt.Errorf("unhandled event payload %T", ev.Payload)
	}
	if err != nil {
		return fmt.Errorf("apply %T at %s#%d: %w", ev.Payload, ev.TxHash, ev.LogIndex, err)
	}
	return nil
}
