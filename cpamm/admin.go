package cpamm

import (
	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

// SetPoolStatus enables or disables trading on a pool. Admin only. Disabling
// never blocks liquidity withdrawal or fee claims.
func (e *Engine) SetPoolStatus(pool *state.Pool, poolKey, admin solanago.PublicKey, status shared.PoolStatus) error {
	if !e.auth.IsAdmin(admin) {
		return ErrUnauthorized
	}
	switch status {
	case shared.PoolStatusEnable, shared.PoolStatusDisable:
	default:
		return ErrInvalidParameters
	}
	pool.PoolStatus = uint8(status)
	e.logger.Debug("set pool status",
		zap.Stringer("pool", poolKey),
		zap.Uint8("status", uint8(status)),
	)
	return nil
}

// ClaimProtocolFee drains the pool's owed protocol fees. Operator gated.
func (e *Engine) ClaimProtocolFee(pool *state.Pool, poolKey, operator solanago.PublicKey) (tokenAAmount, tokenBAmount uint64, err error) {
	if !e.auth.IsAdmin(operator) {
		return 0, 0, ErrUnauthorized
	}
	tokenAAmount, tokenBAmount = pool.ClaimProtocolFee()
	e.logger.Debug("claim protocol fee",
		zap.Stringer("pool", poolKey),
		zap.Uint64("token_a_amount", tokenAAmount),
		zap.Uint64("token_b_amount", tokenBAmount),
	)
	e.emit(EvtClaimProtocolFee{
		Pool:         poolKey,
		TokenAAmount: tokenAAmount,
		TokenBAmount: tokenBAmount,
	})
	return tokenAAmount, tokenBAmount, nil
}

// UpdateActivationPoint reschedules a not-yet-active pool. Admin only. The
// new point must leave at least one buffer of lead time, and launch pools
// already inside their pre-activation window cannot move.
func (e *Engine) UpdateActivationPoint(pool *state.Pool, poolKey, admin solanago.PublicKey, newActivationPoint uint64, clock Clock) error {
	if !e.auth.IsAdmin(admin) {
		return ErrUnauthorized
	}
	currentPoint, err := clock.CurrentPoint(pool.ActivationType)
	if err != nil {
		return err
	}
	buffer, err := bufferDuration(pool.ActivationType)
	if err != nil {
		return err
	}
	if pool.ActivationPoint <= currentPoint || newActivationPoint <= currentPoint+buffer {
		return ErrUnableToModifyActivationPoint
	}
	if !pool.WhitelistedVault.IsZero() {
		handler := activationHandler{
			currentPoint:    currentPoint,
			activationPoint: pool.ActivationPoint,
			bufferDuration:  buffer,
		}
		if currentPoint >= handler.preActivationStartPoint() {
			return ErrUnableToModifyActivationPoint
		}
		// Leave a full buffer before the new pre-activation window opens.
		if newActivationPoint < 2*buffer || currentPoint >= newActivationPoint-2*buffer {
			return ErrUnableToModifyActivationPoint
		}
	}
	pool.ActivationPoint = newActivationPoint
	e.logger.Debug("update activation point",
		zap.Stringer("pool", poolKey),
		zap.Uint64("activation_point", newActivationPoint),
	)
	return nil
}

// ClaimPartnerFee drains owed partner fees up to the caps. Only the pool's
// partner may claim.
func (e *Engine) ClaimPartnerFee(pool *state.Pool, poolKey, partner solanago.PublicKey, maxAmountA, maxAmountB uint64) (tokenAAmount, tokenBAmount uint64, err error) {
	if !pool.HasPartner() || !pool.Partner.Equals(partner) {
		return 0, 0, ErrUnauthorized
	}
	tokenAAmount, tokenBAmount = pool.ClaimPartnerFee(maxAmountA, maxAmountB)
	e.logger.Debug("claim partner fee",
		zap.Stringer("pool", poolKey),
		zap.Stringer("partner", partner),
		zap.Uint64("token_a_amount", tokenAAmount),
		zap.Uint64("token_b_amount", tokenBAmount),
	)
	e.emit(EvtClaimPartnerFee{
		Pool:         poolKey,
		Partner:      partner,
		TokenAAmount: tokenAAmount,
		TokenBAmount: tokenBAmount,
	})
	return tokenAAmount, tokenBAmount, nil
}
