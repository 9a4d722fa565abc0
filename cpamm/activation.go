package cpamm

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

// Clock carries the two points swaps and vesting can be scheduled against.
// The host supplies it on every mutating call so replays stay deterministic.
type Clock struct {
	Slot      uint64
	Timestamp uint64
}

func (c Clock) CurrentPoint(activationType shared.ActivationType) (uint64, error) {
	switch activationType {
	case shared.ActivationTypeSlot:
		return c.Slot, nil
	case shared.ActivationTypeTimestamp:
		return c.Timestamp, nil
	default:
		return 0, ErrInvalidActivationType
	}
}

// MaxVestingDuration caps cliff + periods for lock schedules, in the unit of
// the activation type.
func MaxVestingDuration(activationType shared.ActivationType) (uint64, error) {
	switch activationType {
	case shared.ActivationTypeSlot:
		return shared.MaxActivationSlotDuration, nil
	case shared.ActivationTypeTimestamp:
		return shared.MaxActivationTimeDuration, nil
	default:
		return 0, ErrInvalidActivationType
	}
}

func bufferDuration(activationType shared.ActivationType) (uint64, error) {
	switch activationType {
	case shared.ActivationTypeSlot:
		return shared.SlotBuffer, nil
	case shared.ActivationTypeTimestamp:
		return shared.TimeBuffer, nil
	default:
		return 0, ErrInvalidActivationType
	}
}

func maxActivationDuration(activationType shared.ActivationType) (uint64, error) {
	switch activationType {
	case shared.ActivationTypeSlot:
		return shared.MaxActivationSlotDuration, nil
	case shared.ActivationTypeTimestamp:
		return shared.MaxActivationTimeDuration, nil
	default:
		return 0, ErrInvalidActivationType
	}
}

// activationHandler gates swaps around the activation point. A whitelisted
// vault may buy during the pre-activation window, everyone else waits for the
// activation point itself.
type activationHandler struct {
	currentPoint     uint64
	activationPoint  uint64
	bufferDuration   uint64
	whitelistedVault solanago.PublicKey
}

func (h activationHandler) preActivationStartPoint() uint64 {
	if h.activationPoint < h.bufferDuration {
		return 0
	}
	return h.activationPoint - h.bufferDuration
}

func (h activationHandler) validateSwap(sender solanago.PublicKey) error {
	if !h.whitelistedVault.IsZero() && sender == h.whitelistedVault {
		if h.currentPoint >= h.preActivationStartPoint() && h.currentPoint < h.activationPoint {
			return nil
		}
		return ErrPoolDisabled
	}
	if h.currentPoint < h.activationPoint {
		return ErrPoolDisabled
	}
	return nil
}

// validateActivationPoint checks a requested activation point at pool
// creation time: it must not be in the past and must stay within the maximum
// scheduling horizon.
func validateActivationPoint(activationPoint, currentPoint uint64, activationType shared.ActivationType) error {
	maxDuration, err := maxActivationDuration(activationType)
	if err != nil {
		return err
	}
	if activationPoint < currentPoint {
		return ErrInvalidActivationPoint
	}
	if activationPoint-currentPoint > maxDuration {
		return ErrInvalidActivationDuration
	}
	return nil
}
