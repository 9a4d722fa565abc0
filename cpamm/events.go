package cpamm

import (
	"math/big"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

// Event is implemented by every record the engine hands to its event sink.
type Event interface {
	isEvent()
}

type EvtCreateConfig struct {
	Config               solanago.PublicKey
	VaultConfigKey       solanago.PublicKey
	PoolCreatorAuthority solanago.PublicKey
	ActivationType       shared.ActivationType
	CollectFeeMode       shared.CollectFeeMode
	Index                uint64
}

type EvtInitializePool struct {
	Pool            solanago.PublicKey
	TokenAMint      solanago.PublicKey
	TokenBMint      solanago.PublicKey
	Creator         solanago.PublicKey
	Payer           solanago.PublicKey
	ActivationPoint uint64
	ActivationType  shared.ActivationType
	CollectFeeMode  shared.CollectFeeMode
	PoolType        shared.PoolType
	SqrtPrice       *big.Int
	Liquidity       *big.Int
	TokenAAmount    uint64
	TokenBAmount    uint64
}

type EvtSwap2 struct {
	Pool           solanago.PublicKey
	TradeDirection shared.TradeDirection
	SwapMode       shared.SwapMode
	HasReferral    bool
	CurrentPoint   uint64
	SwapResult     shared.SwapResult2
}

type EvtAddLiquidity struct {
	Pool           solanago.PublicKey
	Position       solanago.PublicKey
	Owner          solanago.PublicKey
	LiquidityDelta *big.Int
	TokenAAmount   uint64
	TokenBAmount   uint64
}

type EvtRemoveLiquidity struct {
	Pool           solanago.PublicKey
	Position       solanago.PublicKey
	Owner          solanago.PublicKey
	LiquidityDelta *big.Int
	TokenAAmount   uint64
	TokenBAmount   uint64
}

type EvtCreatePosition struct {
	Pool            solanago.PublicKey
	Position        solanago.PublicKey
	Owner           solanago.PublicKey
	PositionNftMint solanago.PublicKey
}

type EvtClosePosition struct {
	Pool            solanago.PublicKey
	Position        solanago.PublicKey
	Owner           solanago.PublicKey
	PositionNftMint solanago.PublicKey
}

type EvtLockPosition struct {
	Pool                 solanago.PublicKey
	Position             solanago.PublicKey
	Owner                solanago.PublicKey
	Vesting              solanago.PublicKey
	CliffPoint           uint64
	PeriodFrequency      uint64
	CliffUnlockLiquidity *big.Int
	LiquidityPerPeriod   *big.Int
	NumberOfPeriod       uint16
}

type EvtPermanentLockPosition struct {
	Pool                        solanago.PublicKey
	Position                    solanago.PublicKey
	LockLiquidityAmount         *big.Int
	TotalPermanentLockLiquidity *big.Int
}

type EvtClaimPositionFee struct {
	Pool        solanago.PublicKey
	Position    solanago.PublicKey
	Owner       solanago.PublicKey
	FeeAClaimed uint64
	FeeBClaimed uint64
}

type EvtClaimReward struct {
	Pool        solanago.PublicKey
	Position    solanago.PublicKey
	Owner       solanago.PublicKey
	RewardIndex uint8
	TotalReward uint64
	// Skipped is set when a frozen reward vault forced a zero payout.
	Skipped bool
}

type EvtInitializeReward struct {
	Pool           solanago.PublicKey
	RewardMint     solanago.PublicKey
	Funder         solanago.PublicKey
	RewardIndex    uint8
	RewardDuration uint64
}

type EvtFundReward struct {
	Pool         solanago.PublicKey
	Funder       solanago.PublicKey
	RewardIndex  uint8
	Amount       uint64
	CarryForward bool
}

type EvtWithdrawIneligibleReward struct {
	Pool       solanago.PublicKey
	RewardMint solanago.PublicKey
	Amount     uint64
}

type EvtUpdateRewardDuration struct {
	Pool              solanago.PublicKey
	RewardIndex       uint8
	OldRewardDuration uint64
	NewRewardDuration uint64
}

type EvtUpdateRewardFunder struct {
	Pool        solanago.PublicKey
	RewardIndex uint8
	OldFunder   solanago.PublicKey
	NewFunder   solanago.PublicKey
}

type EvtSplitPosition struct {
	Pool             solanago.PublicKey
	FirstOwner       solanago.PublicKey
	SecondOwner      solanago.PublicKey
	FirstPosition    solanago.PublicKey
	SecondPosition   solanago.PublicKey
	Amounts          state.SplitAmountInfo
	CurrentSqrtPrice *big.Int
	Parameters       state.SplitPositionParameters2
}

type EvtClaimProtocolFee struct {
	Pool         solanago.PublicKey
	TokenAAmount uint64
	TokenBAmount uint64
}

type EvtClaimPartnerFee struct {
	Pool         solanago.PublicKey
	Partner      solanago.PublicKey
	TokenAAmount uint64
	TokenBAmount uint64
}

func (EvtCreateConfig) isEvent()             {}
func (EvtInitializePool) isEvent()           {}
func (EvtSwap2) isEvent()                    {}
func (EvtAddLiquidity) isEvent()             {}
func (EvtRemoveLiquidity) isEvent()          {}
func (EvtCreatePosition) isEvent()           {}
func (EvtClosePosition) isEvent()            {}
func (EvtLockPosition) isEvent()             {}
func (EvtPermanentLockPosition) isEvent()    {}
func (EvtClaimPositionFee) isEvent()         {}
func (EvtClaimReward) isEvent()              {}
func (EvtInitializeReward) isEvent()         {}
func (EvtFundReward) isEvent()               {}
func (EvtWithdrawIneligibleReward) isEvent() {}
func (EvtUpdateRewardDuration) isEvent()     {}
func (EvtUpdateRewardFunder) isEvent()       {}
func (EvtSplitPosition) isEvent()            {}
func (EvtClaimProtocolFee) isEvent()         {}
func (EvtClaimPartnerFee) isEvent()          {}
