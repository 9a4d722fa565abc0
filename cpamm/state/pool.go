package state

import (
	"errors"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

var (
	ErrRewardUninitialized = errors.New("reward not initialized")
	ErrInvalidRewardIndex  = errors.New("invalid reward index")
)

// Pool is one shared liquidity pool for an ordered token pair. Layout
// mirrors the on-chain account field order.
type Pool struct {
	PoolFees               PoolFeesStruct
	TokenAMint             solana.PublicKey
	TokenBMint             solana.PublicKey
	TokenAVault            solana.PublicKey
	TokenBVault            solana.PublicKey
	WhitelistedVault       solana.PublicKey
	Partner                solana.PublicKey
	Liquidity              binary.Uint128
	ProtocolAFee           uint64
	ProtocolBFee           uint64
	PartnerAFee            uint64
	PartnerBFee            uint64
	SqrtMinPrice           binary.Uint128
	SqrtMaxPrice           binary.Uint128
	SqrtPrice              binary.Uint128
	ActivationPoint        uint64
	ActivationType         uint8
	PoolStatus             uint8
	TokenAFlag             uint8
	TokenBFlag             uint8
	CollectFeeMode         uint8
	PoolType               uint8
	Version                uint8
	Padding0               [1]uint8
	FeeAPerLiquidity       [32]uint8
	FeeBPerLiquidity       [32]uint8
	PermanentLockLiquidity binary.Uint128
	Metrics                PoolMetrics
	Creator                solana.PublicKey
	Padding1               [6]uint64
	RewardInfos            [shared.NumRewards]RewardInfo
}

// PoolMetrics aggregates lifetime fee and position counters.
type PoolMetrics struct {
	TotalLpAFee       binary.Uint128
	TotalLpBFee       binary.Uint128
	TotalProtocolAFee uint64
	TotalProtocolBFee uint64
	TotalPartnerAFee  uint64
	TotalPartnerBFee  uint64
	TotalPosition     uint64
	Padding           [1]uint64
}

func (m *PoolMetrics) IncPosition() {
	m.TotalPosition++
}

func (m *PoolMetrics) DecPosition() error {
	if m.TotalPosition == 0 {
		return errMathOverflow
	}
	m.TotalPosition--
	return nil
}

func (m *PoolMetrics) AccumulateFee(lpFee, protocolFee, partnerFee *big.Int, isTokenA bool) error {
	pf, err := toU64(protocolFee)
	if err != nil {
		return err
	}
	pnf, err := toU64(partnerFee)
	if err != nil {
		return err
	}
	if isTokenA {
		totalLp := new(big.Int).Add(m.TotalLpAFee.BigInt(), lpFee)
		m.TotalLpAFee, err = U128FromBig(totalLp)
		if err != nil {
			return err
		}
		m.TotalProtocolAFee += pf
		m.TotalPartnerAFee += pnf
	} else {
		totalLp := new(big.Int).Add(m.TotalLpBFee.BigInt(), lpFee)
		m.TotalLpBFee, err = U128FromBig(totalLp)
		if err != nil {
			return err
		}
		m.TotalProtocolBFee += pf
		m.TotalPartnerBFee += pnf
	}
	return nil
}

// RewardInfo tracks one farming reward campaign embedded in the pool.
type RewardInfo struct {
	Initialized     uint8
	RewardTokenFlag uint8
	Padding0        [6]uint8
	Mint            solana.PublicKey
	Vault           solana.PublicKey
	Funder          solana.PublicKey
	RewardDuration  uint64
	// Campaign end, seconds. Accrual clamps to this point.
	RewardDurationEnd    uint64
	RewardRate           binary.Uint128
	RewardPerTokenStored [32]uint8
	LastUpdateTime       uint64
	// Seconds during which reward accrued while the pool had zero
	// liquidity. Banked for funder recovery or carry-forward.
	CumulativeSecondsWithEmptyLiquidityReward uint64
}

// IsInitialized reports whether the reward slot has been set up. A slot never
// transitions back to uninitialized.
func (r *RewardInfo) IsInitialized() bool {
	return r.Initialized != 0
}

func (r *RewardInfo) IsValidFunder(funder solana.PublicKey) bool {
	return funder.Equals(r.Funder)
}

func (r *RewardInfo) InitReward(mint, vault, funder solana.PublicKey, rewardDuration uint64, rewardTokenFlag uint8) {
	r.Initialized = 1
	r.Mint = mint
	r.Vault = vault
	r.Funder = funder
	r.RewardDuration = rewardDuration
	r.RewardTokenFlag = rewardTokenFlag
}

// UpdateRewards accrues the reward-per-token accumulator up to currentTime.
// With zero liquidity the elapsed seconds are banked instead, to be claimed
// by the funder or carried into the next funding window.
func (r *RewardInfo) UpdateRewards(liquiditySupply *big.Int, currentTime uint64) error {
	if !r.IsInitialized() {
		return nil
	}
	if liquiditySupply.Sign() > 0 {
		delta, err := r.rewardPerTokenStoredSinceLastUpdate(currentTime, liquiditySupply)
		if err != nil {
			return err
		}
		if err := r.accumulateRewardPerTokenStored(delta); err != nil {
			return err
		}
	} else {
		elapsed, err := r.secondsElapsedSinceLastUpdate(currentTime)
		if err != nil {
			return err
		}
		r.CumulativeSecondsWithEmptyLiquidityReward += elapsed
	}
	r.LastUpdateTime = minU64(currentTime, r.RewardDurationEnd)
	return nil
}

func (r *RewardInfo) secondsElapsedSinceLastUpdate(currentTime uint64) (uint64, error) {
	lastTimeRewardApplicable := minU64(currentTime, r.RewardDurationEnd)
	if lastTimeRewardApplicable < r.LastUpdateTime {
		return 0, errMathOverflow
	}
	return lastTimeRewardApplicable - r.LastUpdateTime, nil
}

func (r *RewardInfo) rewardPerTokenStoredSinceLastUpdate(currentTime uint64, liquiditySupply *big.Int) (*big.Int, error) {
	elapsed, err := r.secondsElapsedSinceLastUpdate(currentTime)
	if err != nil {
		return nil, err
	}
	totalReward := new(big.Int).Mul(new(big.Int).SetUint64(elapsed), r.RewardRate.BigInt())
	return shlDiv(totalReward, liquiditySupply, shared.LiquidityScale, shared.RoundingDown)
}

func (r *RewardInfo) accumulateRewardPerTokenStored(delta *big.Int) error {
	total := new(big.Int).Add(U256ToBig(r.RewardPerTokenStored), delta)
	stored, err := BigToU256(total)
	if err != nil {
		return err
	}
	r.RewardPerTokenStored = stored
	return nil
}

// UpdateRateAfterFunding recomputes the per-second reward rate for a fresh
// campaign window. Funding before the previous window ended folds the
// undistributed remainder into the new total.
func (r *RewardInfo) UpdateRateAfterFunding(currentTime uint64, fundingAmount uint64) error {
	totalAmount := new(big.Int).SetUint64(fundingAmount)
	if currentTime < r.RewardDurationEnd {
		remainingSeconds := r.RewardDurationEnd - currentTime
		leftover := mulShr(r.RewardRate.BigInt(), new(big.Int).SetUint64(remainingSeconds), shared.ScaleOffset)
		if _, err := toU64(leftover); err != nil {
			return err
		}
		totalAmount.Add(totalAmount, leftover)
	}
	rate, err := shlDiv(totalAmount, new(big.Int).SetUint64(r.RewardDuration), shared.ScaleOffset, shared.RoundingDown)
	if err != nil {
		return err
	}
	r.RewardRate, err = U128FromBig(rate)
	if err != nil {
		return err
	}
	r.LastUpdateTime = currentTime
	r.RewardDurationEnd = currentTime + r.RewardDuration
	return nil
}

// InitPoolParams carries everything Pool.Initialize needs to set up a fresh
// pool account.
type InitPoolParams struct {
	PoolFees         PoolFeesStruct
	TokenAMint       solana.PublicKey
	TokenBMint       solana.PublicKey
	TokenAVault      solana.PublicKey
	TokenBVault      solana.PublicKey
	WhitelistedVault solana.PublicKey
	Partner          solana.PublicKey
	Creator          solana.PublicKey
	SqrtMinPrice     binary.Uint128
	SqrtMaxPrice     binary.Uint128
	SqrtPrice        binary.Uint128
	ActivationPoint  uint64
	ActivationType   uint8
	TokenAFlag       uint8
	TokenBFlag       uint8
	Liquidity        binary.Uint128
	CollectFeeMode   uint8
	PoolType         uint8
	Version          uint8
}

func (p *Pool) Initialize(params InitPoolParams) {
	p.PoolFees = params.PoolFees
	p.TokenAMint = params.TokenAMint
	p.TokenBMint = params.TokenBMint
	p.TokenAVault = params.TokenAVault
	p.TokenBVault = params.TokenBVault
	p.WhitelistedVault = params.WhitelistedVault
	p.Partner = params.Partner
	p.Creator = params.Creator
	p.SqrtMinPrice = params.SqrtMinPrice
	p.SqrtMaxPrice = params.SqrtMaxPrice
	p.SqrtPrice = params.SqrtPrice
	p.ActivationPoint = params.ActivationPoint
	p.ActivationType = params.ActivationType
	p.TokenAFlag = params.TokenAFlag
	p.TokenBFlag = params.TokenBFlag
	p.Liquidity = params.Liquidity
	p.CollectFeeMode = params.CollectFeeMode
	p.PoolType = params.PoolType
	p.Version = params.Version
	p.PoolStatus = uint8(shared.PoolStatusEnable)
}

func (p *Pool) PoolVersion() shared.PoolVersion {
	return shared.PoolVersion(p.Version)
}

func (p *Pool) HasPartner() bool {
	return !p.Partner.IsZero()
}

func (p *Pool) IsEnabled() bool {
	return p.PoolStatus == uint8(shared.PoolStatusEnable)
}

// UpdatePreSwap refreshes the dynamic fee references before pricing a trade.
func (p *Pool) UpdatePreSwap(currentTimestamp uint64) error {
	if p.PoolFees.DynamicFee.IsInitialized() {
		return p.PoolFees.DynamicFee.UpdateReferences(p.SqrtPrice.BigInt(), currentTimestamp)
	}
	return nil
}

// UpdatePostSwap folds the realized price move into the volatility
// accumulator. The timestamp only advances when at least one bin was crossed.
func (p *Pool) UpdatePostSwap(oldSqrtPrice *big.Int, currentTimestamp uint64) error {
	if !p.PoolFees.DynamicFee.IsInitialized() {
		return nil
	}
	if err := p.PoolFees.DynamicFee.UpdateVolatilityAccumulator(p.SqrtPrice.BigInt()); err != nil {
		return err
	}
	deltaBinID := p.PoolFees.DynamicFee.GetDeltaBinID(oldSqrtPrice)
	if deltaBinID.Sign() > 0 {
		p.PoolFees.DynamicFee.LastUpdateTimestamp = currentTimestamp
	}
	return nil
}

// ApplySwapResult commits a priced swap to the pool: moves the price, routes
// the protocol/partner cuts to their owed aggregates and spreads the LP cut
// over current liquidity via the fee-per-liquidity accumulator.
func (p *Pool) ApplySwapResult(result *shared.SwapResult2, feeMode shared.FeeMode, currentTimestamp uint64) error {
	oldSqrtPrice := p.SqrtPrice.BigInt()
	nextSqrtPrice, err := U128FromBig(result.NextSqrtPrice)
	if err != nil {
		return err
	}
	p.SqrtPrice = nextSqrtPrice

	feePerTokenStored, err := shlDiv(result.TradingFee, p.Liquidity.BigInt(), shared.LiquidityScale, shared.RoundingDown)
	if err != nil {
		return err
	}
	protocolFee, err := toU64(result.ProtocolFee)
	if err != nil {
		return err
	}
	partnerFee, err := toU64(result.PartnerFee)
	if err != nil {
		return err
	}

	if feeMode.FeesOnTokenA {
		p.ProtocolAFee += protocolFee
		p.PartnerAFee += partnerFee
		feeA, err := BigToU256(new(big.Int).Add(U256ToBig(p.FeeAPerLiquidity), feePerTokenStored))
		if err != nil {
			return err
		}
		p.FeeAPerLiquidity = feeA
	} else {
		p.ProtocolBFee += protocolFee
		p.PartnerBFee += partnerFee
		feeB, err := BigToU256(new(big.Int).Add(U256ToBig(p.FeeBPerLiquidity), feePerTokenStored))
		if err != nil {
			return err
		}
		p.FeeBPerLiquidity = feeB
	}
	if err := p.Metrics.AccumulateFee(result.TradingFee, result.ProtocolFee, result.PartnerFee, feeMode.FeesOnTokenA); err != nil {
		return err
	}
	return p.UpdatePostSwap(oldSqrtPrice, currentTimestamp)
}

// ApplyAddLiquidity settles the position's fee checkpoints at the current
// accumulators, then credits the delta to both the position and the pool.
func (p *Pool) ApplyAddLiquidity(position *Position, liquidityDelta *big.Int) error {
	if err := position.UpdateFee(U256ToBig(p.FeeAPerLiquidity), U256ToBig(p.FeeBPerLiquidity)); err != nil {
		return err
	}
	if err := position.AddLiquidity(liquidityDelta); err != nil {
		return err
	}
	liquidity, err := U128FromBig(new(big.Int).Add(p.Liquidity.BigInt(), liquidityDelta))
	if err != nil {
		return err
	}
	p.Liquidity = liquidity
	return nil
}

// ApplyRemoveLiquidity settles fee checkpoints, then debits unlocked
// liquidity from the position and aggregate liquidity from the pool.
func (p *Pool) ApplyRemoveLiquidity(position *Position, liquidityDelta *big.Int) error {
	if err := position.UpdateFee(U256ToBig(p.FeeAPerLiquidity), U256ToBig(p.FeeBPerLiquidity)); err != nil {
		return err
	}
	if err := position.RemoveUnlockedLiquidity(liquidityDelta); err != nil {
		return err
	}
	remaining := new(big.Int).Sub(p.Liquidity.BigInt(), liquidityDelta)
	if remaining.Sign() < 0 {
		return errMathOverflow
	}
	liquidity, err := U128FromBig(remaining)
	if err != nil {
		return err
	}
	p.Liquidity = liquidity
	return nil
}

func (p *Pool) AccumulatePermanentLockedLiquidity(permanentLockedLiquidity *big.Int) error {
	total, err := U128FromBig(new(big.Int).Add(p.PermanentLockLiquidity.BigInt(), permanentLockedLiquidity))
	if err != nil {
		return err
	}
	p.PermanentLockLiquidity = total
	return nil
}

// ClaimProtocolFee drains both owed protocol fee aggregates.
func (p *Pool) ClaimProtocolFee() (tokenAAmount, tokenBAmount uint64) {
	tokenAAmount = p.ProtocolAFee
	tokenBAmount = p.ProtocolBFee
	p.ProtocolAFee = 0
	p.ProtocolBFee = 0
	return tokenAAmount, tokenBAmount
}

// ClaimPartnerFee drains owed partner fees up to the caller's caps.
func (p *Pool) ClaimPartnerFee(maxAmountA, maxAmountB uint64) (tokenAAmount, tokenBAmount uint64) {
	tokenAAmount = minU64(p.PartnerAFee, maxAmountA)
	tokenBAmount = minU64(p.PartnerBFee, maxAmountB)
	p.PartnerAFee -= tokenAAmount
	p.PartnerBFee -= tokenBAmount
	return tokenAAmount, tokenBAmount
}

// UpdateRewards accrues every initialized reward slot up to currentTime.
// Runs as a pre-step of any liquidity-affecting or reward-claiming action.
func (p *Pool) UpdateRewards(currentTime uint64) error {
	liquidity := p.Liquidity.BigInt()
	for i := range p.RewardInfos {
		if err := p.RewardInfos[i].UpdateRewards(liquidity, currentTime); err != nil {
			return err
		}
	}
	return nil
}

// ClaimIneligibleReward pays out the reward banked while the pool had no
// liquidity and resets the counter.
func (p *Pool) ClaimIneligibleReward(rewardIndex int) (uint64, error) {
	if rewardIndex < 0 || rewardIndex >= shared.NumRewards {
		return 0, ErrInvalidRewardIndex
	}
	rewardInfo := &p.RewardInfos[rewardIndex]
	ineligible := mulShr(
		new(big.Int).SetUint64(rewardInfo.CumulativeSecondsWithEmptyLiquidityReward),
		rewardInfo.RewardRate.BigInt(),
		shared.ScaleOffset,
	)
	rewardInfo.CumulativeSecondsWithEmptyLiquidityReward = 0
	return toU64(ineligible)
}
