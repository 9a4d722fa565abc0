package cpamm

import (
	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cpammlabs/cpamm-go/cpamm/helpers"
)

// AuthorizationPolicy decides which authorities may run admin operations
// such as claiming protocol fees or creating configs.
type AuthorizationPolicy interface {
	IsAdmin(authority solanago.PublicKey) bool
}

// AdminSet is an AuthorizationPolicy backed by a fixed set of keys.
type AdminSet map[solanago.PublicKey]struct{}

func NewAdminSet(admins ...solanago.PublicKey) AdminSet {
	set := make(AdminSet, len(admins))
	for _, admin := range admins {
		set[admin] = struct{}{}
	}
	return set
}

func (s AdminSet) IsAdmin(authority solanago.PublicKey) bool {
	_, ok := s[authority]
	return ok
}

// Engine drives pool, position and reward state transitions.
type Engine struct {
	logger        *zap.Logger
	auth          AuthorizationPolicy
	onEvent       func(Event)
	poolAuthority solanago.PublicKey
}

type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithAuthorizationPolicy(policy AuthorizationPolicy) Option {
	return func(e *Engine) {
		if policy != nil {
			e.auth = policy
		}
	}
}

// WithEventHandler registers a sink invoked synchronously after every
// successful state transition.
func WithEventHandler(fn func(Event)) Option {
	return func(e *Engine) {
		e.onEvent = fn
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:        zap.NewNop(),
		auth:          AdminSet{},
		poolAuthority: helpers.DerivePoolAuthority(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) PoolAuthority() solanago.PublicKey {
	return e.poolAuthority
}

func (e *Engine) emit(event Event) {
	if e.onEvent != nil {
		e.onEvent(event)
	}
}
