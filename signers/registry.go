package signers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
	"github.com/solve3/go-solve3/sql/governance"
	"github.com/solve3/go-solve3/sql/signers"
)

var (
	// ErrAlreadyInitialized is returned by the second call to Initialize.
	ErrAlreadyInitialized = errors.New("signers: already initialized")
	// ErrNotInitialized is returned by governance operations before Initialize.
	ErrNotInitialized = errors.New("signers: not initialized")
	// ErrZeroAddress is returned when the zero address is used as owner.
	ErrZeroAddress = errors.New("signers: zero address")
)

const defaultCacheSize = 1024

// state of the registry governance. Either uninitialized or initialized with an owner.
type state interface {
	owner() (types.Address, error)
}

type uninitialized struct{}

func (uninitialized) owner() (types.Address, error) {
	return types.Address{}, ErrNotInitialized
}

type initialized struct {
	by types.Address
}

func (s initialized) owner() (types.Address, error) {
	return s.by, nil
}

// Opt for configuring Registry.
type Opt func(*Registry)

// WithLogger sets logger for the registry.
func WithLogger(logger *zap.Logger) Opt {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithCacheSize sets the number of membership answers kept in memory.
func WithCacheSize(size int) Opt {
	return func(r *Registry) {
		r.cacheSize = size
	}
}

// Registry keeps the set of signers whose attestations are trusted, and the owner
// that is allowed to change it.
type Registry struct {
	logger    *zap.Logger
	db        *sql.Database
	cacheSize int

	mu    sync.Mutex
	state state

	// generation is bumped on every membership change. Lookups that started under an
	// older generation don't populate the cache.
	cacheMu    sync.Mutex
	generation uint64
	cache      *lru.Cache[types.Address, bool]
}

// New loads the registry state from the database.
func New(db *sql.Database, opts ...Opt) (*Registry, error) {
	r := &Registry{
		logger:    zap.NewNop(),
		db:        db,
		cacheSize: defaultCacheSize,
		state:     uninitialized{},
	}
	for _, opt := range opts {
		opt(r)
	}
	cache, err := lru.New[types.Address, bool](r.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create signers cache: %w", err)
	}
	r.cache = cache
	owner, err := governance.Owner(db)
	switch {
	case errors.Is(err, sql.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		r.state = initialized{by: owner}
	}
	return r, nil
}

// Owner returns the governance principal.
func (r *Registry) Owner() (types.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.owner()
}

// Initialize makes caller the owner and authorizes the first signer.
// It succeeds only once for the lifetime of the database.
func (r *Registry) Initialize(ctx context.Context, caller, signer types.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.state.(uninitialized); !ok {
		return ErrAlreadyInitialized
	}
	if caller == types.EmptyAddress {
		return ErrZeroAddress
	}
	if err := r.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		if err := governance.SetOwner(tx, caller); err != nil {
			if errors.Is(err, sql.ErrObjectExists) {
				return ErrAlreadyInitialized
			}
			return err
		}
		return signers.Add(tx, signer)
	}); err != nil {
		return err
	}
	r.state = initialized{by: caller}
	r.invalidate()
	r.logger.Info("signer registry initialized",
		zap.Stringer("owner", caller),
		zap.Stringer("signer", signer),
	)
	return nil
}

func (r *Registry) authorize(caller types.Address) error {
	owner, err := r.state.owner()
	if err != nil {
		return err
	}
	if owner != caller {
		return fmt.Errorf("%w: %s is not the signers owner", types.ErrUnauthorized, caller)
	}
	return nil
}

// AddSigner authorizes id. Adding an existing signer is a no-op.
func (r *Registry) AddSigner(ctx context.Context, caller, id types.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.authorize(caller); err != nil {
		return err
	}
	if err := r.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		return signers.Add(tx, id)
	}); err != nil {
		return err
	}
	r.invalidate()
	r.logger.Info("signer added", zap.Stringer("signer", id))
	return nil
}

// RemoveSigner revokes id. Proofs signed by id fail verification afterwards.
func (r *Registry) RemoveSigner(ctx context.Context, caller, id types.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.authorize(caller); err != nil {
		return err
	}
	if err := r.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		return signers.Remove(tx, id)
	}); err != nil {
		return err
	}
	r.invalidate()
	r.logger.Info("signer removed", zap.Stringer("signer", id))
	return nil
}

// TransferOwnership hands governance over to a new owner.
func (r *Registry) TransferOwnership(ctx context.Context, caller, owner types.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.authorize(caller); err != nil {
		return err
	}
	if owner == types.EmptyAddress {
		return ErrZeroAddress
	}
	if err := r.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		return governance.TransferOwner(tx, owner)
	}); err != nil {
		return err
	}
	r.state = initialized{by: owner}
	r.logger.Info("signers ownership transferred",
		zap.Stringer("from", caller),
		zap.Stringer("to", owner),
	)
	return nil
}

// IsSigner reports whether id is currently authorized. db may be a transaction
// that the caller keeps open.
func (r *Registry) IsSigner(db sql.Executor, id types.Address) (bool, error) {
	r.cacheMu.Lock()
	if ok, exists := r.cache.Get(id); exists {
		r.cacheMu.Unlock()
		return ok, nil
	}
	generation := r.generation
	r.cacheMu.Unlock()

	ok, err := signers.Has(db, id)
	if err != nil {
		return false, err
	}

	r.cacheMu.Lock()
	if generation == r.generation {
		r.cache.Add(id, ok)
	}
	r.cacheMu.Unlock()
	return ok, nil
}

// Signers lists every authorized signer.
func (r *Registry) Signers(db sql.Executor) ([]types.Address, error) {
	return signers.All(db)
}

func (r *Registry) invalidate() {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.generation++
	r.cache.Purge()
}
