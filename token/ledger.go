// Package token is a fungible token ledger stored next to the verification state.
// Rewards are paid through it, so a payout commits or rolls back together with
// the verification that triggered it.
package token

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/sql"
	"github.com/solve3/go-solve3/sql/balances"
)

var (
	// ErrInsufficientBalance is returned when a transfer exceeds the balance of the sender.
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	// ErrInsufficientAllowance is returned when TransferFrom exceeds the allowance.
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
)

// Opt for configuring Ledger.
type Opt func(*Ledger)

// WithLogger sets logger for the ledger.
func WithLogger(logger *zap.Logger) Opt {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// Ledger of balances and allowances.
type Ledger struct {
	logger *zap.Logger
}

// New creates Ledger.
func New(opts ...Opt) *Ledger {
	l := &Ledger{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BalanceOf account.
func (l *Ledger) BalanceOf(db sql.Executor, account types.Address) (*uint256.Int, error) {
	return balances.Balance(db, account)
}

// Allowance that owner granted to spender.
func (l *Ledger) Allowance(db sql.Executor, owner, spender types.Address) (*uint256.Int, error) {
	return balances.Allowance(db, owner, spender)
}

// Mint credits amount to account out of thin air.
func (l *Ledger) Mint(db sql.Executor, to types.Address, amount *uint256.Int) error {
	if err := l.credit(db, to, amount); err != nil {
		return err
	}
	l.logger.Info("minted", zap.Stringer("to", to), zap.Stringer("amount", amount))
	return nil
}

// Approve lets spender move up to amount from owner. Maximal amount never decreases.
func (l *Ledger) Approve(db sql.Executor, owner, spender types.Address, amount *uint256.Int) error {
	return balances.SetAllowance(db, owner, spender, amount)
}

// Transfer moves amount from one account to another.
func (l *Ledger) Transfer(db sql.Executor, from, to types.Address, amount *uint256.Int) error {
	if err := l.debit(db, from, amount); err != nil {
		return err
	}
	if err := l.credit(db, to, amount); err != nil {
		return err
	}
	l.logger.Debug("transferred",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Stringer("amount", amount),
	)
	return nil
}

// TransferFrom moves amount from owner to recipient on behalf of spender.
func (l *Ledger) TransferFrom(db sql.Executor, spender, owner, to types.Address, amount *uint256.Int) error {
	allowed, err := balances.Allowance(db, owner, spender)
	if err != nil {
		return err
	}
	if allowed.Lt(amount) {
		return fmt.Errorf("%w: %s allowed %s to spend %s, requested %s",
			ErrInsufficientAllowance, owner, spender, allowed, amount)
	}
	if err := l.Transfer(db, owner, to, amount); err != nil {
		return err
	}
	if allowed.Eq(unlimited) {
		return nil
	}
	return balances.SetAllowance(db, owner, spender, new(uint256.Int).Sub(allowed, amount))
}

var unlimited = new(uint256.Int).SetAllOne()

func (l *Ledger) debit(db sql.Executor, account types.Address, amount *uint256.Int) error {
	balance, err := balances.Balance(db, account)
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, requested %s", ErrInsufficientBalance, account, balance, amount)
	}
	return balances.SetBalance(db, account, new(uint256.Int).Sub(balance, amount))
}

func (l *Ledger) credit(db sql.Executor, account types.Address, amount *uint256.Int) error {
	balance, err := balances.Balance(db, account)
	if err != nil {
		return err
	}
	updated, err := types.AddAmount(balance, amount)
	if err != nil {
		return fmt.Errorf("credit %s: %w", account, err)
	}
	return balances.SetBalance(db, account, updated)
}
