// internal/contracts/chain.go
package contracts

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Ledger-level errors.
var (
	ErrInsufficientFunds = errors.New("insufficient funds for transfer")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
)

// Chain is the execution environment the three contracts are deployed on.
// It holds the wei ledger and the ordered event log, and serializes every
// state-mutating contract call behind a single mutex: calls are atomic and
// totally ordered, the same guarantee block inclusion gives on a real chain.
// A call that returns an error has made no state change at all.
type Chain struct {
	mu          sync.Mutex
	balances    map[common.Address]*big.Int
	logs        []Log
	deployNonce uint64
	now         func() time.Time
}

// Log is one emitted event together with the contract that emitted it.
type Log struct {
	Contract common.Address
	Topic    common.Hash
	Event    Event
}

func NewChain() *Chain {
	return &Chain{
		balances: make(map[common.Address]*big.Int),
		now:      time.Now,
	}
}

// Deposit credits an externally funded account, e.g. a faucet or a bridged
// balance. It is the only way value enters the chain.
func (c *Chain) Deposit(addr common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credit(addr, amount)
	return nil
}

// BalanceOf returns a copy of the account's current wei balance.
func (c *Chain) BalanceOf(addr common.Address) *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// Logs returns a copy of the full event log in emission order.
func (c *Chain) Logs() []Log {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Log, len(c.logs))
	copy(out, c.logs)
	return out
}

// LogsSince returns the events emitted at or after the given log index.
func (c *Chain) LogsSince(index int) []Log {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if index >= len(c.logs) {
		return nil
	}
	out := make([]Log, len(c.logs)-index)
	copy(out, c.logs[index:])
	return out
}

// nextContractAddress allocates a deterministic address for a newly deployed
// contract, derived from the deployer and a per-chain nonce the way the EVM
// derives CREATE addresses.
func (c *Chain) nextContractAddress(deployer common.Address) common.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	addr := crypto.CreateAddress(deployer, c.deployNonce)
	c.deployNonce++
	return addr
}

// credit adds to a balance. Caller must hold c.mu.
func (c *Chain) credit(addr common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	b, ok := c.balances[addr]
	if !ok {
		b = new(big.Int)
		c.balances[addr] = b
	}
	b.Add(b, amount)
}

// debit removes from a balance, failing if it would go negative.
// Caller must hold c.mu.
func (c *Chain) debit(addr common.Address, amount *big.Int) error {
	b, ok := c.balances[addr]
	if !ok || b.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	b.Sub(b, amount)
	return nil
}

// emit appends an event to the log. Caller must hold c.mu.
func (c *Chain) emit(contract common.Address, ev Event) {
	c.logs = append(c.logs, Log{
		Contract: contract,
		Topic:    Topic(ev),
		Event:    ev,
	})
}
