package mana

import (
	"errors"
	"fmt"
)

// ErrInsufficient is returned when a payment exceeds the available mana.
// The pool is untouched in that case.
var ErrInsufficient = errors.New("insufficient mana")

// Payment describes how a completed payment was split between temporary mana
// and crystals.
type Payment struct {
	Cost     int
	FromTemp int
	FromUsed int
}

// Pool tracks one player's mana crystals for the current turn.
//
// Available = max(0, Max-Used) + Temp. Temporary mana (coin-like effects) is
// consumed before crystals and expires at end of turn. Overload accumulates
// during a turn and locks crystals at the owner's next Refresh.
type Pool struct {
	Max         int
	Used        int
	Temp        int
	Overloaded  int
	Locked      int
	MaxCrystals int
}

// NewPool creates a pool with the given crystal cap.
func NewPool(maxCrystals int) *Pool {
	return &Pool{MaxCrystals: maxCrystals}
}

// Available returns the mana the player can spend right now. Never negative.
func (p *Pool) Available() int {
	return max(0, p.Max-p.Used) + p.Temp
}

// SetMax writes the crystal count, clamped to [0, MaxCrystals].
func (p *Pool) SetMax(amount int) {
	p.Max = min(p.MaxCrystals, max(0, amount))
}

// GainCrystals adds permanent crystals, clamped to the cap.
func (p *Pool) GainCrystals(n int) {
	p.SetMax(p.Max + n)
}

// AddTemp grants temporary mana for this turn only.
func (p *Pool) AddTemp(n int) {
	if n > 0 {
		p.Temp += n
	}
}

// Overload records pending overload cost. It takes effect at the next
// Refresh, not immediately.
func (p *Pool) Overload(n int) {
	if n > 0 {
		p.Overloaded += n
	}
}

// Pay charges a cost, consuming temporary mana first and the remainder from
// crystals. Rejected before any mutation when the cost exceeds Available.
func (p *Pool) Pay(cost int) (Payment, error) {
	if cost < 0 {
		return Payment{}, fmt.Errorf("negative cost %d", cost)
	}
	if cost > p.Available() {
		return Payment{}, fmt.Errorf("%w: cost %d, available %d", ErrInsufficient, cost, p.Available())
	}

	pay := Payment{Cost: cost}
	if p.Temp >= cost {
		p.Temp -= cost
		pay.FromTemp = cost
		return pay, nil
	}
	pay.FromTemp = p.Temp
	pay.FromUsed = cost - p.Temp
	p.Temp = 0
	p.Used += pay.FromUsed
	return pay, nil
}

// Refresh resets the pool at the start of the owner's turn: spent crystals
// return, temporary mana expires, and accumulated overload locks crystals.
func (p *Pool) Refresh() {
	p.Locked = p.Overloaded
	p.Overloaded = 0
	p.Used = min(p.Locked, p.Max)
	p.Temp = 0
}

// EndTurn expires temporary mana that was never spent.
func (p *Pool) EndTurn() {
	p.Temp = 0
}
