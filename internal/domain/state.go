package domain

// PairState is the mutable per-pair tracking state. It lives for the process
// lifetime and is mutated only by the pair service (single writer). A pair
// with Tracking == false has no base price yet: the next observation seeds it
// and never produces a trade.
//
// Invariant: Consecutive == 0 exactly when LastSide == SideNone.
type PairState struct {
	BasePrice   float64
	Tracking    bool
	LastSide    Side
	Consecutive int
}

// Seed transitions the pair from uninitialized to tracking.
func (s *PairState) Seed(price float64) {
	s.BasePrice = price
	s.Tracking = true
}

// RecordTrade moves the base price to the executed price and advances the
// streak: reset to 1 on a direction change, increment otherwise.
func (s *PairState) RecordTrade(side Side, execPrice float64) {
	s.BasePrice = execPrice
	if side == s.LastSide {
		s.Consecutive++
	} else {
		s.LastSide = side
		s.Consecutive = 1
	}
}
