package strategy

// Stats accumulates lifetime trade counters for one Engine. Counters only
// ever grow; they are updated on every position close.
type Stats struct {
	Trades   int
	Wins     int
	Losses   int
	TotalPnL float64
}

func (s *Stats) record(pnl float64) {
	s.Trades++
	s.TotalPnL += pnl
	if pnl > 0 {
		s.Wins++
	} else {
		s.Losses++
	}
}

// WinRate returns the fraction of closed trades that were profitable,
// or 0 before the first close.
func (s Stats) WinRate() float64 {
	if s.Trades == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Trades)
}
