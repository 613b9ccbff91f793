package service

// TerminalCount reports how many sales in progress are tracked.
func (s *CheckoutService) TerminalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.terminals)
}
