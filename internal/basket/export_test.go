package basket

// pendingWaiters returns how many callers share the in-flight fetch.
func (s *State) pendingWaiters() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		return 0
	}
	return s.inflight.waiters
}
