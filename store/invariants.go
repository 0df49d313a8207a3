//go:build !debug

package store

// checkInvariants is a no-op in ordinary builds; see
// invariants_debug.go for the real checks, enabled with -tags debug,
// grounded on the teacher's cache/check_invariants_debug.go.
func (s *Store) checkInvariants() {}
