package generator

import "sync"

// DefaultAbstractColumn is the header the patent exports in circulation use.
const DefaultAbstractColumn = "要約"

var (
	columnCandidatesMu       sync.RWMutex
	activeAbstractCandidates = defaultAbstractCandidates()
)

func defaultAbstractCandidates() []string {
	return []string{DefaultAbstractColumn, "概要", "abstract", "summary", "要約書", "本文", "text"}
}

// DefaultAbstractCandidates returns the built-in abstract header candidates.
func DefaultAbstractCandidates() []string {
	columnCandidatesMu.RLock()
	defer columnCandidatesMu.RUnlock()
	return cloneStrings(activeAbstractCandidates)
}

// SetAbstractCandidates replaces the candidates used during auto-detection.
// Passing nil restores the defaults.
func SetAbstractCandidates(candidates []string) {
	columnCandidatesMu.Lock()
	defer columnCandidatesMu.Unlock()
	if candidates == nil {
		activeAbstractCandidates = defaultAbstractCandidates()
		return
	}
	activeAbstractCandidates = cloneStrings(candidates)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
