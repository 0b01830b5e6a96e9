package prefilter

// Retirement thresholds. The first check happens after trackerWarmup
// candidates and then every trackerInterval candidates; a prefilter is
// retired when fewer than trackerMinPercent of its candidates were confirmed.
const (
	trackerWarmup     = 128
	trackerInterval   = 64
	trackerMinPercent = 10
)

// Tracker drives a Prefilter for one search and retires it once its
// candidates rarely turn into matches. Every failed candidate costs a
// prefilter call on top of the matcher attempt, so a prefilter on a literal
// that is everywhere in the subject is slower than no prefilter. A retired
// tracker stays retired and the caller tries every offset itself.
//
// Example usage:
//
//	tracker := prefilter.NewTracker(pf)
//	for at <= len(haystack) && tracker.Active() {
//	    pos := tracker.Next(haystack, at)
//	    if pos < 0 {
//	        break // no literal occurs in the rest of the haystack
//	    }
//	    if matchesAt(pos) {
//	        tracker.Confirm()
//	        return pos
//	    }
//	    at = pos + 1
//	}
type Tracker struct {
	pf         Prefilter
	candidates uint64
	confirmed  uint64
	nextCheck  uint64
	retired    bool
}

// NewTracker returns a tracker for pf, or nil if pf is nil. A nil tracker
// is never active.
func NewTracker(pf Prefilter) *Tracker {
	if pf == nil {
		return nil
	}
	return &Tracker{pf: pf, nextCheck: trackerWarmup}
}

// Active reports whether candidates still come from the prefilter.
func (t *Tracker) Active() bool {
	return t != nil && !t.retired
}

// Next returns the next candidate at or after at, or -1 when no literal
// occurs in the rest of the haystack. The call that retires the tracker still
// returns its candidate; later calls return -1.
func (t *Tracker) Next(haystack []byte, at int) int {
	if !t.Active() {
		return -1
	}
	pos := t.pf.Find(haystack, at)
	if pos < 0 {
		return -1
	}
	t.candidates++
	if t.candidates >= t.nextCheck {
		t.nextCheck = t.candidates + trackerInterval
		t.retired = t.confirmed*100 < t.candidates*trackerMinPercent
	}
	return pos
}

// Confirm records that the last candidate started a match.
func (t *Tracker) Confirm() {
	t.confirmed++
}

// Candidates returns the number of candidates handed out so far.
func (t *Tracker) Candidates() uint64 {
	if t == nil {
		return 0
	}
	return t.candidates
}
