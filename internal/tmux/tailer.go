package tmux

import (
	"context"
	"time"
)

// Tailer turns successive pane captures into a stream of new lines.
//
// Each capture is compared with the previous one and only the lines that
// follow their longest overlap are emitted. The last captured line is where
// the cursor sits and may still be growing, so it is held back until a newer
// line appears below it.
type Tailer struct {
	ops      SessionOps
	target   string
	window   int
	interval time.Duration

	prev   []string
	primed bool
}

// NewTailer returns a tailer over target capturing window lines of
// scrollback every interval.
func NewTailer(ops SessionOps, target string, window int, interval time.Duration) *Tailer {
	return &Tailer{ops: ops, target: target, window: window, interval: interval}
}

// Next records capture and returns the settled lines that were not part of
// the previous capture. The first call only establishes the baseline.
func (t *Tailer) Next(capture []string) []string {
	settled := capture
	if len(settled) > 0 {
		settled = settled[:len(settled)-1]
	}
	if !t.primed {
		t.prev, t.primed = settled, true
		return nil
	}
	k := overlap(t.prev, settled)
	fresh := settled[k:]
	t.prev = settled
	if len(fresh) == 0 {
		return nil
	}
	return append([]string(nil), fresh...)
}

// overlap returns the length of the longest suffix of prev that is also a
// prefix of cur.
func overlap(prev, cur []string) int {
	k := min(len(prev), len(cur))
	for ; k > 0; k-- {
		if equalLines(prev[len(prev)-k:], cur[:k]) {
			return k
		}
	}
	return 0
}

func equalLines(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Run captures the pane until ctx is done or a capture fails, which happens
// once the session is gone. New lines are sent on out; Run blocks while out
// is full.
func (t *Tailer) Run(ctx context.Context, out chan<- string) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		capture, err := t.ops.CapturePane(ctx, t.target, t.window)
		if err != nil {
			return err
		}
		for _, line := range t.Next(capture) {
			select {
			case out <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
