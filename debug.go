package arbor

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// debugStats holds per-tick timing and counts.
// Only populated when Scene.debug is true.
type debugStats struct {
	advanceTime time.Duration
	updateTime  time.Duration
	releaseTime time.Duration
	actionCount int
	nodeCount   int
	released    int
}

// debugLog prints tick stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.advanceTime + stats.updateTime + stats.releaseTime
	s.logger.Debug("tick",
		"advance", stats.advanceTime,
		"update", stats.updateTime,
		"release", stats.releaseTime,
		"total", total,
		"actions", stats.actionCount,
		"nodes", stats.nodeCount,
		"released", stats.released,
	)
}

// debugLogDraw prints draw pass timing at debug level.
func (s *Scene) debugLogDraw(d time.Duration) {
	if !s.debug {
		return
	}
	s.logger.Debug("draw", "time", d)
}

// debugCheckDisposed logs an error naming op when n is disposed. The
// operation itself still fails with ErrDisposed.
func (s *Scene) debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		s.logger.Error("disposed node used", "op", op, "node", n.name)
	}
}

// debugMaxTreeDepth is the default depth warning threshold. It also sizes the
// stack buffer used to walk ancestor chains.
const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if the depth of n exceeds the configured threshold.
func (s *Scene) debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > s.cfg.MaxTreeDepth {
		s.logger.Warn("tree depth exceeds threshold",
			"node", n.name, "depth", depth, "threshold", s.cfg.MaxTreeDepth)
	}
}

// debugMaxChildCount is the default child-count warning threshold.
const debugMaxChildCount = 1000

// debugCheckChildCount warns if n has more children than the configured threshold.
func (s *Scene) debugCheckChildCount(n *Node) {
	if len(n.children) > s.cfg.MaxChildCount {
		s.logger.Warn("child count exceeds threshold",
			"node", n.name, "children", len(n.children), "threshold", s.cfg.MaxChildCount)
	}
}

// countNodes returns the number of nodes in the subtree rooted at n.
func countNodes(n *Node) int {
	count := 1
	for _, c := range n.children {
		count += countNodes(c)
	}
	return count
}

// newLogger builds the default scene logger writing to w.
func newLogger(w io.Writer, lvl log.Level) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "arbor",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Formatter:       log.TextFormatter,
	})
}
