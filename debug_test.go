package arbor

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDebugLogsDisposedUse(t *testing.T) {
	s := newTestScene()
	s.SetDebugMode(true)
	var buf bytes.Buffer
	s.SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel}))

	n := NewNode("ghost")
	n.Dispose()
	if err := s.Root().AddChild(n); err != ErrDisposed {
		t.Errorf("AddChild = %v, want ErrDisposed in debug mode", err)
	}
	out := buf.String()
	if !strings.Contains(out, "disposed node used") || !strings.Contains(out, "ghost") {
		t.Errorf("output = %q, want the op and node name", out)
	}
}

func TestDebugReleaseModeReturnsError(t *testing.T) {
	s := newTestScene()
	n := NewNode("n")
	n.Dispose()
	if err := s.Root().AddChild(n); err != ErrDisposed {
		t.Errorf("AddChild = %v, want ErrDisposed outside debug mode", err)
	}
}

func TestDebugWarnsTreeDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.MaxTreeDepth = 3
	s := NewSceneWithConfig(cfg)
	var buf bytes.Buffer
	s.SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel}))

	cur := s.Root()
	for i := 0; i < 3; i++ {
		next := NewNode(fmt.Sprintf("n%d", i))
		mustAdd(t, cur, next)
		cur = next
	}
	out := buf.String()
	if strings.Count(out, "tree depth exceeds threshold") != 1 {
		t.Errorf("output = %q, want one depth warning", out)
	}
}

func TestDebugQuietBelowThresholds(t *testing.T) {
	s := newTestScene()
	s.SetDebugMode(true)
	var buf bytes.Buffer
	s.SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel}))
	mustAdd(t, s.Root(), NewNode("a"))
	if buf.Len() != 0 {
		t.Errorf("unexpected warning: %q", buf.String())
	}
}

func TestCountNodes(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	mustAdd(t, root, a)
	mustAdd(t, a, NewNode("b"))
	mustAdd(t, root, NewNode("c"))
	if got := countNodes(root); got != 4 {
		t.Errorf("countNodes = %d, want 4", got)
	}
}

func TestNewLoggerPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	l.Info("hello", "k", 1)
	l.Debug("hidden")
	out := buf.String()
	if !strings.Contains(out, "arbor") || !strings.Contains(out, "hello") || !strings.Contains(out, "k=1") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line should be filtered at info level")
	}
}
