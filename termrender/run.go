package termrender

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/arbor"
)

const defaultTPS = 30

// Frame clears screen, draws scene into it, and shows the result.
func Frame(scene *arbor.Scene, r *Renderer) {
	r.screen.Clear()
	scene.Draw(r)
	r.screen.Show()
}

// Run drives scene on screen at tps ticks per second until ctx is cancelled
// or the user presses Esc, Ctrl-C, or q. A left click hit-tests the scene and
// logs the node under the pointer. The caller owns screen: it must be
// initialized before Run and finalized after.
func Run(ctx context.Context, scene *arbor.Scene, screen tcell.Screen, tps int) error {
	if tps <= 0 {
		tps = defaultTPS
	}
	r := New(screen)
	logger := scene.Logger()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go pollEvents(screen, events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	Frame(scene, r)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuitKey(ev) {
					logger.Debug("quit key", "key", ev.Name())
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventMouse:
				if ev.Buttons()&tcell.Button1 != 0 {
					x, y := ev.Position()
					if hit := scene.HitTest(float64(x)+0.5, float64(y)+0.5); hit != nil {
						logger.Info("hit", "node", hit.Name(), "x", x, "y", y)
					}
				}
			}

		case now := <-ticker.C:
			scene.Update(now.Sub(last).Seconds())
			last = now
			Frame(scene, r)
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// pollEvents forwards screen events until the screen is finalized or quit
// is closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}
