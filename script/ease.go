package script

import (
	"strings"

	"github.com/tanema/gween/ease"
)

var easeByName = map[string]ease.TweenFunc{
	"linear": ease.Linear,

	"in_quad":     ease.InQuad,
	"out_quad":    ease.OutQuad,
	"in_out_quad": ease.InOutQuad,

	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,

	"in_sine":     ease.InSine,
	"out_sine":    ease.OutSine,
	"in_out_sine": ease.InOutSine,

	"in_expo":     ease.InExpo,
	"out_expo":    ease.OutExpo,
	"in_out_expo": ease.InOutExpo,

	"in_back":     ease.InBack,
	"out_back":    ease.OutBack,
	"in_out_back": ease.InOutBack,

	"in_bounce":     ease.InBounce,
	"out_bounce":    ease.OutBounce,
	"in_out_bounce": ease.InOutBounce,

	"in_elastic":     ease.InElastic,
	"out_elastic":    ease.OutElastic,
	"in_out_elastic": ease.InOutElastic,
}

// Ease returns the easing curve registered under name. Names are
// case-insensitive and accept '-' in place of '_'.
func Ease(name string) (ease.TweenFunc, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	fn, ok := easeByName[key]
	return fn, ok
}
