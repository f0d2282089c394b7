package transition

// Tuning holds the per-tick increments and end thresholds of the variants.
// The defaults are paced for a 20 ms update tick.
type Tuning struct {
	FoldSlide    float32 `mapstructure:"fold_slide"`     // apex moved down the left edge per tick
	FoldBend     float32 `mapstructure:"fold_bend"`      // cone angle closed per tick
	FoldMinTheta float32 `mapstructure:"fold_min_theta"` // cone angle at which the page starts turning
	FoldTurn     float32 `mapstructure:"fold_turn"`      // page rotation per tick, radians
	FoldEnd      float32 `mapstructure:"fold_end"`       // apex height that ends the fold
	FadeStep     float32 `mapstructure:"fade_step"`
	ZoomStep     float32 `mapstructure:"zoom_step"`
	RotateStep   float32 `mapstructure:"rotate_step"` // degrees
	RotateEnd    float32 `mapstructure:"rotate_end"`  // degrees
}

func DefaultTuning() Tuning {
	return Tuning{
		FoldSlide:    0.02,
		FoldBend:     0.04,
		FoldMinTheta: 0.2,
		FoldTurn:     0.15,
		FoldEnd:      -1.88,
		FadeStep:     0.02,
		ZoomStep:     0.02,
		RotateStep:   2,
		RotateEnd:    90,
	}
}

// Step floors and threshold ranges accepted by Normalize. With them every
// variant completes within a few thousand ticks.
const (
	MinStep       = 1e-3
	MinRotateStep = 0.1
	MinFoldEnd    = -3
	MaxRotateEnd  = 360
)

// Normalize replaces values that would stop a variant from ever completing
// with their defaults.
func (t Tuning) Normalize() Tuning {
	d := DefaultTuning()
	floor := func(v *float32, min, def float32) {
		if *v < min {
			*v = def
		}
	}
	floor(&t.FoldSlide, MinStep, d.FoldSlide)
	floor(&t.FoldBend, MinStep, d.FoldBend)
	floor(&t.FoldTurn, MinStep, d.FoldTurn)
	floor(&t.FadeStep, MinStep, d.FadeStep)
	floor(&t.ZoomStep, MinStep, d.ZoomStep)
	floor(&t.RotateStep, MinRotateStep, d.RotateStep)
	if t.RotateEnd <= 0 || t.RotateEnd > MaxRotateEnd {
		t.RotateEnd = d.RotateEnd
	}
	if t.FoldMinTheta < 0 {
		t.FoldMinTheta = d.FoldMinTheta
	}
	// the apex starts at -1
	if t.FoldEnd >= -1 || t.FoldEnd < MinFoldEnd {
		t.FoldEnd = d.FoldEnd
	}
	return t
}
