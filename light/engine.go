package light

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Renderer pushes one finished frame to the strip hardware
type Renderer interface {
	Render(frame []RGB) error
	Close() error
}

// ease per-tick blend amount for brightness and color transitions. Roughly
// an exponential approach, visually close to the hardware fades of
// commercial strips
const ease = 48

// EngineConfig construction parameters
type EngineConfig struct {
	Leds      int
	FrameRate int
	Initial   State
}

// Engine owns the light state and renders frames at a fixed tick. State
// changes fade in over a few ticks instead of switching hard.
// Safe for concurrent use; rendering runs on its own goroutine
type Engine struct {
	mu sync.Mutex

	state       State
	fx          effect
	fxSince     time.Time
	onStateHook func(State)

	// eased output values trailing the requested state
	level uint8
	color RGB

	frame    []RGB
	renderer Renderer
	tick     time.Duration
	log      *zap.SugaredLogger

	quit chan struct{}
	done chan struct{}
}

// NewEngine creates an engine rendering to the given renderer
func NewEngine(r Renderer, config EngineConfig, log *zap.SugaredLogger) *Engine {
	fps := config.FrameRate
	if fps <= 0 {
		fps = 30
	}

	leds := config.Leds
	if leds <= 0 {
		leds = 1
	}

	e := &Engine{
		state:    config.Initial,
		fx:       effectByName(config.Initial.Effect),
		fxSince:  time.Now(),
		frame:    make([]RGB, leds),
		renderer: r,
		tick:     time.Second / time.Duration(fps),
		log:      log,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	e.color = e.targetColor()

	return e
}

// OnState registers a hook invoked with the new state after every applied
// change. Used for debounced persistence
func (e *Engine) OnState(fn func(State)) {
	e.mu.Lock()
	e.onStateHook = fn
	e.mu.Unlock()
}

// Start begins the render loop
func (e *Engine) Start() {
	go e.run()
}

// Stop halts the render loop, blanks the strip and closes the renderer
func (e *Engine) Stop() {
	close(e.quit)
	<-e.done

	for i := range e.frame {
		e.frame[i] = RGB{}
	}

	if err := e.renderer.Render(e.frame); err != nil {
		e.log.Warn("light: blank on stop: ", err)
	}

	if err := e.renderer.Close(); err != nil {
		e.log.Warn("light: close renderer: ", err)
	}
}

// Snapshot returns the current requested state
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Apply merges a change into the state and reports whether anything
// changed. Effect switches restart the effect clock
func (e *Engine) Apply(c Change) bool {
	e.mu.Lock()

	prevEffect := e.state.Effect
	changed := c.Apply(&e.state)

	if changed && e.state.Effect != prevEffect {
		e.fx = effectByName(e.state.Effect)
		e.fxSince = time.Now()
	}

	hook := e.onStateHook
	state := e.state

	e.mu.Unlock()

	if changed && hook != nil {
		hook(state)
	}

	return changed
}

func (e *Engine) run() {
	defer close(e.done)

	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-e.quit:
			return
		case now := <-ticker.C:
			if err := e.renderFrame(now); err != nil {
				e.log.Warn("light: render: ", err)
			}
		}
	}
}

func (e *Engine) renderFrame(now time.Time) error {
	e.mu.Lock()

	target := uint8(0)
	if e.state.On {
		target = e.state.Brightness
	}

	e.level = approach8(e.level, target, ease)

	tc := e.targetColor()
	e.color = RGB{
		R: approach8(e.color.R, tc.R, ease),
		G: approach8(e.color.G, tc.G, ease),
		B: approach8(e.color.B, tc.B, ease),
	}

	e.fx.render(e.frame, now.Sub(e.fxSince), e.color)

	level := e.level
	e.mu.Unlock()

	for i := range e.frame {
		e.frame[i] = scaleColor(e.frame[i], level)
	}

	return e.renderer.Render(e.frame)
}

// targetColor caller must hold mu
func (e *Engine) targetColor() RGB {
	if e.state.ColorMode == ColorModeTemp {
		return TempToRGB(e.state.ColorTemp)
	}

	return e.state.Color
}
