// Package panel holds the regeneration parameters a user edits while the scene runs. Edits are
// staged freely and only a commit reaches subscribers, so dragging a value does not regenerate the
// flock on every step.
package panel

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/config"
)

// Params are the regeneration parameters.
type Params struct {
	Count  int    `yaml:"count"`
	Spread [3]int `yaml:"spread"`
}

// Clamp returns p with the count in [config.MinCount, config.MaxCount] and each spread axis in
// [config.MinSpread, config.MaxSpread].
func (p Params) Clamp() Params {
	p.Count = common.Clamp(p.Count, config.MinCount, config.MaxCount)
	for i := range p.Spread {
		p.Spread[i] = common.Clamp(p.Spread[i], config.MinSpread, config.MaxSpread)
	}
	return p
}

func (p Params) String() string {
	return fmt.Sprintf("count=%d spread=%v", p.Count, p.Spread)
}

// ParamsFromConfig returns the initial parameters of a scene configuration, clamped.
func ParamsFromConfig(cfg config.SceneConfig) Params {
	return Params{Count: cfg.Count, Spread: cfg.Spread}.Clamp()
}

type panel struct {
	mu          *sync.Mutex
	staged      Params
	committed   Params
	subscribers []func(Params)
}

// Panel stages parameter edits and publishes them on commit. It is safe for concurrent use.
type Panel interface {
	// Params returns the last committed parameters.
	Params() Params

	// Staged returns the parameters as currently edited.
	Staged() Params

	// Stage replaces the edited parameters, clamped. Subscribers are not notified.
	//
	// Parameters:
	//   - p: the new parameter values
	Stage(p Params)

	// Commit publishes the staged parameters. Each subscriber is called once, outside the panel lock.
	// Subscribers are notified even when the values equal the last commit, so committing again
	// re-randomizes the flock.
	Commit()

	// OnCommit registers a subscriber.
	//
	// Parameters:
	//   - fn: called with the committed parameters
	OnCommit(fn func(Params))
}

var _ Panel = &panel{}

// NewPanel creates a panel whose staged and committed values start at initial, clamped.
//
// Parameters:
//   - initial: the starting parameters
//
// Returns:
//   - Panel: the new panel
func NewPanel(initial Params) Panel {
	p := initial.Clamp()
	return &panel{
		mu:        &sync.Mutex{},
		staged:    p,
		committed: p,
	}
}

func (p *panel) Params() Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.committed
}

func (p *panel) Staged() Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.staged
}

func (p *panel) Stage(params Params) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.staged = params.Clamp()
}

func (p *panel) Commit() {
	p.mu.Lock()
	p.committed = p.staged
	params := p.committed
	subscribers := slices.Clone(p.subscribers)
	p.mu.Unlock()

	for _, fn := range subscribers {
		fn(params)
	}
}

func (p *panel) OnCommit(fn func(Params)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}
