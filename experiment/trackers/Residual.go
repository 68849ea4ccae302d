package trackers

import (
	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/timestep"
)

// Residual tracks the largest value change of each update of a
// registered agent, which measures how close value iteration is to
// convergence.
//
// The TimeStep argument to Track is ignored: planners do not step the
// environment, so the residual is read from the registered agent
// instead.
type Residual struct {
	agent     agent.Residualer
	residuals []float64
	filename  string
}

// NewResidual returns a new Residual Tracker registered with a
func NewResidual(a agent.Residualer, filename string) *Residual {
	return &Residual{agent: a, filename: filename}
}

// Track caches the residual of the registered agent's last update
func (r *Residual) Track(timestep.TimeStep) {
	r.residuals = append(r.residuals, r.agent.Residual())
}

// Data returns the residual of every tracked update
func (r *Residual) Data() []float64 {
	return r.residuals
}

// Name returns the name of the tracked quantity
func (r *Residual) Name() string {
	return "residual"
}

// Save saves the data tracked by the Residual Tracker to disk
func (r *Residual) Save() error {
	return save(r.filename, r.residuals)
}
