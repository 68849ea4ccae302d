package experiment

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/samuelfneumann/gridmdp/agent"
	env "github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/experiment/trackers"
	ts "github.com/samuelfneumann/gridmdp/timestep"
)

// Progress is notified after every step of an experiment
type Progress interface {
	Increment()
	Display()
}

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	id uuid.UUID
	env.Environment
	agent.Agent
	maxSteps     int
	currentSteps int
	trackers     []trackers.Tracker
	progress     Progress
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many agent steps the experiment is run for, and the t parameter
// is a slice of trackers.Tracker which determine what data is saved.
func NewOnline(e env.Environment, a agent.Agent, steps int,
	t ...trackers.Tracker) *Online {
	return &Online{
		id:          uuid.New(),
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		trackers:    t,
	}
}

// ID returns the identifier of the experiment, used in log messages
func (o *Online) ID() uuid.UUID {
	return o.id
}

// Register registers a trackers.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Trackers returns the trackers registered with the experiment
func (o *Online) Trackers() []trackers.Tracker {
	return o.trackers
}

// SetProgress sets the Progress notified after each step
func (o *Online) SetProgress(p Progress) {
	o.progress = p
}

// Steps returns the number of agent steps taken so far
func (o *Online) Steps() int {
	return o.currentSteps
}

// RunStep runs a single agent step and tracks the resulting TimeStep.
// It returns whether the step budget has been reached.
func (o *Online) RunStep() (bool, error) {
	if o.currentSteps >= o.maxSteps {
		return true, nil
	}

	if err := o.Agent.Step(); err != nil {
		return true, fmt.Errorf("runStep: step %d: %v", o.currentSteps+1,
			err)
	}
	o.currentSteps++

	// Cache the environment step in each Tracker
	o.track(o.Environment.LastTimeStep())

	if o.progress != nil {
		o.progress.Increment()
		o.progress.Display()
	}

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all steps
func (o *Online) Run() error {
	log.Printf("[EXP] [INFO] %v: running %d steps", o.id, o.maxSteps)

	for ended := o.currentSteps >= o.maxSteps; !ended; {
		var err error
		if ended, err = o.RunStep(); err != nil {
			log.Printf("[EXP] [ERROR] %v: %v", o.id, err)
			return err
		}
	}

	log.Printf("[EXP] [INFO] %v: finished after %d steps", o.id,
		o.currentSteps)
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v tracker: %v", t.Name(), err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
