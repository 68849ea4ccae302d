package agent

import "fmt"

// Type represents a specific type of an agent Config. The values match
// the method column of a query file.
type Type string

const (
	ValueIteration Type = "MDP"
	QLearning      Type = "RL"
)

// Factory builds a Config of a registered Type from Params
type Factory func(Params) Config

// Registered types with the package. Once a Type has been registered
// with this map, a Config with that type can be created with New.
//
// No Type's are registered with this package upon initialization.
// Each solver package registers its own Type to avoid circular imports.
var registeredTypes = make(map[Type]Factory)

// Register registers a Factory for an agent Type
func Register(agentType Type, f Factory) {
	registeredTypes[agentType] = f
}

// New returns the validated Config of type agentType built from p
func New(agentType Type, p Params) (Config, error) {
	f, ok := registeredTypes[agentType]
	if !ok {
		return nil, fmt.Errorf("new: no agent registered for type %q",
			agentType)
	}

	c := f(p)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: invalid %v config: %v", agentType, err)
	}
	return c, nil
}

// Registered returns whether agentType has been registered
func Registered(agentType Type) bool {
	_, ok := registeredTypes[agentType]
	return ok
}
