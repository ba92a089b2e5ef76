package game

import (
	"errors"
	"fmt"
)

var ErrUnknownEnv = errors.New("unknown environment")

// Env describes one match-runner environment.
type Env struct {
	Name    string
	Shape   Shape
	Players int
}

var envs = map[string]Env{
	"ws2526.1.2.1": {"ws2526.1.2.1", Rhombus, 2},
	"ws2526.1.2.2": {"ws2526.1.2.2", Star, 2},
	"ws2526.1.2.3": {"ws2526.1.2.3", Star, 2},
	"ws2526.1.2.4": {"ws2526.1.2.4", Star, 2},
	"ws2526.1.2.5": {"ws2526.1.2.5", Star, 3},
	"ws2526.1.2.6": {"ws2526.1.2.6", Star, 3},
	"ws2526.1.2.7": {"ws2526.1.2.7", Star, 3},
	"ws2526.1.2.8": {"ws2526.1.2.8", Star, 3},
}

// LookupEnv resolves an environment name. Unknown names are configuration errors.
func LookupEnv(name string) (Env, error) {
	env, ok := envs[name]
	if !ok {
		return Env{}, fmt.Errorf("%w: %q", ErrUnknownEnv, name)
	}
	return env, nil
}
