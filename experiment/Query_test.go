package experiment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
)

func TestReadQueries(t *testing.T) {
	file := `# h,v,step,method,query
0,0,3,MDP,stateValue
 2, 1, 100, RL, bestPolicy

3,2,0,RL,bestQValue
`
	queries, err := ReadQueries(strings.NewReader(file))
	require.NoError(t, err)
	require.Len(t, queries, 3)

	assert.Equal(t, Query{
		Cell:   environment.Position{},
		Steps:  3,
		Method: agent.ValueIteration,
		Kind:   StateValue,
	}, queries[0])
	assert.Equal(t, Query{
		Cell:   environment.Position{X: 2, Y: 1},
		Steps:  100,
		Method: agent.QLearning,
		Kind:   BestPolicy,
	}, queries[1])
	assert.Equal(t, BestQValue, queries[2].Kind)
	assert.Equal(t, "Step: 100 Method: RL Query: bestPolicy at (2, 1)",
		queries[1].String())
}

func TestReadQueriesErrors(t *testing.T) {
	tests := map[string]string{
		"too few fields": "0,0,3,MDP\n",
		"bad integer":    "0,x,3,MDP,stateValue\n",
		"negative steps": "0,0,-3,MDP,stateValue\n",
		"unknown method": "0,0,3,SARSA,stateValue\n",
	}

	for name, file := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadQueries(strings.NewReader(file))
			assert.Error(t, err)
		})
	}
}

func TestLoadQueries(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "queries.txt")
	require.NoError(t, os.WriteFile(filename,
		[]byte("1,1,5,MDP,bestPolicy\n"), 0644))

	queries, err := LoadQueries(filename)
	require.NoError(t, err)
	assert.Len(t, queries, 1)

	_, err = LoadQueries(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestQueryConfig(t *testing.T) {
	envConf := corridor(t)

	c := Query{Steps: 7, Method: agent.ValueIteration}.Config(envConf, true)
	assert.Equal(t, agent.ValueIteration, c.Type)
	assert.Equal(t, 7, c.Iterations)
	assert.True(t, c.RandomReset)

	c = NewConfig(agent.ValueIteration, envConf, false)
	assert.Equal(t, envConf.Sweeps, c.Iterations)
	c = NewConfig(agent.QLearning, envConf, false)
	assert.Equal(t, envConf.Episodes, c.Iterations)
}
