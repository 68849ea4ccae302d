package experiment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/envconfig"
)

// QueryKind determines what is displayed after a query has run
type QueryKind string

const (
	BestPolicy QueryKind = "bestPolicy"
	BestQValue QueryKind = "bestQValue"
	StateValue QueryKind = "stateValue"
)

// Query is a single line of a query file:
//
//	h,v,step,method,query
//
// asking for the result of running method (MDP or RL) for step
// iterations, inspected at cell (h, v) in grid file coordinates.
type Query struct {
	Cell   environment.Position
	Steps  int
	Method agent.Type
	Kind   QueryKind
}

// Config returns the experiment Config answering the query on the grid
// envConf
func (q Query) Config(envConf envconfig.Config, randomReset bool) Config {
	c := NewConfig(q.Method, envConf, randomReset)
	c.Iterations = q.Steps
	return c
}

func (q Query) String() string {
	return fmt.Sprintf("Step: %d Method: %v Query: %v at %v", q.Steps,
		q.Method, q.Kind, q.Cell)
}

// LoadQueries reads the query file filename
func LoadQueries(filename string) ([]Query, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadQueries: could not open query file: %v",
			err)
	}
	defer file.Close()

	queries, err := ReadQueries(file)
	if err != nil {
		return nil, fmt.Errorf("loadQueries: %v: %v", filename, err)
	}
	return queries, nil
}

// ReadQueries reads comma separated queries from r. Lines starting with
// # are comments.
func ReadQueries(r io.Reader) ([]Query, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	var queries []Query
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("readQueries: %v", err)
		}

		q, err := parseQuery(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("readQueries: line %d: %v", line, err)
		}
		queries = append(queries, q)
	}
	return queries, nil
}

func parseQuery(record []string) (Query, error) {
	var ints [3]int
	for i, field := range record[:3] {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return Query{}, fmt.Errorf("field %d: %q is not an integer", i+1,
				field)
		}
		ints[i] = v
	}
	if ints[2] < 0 {
		return Query{}, fmt.Errorf("step cannot be lower than 0")
	}

	method := agent.Type(strings.TrimSpace(record[3]))
	if !agent.Registered(method) {
		return Query{}, fmt.Errorf("unknown method %q", method)
	}

	return Query{
		Cell:   environment.Position{X: ints[0], Y: ints[1]},
		Steps:  ints[2],
		Method: method,
		Kind:   QueryKind(strings.TrimSpace(record[4])),
	}, nil
}
