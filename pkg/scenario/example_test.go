package scenario_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/snowball/pkg/scenario"
	"github.com/matzehuels/snowball/pkg/sim"
)

func ExampleScenario_Run() {
	sc := scenario.New("triangle")
	sc.Actions = []scenario.Action{
		{Op: scenario.OpAdd, ID: 1, Colour: "#b58900"},
		{Op: scenario.OpAdd, ID: 2, Colour: "#cb4b16"},
		{Op: scenario.OpAdd, ID: 3, Colour: "#dc322f"},
		{Op: scenario.OpWeight, From: 1, To: 2, Value: 50},
		{Op: scenario.OpSteps, Count: 150},
	}
	if err := sc.Validate(); err != nil {
		fmt.Println(err)
		return
	}

	sys, _ := sim.New(sc.SystemOptions()...)
	if err := sc.Run(context.Background(), sys); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(sys.Len(), "nodes after", sys.Steps(), "steps")
	// Output: 3 nodes after 150 steps
}

func ExampleNames() {
	fmt.Println(scenario.Names())
	// Output: [churn demo pair]
}
