package graph_test

import (
	"fmt"

	"github.com/matzehuels/snowball/pkg/graph"
)

type city struct{ name string }

func (c city) Key() string { return c.name }

func ExampleGraph() {
	g := graph.New[string, city, int]()
	g.AddNode(city{"Oslo"})
	g.AddNode(city{"Bergen"})
	g.AddNode(city{"Tromsø"})

	if _, err := g.SetWeight("Oslo", "Bergen", 463); err != nil {
		fmt.Println("Error:", err)
		return
	}

	for other, km := range g.Edges("Oslo") {
		fmt.Println(other.name, km)
	}
	fmt.Println(g.Weight("Bergen", "Oslo"))
	// Output:
	// Bergen 463
	// Tromsø 0
	// 463
}

func ExampleGraph_SetWeight_missing() {
	g := graph.New[string, city, int]()
	g.AddNode(city{"Oslo"})

	_, err := g.SetWeight("Oslo", "Atlantis", 1)
	fmt.Println(err)
	// Output:
	// set weight Oslo-Atlantis: missing node: Atlantis
}
