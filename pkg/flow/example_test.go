package flow_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/flowviz/pkg/flow"
)

func ExampleGraph_basic() {
	// A minimal ML flow: raw data → features → model
	g := flow.New(nil)
	_ = g.AddTask(flow.Task{ID: "frame", Entity: "raw_frame"})
	_ = g.AddTask(flow.Task{ID: "features", Entity: "features"})
	_ = g.AddTask(flow.Task{ID: "model", Entity: "model", Doc: "fits the estimator"})
	_ = g.AddEdge("frame", "features")
	_ = g.AddEdge("features", "model")

	fmt.Println("Tasks:", g.TaskCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Entities:", g.Entities())
	// Output:
	// Tasks: 3
	// Edges: 2
	// Entities: [raw_frame features model]
}

func ExampleGraph_Sources() {
	g := flow.New(nil)
	_ = g.AddTask(flow.Task{ID: "frame", Entity: "raw_frame"})
	_ = g.AddTask(flow.Task{ID: "config", Entity: "config"})
	_ = g.AddTask(flow.Task{ID: "model", Entity: "model"})
	_ = g.AddEdge("frame", "model")
	_ = g.AddEdge("config", "model")

	for _, task := range g.Sources() {
		fmt.Println(task.ID)
	}
	// Output:
	// frame
	// config
}

func ExampleWriteJSON() {
	g := flow.New(nil)
	_ = g.AddTask(flow.Task{ID: "frame", Entity: "raw_frame"})
	_ = g.AddTask(flow.Task{ID: "model", Entity: "model"})
	_ = g.AddEdge("frame", "model")

	_ = flow.WriteJSON(g, os.Stdout)
	// Output:
	// {
	//   "tasks": [
	//     {
	//       "id": "frame",
	//       "entity": "raw_frame"
	//     },
	//     {
	//       "id": "model",
	//       "entity": "model"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "frame",
	//       "to": "model"
	//     }
	//   ]
	// }
}
