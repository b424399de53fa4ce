package flow

import (
	"errors"
	"slices"
	"testing"
)

func TestAddTask(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []Task
		wantErr error
	}{
		{
			name:    "valid task",
			tasks:   []Task{{ID: "a", Entity: "frame"}},
			wantErr: nil,
		},
		{
			name:    "empty ID",
			tasks:   []Task{{ID: "", Entity: "frame"}},
			wantErr: ErrInvalidTaskID,
		},
		{
			name:    "duplicate ID",
			tasks:   []Task{{ID: "a"}, {ID: "a"}},
			wantErr: ErrDuplicateTaskID,
		},
		{
			name:    "duplicate name",
			tasks:   []Task{{ID: "a", Name: "shared"}, {ID: "b", Name: "shared"}},
			wantErr: ErrDuplicateTaskName,
		},
		{
			name:    "name colliding with defaulted name",
			tasks:   []Task{{ID: "a"}, {ID: "b", Name: "a"}},
			wantErr: ErrDuplicateTaskName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			var err error
			for _, task := range tt.tasks {
				err = g.AddTask(task)
				if err != nil {
					break
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddTask() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddTaskDefaults(t *testing.T) {
	g := New(nil)
	if err := g.AddTask(Task{ID: "a", Entity: "frame"}); err != nil {
		t.Fatalf("AddTask() failed: %v", err)
	}

	task, ok := g.Task("a")
	if !ok {
		t.Fatal("Task(a) not found")
	}
	if task.Name != "a" {
		t.Errorf("Name = %q, want ID fallback %q", task.Name, "a")
	}
	if task.Meta == nil {
		t.Error("Meta should be initialized, got nil")
	}

	byName, ok := g.TaskByName("a")
	if !ok || byName.ID != "a" {
		t.Errorf("TaskByName(a) = %v, %v; want task a", byName, ok)
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		wantErr  error
	}{
		{"valid edge", "a", "b", nil},
		{"unknown source", "x", "b", ErrUnknownSourceTask},
		{"unknown target", "a", "x", ErrUnknownTargetTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			_ = g.AddTask(Task{ID: "a"})
			_ = g.AddTask(Task{ID: "b"})

			err := g.AddEdge(tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge(%q, %q) error = %v, want %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestTasksInsertionOrder(t *testing.T) {
	g := New(nil)
	ids := []string{"z", "a", "m", "b"}
	for _, id := range ids {
		if err := g.AddTask(Task{ID: id}); err != nil {
			t.Fatalf("AddTask(%q) failed: %v", id, err)
		}
	}

	var got []string
	for _, task := range g.Tasks() {
		got = append(got, task.ID)
	}
	if !slices.Equal(got, ids) {
		t.Errorf("Tasks() order = %v, want insertion order %v", got, ids)
	}
}

func TestEntitiesFirstSeenOrder(t *testing.T) {
	g := New(nil)
	_ = g.AddTask(Task{ID: "a", Entity: "frame"})
	_ = g.AddTask(Task{ID: "b", Entity: "model"})
	_ = g.AddTask(Task{ID: "c", Entity: "frame"})
	_ = g.AddTask(Task{ID: "d", Entity: "score"})

	got := g.Entities()
	want := []string{"frame", "model", "score"}
	if !slices.Equal(got, want) {
		t.Errorf("Entities() = %v, want %v", got, want)
	}
}

func TestTraversal(t *testing.T) {
	g := New(nil)
	_ = g.AddTask(Task{ID: "frame"})
	_ = g.AddTask(Task{ID: "features"})
	_ = g.AddTask(Task{ID: "model"})
	_ = g.AddEdge("frame", "features")
	_ = g.AddEdge("features", "model")
	_ = g.AddEdge("frame", "model")

	if got := g.Successors("frame"); !slices.Equal(got, []string{"features", "model"}) {
		t.Errorf("Successors(frame) = %v, want [features model]", got)
	}
	if got := g.Predecessors("model"); !slices.Equal(got, []string{"features", "frame"}) {
		t.Errorf("Predecessors(model) = %v, want [features frame]", got)
	}

	sources := g.Sources()
	if len(sources) != 1 || sources[0].ID != "frame" {
		t.Errorf("Sources() = %v, want [frame]", sources)
	}
	sinks := g.Sinks()
	if len(sinks) != 1 || sinks[0].ID != "model" {
		t.Errorf("Sinks() = %v, want [model]", sinks)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edges   [][2]string
		wantErr error
	}{
		{
			name:    "acyclic chain",
			edges:   [][2]string{{"a", "b"}, {"b", "c"}},
			wantErr: nil,
		},
		{
			name:    "diamond",
			edges:   [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
			wantErr: nil,
		},
		{
			name:    "two-node cycle",
			edges:   [][2]string{{"a", "b"}, {"b", "a"}},
			wantErr: ErrGraphHasCycle,
		},
		{
			name:    "longer cycle",
			edges:   [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
			wantErr: ErrGraphHasCycle,
		},
		{
			name:    "self loop",
			edges:   [][2]string{{"a", "a"}},
			wantErr: ErrGraphHasCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			for _, id := range []string{"a", "b", "c", "d"} {
				_ = g.AddTask(Task{ID: id})
			}
			for _, e := range tt.edges {
				if err := g.AddEdge(e[0], e[1]); err != nil {
					t.Fatalf("AddEdge(%v) failed: %v", e, err)
				}
			}

			if err := g.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCounts(t *testing.T) {
	g := New(nil)
	if g.TaskCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty graph counts = %d tasks, %d edges; want 0, 0", g.TaskCount(), g.EdgeCount())
	}

	_ = g.AddTask(Task{ID: "a"})
	_ = g.AddTask(Task{ID: "b"})
	_ = g.AddEdge("a", "b")

	if g.TaskCount() != 2 {
		t.Errorf("TaskCount() = %d, want 2", g.TaskCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}
