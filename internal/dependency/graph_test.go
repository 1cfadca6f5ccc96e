package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stagehand/internal/definition"
)

func testSet() definition.Set {
	return definition.Set{
		{Name: "logger"},
		{Name: "database", Dependencies: []string{"logger"}},
		{Name: "storage", Dependencies: []string{"logger"}},
		{Name: "auth", Dependencies: []string{"database", "vault"}},
		{Name: "tasks", Dependencies: []string{"database", "storage"}},
		{Name: "webhooks", Dependencies: []string{"tasks"}},
	}
}

func TestNewGraph(t *testing.T) {
	g := NewGraph(testSet())

	assert.True(t, g.Has("logger"))
	assert.False(t, g.Has("vault"))

	d, ok := g.Get("auth")
	assert.True(t, ok)
	assert.Equal(t, []string{"database", "vault"}, d.Dependencies)

	_, ok = g.Get("nonexistent")
	assert.False(t, ok)
}

func TestGraph_Dependencies(t *testing.T) {
	g := NewGraph(testSet())

	tests := []struct {
		name     string
		expected []string
	}{
		{"logger", []string{}},
		{"database", []string{"logger"}},
		{"tasks", []string{"database", "storage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, g.Dependencies(tt.name))
		})
	}

	assert.Nil(t, g.Dependencies("nonexistent"))

	// Returned slices are copies.
	deps := g.Dependencies("tasks")
	deps[0] = "changed"
	assert.Equal(t, []string{"database", "storage"}, g.Dependencies("tasks"))
}

func TestGraph_External(t *testing.T) {
	g := NewGraph(testSet())

	assert.Equal(t, []string{"vault"}, g.External("auth"))
	assert.Empty(t, g.External("tasks"))
}

func TestGraph_Dependents(t *testing.T) {
	g := NewGraph(testSet())

	tests := []struct {
		name     string
		expected []string
	}{
		{"logger", []string{"database", "storage"}},
		{"database", []string{"auth", "tasks"}},
		{"webhooks", nil},
		{"nonexistent", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, g.Dependents(tt.name))
		})
	}
}

func TestGraph_TransitiveDependents(t *testing.T) {
	g := NewGraph(testSet())

	assert.Equal(t, []string{"auth", "tasks", "webhooks"}, g.TransitiveDependents("database"))
	assert.Equal(t, []string{"auth", "database", "storage", "tasks", "webhooks"}, g.TransitiveDependents("logger"))
	assert.Equal(t, []string{"auth", "webhooks"}, g.TransitiveDependents("database", "tasks"))
	assert.Empty(t, g.TransitiveDependents("webhooks"))
}
