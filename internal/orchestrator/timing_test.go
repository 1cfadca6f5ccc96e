package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stagehand/internal/definition"
	"stagehand/internal/dependency"
)

func groupsOfSizes(sizes ...int) []dependency.LoadGroup {
	groups := make([]dependency.LoadGroup, len(sizes))
	for i, n := range sizes {
		groups[i].Index = i
		for j := 0; j < n; j++ {
			groups[i].Members = append(groups[i].Members, definition.Definition{Name: "svc"})
		}
	}
	return groups
}

func TestEstimateSavings(t *testing.T) {
	tests := []struct {
		name     string
		groups   []dependency.LoadGroup
		avg      time.Duration
		expected time.Duration
	}{
		{"two groups", groupsOfSizes(1, 3), 50, 100},
		{"milliseconds", groupsOfSizes(1, 3), 50 * time.Millisecond, 100 * time.Millisecond},
		{"fully sequential chain", groupsOfSizes(1, 1, 1), time.Second, 0},
		{"no groups", nil, time.Second, 0},
		{"empty group is degenerate", groupsOfSizes(0, 0), time.Second, -2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateSavings(tt.groups, tt.avg))
		})
	}
}

func TestBootReport(t *testing.T) {
	r := &BootReport{
		Groups: []GroupTiming{
			{Index: 0, Services: []string{"logger"}, Succeeded: 1, Duration: 10 * time.Millisecond},
			{Index: 1, Services: []string{"auth", "cli"}, Succeeded: 1, Failed: []string{"cli"}, Duration: 30 * time.Millisecond},
		},
	}

	assert.Equal(t, 40*time.Millisecond, r.Sequential())
	assert.Equal(t, 2, r.Loaded())
	assert.Equal(t, []string{"cli"}, r.FailedServices())
}
