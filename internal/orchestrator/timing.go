package orchestrator

import (
	"time"

	"stagehand/internal/dependency"
)

// EstimateSavings estimates how much faster loading groups in parallel is
// compared to loading every service one after another, assuming each load
// takes avgLoadTime and each group takes as long as one load. It is advisory
// only and may be zero or negative for degenerate input.
func EstimateSavings(groups []dependency.LoadGroup, avgLoadTime time.Duration) time.Duration {
	sequential := time.Duration(dependency.TotalMembers(groups)) * avgLoadTime
	parallel := time.Duration(len(groups)) * avgLoadTime
	return sequential - parallel
}

// GroupTiming is the measured outcome of one group.
type GroupTiming struct {
	Index     int
	Services  []string
	Succeeded int
	Failed    []string
	Duration  time.Duration
}

// BootReport summarizes one boot attempt.
type BootReport struct {
	BootID           string
	State            State
	Groups           []GroupTiming
	Total            time.Duration
	EstimatedSavings time.Duration
}

// Sequential returns the sum of the measured group durations.
func (r *BootReport) Sequential() time.Duration {
	var total time.Duration
	for _, g := range r.Groups {
		total += g.Duration
	}
	return total
}

// Loaded returns how many services loaded across all groups.
func (r *BootReport) Loaded() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Succeeded
	}
	return n
}

// FailedServices returns every service that failed, critical or not.
func (r *BootReport) FailedServices() []string {
	var out []string
	for _, g := range r.Groups {
		out = append(out, g.Failed...)
	}
	return out
}

func timingFor(res *GroupResult) GroupTiming {
	gt := GroupTiming{
		Index:     res.Index,
		Services:  res.Names,
		Succeeded: len(res.Loaded),
		Duration:  res.Duration,
	}
	for _, f := range res.Failures {
		gt.Failed = append(gt.Failed, f.Name)
	}
	return gt
}
