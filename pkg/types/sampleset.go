// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Sample is one assignment record in a sample set. Assignment values are
// ordered to match SampleSet.Variables.
type Sample struct {
	Assignment  []int   `json:"assignment" yaml:"assignment"`
	Energy      float64 `json:"energy" yaml:"energy"`
	Occurrences int     `json:"occurrences" yaml:"occurrences"`
}

// SampleSet is the assembled outcome of one sampling call: the ordered
// sample records plus the variable labels they are expressed over and
// task-level metadata. Built once and not mutated afterwards.
type SampleSet struct {
	Variables []int          `json:"variables" yaml:"variables"`
	Vartype   Vartype        `json:"vartype" yaml:"vartype"`
	Samples   []Sample       `json:"samples" yaml:"samples"`
	Info      map[string]any `json:"info,omitempty" yaml:"info,omitempty"`
}

// TotalOccurrences sums the occurrence counts across all samples.
func (s SampleSet) TotalOccurrences() int {
	total := 0
	for _, rec := range s.Samples {
		total += rec.Occurrences
	}
	return total
}

// Lowest returns the sample with the lowest energy, or false if the set
// is empty.
func (s SampleSet) Lowest() (Sample, bool) {
	if len(s.Samples) == 0 {
		return Sample{}, false
	}
	best := s.Samples[0]
	for _, rec := range s.Samples[1:] {
		if rec.Energy < best.Energy {
			best = rec
		}
	}
	return best, true
}

// AssignmentMap returns the sample's assignment keyed by variable label.
func (s SampleSet) AssignmentMap(rec Sample) map[int]int {
	m := make(map[int]int, len(s.Variables))
	for i, v := range s.Variables {
		if i < len(rec.Assignment) {
			m[v] = rec.Assignment[i]
		}
	}
	return m
}
