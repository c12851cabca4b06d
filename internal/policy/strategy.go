package policy

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Strategy is a named bundle of escalation/aggregation thresholds
// controlling how quickly a learner moves from hints to explanations
// to saved notes.
type Strategy string

const (
	StrategyHintOnly       Strategy = "hint-only"
	StrategyAdaptiveLow    Strategy = "adaptive-low"
	StrategyAdaptiveMedium Strategy = "adaptive-medium"
	StrategyAdaptiveHigh   Strategy = "adaptive-high"
)

// AllStrategies returns every strategy from most to least lenient.
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyHintOnly,
		StrategyAdaptiveLow,
		StrategyAdaptiveMedium,
		StrategyAdaptiveHigh,
	}
}

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyHintOnly, StrategyAdaptiveLow, StrategyAdaptiveMedium, StrategyAdaptiveHigh:
		return true
	}
	return false
}

// Unlimited marks a threshold that never trips. Counts compare against
// it with plain >=, which is never true for realistic event windows.
const Unlimited = math.MaxInt

// Thresholds are the per-strategy trip counts for escalation and
// aggregation.
type Thresholds struct {
	Escalate  int
	Aggregate int
}

// Finite reports whether the escalate threshold can ever trip.
func (t Thresholds) Finite() bool {
	return t.Escalate != Unlimited
}

// defaultThresholds is the built-in strategy table.
var defaultThresholds = map[Strategy]Thresholds{
	StrategyHintOnly:       {Escalate: Unlimited, Aggregate: Unlimited},
	StrategyAdaptiveLow:    {Escalate: 5, Aggregate: 10},
	StrategyAdaptiveMedium: {Escalate: 3, Aggregate: 6},
	StrategyAdaptiveHigh:   {Escalate: 2, Aggregate: 4},
}

// ThresholdsFor returns the thresholds for a strategy. Unknown
// strategies fall back to hint-only, the most lenient profile.
func ThresholdsFor(s Strategy) Thresholds {
	if t, ok := defaultThresholds[s]; ok {
		return t
	}
	return defaultThresholds[StrategyHintOnly]
}

// Profile is the read-only learner input to the decision engine.
type Profile struct {
	LearnerID string
	Strategy  Strategy
}

// thresholdOverride is one YAML entry in an overrides file.
type thresholdOverride struct {
	Escalate  *int `yaml:"escalate"`
	Aggregate *int `yaml:"aggregate"`
}

// LoadThresholdOverrides reads a YAML file mapping strategy names to
// replacement threshold values and returns the effective per-strategy
// table. Omitted fields keep their built-in values; unknown strategy
// names or non-positive counts are rejected. hint-only cannot be
// overridden: its thresholds are infinite by definition.
func LoadThresholdOverrides(path string) (map[Strategy]Thresholds, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read threshold overrides: %w", err)
	}

	var file map[string]thresholdOverride
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse threshold overrides: %w", err)
	}

	table := make(map[Strategy]Thresholds, len(defaultThresholds))
	for s, t := range defaultThresholds {
		table[s] = t
	}

	for name, ov := range file {
		s := Strategy(name)
		if !s.Valid() {
			return nil, fmt.Errorf("threshold overrides: unknown strategy %q", name)
		}
		if s == StrategyHintOnly {
			return nil, fmt.Errorf("threshold overrides: %q thresholds are fixed", name)
		}
		t := table[s]
		if ov.Escalate != nil {
			if *ov.Escalate < 1 {
				return nil, fmt.Errorf("threshold overrides: %s escalate must be >= 1", name)
			}
			t.Escalate = *ov.Escalate
		}
		if ov.Aggregate != nil {
			if *ov.Aggregate < 1 {
				return nil, fmt.Errorf("threshold overrides: %s aggregate must be >= 1", name)
			}
			t.Aggregate = *ov.Aggregate
		}
		table[s] = t
	}

	return table, nil
}
