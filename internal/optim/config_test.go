package optim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()

	assert.Equal(t, "cd", c.Algorithm)
	assert.Equal(t, 1000, c.Updates)
	assert.Equal(t, 10, c.BatchInterval)
	assert.Equal(t, 0.1, c.Rate)
	assert.Equal(t, 1.0, c.FactorWeights)
	assert.Equal(t, 0.1, c.FactorVBias)
	assert.Equal(t, 0.1, c.FactorHBias)
	assert.Equal(t, 0.01, c.FactorLogVar)
	assert.Equal(t, 1, c.CDSteps)
	assert.Equal(t, 1, c.CDIterations)
	assert.Equal(t, 100, c.EvalInterval)
	assert.Equal(t, 0, c.BatchSize)
	assert.Equal(t, time.Duration(0), c.MaxTime)
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	c := Config{Algorithm: "pretrain", Updates: 42, Rate: 0.5}.withDefaults()

	assert.Equal(t, "pretrain", c.Algorithm)
	assert.Equal(t, 42, c.Updates)
	assert.Equal(t, 0.5, c.Rate)
}

func TestNoiseKind(t *testing.T) {
	tests := []struct {
		name  string
		noise Noise
		ok    bool
	}{
		{"empty", Noise{}, true},
		{"none", Noise{Kind: "none"}, true},
		{"mask", Noise{Kind: "mask", Factor: 0.5}, true},
		{"gauss", Noise{Kind: "gauss", Factor: 0.1}, true},
		{"unknown", Noise{Kind: "pepper"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.noise.kind()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestScheduleFromYAML(t *testing.T) {
	src := []byte(`
coarse:
  algorithm: pretrain
  updates: 2000
  rate: 0.2
  noise:
    kind: mask
    factor: 0.5
fine:
  algorithm: finetune
  updates: 500
  threshold: 0.01
  keep-optimum: true
`)
	sched, err := ScheduleFromYAML(src)
	require.NoError(t, err)
	require.Len(t, sched, 2)

	coarse := sched["coarse"]
	assert.Equal(t, "pretrain", coarse.Algorithm)
	assert.Equal(t, 2000, coarse.Updates)
	assert.Equal(t, 0.2, coarse.Rate)
	assert.Equal(t, "mask", coarse.Noise.Kind)
	assert.Equal(t, 0.5, coarse.Noise.Factor)
	// Unset fields pick up defaults.
	assert.Equal(t, 100, coarse.EvalInterval)

	fine := sched["fine"]
	assert.Equal(t, "finetune", fine.Algorithm)
	assert.Equal(t, 0.01, fine.Threshold)
	assert.True(t, fine.KeepOptimum)
}

func TestScheduleFromYAMLRejectsUnknownAlgorithm(t *testing.T) {
	_, err := ScheduleFromYAML([]byte("bad:\n  algorithm: annealing\n"))
	assert.Error(t, err)
}

func TestScheduleFromYAMLRejectsMalformedInput(t *testing.T) {
	_, err := ScheduleFromYAML([]byte("{not yaml"))
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "initialized", Initialized.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "converged", Converged.String())
	assert.Equal(t, "max-iterations", MaxIterations.String())
	assert.Equal(t, "failed", Failed.String())

	assert.False(t, Initialized.Terminal())
	assert.False(t, Running.Terminal())
	assert.True(t, Converged.Terminal())
	assert.True(t, MaxIterations.Terminal())
	assert.True(t, Failed.Terminal())
}
