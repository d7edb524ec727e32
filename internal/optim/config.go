package optim

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/boltz-ml/boltz/internal/table"
)

// Noise configures training data corruption for denoising runs.
type Noise struct {
	Kind   string  `yaml:"kind"` // "", "mask" or "gauss"
	Factor float64 `yaml:"factor"`
}

func (n Noise) kind() (table.NoiseKind, error) {
	switch n.Kind {
	case "", "none":
		return table.NoiseNone, nil
	case "mask":
		return table.NoiseMask, nil
	case "gauss":
		return table.NoiseGauss, nil
	}
	return 0, fmt.Errorf("optim: unknown noise kind %q", n.Kind)
}

// Config holds the hyperparameters of one training run. Zero values
// are replaced by the defaults documented on each field, following the
// update factors of Hinton's practical guide as used by the original
// schedules.
type Config struct {
	// Algorithm selects the parameter update scheme: "cd", "pretrain",
	// "finetune" or "dbn". Default "cd".
	Algorithm string `yaml:"algorithm"`

	// Updates is the iteration budget of one Run call (default 1000).
	Updates int `yaml:"updates"`

	// BatchSize rows per minibatch; 0 means full batch.
	BatchSize int `yaml:"batch-size"`
	// BatchInterval is the number of iterations a drawn minibatch is
	// reused before resampling (default 10).
	BatchInterval int `yaml:"batch-interval"`

	// Rate is the base learning rate (default 0.1). The factors scale
	// it per parameter family.
	Rate          float64 `yaml:"rate"`
	FactorWeights float64 `yaml:"factor-weights"` // default 1.0
	FactorVBias   float64 `yaml:"factor-vbias"`   // default 0.1
	FactorHBias   float64 `yaml:"factor-hbias"`   // default 0.1
	FactorLogVar  float64 `yaml:"factor-logvar"`  // default 0.01

	// CDSteps and CDIterations control the contrastive divergence
	// chain: k sampling steps averaged over m iterations (default 1, 1).
	CDSteps      int `yaml:"cd-steps"`
	CDIterations int `yaml:"cd-iterations"`

	// Threshold ends the run as Converged once the reconstruction
	// error objective falls to or below it. Zero disables the check.
	Threshold float64 `yaml:"threshold"`
	// EvalInterval is the number of iterations between objective
	// evaluations (default 100).
	EvalInterval int `yaml:"eval-interval"`
	// KeepOptimum restores the best observed parameters at the end of
	// the run instead of the last ones.
	KeepOptimum bool `yaml:"keep-optimum"`

	// MaxTime bounds the wall clock of one Run call, checked once per
	// iteration; exceeding it terminates in MaxIterations. Zero means
	// unbounded. Set programmatically, not from YAML.
	MaxTime time.Duration `yaml:"-"`

	// Noise corrupts minibatches for denoising training.
	Noise Noise `yaml:"noise"`
}

func (c Config) withDefaults() Config {
	if c.Algorithm == "" {
		c.Algorithm = "cd"
	}
	if c.Updates == 0 {
		c.Updates = 1000
	}
	if c.BatchInterval == 0 {
		c.BatchInterval = 10
	}
	if c.Rate == 0 {
		c.Rate = 0.1
	}
	if c.FactorWeights == 0 {
		c.FactorWeights = 1.0
	}
	if c.FactorVBias == 0 {
		c.FactorVBias = 0.1
	}
	if c.FactorHBias == 0 {
		c.FactorHBias = 0.1
	}
	if c.FactorLogVar == 0 {
		c.FactorLogVar = 0.01
	}
	if c.CDSteps == 0 {
		c.CDSteps = 1
	}
	if c.CDIterations == 0 {
		c.CDIterations = 1
	}
	if c.EvalInterval == 0 {
		c.EvalInterval = 100
	}
	return c
}

// ScheduleFromYAML decodes a mapping of named training configurations
// from YAML bytes, with defaults applied to every entry. File handling
// is the caller's concern.
func ScheduleFromYAML(data []byte) (map[string]Config, error) {
	var raw map[string]Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("optim: decoding schedule: %w", err)
	}
	out := make(map[string]Config, len(raw))
	for name, cfg := range raw {
		if _, ok := algorithms[cfg.withDefaults().Algorithm]; !ok {
			return nil, fmt.Errorf("optim: schedule %q: unknown algorithm %q", name, cfg.Algorithm)
		}
		out[name] = cfg.withDefaults()
	}
	return out, nil
}
