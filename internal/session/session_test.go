package session

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_DeterministicPerSeed(t *testing.T) {
	a := New(Config{Seed: 42, Silent: true})
	b := New(Config{Seed: 42, Silent: true})
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.RNG().Float64(), b.RNG().Float64())
	}
}

func TestRunID_Unique(t *testing.T) {
	a := New(Config{Silent: true})
	b := New(Config{Silent: true})
	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestLogf_Gating(t *testing.T) {
	var buf bytes.Buffer

	s := New(Config{Out: &buf})
	s.Logf("progress %d", 1)
	s.Debugf("debug %d", 1)
	assert.Contains(t, buf.String(), "progress 1")
	assert.NotContains(t, buf.String(), "debug 1")

	buf.Reset()
	s = New(Config{Out: &buf, Verbose: true})
	s.Debugf("debug %d", 2)
	assert.Contains(t, buf.String(), "debug 2")

	buf.Reset()
	s = New(Config{Out: &buf, Verbose: true, Silent: true})
	s.Logf("nope")
	s.Debugf("nope")
	assert.Empty(t, buf.String())
}
