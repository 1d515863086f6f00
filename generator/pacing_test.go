package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitInterval(t *testing.T) {
	// 30 requests per minute against the scoring model means 2s spacing.
	assert.Equal(t, 2*time.Second, WaitInterval(ScoringModel))
	assert.Equal(t, 100*time.Millisecond, WaitInterval(SynthesisModel))
	assert.Equal(t, 100*time.Millisecond, WaitInterval("some-other-model"))
}

func TestPacerPause(t *testing.T) {
	var slept []time.Duration
	p := Pacer{Model: ScoringModel, Sleep: func(d time.Duration) { slept = append(slept, d) }}
	p.Pause()
	p.Pause()
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, slept)
}
