package generator

import "time"

// The free tier allows 30 requests per minute against the lite scoring
// model, so consecutive scoring calls must sit at least 2 seconds apart.
const scoringRequestsPerMinute = 30

// WaitInterval returns the mandatory pause after a successful call to the
// given model. The pause is fixed-window: applied unconditionally,
// independent of observed latency.
func WaitInterval(model string) time.Duration {
	if model == ScoringModel {
		return time.Minute / scoringRequestsPerMinute
	}
	return 100 * time.Millisecond
}

// Pacer spaces out successive calls to one model. Sleep is swappable for
// tests; nil means time.Sleep.
type Pacer struct {
	Model string
	Sleep func(time.Duration)
}

// Pause blocks for the model's inter-call interval.
func (p Pacer) Pause() {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(WaitInterval(p.Model))
}
