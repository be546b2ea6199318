package utils

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Watch times a run and the phases within it.
type Watch struct {
	startTime time.Time
	lapTime   time.Time
}

func (w *Watch) Start() {
	w.startTime = time.Now()
	w.lapTime = w.startTime
}

// Elapsed is the time since Start.
func (w *Watch) Elapsed() time.Duration {
	return time.Since(w.startTime)
}

// Lap is the time since the previous Lap (or Start), and begins a new lap.
func (w *Watch) Lap() time.Duration {
	now := time.Now()
	d := now.Sub(w.lapTime)
	w.lapTime = now
	return d
}

// LogLap ends the current lap and logs its duration under the given phase name.
func (w *Watch) LogLap(phase string) {
	log.Debug().Msg(phase + " took (ms) " + V(w.Lap().Milliseconds()))
}
