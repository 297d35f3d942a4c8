package collector

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Poller runs a job immediately and then again whenever Interval has
// elapsed since the previous run finished. Between runs it sleeps in Tick
// increments, so runs may start up to one Tick late but never early.
//
// Cancellation of the context passed to Run is observed between ticks
// only. Jobs receive a context that is not canceled with it, so an
// in-flight pass finishes before Run returns.
type Poller struct {
	Interval time.Duration
	Tick     time.Duration
	Log      logrus.FieldLogger

	// now is replaced in tests.
	now func() time.Time
}

func NewPoller(interval, tick time.Duration, log logrus.FieldLogger) *Poller {
	return &Poller{Interval: interval, Tick: tick, Log: log}
}

// Run blocks until ctx is canceled. It returns nil on cancellation.
func (p *Poller) Run(ctx context.Context, job func(context.Context)) error {
	if p.Interval <= 0 {
		return errors.New("poller: interval must be positive")
	}
	tick := p.Tick
	if tick <= 0 {
		tick = time.Second
	}
	now := p.now
	if now == nil {
		now = time.Now
	}
	log := p.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	jobCtx := context.WithoutCancel(ctx)

	job(jobCtx)
	next := now().Add(p.Interval)
	log.Infof("Scheduler started. Data will be collected every %s. Press Ctrl+C to exit.", p.Interval)

	for {
		if ctx.Err() != nil {
			log.Info("Data collection stopped.")
			return nil
		}
		if !now().Before(next) {
			job(jobCtx)
			next = now().Add(p.Interval)
			log.Debugf("next run at %s", next.Format(time.RFC3339))
			continue
		}

		timer := time.NewTimer(tick)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
}
