package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionSweeper drops sessions idle for longer than maxIdle
type SessionSweeper interface {
	Sweep(maxIdle time.Duration) int
}

type sweepSessionsWorker struct {
	Sessions SessionSweeper
	maxIdle  time.Duration
	interval time.Duration
}

func NewSweepSessionsWorker(sessions SessionSweeper, maxIdle time.Duration) *sweepSessionsWorker {
	interval := maxIdle / 2
	if interval <= 0 {
		interval = time.Minute
	}
	return &sweepSessionsWorker{
		Sessions: sessions,
		maxIdle:  maxIdle,
		interval: interval,
	}
}

func (w *sweepSessionsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := w.Sessions.Sweep(w.maxIdle); n > 0 {
				logrus.Infof("swept %d idle sessions", n)
			}
		case <-ctx.Done():
			logrus.Info("shutting down SweepSessionsWorker")
			return
		}
	}
}
