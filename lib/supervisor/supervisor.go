package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/driftguard/driftguard/lib/alarm"
	"github.com/driftguard/driftguard/lib/config"
	"github.com/driftguard/driftguard/lib/drift"
	"github.com/driftguard/driftguard/lib/guard"
	"github.com/driftguard/driftguard/lib/reboot"
	"github.com/driftguard/driftguard/lib/timesource"
	"github.com/driftguard/driftguard/lib/util/logger"
)

var log = logger.GetDriftguardLogger()

// Supervisor runs the watchdog cycle on a fixed interval: sample the
// reference clock, classify the drift, advance the alarm, and when the
// alarm has matured, consult the reboot guard and invoke the executor.
//
// Cycles are strictly serialized. A cycle that runs long delays the next
// tick; it never overlaps it. No failure inside a cycle terminates the
// loop — the supervisor only stops when told to.
type Supervisor struct {
	cfg      *config.WatchdogConfig
	source   timesource.Source
	store    guard.RecordStore
	executor reboot.Executor

	// alarm is advanced only from the run loop; mutex guards the reads
	// done by status accessors.
	alarm alarm.Alarm

	// now is the cycle clock, replaceable in tests.
	now func() time.Time

	isRunning bool
	mutex     sync.Mutex
	stopChan  chan struct{}
	stopOnce  sync.Once
	waitGroup sync.WaitGroup
}

// New creates a supervisor wired to the given collaborators.
func New(cfg *config.WatchdogConfig, source timesource.Source, store guard.RecordStore, executor reboot.Executor) *Supervisor {
	return &Supervisor{
		cfg:      cfg,
		source:   source,
		store:    store,
		executor: executor,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start launches the watchdog loop. The first cycle runs immediately so an
// already-drifted system is detected without waiting out the interval.
func (s *Supervisor) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.waitGroup.Add(1)
	go s.run()
}

// Stop cancels the loop and blocks until the in-flight cycle finishes.
func (s *Supervisor) Stop() {
	s.mutex.Lock()
	if !s.isRunning {
		s.mutex.Unlock()
		return
	}
	s.isRunning = false
	s.mutex.Unlock()
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.waitGroup.Wait()
}

// Wait blocks until the loop has exited.
func (s *Supervisor) Wait() {
	s.waitGroup.Wait()
}

func (s *Supervisor) run() {
	defer s.waitGroup.Done()

	log.WithFields(logger.Fields{
		"at":              "(Supervisor).run",
		"check_interval":  s.cfg.CheckInterval,
		"allowed_diff":    s.cfg.AllowedDifference,
		"alarm_timeout":   s.cfg.TimeoutDuration,
		"reboot_cooldown": s.cfg.MinRebootInterval,
	}).Info("Watchdog started")

	s.runCycle()
	for {
		if !s.waitWithCancellation(s.cfg.CheckInterval) {
			log.WithField("at", "(Supervisor).run").Info("Watchdog stopped")
			return
		}
		s.runCycle()
	}
}

// waitWithCancellation waits for the specified duration or until shutdown.
// Returns true if the wait completed normally, false if cancelled.
func (s *Supervisor) waitWithCancellation(duration time.Duration) bool {
	select {
	case <-time.After(duration):
		return true
	case <-s.stopChan:
		return false
	}
}

// runCycle performs one full watchdog step. The reference query is resolved
// (or timed out) before the alarm is touched, so every cycle feeds the
// state machine exactly one settled outcome.
func (s *Supervisor) runCycle() {
	sample := s.takeSample()
	verdict := drift.Evaluate(sample, s.cfg.AllowedDifference)
	now := sample.LocalTime

	switch {
	case verdict.Err != nil:
		log.WithError(verdict.Err).Warn("Reference clock unreachable, treating as out of sync")
	case verdict.InSync:
		log.WithField("drift", verdict.Drift).Debug("Clock in sync")
	default:
		log.WithFields(logger.Fields{
			"drift":   verdict.Drift,
			"allowed": s.cfg.AllowedDifference,
		}).Warn("Clock out of sync")
	}

	s.mutex.Lock()
	s.alarm = s.alarm.Observe(!verdict.InSync, now)
	current := s.alarm
	s.mutex.Unlock()

	if !current.Matured(now, s.cfg.TimeoutDuration) {
		return
	}

	log.WithFields(logger.Fields{
		"at":        "(Supervisor).runCycle",
		"raised_at": current.RaisedAt(),
	}).Warn("Alarm matured, attempting reboot")
	s.attemptReboot(now)
}

// takeSample queries the reference clock with a bounded wait and stamps the
// local time the moment the query resolves.
func (s *Supervisor) takeSample() drift.Sample {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SampleTimeout)
	defer cancel()

	ref, err := s.source.Sample(ctx)
	return drift.Sample{
		LocalTime:     s.now(),
		ReferenceTime: ref,
		Err:           err,
	}
}

// attemptReboot enforces the cooldown and, if permitted, commits the guard
// record before issuing the reboot command (write-then-act), so a crash
// loop around the reboot call cannot bypass the cooldown.
func (s *Supervisor) attemptReboot(now time.Time) {
	rec, err := s.store.Load()
	if err != nil {
		// Permissive: an unreadable record counts as no prior reboot.
		log.WithError(err).Warn("Failed to read guard record, assuming no prior reboot")
		rec = guard.Record{}
	}

	if !guard.Permit(now, rec.LastRebootAt, s.cfg.MinRebootInterval) {
		log.WithFields(logger.Fields{
			"at":             "(Supervisor).attemptReboot",
			"last_reboot_at": rec.LastRebootAt,
			"cooldown":       s.cfg.MinRebootInterval,
		}).Info("Reboot denied by cooldown guard")
		return
	}

	if err := s.store.Save(guard.Record{LastRebootAt: now}); err != nil {
		// Failing open: a reboot with degraded cooldown tracking beats a
		// watchdog that can never reboot.
		log.WithError(err).Error("Failed to persist guard record, proceeding with reboot")
	}

	if err := s.executor.Reboot(context.Background()); err != nil {
		// The alarm stays armed and matured; the next cycle retries,
		// subject to the cooldown just committed.
		log.WithError(err).Error("Reboot command failed")
		return
	}

	log.WithField("at", "(Supervisor).attemptReboot").Info("Reboot issued")
}

// Alarm returns the current alarm value. Intended for status reporting;
// the supervisor itself is the only writer.
func (s *Supervisor) Alarm() alarm.Alarm {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.alarm
}
