package loans

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Policy is the snapshot cadence chosen from the age of a block.
type Policy int

const (
	// Blockly snapshots every block.
	Blockly Policy = iota
	// Hourly snapshots blocks at the start of every hour.
	Hourly
	// Hour4 snapshots blocks at the start of every fourth hour of the current day.
	Hour4
	// Daily snapshots blocks at the start of each day.
	Daily
)

func (p Policy) String() string {
	switch p {
	case Blockly:
		return "blockly"
	case Hourly:
		return "hourly"
	case Hour4:
		return "hour4"
	case Daily:
		return "daily"
	default:
		return "unknown"
	}
}

// SelectPolicy picks the cadence for a block whose timestamp is t, first match wins.
func SelectPolicy(now, t time.Time) Policy {
	switch {
	case Diff(now, t, Months) >= 1:
		return Daily
	case Diff(now, t, Days) > 7:
		return Hour4
	case Diff(now, t, Hours) > 12:
		return Hourly
	default:
		return Blockly
	}
}

// Decision is the outcome of one scheduler evaluation.
type Decision struct {
	Run    bool
	Policy Policy
	// EndOfDay is set when the block qualified through the end-of-day guard.
	EndOfDay bool
	// FailOpen is set when evaluation failed and the block was admitted anyway.
	FailOpen bool
}

// SnapshotScheduler decides per block whether the market snapshot pass runs.
// It keeps no state between blocks.
type SnapshotScheduler struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewSnapshotScheduler(logger *zap.Logger, now func() time.Time) *SnapshotScheduler {
	if now == nil {
		now = time.Now
	}
	return &SnapshotScheduler{logger: logger, now: now}
}

// Decide evaluates the cadence policy for a block timestamp. It never fails: any evaluation
// error or panic admits the block.
func (s *SnapshotScheduler) Decide(ts time.Time) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("snapshot policy panicked, admitting block", zap.Any("panic", r), zap.Time("timestamp", ts))
			d = Decision{Run: true, FailOpen: true}
		}
	}()

	d, err := s.evaluate(ts)
	if err != nil {
		s.logger.Warn("snapshot policy failed, admitting block", zap.Error(err), zap.Time("timestamp", ts))
		return Decision{Run: true, FailOpen: true}
	}
	s.logger.Debug("snapshot policy",
		zap.String("policy", d.Policy.String()),
		zap.Bool("run", d.Run),
		zap.Bool("endOfDay", d.EndOfDay),
		zap.Time("timestamp", ts),
	)
	return d
}

func (s *SnapshotScheduler) evaluate(ts time.Time) (Decision, error) {
	if ts.IsZero() {
		return Decision{}, ErrZeroTimestamp
	}
	now := s.now().UTC()
	if now.IsZero() {
		return Decision{}, fmt.Errorf("clock returned zero time")
	}

	d := Decision{Policy: SelectPolicy(now, ts)}
	if IsNearEndOfDay(ts) {
		d.Run, d.EndOfDay = true, true
		return d, nil
	}

	switch d.Policy {
	case Daily:
		d.Run = IsNearStartOf(ts, Days)
	case Hour4:
		d.Run = IsNearHourMultiple(now, ts, 4)
	case Hourly:
		d.Run = IsNearHourMultiple(now, ts, 1)
	case Blockly:
		d.Run = true
	default:
		return Decision{}, fmt.Errorf("unknown policy %d", d.Policy)
	}
	return d, nil
}
