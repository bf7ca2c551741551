package servos

import (
	"context"
	"fmt"
	"time"

	"servo2go/internal/curves"
	"servo2go/internal/health"
	"servo2go/internal/ui"
)

// motionTask is the single owned motion execution of a servo. It is
// explicitly cancelled and replaced by a newer command, never fired
// and forgotten, so there is never more than one concurrent writer
// per actuator.
type motionTask struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newMotionTask() *motionTask {
	ctx, cancel := context.WithCancel(context.Background())
	return &motionTask{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// runMotion executes one movement as a sequence of timed position
// updates. It terminates on completion, cancellation (superseded) or
// a driver fault, whichever comes first.
func (s *Servo) runMotion(task *motionTask, start float64, target float64, duration time.Duration, curve curves.Curve) {
	defer close(task.done)

	// duration <= 0 is an instantaneous jump
	if duration <= 0 {
		if err := s.applyAngle(target); err != nil {
			s.abortMotion(task, err)
			return
		}
		s.completeMotion(task, start, target, duration, curve)
		return
	}

	startedAt := time.Now()
	ticker := time.NewTicker(s.stepRate)
	defer ticker.Stop()

	for {
		select {
		case <-task.ctx.Done():
			s.supersedeMotion(task, start, duration, curve)
			return
		case now := <-ticker.C:
			elapsed := now.Sub(startedAt)
			angle := curves.Position(start, target, duration, curve, elapsed)
			if err := s.applyAngle(angle); err != nil {
				s.abortMotion(task, err)
				return
			}
			if elapsed >= duration {
				s.completeMotion(task, start, target, duration, curve)
				return
			}
		}
	}
}

// applyAngle transforms a logical angle into physical space and writes
// it to the driver. The driver write happens outside the state lock so
// slow sinks never block snapshot reads.
func (s *Servo) applyAngle(logicalAngle float64) error {
	s.mu.Lock()
	physicalAngle := s.calibration.Apply(logicalAngle)
	channel := s.config.Channel
	s.mu.Unlock()

	if err := s.driver.WriteAngle(channel, physicalAngle); err != nil {
		return err
	}

	s.mu.Lock()
	s.motion.CurrentAngle = logicalAngle
	s.mu.Unlock()
	return nil
}

func (s *Servo) completeMotion(task *motionTask, start float64, target float64, duration time.Duration, curve curves.Curve) {
	distance := target - start
	if distance < 0 {
		distance = -distance
	}

	s.mu.Lock()
	if s.task == task {
		s.task = nil
	}
	s.motion.Moving = false
	s.motion.CurrentAngle = target
	s.movementHistory.Append(MovementRecord{
		From:      start,
		To:        target,
		Distance:  distance,
		Duration:  duration,
		Curve:     curve,
		Timestamp: time.Now(),
	})
	s.counters.TotalMovements++
	s.counters.TotalDistanceDeg += distance
	// a successful movement clears a latched execution fault
	s.execError = false
	s.mu.Unlock()

	ui.Debug("Servo %s reached %f° after %v", s.config.ID, target, duration)
}

// supersedeMotion records the cancellation marker of a motion that was
// replaced by a newer command. The servo stays at the last written
// angle; this is not an error.
func (s *Servo) supersedeMotion(task *motionTask, start float64, duration time.Duration, curve curves.Curve) {
	s.mu.Lock()
	if s.task == task {
		s.task = nil
	}
	s.motion.Moving = false
	lastWritten := s.motion.CurrentAngle
	distance := lastWritten - start
	if distance < 0 {
		distance = -distance
	}
	s.movementHistory.Append(MovementRecord{
		From:       start,
		To:         lastWritten,
		Distance:   distance,
		Duration:   duration,
		Curve:      curve,
		Timestamp:  time.Now(),
		Superseded: true,
	})
	s.mu.Unlock()

	ui.Debug("Servo %s: motion superseded at %f°", s.config.ID, lastWritten)
}

// abortMotion handles a driver fault: the motion stops at the last
// successfully written angle and the servo escalates to ERROR.
func (s *Servo) abortMotion(task *motionTask, err error) {
	s.mu.Lock()
	if s.task == task {
		s.task = nil
	}
	s.motion.Moving = false
	s.execError = true
	s.counters.ErrorCount++
	message := fmt.Sprintf("movement aborted: %s", err.Error())
	s.errorLog.Append(LogEntry{Timestamp: time.Now(), Level: health.StatusError, Message: message})
	s.mu.Unlock()

	ui.Error("Servo %s: %s", s.config.ID, message)
}
