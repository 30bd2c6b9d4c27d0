package logic

import (
	"fmt"
	"strconv"
	"time"
)

// Elapsed returns running time net of pauses. While Paused the value is
// frozen at the instant the pause began. Outside Running and Paused it is 0.
// The result is clamped at zero if the clock went backwards.
func (s *Stopwatch) Elapsed(now time.Time) time.Duration {
	ref := now
	switch s.Phase {
	case PhaseRunning:
	case PhasePaused:
		ref = s.PausedAt
	default:
		return 0
	}
	return nonNegative(ref.Sub(s.StartedAt) - s.TotalPause)
}

// RecordLap computes the lap ending at now, consuming any pause time
// accumulated since the previous lap.
func (s *Stopwatch) RecordLap(now time.Time) time.Duration {
	var pauseOffset time.Duration
	if s.PendingPause {
		pauseOffset = s.PauseSinceLastLap
		s.PendingPause = false
		s.PauseSinceLastLap = 0
	}

	from := s.LastLapAt
	if s.FirstLap {
		from = s.StartedAt
	}
	lap := nonNegative(now.Sub(from) - pauseOffset)

	s.LastLapAt = now
	s.FirstLap = false
	s.LastLap = lap
	s.Laps++
	return lap
}

// Components splits d into display fields. Fields truncate; minutes wrap
// past 59.
func Components(d time.Duration) (minutes, seconds, hundredths int) {
	ms := nonNegative(d).Milliseconds()
	minutes = int((ms / 60000) % 60)
	seconds = int((ms / 1000) % 60)
	hundredths = int((ms % 1000) / 10)
	return minutes, seconds, hundredths
}

// FormatDuration renders d as MM:SS:CC.
func FormatDuration(d time.Duration) string {
	m, s, c := Components(d)
	return fmt.Sprintf("%02d:%02d:%02d", m, s, c)
}

// ParseDuration parses a MM:SS:CC string produced by FormatDuration.
func ParseDuration(str string) (minutes, seconds, hundredths int, err error) {
	if len(str) != 8 || str[2] != ':' || str[5] != ':' {
		return 0, 0, 0, fmt.Errorf("parse duration %q: want MM:SS:CC", str)
	}
	fields := [3]*int{&minutes, &seconds, &hundredths}
	for i, f := range fields {
		part := str[i*3 : i*3+2]
		if part[0] < '0' || part[0] > '9' || part[1] < '0' || part[1] > '9' {
			return 0, 0, 0, fmt.Errorf("parse duration %q: bad digits %q", str, part)
		}
		v, convErr := strconv.Atoi(part)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("parse duration %q: %w", str, convErr)
		}
		*f = v
	}
	if minutes > 59 || seconds > 59 {
		return 0, 0, 0, fmt.Errorf("parse duration %q: field out of range", str)
	}
	return minutes, seconds, hundredths, nil
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
