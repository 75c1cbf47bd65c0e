package domain

import "time"

// MinedAmount converts elapsed session time into COIN at speed coins per hour.
// Time past the configured session window does not accrue, so claiming late
// never yields more than one full session.
func MinedAmount(elapsed time.Duration, speed float64, sessionMinutes int) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	if cap := time.Duration(sessionMinutes) * time.Minute; elapsed > cap {
		elapsed = cap
	}
	return elapsed.Hours() * speed
}

// MiningProgress returns session completion in percent, 0..100. Derived from
// elapsed time, never stored.
func MiningProgress(elapsed time.Duration, sessionMinutes int) float64 {
	total := time.Duration(sessionMinutes) * time.Minute
	if total <= 0 {
		return 100
	}
	if elapsed < 0 {
		elapsed = 0
	}
	p := elapsed.Seconds() / total.Seconds() * 100
	if p > 100 {
		p = 100
	}
	return p
}
