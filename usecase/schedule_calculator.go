package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reelpilot/domain/model"
	"reelpilot/infrastructure/logger"
)

// DefaultGenerationLeadTime is how far before a slot generation is triggered.
// The window must stay at least as wide as the scheduler poll interval so an
// hourly poller cannot miss it.
const DefaultGenerationLeadTime = 90 * time.Minute

// ErrInvalidSchedule indicates malformed schedule configuration (empty or
// unparseable posting times). This is a caller bug and fails fast.
var ErrInvalidSchedule = errors.New("invalid schedule configuration")

type clockTime struct {
	hour   int
	minute int
}

// secondScaleSlot is the default evening slot when a scale-tier series only
// configured one posting time.
var secondScaleSlot = clockTime{hour: 21, minute: 0}

func parsePostingTimes(postingTimes []string) ([]clockTime, error) {
	if len(postingTimes) == 0 {
		return nil, fmt.Errorf("%w: posting times must not be empty", ErrInvalidSchedule)
	}
	out := make([]clockTime, 0, len(postingTimes))
	for _, s := range postingTimes {
		parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: malformed posting time %q", ErrInvalidSchedule, s)
		}
		h, errH := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
			return nil, fmt.Errorf("%w: malformed posting time %q", ErrInvalidSchedule, s)
		}
		out = append(out, clockTime{hour: h, minute: m})
	}
	return out, nil
}

// loadLocation resolves an IANA zone name. An unknown zone degrades to UTC with
// a logged warning instead of stalling the whole pipeline on one bad
// user-entered timezone.
func loadLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.GetLogger().WithField("timezone", timezone).Warn("Unknown timezone, falling back to UTC")
		return time.UTC
	}
	return loc
}

// NextSlot computes the next UTC instant a video for this series should go
// live. The result is always strictly after nowUTC, including after long
// downtime. Pure function of its inputs aside from the timezone database.
//
// Cadence per tier: launch advances 2 days from the last slot at the single
// configured local time, grow advances 1 day, scale cycles through two local
// times per day (second defaults to 21:00 local).
func NextSlot(postingTimes []string, timezone string, tier model.PlanTier, lastSlotUTC *time.Time, nowUTC time.Time) (time.Time, error) {
	times, err := parsePostingTimes(postingTimes)
	if err != nil {
		return time.Time{}, err
	}
	loc := loadLocation(timezone)
	nowUTC = nowUTC.UTC()

	switch tier {
	case model.TierScale:
		slots := times
		if len(slots) < 2 {
			slots = append(slots, secondScaleSlot)
		}
		return nextScaleSlot(slots[:2], loc, lastSlotUTC, nowUTC), nil
	case model.TierLaunch:
		return nextIntervalSlot(times[0], loc, lastSlotUTC, nowUTC, 2), nil
	default:
		// grow and anything unrecognized: daily cadence
		return nextIntervalSlot(times[0], loc, lastSlotUTC, nowUTC, 1), nil
	}
}

// nextIntervalSlot handles the single-slot tiers: the candidate is stepDays
// after the last slot's local date at the configured local time, advanced until
// it lands strictly in the future.
func nextIntervalSlot(at clockTime, loc *time.Location, lastSlotUTC *time.Time, nowUTC time.Time, stepDays int) time.Time {
	var cand time.Time
	if lastSlotUTC == nil {
		local := nowUTC.In(loc)
		cand = time.Date(local.Year(), local.Month(), local.Day(), at.hour, at.minute, 0, 0, loc)
		// First slot ever: today's occurrence, or tomorrow's if it has passed.
		for !cand.After(nowUTC) {
			cand = cand.AddDate(0, 0, 1)
		}
		return cand.UTC()
	}
	local := lastSlotUTC.In(loc)
	cand = time.Date(local.Year(), local.Month(), local.Day(), at.hour, at.minute, 0, 0, loc)
	cand = cand.AddDate(0, 0, stepDays)
	for !cand.After(nowUTC) {
		cand = cand.AddDate(0, 0, stepDays)
	}
	return cand.UTC()
}

// nextScaleSlot walks day by day through the two configured slots and returns
// the first one strictly after both nowUTC and the last slot.
func nextScaleSlot(slots []clockTime, loc *time.Location, lastSlotUTC *time.Time, nowUTC time.Time) time.Time {
	ref := nowUTC
	if lastSlotUTC != nil && lastSlotUTC.After(ref) {
		ref = *lastSlotUTC
	}
	local := ref.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	for i := 0; i < 1462; i++ { // two slots per day; bounded at ~2 years of downtime
		for _, s := range slots {
			cand := time.Date(day.Year(), day.Month(), day.Day(), s.hour, s.minute, 0, 0, loc)
			if cand.After(nowUTC) && (lastSlotUTC == nil || cand.After(*lastSlotUTC)) {
				return cand.UTC()
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	// Unreachable with a sane timezone database.
	return nowUTC.Add(24 * time.Hour)
}

// InGenerationWindow reports whether nowUTC lies inside [slot - leadTime, slot],
// both bounds inclusive. The window is deliberately the full lead interval, not
// a narrow band, so a poller running at the lead-time frequency or faster
// cannot miss the trigger.
func InGenerationWindow(slotUTC time.Time, leadTime time.Duration, nowUTC time.Time) bool {
	start := slotUTC.Add(-leadTime)
	return !nowUTC.Before(start) && !nowUTC.After(slotUTC)
}
