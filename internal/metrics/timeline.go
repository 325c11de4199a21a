package metrics

import (
	"math"
	"time"
)

// TimeLeft is a countdown split into calendar-style units.
type TimeLeft struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Expired bool
}

// Countdown returns the time remaining until target. Once target has passed
// every unit is zero and Expired is set.
func Countdown(target, now time.Time) TimeLeft {
	d := target.Sub(now)
	if d <= 0 {
		return TimeLeft{Expired: true}
	}
	total := int(d / time.Second)
	return TimeLeft{
		Days:    total / 86400,
		Hours:   total / 3600 % 24,
		Minutes: total / 60 % 60,
		Seconds: total % 60,
	}
}

// StakingTimeline describes how long a staking pool keeps paying rewards.
type StakingTimeline struct {
	CurrentBlock    uint64
	EndBlock        uint64
	RemainingBlocks uint64
	EstimatedEnd    time.Time
	Exceeded        bool
}

// Timeline estimates the reward end date from the block distance. The estimate
// is rounded to whole hours.
func Timeline(currentBlock, endBlock uint64, blockTime time.Duration, now time.Time) StakingTimeline {
	t := StakingTimeline{CurrentBlock: currentBlock, EndBlock: endBlock}
	if endBlock > currentBlock {
		t.RemainingBlocks = endBlock - currentBlock
	}

	seconds := float64(t.RemainingBlocks) * blockTime.Seconds()
	hours := math.Round(seconds / 3600)
	t.EstimatedEnd = now.Add(time.Duration(hours) * time.Hour)
	t.Exceeded = !t.EstimatedEnd.After(now)
	return t
}
