package presale

import (
	"sync"
	"time"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/metrics"
)

// Parameters are the normalized presale figures of one refresh.
type Parameters struct {
	TotalSupply    float64
	Burn           float64
	LiquidityPool  float64
	DevMarketing   float64
	PresaleOffered float64
	PresaleRaised  float64 // USD
	SoftCap        float64 // USD
	HardCap        float64 // USD
	LiquidityInUSD float64
	EndDate        time.Time
}

// Inputs maps the parameters onto the deployment calculator.
func (p Parameters) Inputs() metrics.DeploymentInputs {
	return metrics.DeploymentInputs{
		TotalSupply:    p.TotalSupply,
		Burn:           p.Burn,
		LiquidityPool:  p.LiquidityPool,
		DevMarketing:   p.DevMarketing,
		PresaleOffered: p.PresaleOffered,
		PresaleRaised:  p.PresaleRaised,
		SoftCap:        p.SoftCap,
		HardCap:        p.HardCap,
		LiquidityInUSD: p.LiquidityInUSD,
	}
}

// Contribution is the connected account's normalized contribution.
type Contribution struct {
	Native   float64
	Stable   float64
	TotalUSD float64 // all contributors
}

// Snapshot is the read model of one refresh cycle.
type Snapshot struct {
	Seq       uint64
	UpdatedAt time.Time
	Account   ledger.Address

	Parameters     Parameters
	Status         ledger.PresaleStatus
	Metrics        metrics.DeploymentMetrics
	Contribution   Contribution
	Position       metrics.ContributionPosition
	NativePriceUSD float64

	SoftCapProgress float64
	SoftCapReached  bool
	TimeLeft        metrics.TimeLeft

	// ReadErrors lists the reads of this cycle that failed and kept their previous value.
	ReadErrors []string
}

// LaunchPrices returns the minimum and the actual launch price.
func (s Snapshot) LaunchPrices() (min, actual float64) {
	return s.Metrics.MinLaunchPrice, s.Metrics.ActualLaunchPrice
}

// Phase names the lifecycle stage shown on the presale card.
func (s Snapshot) Phase() string {
	switch {
	case s.Status.Cancelled:
		return "cancelled"
	case s.Status.ClaimEnabled:
		return "claim open"
	case s.Status.Successful:
		return "successful"
	case s.TimeLeft.Expired:
		return "ended"
	default:
		return "live"
	}
}

// Store holds the latest snapshot. Every refresh takes a sequence number up
// front; a commit carrying an older number than the stored one is dropped, so
// a slow cycle cannot overwrite a newer one.
type Store struct {
	mu      sync.RWMutex
	nextSeq uint64
	current Snapshot
	has     bool
}

func NewStore() *Store {
	return &Store{}
}

// Begin reserves the sequence number of a new refresh cycle.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// Commit stores snap unless a newer cycle already committed. It reports
// whether snap became current.
func (s *Store) Commit(snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.has && snap.Seq <= s.current.Seq {
		return false
	}
	s.current = snap
	s.has = true
	return true
}

// Latest returns the current snapshot and whether one exists.
func (s *Store) Latest() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.has
}

func (s *Store) Parameters() Parameters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Parameters
}

func (s *Store) Metrics() metrics.DeploymentMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Metrics
}

func (s *Store) Status() ledger.PresaleStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Status
}

func (s *Store) Position() metrics.ContributionPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Position
}

func (s *Store) LaunchPrices() (min, actual float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.LaunchPrices()
}
