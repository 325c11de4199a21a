package models

import "time"

// PresaleSnapshot is one committed presale refresh, flattened for history.
type PresaleSnapshot struct {
	BaseModel
	Seq             uint64    `json:"seq"`
	Account         string    `json:"account"`
	Phase           string    `json:"phase"`
	TotalSupply     float64   `json:"total_supply"`
	PresaleOffered  float64   `json:"presale_offered"`
	PresaleRaised   float64   `json:"presale_raised"`
	SoftCap         float64   `json:"soft_cap"`
	HardCap         float64   `json:"hard_cap"`
	ContributedUSD  float64   `json:"contributed_usd"`
	MinLaunchPrice  float64   `json:"min_launch_price"`
	LaunchPrice     float64   `json:"launch_price"`
	MarketCap       float64   `json:"market_cap"`
	LiquidityValue  float64   `json:"liquidity_value"`
	SoftCapProgress float64   `json:"soft_cap_progress"`
	NativePriceUSD  float64   `json:"native_price_usd"`
	TakenAt         time.Time `json:"taken_at"`
}

// Action is one dispatched write and its outcome.
type Action struct {
	BaseModel
	Action       string    `json:"action"`
	TxHash       string    `json:"tx_hash"`
	Status       string    `json:"status"` // success | failed
	ErrorMessage string    `json:"error_message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

const (
	ActionStatusSuccess = "success"
	ActionStatusFailed  = "failed"
)
