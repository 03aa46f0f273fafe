package models

// Distribution channel names. The set is fixed; the distributor returns one
// outcome per channel regardless of individual failures.
const (
	ChannelEmail   = "email"
	ChannelChat    = "chat"
	ChannelArchive = "archive"
)

// Per-channel outcome statuses.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Delivery modes. Demo mode means the channel fell back to a local simulation
// because its credentials were absent or placeholders.
const (
	ModeLive = "live"
	ModeDemo = "demo"
)

// DistributionOutcome records the result of one channel's delivery attempt.
type DistributionOutcome struct {
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
}
