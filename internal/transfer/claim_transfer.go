package transfer

import (
	"time"

	"github.com/maheshrc27/reelpay/internal/models"
	"github.com/shopspring/decimal"
)

type ClaimCreated struct {
	ClaimID         int64           `json:"claimId"`
	RequestDate     time.Time       `json:"requestDate"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
}

type ClaimResolution struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

type ReferralSummary struct {
	Unclaimed decimal.Decimal         `json:"unclaimed"`
	Claims    []*models.ReferralClaim `json:"claims"`
}
