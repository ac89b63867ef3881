package transfer

import "github.com/shopspring/decimal"

type SettlementRequest struct {
	CampaignIDs []int64 `json:"campaignIds"`
}

type SettlementSummary struct {
	CampaignsProcessed int                 `json:"campaignsProcessed"`
	CampaignsSkipped   int                 `json:"campaignsSkipped"`
	EligibleUsers      int                 `json:"eligibleUsers"`
	RecordsCreated     int                 `json:"recordsCreated"`
	TotalCredited      decimal.Decimal     `json:"totalCredited"`
	InvoicesSent       int                 `json:"invoicesSent"`
	InvoicesFailed     int                 `json:"invoicesFailed"`
	Errors             []CampaignSettleErr `json:"errors"`
}

type CampaignSettleErr struct {
	CampaignID int64  `json:"campaignId"`
	Error      string `json:"error"`
}

type InvoiceLine struct {
	Label  string
	Amount decimal.Decimal
}

type Invoice struct {
	Number       string
	UserName     string
	CampaignName string
	Views        int64
	PayRate      decimal.Decimal
	Gross        decimal.Decimal
	Deductions   []InvoiceLine
	Net          decimal.Decimal
	Currency     string
}
