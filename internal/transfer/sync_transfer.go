package transfer

type SyncAcceptance struct {
	Message      string `json:"message"`
	RunID        string `json:"runId"`
	TotalReels   int    `json:"totalReels"`
	TotalBatches int    `json:"totalBatches"`
	BatchSize    int    `json:"batchSize"`
}
