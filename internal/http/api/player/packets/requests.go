package packets

type PairRequest struct {
	PairingCode string `json:"pairing_code" binding:"required"`
}

type HeartbeatRequest struct {
	Status         *string `json:"status" binding:"omitempty,oneof=playing idle error offline paired unpaired"`
	AppVersion     *string `json:"app_version"`
	DownloadStatus *string `json:"download_status" binding:"omitempty,oneof=unknown in_progress completed failed"`
}
