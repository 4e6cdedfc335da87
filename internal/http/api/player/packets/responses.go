package packets

type GenerateCodeResponse struct {
	PairingCode string `json:"pairing_code"`
}

type PairPendingResponse struct {
	Message string `json:"message"`
}

type PairResponse struct {
	DeviceToken string `json:"device_token"`
	UserID      int    `json:"user_id"`
}

type HeartbeatResponse struct {
	Success bool `json:"success"`
}
