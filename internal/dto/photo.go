package dto

// PhotoUploadResult reports where the photo was stored and the new completion score.
type PhotoUploadResult struct {
	Success           bool   `json:"success"`
	SlotIndex         int    `json:"slot_index"`
	FileURL           string `json:"file_url"`
	Storage           string `json:"storage"`
	ProfileCompletion int    `json:"profile_completion"`
}

// DriveConnectResponse carries the Google consent URL.
type DriveConnectResponse struct {
	AuthURL string `json:"auth_url"`
}
