package dto

// UsageResponse shows today's AI-call counters against the configured
// per-user daily ceilings.
type UsageResponse struct {
	YMD        string `json:"ymd"`
	Username   string `json:"username"`
	ImageCalls int    `json:"image_calls"`
	TextCalls  int    `json:"text_calls"`
	ImageLimit int    `json:"image_limit"`
	TextLimit  int    `json:"text_limit"`
}
