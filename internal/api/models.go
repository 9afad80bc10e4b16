package api

const Version = "1.0.0"

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Items     int    `json:"items"`
	Documents int    `json:"documents"`
	Limits    Limits `json:"limits"`
}

// Limits reports the result bounds the engine applies.
type Limits struct {
	TopK       int `json:"top_k"`
	OverFetch  int `json:"over_fetch"`
	DisplayCap int `json:"display_cap"`
}

type CacheClearResponse struct {
	Status string `json:"status"`
}
