package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Pointers int           // Pointer moves sent to each scene
	Chats    int           // Chat questions sent, each replayed once
	Frames   int           // Frames pulled from each scene
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every failed request
}

// Stats holds run statistics.
type Stats struct {
	DashboardChecks   int
	PointersSent      int
	PointersAccepted  int
	PointersThrottled int
	PointersFailed    int
	ChatsSent         int
	ChatsAnswered     int
	ChatsDuplicate    int
	ChatsFailed       int
	FramesDecoded     int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// Record mirrors a dashboard record on the wire.
type Record struct {
	ID               string  `json:"id"`
	RomeCode         string  `json:"rome_code"`
	JobTitle         string  `json:"job_title"`
	Zone             string  `json:"zone"`
	CurrentTension   float64 `json:"current_tension"`
	PredictedTension float64 `json:"predicted_tension_6m"`
	Trend            string  `json:"trend"`
	ModelConfidence  float64 `json:"model_confidence"`
}

// Zone mirrors a zone aggregate on the wire.
type Zone struct {
	Zone    string  `json:"zone"`
	Tension float64 `json:"tension"`
}

// Dashboard is the subset of GET /api/dashboard the run checks.
type Dashboard struct {
	Total             int      `json:"total"`
	CriticalCount     int      `json:"critical_count"`
	AverageConfidence float64  `json:"average_confidence"`
	HasConfidence     bool     `json:"has_confidence"`
	Top               []Record `json:"top"`
	Zones             []Zone   `json:"zones"`
	Trends            struct {
		Up     int `json:"up"`
		Down   int `json:"down"`
		Stable int `json:"stable"`
	} `json:"trends"`
}

// Predictions is GET /api/predictions.
type Predictions struct {
	Rows  []Record `json:"rows"`
	Total int      `json:"total"`
}

// ChatReply is the subset of POST /api/chat the run checks.
type ChatReply struct {
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
	Mode      string `json:"mode"`
	Duplicate bool   `json:"duplicate"`
	Failed    bool   `json:"failed"`
}

// Scene is one entry of GET /api/scenes.
type Scene struct {
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Running bool   `json:"running"`
}
