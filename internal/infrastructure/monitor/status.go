package monitor

import "time"

type Status struct {
	Healthy             bool      `json:"healthy"`
	LastSaveAt          time.Time `json:"last_save_at"`
	LastError           string    `json:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}
