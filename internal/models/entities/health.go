package entities

import "time"

const (
	HealthOK   = "ok"
	HealthDown = "down"
)

// ComponentHealth is the result of probing one backing store
type ComponentHealth struct {
	Status  string `json:"status"`
	Details string `json:"details"`
	Latency string `json:"latency"`
}

// HealthReport is the /healthCheck body. It is down when any component is.
type HealthReport struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"services"`
	UpSince    time.Time                  `json:"up_since"`
	Uptime     string                     `json:"uptime"`
}

// Add records a probe outcome and downgrades the overall status on failure
func (h *HealthReport) Add(name string, took time.Duration, err error, okDetails, downDetails string) {
	if h.Components == nil {
		h.Components = make(map[string]ComponentHealth)
	}
	c := ComponentHealth{Status: HealthOK, Details: okDetails, Latency: took.Round(time.Microsecond).String()}
	if err != nil {
		c.Status = HealthDown
		c.Details = downDetails
		h.Status = HealthDown
	}
	h.Components[name] = c
}

func (h *HealthReport) Healthy() bool {
	return h.Status != HealthDown
}
