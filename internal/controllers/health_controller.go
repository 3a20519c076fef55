package controllers

import (
	"betcodes/internal/models"
	"fmt"
	json "github.com/goccy/go-json"
	"net/http"
	"time"
)

type StateReader interface {
	State() models.PremiumState
}

type HealthController struct {
	premium   StateReader
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	AccessState   string  `json:"access_state"`
	RemainingMs   int64   `json:"time_remaining_ms"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	state := hc.premium.State()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		AccessState:   state.Access.String(),
		RemainingMs:   state.TimeRemaining.Milliseconds(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(premium StateReader) *HealthController {
	return &HealthController{
		premium:   premium,
		startTime: time.Now(),
	}
}
