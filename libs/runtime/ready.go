package runtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// ReadyCheck is a named dependency check for /readyz.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

type readyResponse struct {
	Status   string            `json:"status"`
	Failures map[string]string `json:"failures,omitempty"`
}

// NewBaseMuxWithReady returns a mux serving /healthz (liveness) and /readyz
// (every check must pass within 2s).
func NewBaseMuxWithReady(checks ...ReadyCheck) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeReady(w, http.StatusOK, readyResponse{Status: "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		failures := map[string]string{}
		for _, check := range checks {
			if check.Check == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := check.Check(ctx)
			cancel()
			if err != nil {
				name := check.Name
				if name == "" {
					name = "dependency"
				}
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			writeReady(w, http.StatusServiceUnavailable, readyResponse{Status: "unavailable", Failures: failures})
			return
		}
		writeReady(w, http.StatusOK, readyResponse{Status: "ok"})
	})
	return mux
}

func writeReady(w http.ResponseWriter, status int, body readyResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
