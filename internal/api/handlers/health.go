package handlers

import (
	"net/http"

	"github.com/hoanghai1803/newsgate/internal/providers"
)

type providerStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type healthResponse struct {
	Status    string           `json:"status"`
	Providers []providerStatus `json:"providers"`
}

// Health handles GET /healthz. It reports liveness and which configured
// providers hold a usable credential, in priority order.
func Health(ps []providers.Provider) http.HandlerFunc {
	statuses := make([]providerStatus, len(ps))
	for i, p := range ps {
		statuses[i] = providerStatus{Name: p.Name(), Available: p.Available()}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Providers: statuses})
	}
}
