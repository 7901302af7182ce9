package stats

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pterm/pterm"

	"github.com/svenhw/flapstats/internal/timeutil"
	"github.com/svenhw/flapstats/store"
)

type errorHandler func(w http.ResponseWriter, r *http.Request) error

func (h errorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// seasons serves the seasonal summaries as JSON. An empty or malformed
// start_time or end_time falls back to an all-time range.
func seasons(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()

	var startTime, endTime time.Time

	now := time.Now()

	t, err := time.ParseInLocation(
		time.DateOnly,
		query.Get("start_time"),
		now.Location(),
	)
	if err == nil {
		startTime = timeutil.RoundToStart(t)
	}

	t, err = time.ParseInLocation(
		time.DateOnly,
		query.Get("end_time"),
		now.Location(),
	)
	if err == nil {
		endTime = timeutil.RoundToEnd(t)
	}

	rows, err := db.Sessions(startTime, endTime)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")

	return json.NewEncoder(w).Encode(Compute(rows))
}

// Server exposes the seasonal summaries over HTTP until interrupted.
func Server(dbClient *store.Client, port uint) error {
	db = dbClient

	mux := http.NewServeMux()

	mux.Handle("/", errorHandler(seasons))

	pterm.Info.Printfln("starting server on port: %d", port)

	//nolint:gosec // no timeout is ok
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
