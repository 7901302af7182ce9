package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/svenhw/flapstats/export"
	"github.com/svenhw/flapstats/store"
)

func TestSeasonsEndpoint(t *testing.T) {
	client, err := store.NewClient(filepath.Join(t.TempDir(), "flapstats.db"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		client.Close()
	})

	rows := []export.Row{
		{
			Date:      "2024-12-30",
			Sequence:  1,
			ExitTime:  "06:01",
			EntryTime: "07:39",
			Duration:  "01:38 h",
		},
		{
			Date:      "2025-04-01",
			Sequence:  1,
			ExitTime:  "08:00",
			EntryTime: "08:45",
			Duration:  "45 mins",
		},
	}

	if _, err := client.Merge(rows); err != nil {
		t.Fatal(err)
	}

	db = client

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodGet,
		"/?start_time=2024-12-01&end_time=2025-01-31",
		nil,
	)

	errorHandler(seasons).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var summaries []SeasonSummary

	err = json.Unmarshal(rec.Body.Bytes(), &summaries)
	if err != nil {
		t.Fatal(err)
	}

	if assert.Len(t, summaries, 1) {
		assert.Equal(t, "winter-2024-2025", summaries[0].Key)
		assert.Equal(t, 1, summaries[0].Sessions)
	}

	// no query params means all-time
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)

	errorHandler(seasons).ServeHTTP(rec, req)

	summaries = nil

	err = json.Unmarshal(rec.Body.Bytes(), &summaries)
	if err != nil {
		t.Fatal(err)
	}

	assert.Len(t, summaries, 2)
}
