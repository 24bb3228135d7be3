package wayback

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/models"
)

func testConfig(cdxURL string) common.WaybackConfig {
	return common.WaybackConfig{
		CDXBaseURL:     cdxURL,
		From:           "20230101",
		To:             "20240101",
		UserAgent:      "vendo-test",
		RequestTimeout: 5 * time.Second,
		RequestDelay:   time.Millisecond,
		MaxRetries:     2,
	}
}

func TestClient_DiscoverSnapshots(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		fmt.Fprint(w, `[["timestamp","original"],
			["20231124103000","http://gymshark.com/"],
			["20231127090000","http://gymshark.com/"]]`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), arbor.NewLogger())
	snapshots, err := client.DiscoverSnapshots(context.Background(), "Gymshark", "gymshark.com")
	require.NoError(t, err)

	assert.Equal(t, "gymshark.com", gotQuery["url"])
	assert.Equal(t, "20230101", gotQuery["from"])
	assert.Equal(t, "20240101", gotQuery["to"])
	assert.Equal(t, "json", gotQuery["output"])
	assert.Equal(t, "timestamp,original", gotQuery["fl"])
	assert.Equal(t, "statuscode:200", gotQuery["filter"])

	require.Len(t, snapshots, 2)
	first := snapshots[0]
	assert.Equal(t, "20231124103000", first.Timestamp)
	assert.Equal(t, "Gymshark", first.Brand)
	assert.Equal(t, "http://gymshark.com/", first.OriginalURL)
	assert.Equal(t, "http://web.archive.org/web/20231124103000/http://gymshark.com/", first.URL)
	assert.Equal(t, models.SnapshotSourceWayback, first.Source)
}

func TestClient_DiscoverSnapshotsEmptyIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), arbor.NewLogger())
	snapshots, err := client.DiscoverSnapshots(context.Background(), "Gymshark", "gymshark.com")
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestClient_FetchSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "vendo-test", r.Header.Get("User-Agent"))
		fmt.Fprint(w, "<html><body>Sale</body></html>")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), arbor.NewLogger())
	snapshot := &models.Snapshot{Timestamp: "20231124103000", URL: server.URL}

	require.NoError(t, client.FetchSnapshot(context.Background(), snapshot))
	assert.Contains(t, snapshot.HTML, "Sale")
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	policy := NewRetryPolicy(3)

	tests := []struct {
		name       string
		attempt    int
		statusCode int
		retry      bool
	}{
		{"rate limited", 1, 429, true},
		{"server error", 1, 503, true},
		{"not found", 1, 404, false},
		{"success", 1, 200, false},
		{"attempts exhausted", 3, 503, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retry, policy.ShouldRetry(tt.attempt, tt.statusCode, nil))
		})
	}
}

func TestRetryPolicy_BackoffGrowsAndCaps(t *testing.T) {
	policy := NewRetryPolicy(5)
	policy.InitialBackoff = time.Second
	policy.MaxBackoff = 10 * time.Second

	first := policy.CalculateBackoff(0)
	assert.Greater(t, first, time.Duration(0))

	// Jitter is ±25%, so even the largest attempt stays within 125% of cap
	capped := policy.CalculateBackoff(10)
	assert.LessOrEqual(t, capped, 10*time.Second+10*time.Second/4+time.Millisecond)
}
