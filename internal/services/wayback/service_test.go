package wayback

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

type memoryStore struct {
	saved     map[string]*models.Snapshot
	completed map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		saved:     map[string]*models.Snapshot{},
		completed: map[string]bool{},
	}
}

func (m *memoryStore) SaveSnapshot(snapshot *models.Snapshot) error {
	m.saved[snapshot.Timestamp] = snapshot
	return nil
}

func (m *memoryStore) IsCompleted(brand, timestamp string) (bool, error) {
	return m.completed[brand+"/"+timestamp], nil
}

func (m *memoryStore) MarkCompleted(brand, timestamp string) error {
	m.completed[brand+"/"+timestamp] = true
	return nil
}

func TestService_CollectSkipsCompleted(t *testing.T) {
	var pageHits int64

	mux := http.NewServeMux()
	mux.HandleFunc("/cdx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[["timestamp","original"],
			["20231124103000","http://example.com/"],
			["20231127090000","http://example.com/"]]`)
	})
	mux.HandleFunc("/web/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&pageHits, 1)
		fmt.Fprint(w, "<html><body>Sale</body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testConfig(server.URL + "/cdx")
	cfg.ReplayBaseURL = server.URL + "/web"
	client := NewClient(cfg, arbor.NewLogger())
	store := newMemoryStore()
	store.completed["Gymshark/20231124103000"] = true

	service := NewService(client, store, arbor.NewLogger())
	fetched, err := service.Collect(context.Background(), "Gymshark", []string{"example.com"})
	require.NoError(t, err)

	// Only the uncollected capture is fetched and checkpointed
	assert.Equal(t, 1, fetched)
	assert.Equal(t, int64(1), atomic.LoadInt64(&pageHits))
	require.Len(t, store.saved, 1)
	assert.Contains(t, store.saved, "20231127090000")
	assert.Contains(t, store.saved["20231127090000"].HTML, "Sale")
	assert.True(t, store.completed["Gymshark/20231127090000"])
}

func TestService_CollectContinuesPastFetchFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cdx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[["timestamp","original"],["20231124103000","http://host.invalid/page"]]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testConfig(server.URL + "/cdx")
	cfg.MaxRetries = 1
	client := NewClient(cfg, arbor.NewLogger())
	store := newMemoryStore()

	service := NewService(client, store, arbor.NewLogger())
	fetched, err := service.Collect(context.Background(), "Gymshark", []string{"example.com"})

	// The unreachable page is skipped, not fatal
	require.NoError(t, err)
	assert.Equal(t, 0, fetched)
	assert.Empty(t, store.saved)
	assert.False(t, store.completed["Gymshark/20231124103000"])
}
