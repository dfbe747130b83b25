package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/auth/login", "POST", 200, 10*time.Millisecond)
	m.RecordRequest("/auth/login", "POST", 200, 30*time.Millisecond)
	m.RecordError("/auth/login", "POST", "INVALID_CREDENTIALS")
	m.RecordAuthEvent("login_failed")
	m.RecordAuthEvent("login_failed")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/auth/login|POST|200"])
	assert.Equal(t, int64(20), snap.RequestAvgMs["/auth/login|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/auth/login|POST|INVALID_CREDENTIALS"])
	assert.Equal(t, int64(2), snap.AuthEvents["login_failed"])

	m.RecordAuthEvent("login_failed")
	assert.Equal(t, int64(2), snap.AuthEvents["login_failed"], "snapshot is a copy")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordAuthEvent("x")
	})
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordAuthEvent("login_succeeded")
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(100), m.Snapshot().AuthEvents["login_succeeded"])
}
