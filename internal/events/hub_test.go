package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	a, b := h.Subscribe(), h.Subscribe()
	assert.Equal(t, 2, h.Subscribers())

	h.Publish(New("req-1", TypeJobSaved, JobSaved{JobID: "x", Saved: true}))

	for _, ch := range []chan Event{a, b} {
		e := <-ch
		assert.Equal(t, TypeJobSaved, e.Type)
		assert.Equal(t, "req-1", e.RequestID)
		var d JobSaved
		require.NoError(t, json.Unmarshal(e.Data, &d))
		assert.Equal(t, JobSaved{JobID: "x", Saved: true}, d)
	}

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	assert.Equal(t, 1, h.Subscribers())
	_, open := <-a
	assert.False(t, open)
}

func TestHub_SlowSubscriberDrops(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < 25; i++ {
		h.Publish(New("", TypePing, nil))
	}
	assert.Len(t, ch, cap(ch))
}

func TestEvent_Encode(t *testing.T) {
	s := New("", TypeJobsPruned, JobsPruned{Deleted: 3}).Encode()

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	assert.Equal(t, "jobs_pruned", m["type"])
	assert.EqualValues(t, 1, m["v"])
	assert.Equal(t, map[string]any{"deleted": float64(3)}, m["data"])
	assert.NotContains(t, m, "request_id")
}
