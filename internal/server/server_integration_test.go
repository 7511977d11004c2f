package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/leaptrack/internal/app"
	"github.com/ayusman/leaptrack/internal/store"
	"github.com/ayusman/leaptrack/internal/tracker"
)

func TestAPI_BindingWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	ts := httptest.NewServer(New(Config{Store: s}))
	defer ts.Close()
	client := ts.Client()

	// 1. Create a binding
	createBody := `{"trigger":"swipe_left","plugin_name":"keyboard","action_name":"keystroke","config":{"key":"left"}}`
	resp, err := client.Post(ts.URL+"/api/bindings", "application/json", bytes.NewBufferString(createBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID      string `json:"id"`
		Trigger string `json:"trigger"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, "swipe_left", created.Trigger)

	// 2. A second binding for the same trigger conflicts
	resp, err = client.Post(ts.URL+"/api/bindings", "application/json", bytes.NewBufferString(createBody))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// 3. Unknown triggers are rejected
	resp, err = client.Post(ts.URL+"/api/bindings", "application/json",
		bytes.NewBufferString(`{"trigger":"wave","plugin_name":"p","action_name":"a"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// 4. Delete and verify
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/bindings/"+created.ID, nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = client.Get(ts.URL + "/api/bindings/" + created.ID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Stream(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	hub := app.NewStateHub()
	hub.Publish(tracker.Snapshot{FrameID: 1})

	ts := httptest.NewServer(New(Config{State: hub}))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() tracker.Snapshot {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var snap tracker.Snapshot
		require.NoError(t, conn.ReadJSON(&snap))
		return snap
	}

	// The latest snapshot is sent on connect.
	assert.Equal(t, int64(1), read().FrameID)

	// Wait for the subscription before publishing.
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 2*time.Second, 5*time.Millisecond)

	hub.Publish(tracker.Snapshot{FrameID: 2})
	assert.Equal(t, int64(2), read().FrameID)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 5*time.Millisecond)
}
