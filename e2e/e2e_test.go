package e2e

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/leaptrack/internal/app"
	"github.com/ayusman/leaptrack/internal/plugin"
	"github.com/ayusman/leaptrack/internal/sensor"
	"github.com/ayusman/leaptrack/internal/server"
	"github.com/ayusman/leaptrack/internal/store"
	"github.com/ayusman/leaptrack/internal/tracker"
	"github.com/ayusman/leaptrack/testdata"
)

// scriptedService is a tracking service stand-in that sends the version
// banner on connect and then one recorded message per push.
type scriptedService struct {
	server *httptest.Server
	send   chan []byte
}

func newScriptedService(t *testing.T) *scriptedService {
	t.Helper()

	svc := &scriptedService{send: make(chan []byte)}
	upgrader := websocket.Upgrader{}
	svc.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		conn.WriteMessage(websocket.TextMessage, testdata.MustLoadMessage("version.json"))
		for {
			select {
			case msg := <-svc.send:
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-r.Context().Done():
				return
			}
		}
	}))
	t.Cleanup(svc.server.Close)
	return svc
}

func (s *scriptedService) url() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

func (s *scriptedService) push(t *testing.T, name string) {
	t.Helper()
	select {
	case s.send <- testdata.MustLoadMessage(name):
	case <-time.After(2 * time.Second):
		t.Fatalf("service did not accept %s", name)
	}
}

func getJSON(t *testing.T, client *http.Client, url string, v interface{}) int {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	plugins := plugin.NewManager(filepath.Join(tmpDir, "plugins"), logger)
	if err := plugins.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	svc := newScriptedService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := sensor.Dial(ctx, sensor.Config{URL: svc.url(), DialTimeout: 2 * time.Second, Logger: logger})
	if err != nil {
		t.Fatalf("sensor.Dial() error = %v", err)
	}

	tr := tracker.New(tracker.Config{Logger: logger}, src)
	defer tr.Close()
	if !tr.IsInitialized() {
		t.Fatal("tracker not initialized")
	}

	application, err := app.New(app.Config{
		Tracker:      tr,
		Store:        s,
		Plugins:      plugins,
		TickInterval: 5 * time.Millisecond,
		Logger:       logger,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	srv := server.New(server.Config{Store: s, Plugins: plugins, State: application.Hub(), Logger: logger})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	t.Run("BindTrigger", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/bindings",
			"application/json",
			strings.NewReader(`{"trigger":"key_tap","plugin_name":"keyboard","action_name":"keystroke","config":{"key":"space"}}`),
		)
		if err != nil {
			t.Fatalf("create binding error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	application.Start(ctx)
	defer application.Stop()

	t.Run("HealthReportsInitialized", func(t *testing.T) {
		var health struct {
			Status      string `json:"status"`
			Initialized bool   `json:"initialized"`
		}
		getJSON(t, client, ts.URL+"/api/health", &health)
		if health.Status != "ok" || !health.Initialized {
			t.Errorf("health = %+v, want ok and initialized", health)
		}
	})

	t.Run("TracksHand", func(t *testing.T) {
		svc.push(t, "open_hand.json")

		var snap tracker.Snapshot
		eventually(t, "hand in state", func() bool {
			return getJSON(t, client, ts.URL+"/api/state", &snap) == http.StatusOK && snap.FrameID == 1001
		})

		if !snap.Hand.Valid || snap.Hand.ID != 12 {
			t.Errorf("hand = %+v, want valid hand 12", snap.Hand)
		}
		if snap.Grip || !snap.Release {
			t.Errorf("grip=%v release=%v, want open hand", snap.Grip, snap.Release)
		}
	})

	t.Run("JournalsGestures", func(t *testing.T) {
		svc.push(t, "gestures.json")

		var events struct {
			Events []store.Event `json:"events"`
			Total  int           `json:"total"`
		}
		eventually(t, "journaled gestures", func() bool {
			getJSON(t, client, ts.URL+"/api/events", &events)
			return events.Total >= 1
		})

		var sawSwipe bool
		for _, e := range events.Events {
			if strings.HasPrefix(e.Trigger, "swipe_") && e.GestureID == 8 {
				sawSwipe = true
			}
		}
		if !sawSwipe {
			t.Errorf("events = %+v, want a swipe with gesture id 8", events.Events)
		}
	})
}
