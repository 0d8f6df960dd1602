/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/millionaire/games/millionaire"
	"github.com/Seednode/millionaire/games/millionaire/halloffame"
)

type message map[string]any

func ofType(typ string) func(message) bool {
	return func(m message) bool { return m["type"] == typ }
}

func testConfig() *Config {
	return &Config{
		lang:            "en",
		format:          "fifteen",
		round:           15,
		questionTimeout: time.Minute,
		friendTimeout:   30 * time.Second,
		fameSize:        10,
		port:            8080,
		soundExt:        "ogg",
	}
}

type testServer struct {
	srv  *httptest.Server
	gm   *GameManager
	fame *halloffame.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := testConfig()

	res, err := loadResources(cfg)
	require.NoError(t, err)

	rs := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{rs.Addr()}})
	fame := halloffame.NewService(halloffame.Config{Redis: rc, Limit: cfg.fameSize})

	mux := httprouter.New()
	errs := make(chan error, 16)
	gm := registerMillionaireGame(cfg, "/millionaire", mux, res, fame, errs)

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		gm.closeAll()
		srv.Close()
	})

	return &testServer{srv: srv, gm: gm, fame: fame}
}

func (ts *testServer) dial(t *testing.T, gameID, role, cookie string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/millionaire/" + gameID + "/ws?role=" + role
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{
		"Cookie": {playerCookieName + "=" + cookie},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(message) bool) message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg message
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func sendJSON(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func TestHub_Roles(t *testing.T) {
	ts := newTestServer(t)

	host := ts.dial(t, "game0001", roleHost, "alice")
	info := readUntil(t, host, ofType("session_info"))
	assert.Equal(t, true, info["is_host"])
	assert.Equal(t, "en", info["lang"])
	assert.ElementsMatch(t, []any{"en", "fr"}, info["langs"])
	assert.Len(t, info["levels"], 15)
	readUntil(t, host, ofType("main_menu"))

	// A second cookie asking for the console only gets the public screen.
	intruder := ts.dial(t, "game0001", roleHost, "mallory")
	info = readUntil(t, intruder, ofType("session_info"))
	assert.Equal(t, false, info["is_host"])
	assert.Equal(t, roleScreen, info["role"])

	// The owner reconnecting keeps the console.
	again := ts.dial(t, "game0001", roleHost, "alice")
	info = readUntil(t, again, ofType("session_info"))
	assert.Equal(t, true, info["is_host"])
}

func TestHub_CommandsFromScreensAreIgnored(t *testing.T) {
	ts := newTestServer(t)

	host := ts.dial(t, "game0002", roleHost, "alice")
	readUntil(t, host, ofType("main_menu"))

	screen := ts.dial(t, "game0002", roleScreen, "bob")
	readUntil(t, screen, ofType("main_menu"))

	sendJSON(t, screen, ClientMessage{Type: "start_round"})

	require.NoError(t, host.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var msg message
	err := host.ReadJSON(&msg)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestHub_ScreensOnlySeePublishedAnswers(t *testing.T) {
	ts := newTestServer(t)

	host := ts.dial(t, "game0003", roleHost, "alice")
	readUntil(t, host, ofType("main_menu"))
	screen := ts.dial(t, "game0003", roleScreen, "bob")
	readUntil(t, screen, ofType("main_menu"))

	sendJSON(t, host, ClientMessage{Type: "start_round"})

	q := readUntil(t, host, ofType("question"))
	assert.NotEmpty(t, q["text"])
	assert.Len(t, q["answers"], millionaire.AnswerCount)
	assert.Contains(t, q, "right")
	assert.Equal(t, "first", q["stage"])

	q = readUntil(t, screen, ofType("question"))
	assert.NotContains(t, q, "text")
	assert.NotContains(t, q, "answers")
	assert.NotContains(t, q, "right")

	n := 2
	sendJSON(t, host, ClientMessage{Type: "publish", N: &n})

	pub := readUntil(t, screen, ofType("publish"))
	assert.EqualValues(t, 2, pub["revealed"])
	assert.Len(t, pub["answers"], 2)
}

func TestHub_RuleViolationsBecomeNotices(t *testing.T) {
	ts := newTestServer(t)

	host := ts.dial(t, "game0004", roleHost, "alice")
	readUntil(t, host, ofType("main_menu"))

	sendJSON(t, host, ClientMessage{Type: "joker", Joker: "bogus"})
	notice := readUntil(t, host, ofType("notice"))
	assert.Equal(t, string(millionaire.CategoryJokerLocked), notice["category"])

	sendJSON(t, host, ClientMessage{Type: "start_free_game"})
	notice = readUntil(t, host, ofType("notice"))
	assert.Equal(t, string(millionaire.CategoryNotImplemented), notice["category"])
}

func TestHub_WalkAwayIsRecorded(t *testing.T) {
	ts := newTestServer(t)

	host := ts.dial(t, "game0005", roleHost, "alice")
	readUntil(t, host, ofType("main_menu"))

	sendJSON(t, host, ClientMessage{Type: "start_round"})
	q := readUntil(t, host, ofType("question"))
	right := int(q["right"].(float64))

	all := millionaire.AnswerCount
	sendJSON(t, host, ClientMessage{Type: "publish", N: &all})
	sendJSON(t, host, ClientMessage{Type: "final_answer", Index: &right})
	sendJSON(t, host, ClientMessage{Type: "confirm"})

	won := readUntil(t, host, func(m message) bool {
		return m["type"] == "winnings" && m["outcome"] == "win"
	})
	assert.EqualValues(t, 0, won["current"])

	sendJSON(t, host, ClientMessage{Type: "next"})
	q = readUntil(t, host, ofType("question"))
	assert.EqualValues(t, 1, q["num"])

	sendJSON(t, host, ClientMessage{Type: "walk_away"})
	gone := readUntil(t, host, func(m message) bool {
		return m["type"] == "winnings" && m["outcome"] == "walk_away"
	})
	assert.EqualValues(t, 0, gone["current"])
	assert.Equal(t, "$100", gone["amount"])

	var entries []halloffame.Entry
	require.Eventually(t, func() bool {
		var err error
		entries, err = ts.fame.Top(context.Background(), "en", 10)
		return err == nil && len(entries) == 1
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "game0005", entries[0].Game)
	assert.Equal(t, "walk_away", entries[0].Outcome)
	assert.Equal(t, "$100", entries[0].Display)

	resp, err := http.Get(ts.srv.URL + "/halloffame/en")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got []halloffame.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, entries[0].ID, got[0].ID)
}

func TestHub_ToggleLang(t *testing.T) {
	ts := newTestServer(t)

	host := ts.dial(t, "game0006", roleHost, "alice")
	readUntil(t, host, ofType("main_menu"))

	sendJSON(t, host, ClientMessage{Type: "toggle_lang"})

	info := readUntil(t, host, ofType("session_info"))
	assert.Equal(t, "fr", info["lang"])
	labels := info["labels"].(map[string]any)
	assert.Equal(t, "Menu principal", labels["main_menu"])
	readUntil(t, host, ofType("main_menu"))

	sendJSON(t, host, ClientMessage{Type: "toggle_lang"})
	info = readUntil(t, host, ofType("session_info"))
	assert.Equal(t, "en", info["lang"])
}

func TestGameManager_ReapClosesClients(t *testing.T) {
	ts := newTestServer(t)

	host := ts.dial(t, "game0007", roleHost, "alice")
	readUntil(t, host, ofType("main_menu"))

	ts.gm.reap(time.Now().Add(time.Minute))

	require.NoError(t, host.SetReadDeadline(time.Now().Add(5*time.Second)))

	var err error
	for err == nil {
		var msg message
		err = host.ReadJSON(&msg)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "connection still open after reaping")
	}

	ts.gm.mu.Lock()
	assert.Empty(t, ts.gm.hubs)
	ts.gm.mu.Unlock()
}

func TestRoutes(t *testing.T) {
	ts := newTestServer(t)

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	tests := map[string]struct {
		path        string
		status      int
		contentType string
		assert      func(t *testing.T, resp *http.Response)
	}{
		"new game redirects": {
			path:   "/millionaire",
			status: http.StatusTemporaryRedirect,
			assert: func(t *testing.T, resp *http.Response) {
				assert.Regexp(t, `^/millionaire/[A-Za-z0-9]{8}$`, resp.Header.Get("Location"))
			},
		},
		"host console": {
			path:        "/millionaire/abcd1234",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
			assert: func(t *testing.T, resp *http.Response) {
				assert.NotEmpty(t, resp.Header.Get("Set-Cookie"))
			},
		},
		"public screen": {
			path:        "/millionaire/abcd1234/screen",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
		},
		"qr code": {
			path:        "/millionaire/abcd1234/qr",
			status:      http.StatusOK,
			contentType: "image/png",
		},
		"labels": {
			path:        "/millionaire/abcd1234/labels?lang=fr",
			status:      http.StatusOK,
			contentType: "application/json; charset=utf-8",
			assert: func(t *testing.T, resp *http.Response) {
				var labels map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&labels))
				assert.Equal(t, "Appel à un ami", labels["friend"])
				assert.Equal(t, "📞", labels["friend.icon"])
			},
		},
		"labels with a bad language": {
			path:   "/millionaire/abcd1234/labels?lang=123456789",
			status: http.StatusBadRequest,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := client.Get(ts.srv.URL + tc.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.contentType != "" {
				assert.Equal(t, tc.contentType, resp.Header.Get("Content-Type"))
			}
			if tc.assert != nil {
				tc.assert(t, resp)
			}
		})
	}
}

func TestHub_AfterFuncDropsStoppedCallbacks(t *testing.T) {
	h := &Hub{ticks: make(chan func(), 4), done: make(chan struct{})}
	defer close(h.done)

	fired := 0

	h.AfterFunc(time.Millisecond, func() { fired++ })
	stop := h.AfterFunc(time.Millisecond, func() { fired += 10 })

	// Both timers deliver, but the second was stopped before running.
	first, second := <-h.ticks, <-h.ticks
	stop()
	first()
	second()

	assert.Equal(t, 1, fired)
}

func TestCueRelay(t *testing.T) {
	now := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)

	cfg := testConfig()
	screenConn := &Client{send: make(chan any, 8), role: roleScreen}
	hostConn := &Client{send: make(chan any, 8), role: roleHost}
	h := &Hub{cfg: cfg, clients: map[*Client]bool{screenConn: true, hostConn: true}}

	relay := &cueRelay{
		hub:     h,
		lengths: map[string]time.Duration{"stage/first/question": time.Minute},
		now:     func() time.Time { return now },
	}

	cue := millionaire.StageCue(millionaire.StageFirst, millionaire.CueQuestion)
	relay.Play(cue, false)

	require.Len(t, screenConn.send, 1)
	assert.Empty(t, hostConn.send)
	assert.Equal(t, CueMessage{Type: "cue", Tag: "stage/first/question", URL: "/sound/stage/first/question.ogg"}, <-screenConn.send)

	assert.Equal(t, time.Minute, relay.LengthOf(cue))
	assert.True(t, relay.IsPlaying("stage/first/question"))
	assert.False(t, relay.IsPlaying("stage/second/question"))

	now = now.Add(2 * time.Minute)
	assert.False(t, relay.IsPlaying("stage/first/question"), "a cue stops playing once its length has passed")

	closing := millionaire.CueClosing
	relay.Play(closing, true)
	assert.True(t, relay.IsPlaying(closing.Tag()), "cues of unknown length play until replaced")
	assert.Equal(t, CueMessage{Type: "cue", Tag: closing.Tag(), URL: "/sound/" + closing.Tag() + ".ogg", LongFade: true}, <-screenConn.send)

	relay.Stop()
	assert.False(t, relay.IsPlaying(closing.Tag()))
	assert.Equal(t, CueMessage{Type: "cue"}, <-screenConn.send)
}
