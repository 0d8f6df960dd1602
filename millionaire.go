/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Millionaire quiz show
//
// One game is played by a host on a control console while the audience
// watches a public screen. Both pages are thin views of the same game, held
// server-side and mutated only by the game's hub goroutine.
//
// Features:
// - WebSockets per game ID: /path/:gameid/ws?role=host|screen
// - First cookie to open a host socket owns the host console of that game
// - Every host command re-renders both screens
// - Question and phone-a-friend countdowns ticked on the hub goroutine
// - Audio cues relayed to public screens, which fetch them from /sound/
// - Language toggle recreates the game in the next configured language
// - Finished rounds recorded in the hall of fame when redis is configured
// - Games auto-reaped after configurable idle timeout
// - In-browser QR button to share the public screen, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/language"

	"github.com/Seednode/millionaire/games/millionaire"
	"github.com/Seednode/millionaire/games/millionaire/halloffame"
	"github.com/Seednode/millionaire/games/millionaire/winnings"
)

const (
	roleHost   = "host"
	roleScreen = "screen"
)

// Messages coming from the host console.
type ClientMessage struct {
	Type  string `json:"type"`            // see handleCommand
	N     *int   `json:"n,omitempty"`     // publish
	Index *int   `json:"index,omitempty"` // final_answer
	Joker string `json:"joker,omitempty"` // joker / restore_joker
	Num   *int   `json:"num,omitempty"`   // set_question
	Force bool   `json:"force,omitempty"` // set_question
}

// SessionInfoMessage is sent on connect and after a language change.
type SessionInfoMessage struct {
	Type   string            `json:"type"` // "session_info"
	GameID string            `json:"game_id"`
	Role   string            `json:"role"`
	IsHost bool              `json:"is_host"`
	Lang   string            `json:"lang"`
	Langs  []string          `json:"langs"`
	Labels map[string]string `json:"labels"`
	Levels []winnings.Level  `json:"levels"`
}

type MainMenuMessage struct {
	Type string `json:"type"` // "main_menu"
}

// QuestionMessage announces a freshly loaded question. The public screen
// only learns the text and answers as they are published.
type QuestionMessage struct {
	Type    string                `json:"type"` // "question"
	Stage   string                `json:"stage"`
	Num     int                   `json:"num"`
	Text    string                `json:"text,omitempty"`
	Answers []string              `json:"answers,omitempty"`
	Right   *int                  `json:"right,omitempty"`
	Meta    *millionaire.Metadata `json:"meta,omitempty"`
	Level   string                `json:"level,omitempty"`
}

type PublishMessage struct {
	Type     string   `json:"type"` // "publish"
	Revealed int      `json:"revealed"`
	Text     string   `json:"text"`
	Answers  []string `json:"answers"`
}

type FinalAnswerMessage struct {
	Type  string `json:"type"` // "final_answer"
	Index int    `json:"index"`
}

type RevealMessage struct {
	Type    string `json:"type"` // "reveal"
	Correct int    `json:"correct"`
	Chosen  int    `json:"chosen"`
}

type JokersMessage struct {
	Type      string               `json:"type"` // "jokers"
	Available millionaire.JokerSet `json:"available"`
	Played    millionaire.JokerSet `json:"played"`
	Cut       []int                `json:"cut"`
}

type WinningsMessage struct {
	Type    string `json:"type"` // "winnings"
	Current int    `json:"current"`
	SafeNet int    `json:"safe_net"`
	Outcome string `json:"outcome"`
	Amount  string `json:"amount,omitempty"`
}

type TimerMessage struct {
	Type     string  `json:"type"` // "timer"
	Channel  string  `json:"channel"`
	Progress float64 `json:"progress"`
}

type NoticeMessage struct {
	Type string `json:"type"` // "notice"
	millionaire.Notice
}

// CueMessage tells public screens which sound to play. An empty URL means
// stop.
type CueMessage struct {
	Type     string `json:"type"` // "cue"
	Tag      string `json:"tag,omitempty"`
	URL      string `json:"url,omitempty"`
	LongFade bool   `json:"long_fade,omitempty"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
	role     string
}

type command struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id   string
	cfg  *Config
	res  *resources
	fame *halloffame.Service
	log  *slog.Logger

	// Owned by the run goroutine.
	game    *millionaire.Game
	lang    language.Tag
	pyramid *winnings.Pyramid
	audio   millionaire.Audio
	clients map[*Client]bool
	hostID  string

	register chan *Client
	unreg    chan *Client
	commands chan command
	ticks    chan func()
	done     chan struct{}
	stop     sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
}

func newHub(cfg *Config, res *resources, fame *halloffame.Service, gameID string) (*Hub, error) {
	now := time.Now()

	h := &Hub{
		id:         gameID,
		cfg:        cfg,
		res:        res,
		fame:       fame,
		log:        newLogger(cfg).With(slog.String("game", gameID)),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		commands:   make(chan command),
		ticks:      make(chan func(), 16),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}

	h.audio = millionaire.Silent{}
	if cfg.soundDir != "" {
		h.audio = &cueRelay{hub: h, lengths: cfg.cueLengths, now: time.Now}
	}

	if err := h.setLang(cfg.defaultLang()); err != nil {
		return nil, err
	}

	return h, nil
}

// setLang replaces the game with a new one in lang.
func (h *Hub) setLang(lang language.Tag) error {
	m, err := h.cfg.newMilestones()
	if err != nil {
		return err
	}

	bank, err := h.res.bank(lang)
	if err != nil {
		return err
	}

	pyramid, err := h.res.winnings.Pyramid(lang, m.End())
	if err != nil {
		return err
	}

	hooks := metricsHooks(langCode(lang))
	counted := hooks.RoundFinished
	hooks.RoundFinished = func(outcome millionaire.Outcome, won int) {
		counted(outcome, won)
		h.recordRound(outcome, won)
	}

	game, err := millionaire.NewGame(millionaire.Config{
		Lang:            lang,
		Milestones:      m,
		Bank:            bank,
		Host:            &screen{hub: h, role: roleHost},
		Public:          &screen{hub: h, role: roleScreen},
		Audio:           h.audio,
		Scheduler:       h,
		Logger:          h.log.With(slog.String("lang", langCode(lang))),
		Hooks:           hooks,
		QuestionTimeout: h.cfg.questionTimeout,
		FriendTimeout:   h.cfg.friendTimeout,
	})
	if err != nil {
		return err
	}

	if h.game != nil {
		h.game.Timers().Reset()
		h.audio.Stop()
	}

	h.game, h.lang, h.pyramid = game, lang, pyramid

	return nil
}

// AfterFunc schedules fn on the hub goroutine. A stopped callback is
// dropped even when its timer already fired.
func (h *Hub) AfterFunc(d time.Duration, fn func()) func() bool {
	stopped := false

	t := time.AfterFunc(d, func() {
		select {
		case h.ticks <- func() {
			if !stopped {
				fn()
			}
		}:
		case <-h.done:
		}
	})

	return func() bool {
		stopped = true
		return t.Stop()
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.touch()

			if c.role == roleHost {
				if h.hostID == "" {
					h.hostID = c.playerID
				}
				if c.playerID != h.hostID {
					c.role = roleScreen
				}
			}

			h.clients[c] = true
			clientsConnected.WithLabelValues(c.role).Inc()

			h.send(c, h.sessionInfo(c))
			h.game.Replay(&screen{hub: h, role: c.role, client: c})

			logf(h.cfg, "GAMES: %s joined %s", c.role, h.id)

		case c := <-h.unreg:
			h.touch()
			h.drop(c)

		case cmd := <-h.commands:
			h.touch()
			h.handleCommand(cmd)

		case fn := <-h.ticks:
			fn()

		case <-h.done:
			for c := range h.clients {
				_ = c.conn.Close()
				h.drop(c)
			}
			if h.game != nil {
				h.game.Timers().Reset()
			}
			return
		}
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) sessionInfo(c *Client) SessionInfoMessage {
	return SessionInfoMessage{
		Type:   "session_info",
		GameID: h.id,
		Role:   c.role,
		IsHost: c.role == roleHost,
		Lang:   langCode(h.lang),
		Langs:  h.res.langCodes(),
		Labels: h.res.labels.Labels(h.lang),
		Levels: h.pyramid.Levels(h.game.Milestones()),
	}
}

// handleCommand applies a host command to the game. Rule violations have
// already been shown to the host as notices by the game itself.
func (h *Hub) handleCommand(cmd command) {
	c, msg := cmd.client, cmd.msg

	if c.role != roleHost || c.playerID != h.hostID {
		return
	}

	g := h.game

	var err error
	switch msg.Type {
	case "main_menu":
		err = g.MainMenu()
	case "opening":
		err = g.Opening()
	case "closing":
		err = g.Closing()
	case "start_qualif":
		err = g.StartQualif()
	case "start_round":
		err = g.StartRound()
	case "start_free_game":
		err = g.StartFreeGame()
	case "load_question":
		err = g.LoadQuestion()
	case "publish":
		if msg.N != nil {
			err = g.PublishQuestion(*msg.N)
		} else {
			err = g.PublishNext()
		}
	case "final_answer":
		index := -1
		if msg.Index != nil {
			index = *msg.Index
		}
		err = g.AskFinalAnswer(index)
	case "confirm":
		err = g.ConfirmAnswer()
	case "next":
		err = g.NextQuestion()
	case "joker":
		err = g.PlayJoker(parseJoker(msg.Joker))
	case "restore_joker":
		err = g.RestoreJoker(parseJoker(msg.Joker))
	case "walk_away":
		err = g.WalkAway()
	case "set_question":
		if msg.Num == nil {
			return
		}
		err = g.SetQuestionNum(*msg.Num, msg.Force)
	case "toggle_lang":
		err = h.toggleLang()
	default:
		return
	}

	if err != nil {
		logf(h.cfg, "GAMES: %s in %s: %v", msg.Type, h.id, err)
	}
}

func parseJoker(s string) millionaire.Joker {
	j, err := millionaire.ParseJoker(s)
	if err != nil {
		return millionaire.Joker(s)
	}
	return j
}

func (h *Hub) toggleLang() error {
	next := h.res.next(h.lang)
	if langCode(next) == langCode(h.lang) {
		return nil
	}

	if err := h.setLang(next); err != nil {
		e := millionaire.Convert(err)
		h.broadcast(roleHost, NoticeMessage{Type: "notice", Notice: millionaire.Notice{Category: e.Category, Detail: e.Message}})
		return err
	}

	for c := range h.clients {
		h.send(c, h.sessionInfo(c))
	}

	logf(h.cfg, "GAMES: %s switched to %s", h.id, langCode(next))

	return h.game.MainMenu()
}

// recordRound stores a finished round in the hall of fame without blocking
// the game.
func (h *Hub) recordRound(outcome millionaire.Outcome, won int) {
	logf(h.cfg, "GAMES: Round in %s ended with %s at question %d", h.id, outcome, won)

	if h.fame == nil || won < 0 {
		return
	}

	entry := halloffame.Entry{
		Game:     h.id,
		Lang:     langCode(h.lang),
		Outcome:  outcome.String(),
		Question: won,
		Amount:   h.pyramid.Amount(won),
		Display:  h.pyramid.Format(won),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, err := h.fame.Record(ctx, entry); err != nil {
			log.Printf("%s | ERROR: hall of fame: %v", time.Now().Format(logDate), err)
		}
	}()
}

func (h *Hub) send(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		h.drop(c)
	}
}

func (h *Hub) broadcast(role string, msg any) {
	for c := range h.clients {
		if c.role == role {
			h.send(c, msg)
		}
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
	clientsConnected.WithLabelValues(c.role).Dec()
}

// closeAll ends the hub and disconnects its clients (used by reaper).
func (h *Hub) closeAll() {
	h.stop.Do(func() { close(h.done) })
}

// screen renders the game for every client of one role, or for a single
// client when replaying state to a newcomer.
type screen struct {
	hub    *Hub
	role   string
	client *Client
}

func (s *screen) emit(msg any) {
	if s.client != nil {
		s.hub.send(s.client, msg)
		return
	}
	s.hub.broadcast(s.role, msg)
}

func (s *screen) host() bool {
	return s.role == roleHost
}

func (s *screen) RenderMainMenu() {
	s.emit(MainMenuMessage{Type: "main_menu"})
}

func (s *screen) RenderQuestionLoaded(q *millionaire.Question, stage millionaire.Stage, meta millionaire.Metadata) {
	msg := QuestionMessage{
		Type:  "question",
		Stage: stage.String(),
		Num:   meta.Num,
	}

	if s.host() {
		right := q.RightIndex()
		msg.Text = q.Text
		msg.Answers = q.MixedAnswers()
		msg.Right = &right
		msg.Meta = &meta
		msg.Level = q.Level.String()
	}

	s.emit(msg)
}

func (s *screen) RenderPublish(revealed int) {
	q := s.hub.game.Question()
	if q == nil {
		return
	}

	answers := q.MixedAnswers()
	if revealed < len(answers) {
		answers = answers[:max(revealed, 0)]
	}

	s.emit(PublishMessage{Type: "publish", Revealed: revealed, Text: q.Text, Answers: answers})
}

func (s *screen) RenderFinalAnswer(index int) {
	s.emit(FinalAnswerMessage{Type: "final_answer", Index: index})
}

func (s *screen) RenderReveal(correct, chosen int) {
	s.emit(RevealMessage{Type: "reveal", Correct: correct, Chosen: chosen})
}

func (s *screen) RenderJokers(available, played millionaire.JokerSet, cut []int) {
	if cut == nil {
		cut = []int{}
	}
	s.emit(JokersMessage{Type: "jokers", Available: available, Played: played, Cut: cut})
}

func (s *screen) RenderWinnings(current, safeNet int, outcome millionaire.Outcome) {
	msg := WinningsMessage{
		Type:    "winnings",
		Current: current,
		SafeNet: safeNet,
		Outcome: outcome.String(),
	}
	if outcome.Finished() && current >= 0 {
		msg.Amount = s.hub.pyramid.Format(current)
	}

	s.emit(msg)
}

func (s *screen) RenderTimerProgress(ch millionaire.Channel, progress float64) {
	s.emit(TimerMessage{Type: "timer", Channel: ch.String(), Progress: progress})
}

func (s *screen) RenderNotice(n millionaire.Notice) {
	s.emit(NoticeMessage{Type: "notice", Notice: n})
}

// cueRelay forwards audio cues to the public screens, which play them.
type cueRelay struct {
	hub     *Hub
	lengths map[string]time.Duration
	now     func() time.Time

	current string
	started time.Time
}

func (a *cueRelay) Play(cue millionaire.Cue, longFade bool) {
	tag := cue.Tag()
	a.current, a.started = tag, a.now()

	a.hub.broadcast(roleScreen, CueMessage{
		Type:     "cue",
		Tag:      tag,
		URL:      soundURL(a.hub.cfg, tag),
		LongFade: longFade,
	})
}

func (a *cueRelay) Stop() {
	a.current = ""
	a.hub.broadcast(roleScreen, CueMessage{Type: "cue"})
}

// IsPlaying reports whether tag was the last cue played and has not run
// out. Cues of unknown length play until replaced.
func (a *cueRelay) IsPlaying(tag string) bool {
	if tag == "" || a.current != tag {
		return false
	}

	length, ok := a.lengths[tag]

	return !ok || a.now().Sub(a.started) < length
}

func (a *cueRelay) LengthOf(cue millionaire.Cue) time.Duration {
	return a.lengths[cue.Tag()]
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "millionaire_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated game.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration

	cfg  *Config
	res  *resources
	fame *halloffame.Service
}

func newGameManager(cfg *Config, res *resources, fame *halloffame.Service) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		cfg:         cfg,
		res:         res,
		fame:        fame,
	}
	if gm.idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(gameID string) (*Hub, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub, nil
	}

	hub, err := newHub(gm.cfg, gm.res, gm.fame, gameID)
	if err != nil {
		return nil, err
	}

	gm.hubs[gameID] = hub
	gamesActive.Inc()
	go hub.run()

	return hub, nil
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	for range ticker.C {
		gm.reap(time.Now().Add(-gm.idleTimeout))
	}
}

func (gm *GameManager) reap(cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			gamesActive.Dec()
			hub.closeAll()
			logf(gm.cfg, "GAMES: Reaped idle game %s after %s", id, last.Sub(hub.createdAt).Round(time.Second))
		}
	}
}

// closeAll ends every game, on shutdown.
func (gm *GameManager) closeAll() {
	gm.reap(time.Now().Add(time.Hour))
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		role := r.URL.Query().Get("role")
		if role != roleHost {
			role = roleScreen
		}

		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		hub, err := gm.getHub(gameID)
		if err != nil {
			http.Error(w, "unable to start game", http.StatusInternalServerError)
			log.Printf("%s | ERROR: %v", time.Now().Format(logDate), err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		// Sockets outlive the server's read timeout.
		_ = conn.SetReadDeadline(time.Time{})

		client := &Client{
			conn:     conn,
			send:     make(chan any, 64),
			playerID: playerID,
			role:     role,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.commands <- command{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the public screen of a game.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; the screen lives at /.../:gameid/screen.
	path := strings.TrimSuffix(r.URL.Path, "/qr") + "/screen"

	url := scheme + "://" + r.Host + path

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func servePage(cfg *Config, name string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data, err := assets.ReadFile("assets/millionaire/" + name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write(data)
	}
}

func serveLabels(cfg *Config, res *resources, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		lang := cfg.defaultLang()
		if q := r.URL.Query().Get("lang"); q != "" {
			tag, err := language.Parse(q)
			if err != nil {
				http.Error(w, "invalid language", http.StatusBadRequest)
				return
			}
			lang = tag
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(res.labels.Labels(lang)); err != nil {
			errs <- err
		}
	}
}

func serveHallOfFame(cfg *Config, fame *halloffame.Service, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tag, err := language.Parse(ps.ByName("lang"))
		if err != nil {
			http.Error(w, "invalid language", http.StatusBadRequest)
			return
		}

		n := int64(10)
		if s := r.URL.Query().Get("n"); s != "" {
			if n, err = strconv.ParseInt(s, 10, 64); err != nil || n < 1 {
				http.Error(w, "invalid count", http.StatusBadRequest)
				return
			}
		}

		entries, err := fame.Top(r.Context(), langCode(tag), n)
		if err != nil {
			http.Error(w, "hall of fame unavailable", http.StatusServiceUnavailable)
			errs <- err
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(entries); err != nil {
			errs <- err
		}
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerMillionaireGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → host console
//   - $path/:gameid/screen   → public screen
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for the public screen
//   - $path/:gameid/labels   → translated labels
func registerMillionaireGame(cfg *Config, path string, mux *httprouter.Router, res *resources, fame *halloffame.Service, errs chan<- error) *GameManager {
	gm := newGameManager(cfg, res, fame)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", servePage(cfg, "host.html"))
	mux.GET(cfg.prefix+path+"/:gameid/screen", servePage(cfg, "screen.html"))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)

	mux.GET(cfg.prefix+path+"/:gameid/labels", serveLabels(cfg, res, errs))

	if fame != nil {
		mux.GET(cfg.prefix+"/halloffame/:lang", serveHallOfFame(cfg, fame, errs))
	}

	return gm
}
