package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/olablt/worldmap/engine"
	"github.com/olablt/worldmap/hostcfg"
	"github.com/olablt/worldmap/tiles"
)

// gameServer accepts one connection and hands it to the test
func gameServer(t *testing.T) (url string, conns <-chan *websocket.Conn) {
	t.Helper()
	ch := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ch <- conn
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), ch
}

func accept(t *testing.T, conns <-chan *websocket.Conn) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-conns:
		t.Cleanup(func() { conn.Close() })
		return conn
	case <-time.After(5 * time.Second):
		t.Fatal("no connection")
		return nil
	}
}

func dial(t *testing.T, url string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestHello(t *testing.T) {
	url, conns := gameServer(t)
	c := dial(t, url)
	server := accept(t, conns)

	var hello HelloMsg
	server.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := server.ReadJSON(&hello); err != nil {
		t.Fatalf("read HELLO: %v", err)
	}
	if hello.Type != TypeHello || hello.SessionID == "" || hello.SessionID != c.SessionID() {
		t.Fatalf("hello = %+v, client session %q", hello, c.SessionID())
	}
}

func TestUpdatesDelivered(t *testing.T) {
	url, conns := gameServer(t)
	c := dial(t, url)
	server := accept(t, conns)

	server.WriteJSON(map[string]string{"type": "NOISE"})
	server.WriteMessage(websocket.TextMessage, []byte("not json"))
	err := server.WriteJSON(UpdateMsg{Type: TypeUpdate, Attrs: hostcfg.Attributes{
		hostcfg.AttrMode:      "reveal",
		hostcfg.AttrActualLat: "10",
		hostcfg.AttrActualLng: "20",
	}})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case u := <-c.Updates():
		if u.Mode != engine.ModeReveal {
			t.Errorf("mode = %q", u.Mode)
		}
		if u.Actual == nil || *u.Actual != (tiles.LatLng{Lat: 10, Lng: 20}) {
			t.Errorf("actual = %v", u.Actual)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no update delivered")
	}
}

func TestPush(t *testing.T) {
	url, conns := gameServer(t)
	c := dial(t, url)
	server := accept(t, conns)

	server.SetReadDeadline(time.Now().Add(5 * time.Second))
	var hello HelloMsg
	if err := server.ReadJSON(&hello); err != nil {
		t.Fatal(err)
	}

	if err := c.Push(engine.ModeReveal, tiles.LatLng{Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("reveal push: %v", err)
	}
	if err := c.Push(engine.ModeGuess, tiles.LatLng{Lat: 12.345678, Lng: -98.765432}); err != nil {
		t.Fatalf("Push: %v", err)
	}

	_, b, err := server.ReadMessage()
	if err != nil {
		t.Fatalf("read PUSH: %v", err)
	}
	var push PushMsg
	if err := json.Unmarshal(b, &push); err != nil {
		t.Fatal(err)
	}
	want := PushMsg{Type: TypePush, Event: EventGuessLocation, Payload: tiles.LatLng{Lat: 12.345678, Lng: -98.765432}}
	if push != want {
		t.Fatalf("push = %+v, want %+v", push, want)
	}
	if !strings.Contains(string(b), `"payload":{"lat":12.345678,"lng":-98.765432}`) {
		t.Errorf("wire format = %s", b)
	}
}

func TestServerCloseEndsSession(t *testing.T) {
	url, conns := gameServer(t)
	c := dial(t, url)
	server := accept(t, conns)
	server.Close()

	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("client did not notice the closed connection")
	}
	if _, ok := <-c.Updates(); ok {
		t.Fatal("updates channel still open")
	}
	if err := c.Push(engine.ModeSubmission, tiles.LatLng{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Push after close = %v, want ErrClosed", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	url, conns := gameServer(t)
	c := dial(t, url)
	accept(t, conns)

	c.Close()
	c.Close()
	select {
	case <-c.Done():
	default:
		t.Fatal("Done not closed after Close")
	}
}

func TestEventForMode(t *testing.T) {
	cases := []struct {
		mode  engine.Mode
		event string
		ok    bool
	}{
		{engine.ModeSubmission, EventSubmissionLocation, true},
		{engine.ModeGuess, EventGuessLocation, true},
		{engine.ModeReveal, "", false},
	}
	for _, c := range cases {
		event, ok := EventForMode(c.mode)
		if event != c.event || ok != c.ok {
			t.Errorf("EventForMode(%q) = %q, %v", c.mode, event, ok)
		}
	}
}

func TestDecodeBase(t *testing.T) {
	m, err := DecodeBase([]byte(`{"type":"UPDATE","attrs":{}}`))
	if err != nil || m.Type != TypeUpdate {
		t.Fatalf("DecodeBase = %+v, %v", m, err)
	}
	if _, err := DecodeBase([]byte(`[`)); err == nil {
		t.Fatal("DecodeBase accepted invalid JSON")
	}
}
