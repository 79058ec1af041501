package observer

import (
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"

	"sandfall/internal/sims/sand"
)

func newTestServer(t *testing.T, w *sand.World) (*Server, *httptest.Server) {
	t.Helper()
	s, err := NewServer(w, log.New(io.Discard, "", 0), Options{TPS: 30})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func readFrame(t *testing.T, conn *websocket.Conn, dec *zstd.Decoder) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("expected binary frame, got %d", kind)
	}
	frame, err := dec.DecodeAll(msg, nil)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return frame
}

func TestBootstrap(t *testing.T) {
	_, ts := newTestServer(t, sand.New(6, 4))

	resp, err := http.Get(ts.URL + "/bootstrap")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got BootstrapResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode bootstrap: %v", err)
	}
	want := BootstrapResponse{Width: 6, Height: 4, TPS: 30, Encoding: FrameEncoding}
	if got != want {
		t.Fatalf("bootstrap = %+v, expected %+v", got, want)
	}
}

func TestStreamAndSpawn(t *testing.T) {
	w := sand.New(6, 4)
	s, ts := newTestServer(t, w)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	if first := readFrame(t, conn, dec); !slices.Equal(first, w.Pixels()) {
		t.Fatal("initial frame should match the world's color buffer")
	}

	// Out of range coordinates clamp to the bottom-right cell.
	if err := conn.WriteJSON(SpawnMsg{Type: "spawn", X: 99, Y: 99}); err != nil {
		t.Fatalf("write spawn: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(s.spawns) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("spawn was never queued")
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.tick()

	frame := readFrame(t, conn, dec)
	i := (3*6 + 5) * 4
	if !slices.Equal(frame[i:i+4], []byte{0, 255, 255, 255}) {
		t.Fatalf("spawned cell color = %v", frame[i:i+4])
	}
	if w.Count() != 1 {
		t.Fatalf("count = %d, expected 1", w.Count())
	}
}

func TestFramePNG(t *testing.T) {
	w := sand.New(6, 4)
	_, ts := newTestServer(t, w)

	resp, err := http.Get(ts.URL + "/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
		t.Fatalf("bounds = %v", b)
	}
	p := w.Pixels()
	want := color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	if got := color.RGBAModel.Convert(img.At(0, 0)); got != want {
		t.Fatalf("pixel (0,0) = %v, expected %v", got, want)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, sand.New(4, 4))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
