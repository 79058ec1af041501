package observer

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"

	"sandfall/internal/core"
	"sandfall/internal/render"
	"sandfall/internal/sims/sand"
)

// FrameEncoding names the payload of binary websocket frames.
const FrameEncoding = "zstd+rgba8"

// BootstrapResponse describes the stream a client is about to receive.
type BootstrapResponse struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	TPS      int    `json:"tps"`
	Encoding string `json:"encoding"`
}

// SpawnMsg is sent by clients to deposit sand at a grid cell.
type SpawnMsg struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type point struct{ x, y int }

// Options tunes the observer loop.
type Options struct {
	TPS        int
	SpawnQueue int
}

// Server runs a sand world on its own goroutine and streams compressed frames
// to websocket clients. All world mutation happens inside Run.
type Server struct {
	world *sand.World
	log   *log.Logger
	tps   int
	clock *core.FixedStep

	upgrader websocket.Upgrader
	enc      *zstd.Encoder
	spawns   chan point

	mu      sync.Mutex
	clients map[uint64]chan []byte
	nextID  atomic.Uint64

	frameMu    sync.RWMutex
	latest     []byte
	compressed []byte
}

// NewServer prepares a server for w. The world must not be touched by other
// goroutines once Run has started.
func NewServer(w *sand.World, logger *log.Logger, opts Options) (*Server, error) {
	if opts.TPS <= 0 {
		opts.TPS = 60
	}
	if opts.SpawnQueue <= 0 {
		opts.SpawnQueue = 1024
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	s := &Server{
		world: w,
		log:   logger,
		tps:   opts.TPS,
		clock: core.NewFixedStep(opts.TPS),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		enc:     enc,
		spawns:  make(chan point, opts.SpawnQueue),
		clients: map[uint64]chan []byte{},
	}
	s.publish()
	return s, nil
}

// Handler returns the HTTP routes served by the observer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap", s.bootstrap)
	mux.HandleFunc("/frame.png", s.framePNG)
	mux.HandleFunc("/ws", s.ws)
	return mux
}

// Run steps the world at the configured rate until ctx is cancelled. The
// ticker polls at twice the step rate so the accumulator keeps pace.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.clock.Step() / 2)
	defer ticker.Stop()
	defer s.closeClients()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.clock.ShouldStep() {
				s.tick()
			}
		}
	}
}

// tick applies queued spawns, advances one step and publishes the frame.
func (s *Server) tick() {
drain:
	for {
		select {
		case p := <-s.spawns:
			s.world.SpawnBrush(p.x, p.y)
		default:
			break drain
		}
	}
	s.world.Step(s.clock.Step().Seconds())
	s.publish()
}

func (s *Server) publish() {
	frame := append([]byte(nil), s.world.Pixels()...)
	packed := s.enc.EncodeAll(frame, nil)

	s.frameMu.Lock()
	s.latest = frame
	s.compressed = packed
	s.frameMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.clients {
		select {
		case ch <- packed:
		default:
			// Slow client; it will catch up on a later frame.
		}
	}
}

func (s *Server) register() (uint64, chan []byte) {
	id := s.nextID.Add(1)
	ch := make(chan []byte, 4)
	s.frameMu.RLock()
	if s.compressed != nil {
		ch <- s.compressed
	}
	s.frameMu.RUnlock()

	s.mu.Lock()
	s.clients[id] = ch
	s.mu.Unlock()
	return id, ch
}

func (s *Server) unregister(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.clients[id]; ok {
		delete(s.clients, id)
		close(ch)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.clients {
		delete(s.clients, id)
		close(ch)
	}
}

func (s *Server) bootstrap(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	size := s.world.Size()
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(BootstrapResponse{
		Width:    size.W,
		Height:   size.H,
		TPS:      s.tps,
		Encoding: FrameEncoding,
	})
}

func (s *Server) framePNG(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	size := s.world.Size()
	s.frameMu.RLock()
	img := render.RGBAImage(s.latest, size.W, size.H)
	s.frameMu.RUnlock()

	rw.Header().Set("Content-Type", "image/png")
	if err := png.Encode(rw, img); err != nil {
		s.log.Printf("observer: encode png: %v", err)
	}
}

func (s *Server) ws(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, frames := s.register()
	s.log.Printf("observer: client %d connected from %s", id, r.RemoteAddr)
	defer s.log.Printf("observer: client %d disconnected", id)

	writeErr := make(chan error, 1)
	go func() {
		for b := range frames {
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
				writeErr <- err
				return
			}
		}
		writeErr <- nil
	}()

	size := s.world.Size()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var m SpawnMsg
		if err := json.Unmarshal(msg, &m); err != nil || m.Type != "spawn" {
			continue
		}
		x, y := core.Clamp(m.X, m.Y, size)
		select {
		case s.spawns <- point{x: x, y: y}:
		default:
			// Queue full; drop input rather than stall the reader.
		}
	}

	s.unregister(id)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
	select {
	case <-writeErr:
	case <-time.After(500 * time.Millisecond):
	}
}
