package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"github.com/saiputravu/aurum/internal/gateway"
)

const defaultConnIdleTimeout = 5 * time.Minute

// Server is the TCP binding of the command/query gateway: it accepts
// connections, reads one length-prefixed request frame at a time, dispatches
// it to a Gateway, and writes back the corresponding report frame on the
// same connection. Every request is handled synchronously to its own
// connection's worker, so ordering within one connection is preserved, but
// independent connections are served concurrently across the worker pool —
// the transport never serializes across symbols, matching/publication
// already does that in internal/engine.
type Server struct {
	address string
	port    int
	gateway *gateway.Gateway
	pool    workerPool

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
}

// Addr returns the bound listener address once Run has started accepting
// connections, or ok=false if the listener has not come up yet.
func (s *Server) Addr() (addr string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return "", false
	}
	return s.listener.Addr().String(), true
}

// New constructs a Server that dispatches decoded requests to gw. poolSize
// bounds the number of connections served concurrently.
func New(address string, port int, gw *gateway.Gateway, poolSize int) *Server {
	if poolSize <= 0 {
		poolSize = 10
	}
	return &Server{
		address: address,
		port:    port,
		gateway: gw,
		pool:    newWorkerPool(poolSize),
	}
}

// Shutdown closes the listener and signals every supervised goroutine to stop.
func (s *Server) Shutdown() {
	log.Info().Msg("gateway server shutting down")
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener != nil {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// Run starts accepting connections and blocks until ctx is cancelled or the
// listener fails. It is the caller's responsibility to run this on its own
// goroutine if it should not block the caller.
func (s *Server) Run(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	defer s.Shutdown()

	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		return fmt.Errorf("gateway server: listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	t.Go(func() error {
		s.pool.Run(t, s.handleConnection)
		return nil
	})

	// Accept() has no context awareness of its own, so a dedicated goroutine
	// closes the listener as soon as ctx is cancelled, unblocking the accept
	// loop below.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	log.Info().Str("address", listener.Addr().String()).Msg("gateway server listening")

	for {
		select {
		case <-ctx.Done():
			return t.Wait()
		default:
		}

		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return t.Wait()
			}
			log.Error().Err(err).Msg("error accepting client connection")
			continue
		}
		s.pool.AddTask(conn)
	}
}

// handleConnection drains request frames from one connection until it
// closes or a protocol error occurs, dispatching each to the gateway and
// writing back its report frame. It never returns a fatal error to the
// worker pool — a dead connection is just one fewer active session.
func (s *Server) handleConnection(t *tomb.Tomb, task any) {
	conn, ok := task.(net.Conn)
	if !ok {
		log.Error().Msg("worker received a non-connection task")
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	log.Info().Str("remote", remote).Msg("client connected")

	for {
		select {
		case <-t.Dying():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(defaultConnIdleTimeout))
		typ, body, err := readFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Str("remote", remote).Msg("connection closed")
			}
			return
		}

		response, err := s.dispatch(MessageType(typ), body)
		if err != nil {
			response = EncodeErrorReport("INTERNAL", err.Error())
		}
		if _, err := conn.Write(response); err != nil {
			log.Error().Err(err).Str("remote", remote).Msg("error writing response")
			return
		}
	}
}

// dispatch decodes one request frame, calls the matching gateway method, and
// encodes its reply. Decode failures are reported as malformed-frame errors
// (distinct from the gateway's own INVALID_ARGUMENT responses, which are
// always well-formed ExecutionReports).
func (s *Server) dispatch(typ MessageType, body []byte) ([]byte, error) {
	switch typ {
	case Heartbeat:
		return writeFrame(uint16(HeartbeatReport), nil), nil

	case SubmitOrder:
		req, err := decodeSubmit(body)
		if err != nil {
			return nil, fmt.Errorf("decode submit: %w", err)
		}
		return EncodeExecutionReport(s.gateway.Submit(req)), nil

	case CancelOrder:
		req, err := decodeCancel(body)
		if err != nil {
			return nil, fmt.Errorf("decode cancel: %w", err)
		}
		return EncodeExecutionReport(s.gateway.Cancel(req)), nil

	case ModifyOrder:
		req, err := decodeModify(body)
		if err != nil {
			return nil, fmt.Errorf("decode modify: %w", err)
		}
		return EncodeExecutionReport(s.gateway.Modify(req)), nil

	case SnapshotRequest:
		req, err := decodeSnapshotRequest(body)
		if err != nil {
			return nil, fmt.Errorf("decode snapshot request: %w", err)
		}
		view, ok := s.gateway.Snapshot(req.Symbol, int(req.Depth))
		return EncodeSnapshotReport(view, ok), nil

	case GetOrderRequest:
		req, err := decodeGetOrderRequest(body)
		if err != nil {
			return nil, fmt.Errorf("decode get-order request: %w", err)
		}
		view, ok := s.gateway.GetOrder(req.Symbol, req.OrderID)
		return EncodeOrderReport(view, ok), nil

	default:
		return nil, fmtUnknownType(uint16(typ))
	}
}
