// Package gameserver implements the v8 TCP listening server: one session
// per connection, gated by per-IP connection and rate limits, driven by the
// message processor loop.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/clashforge/v8session/internal/cryptocore"
	"github.com/clashforge/v8session/internal/metrics"
	"github.com/clashforge/v8session/internal/network"
	"github.com/clashforge/v8session/internal/protocol"
	"github.com/clashforge/v8session/internal/ratelimit"
	"github.com/clashforge/v8session/internal/session"
)

// Config configures a Server.
type Config struct {
	ListenAddr     string
	ConnRatePerIP  float64
	ConnBurstPerIP int
	MaxConnsPerIP  int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	ServerKeys     *cryptocore.KeyPair
}

// Server accepts TCP connections, applies per-IP limits, and runs one
// server-direction session and message processor per accepted connection.
type Server struct {
	cfg         Config
	metrics     *metrics.Metrics
	rateLimiter *ratelimit.RateLimiter
	connLimiter *ratelimit.ConnectionLimiter

	mu       sync.Mutex
	listener *network.TCPListener
	started  bool
}

// New constructs a Server. cfg.ServerKeys must not be nil -- the server
// needs a fixed static keypair to hand out across every session.
func New(cfg Config, m *metrics.Metrics) (*Server, error) {
	if cfg.ServerKeys == nil {
		return nil, errors.New("gameserver: ServerKeys must be set")
	}

	return &Server{
		cfg:         cfg,
		metrics:     m,
		rateLimiter: ratelimit.NewRateLimiter(cfg.ConnRatePerIP, cfg.ConnBurstPerIP),
		connLimiter: ratelimit.NewConnectionLimiter(cfg.MaxConnsPerIP),
	}, nil
}

// Serve listens on cfg.ListenAddr and accepts connections until ctx is
// canceled or Accept returns a non-recoverable error.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("gameserver: already started")
	}
	listener, err := network.Listen(s.cfg.ListenAddr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("gameserver: listen: %w", err)
	}
	s.listener = listener
	s.started = true
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("gameserver: accept: %w", err)
		}

		ip := ratelimit.ExtractIP(conn.RemoteAddr().String())
		if !s.connLimiter.Acquire(ip) {
			conn.Close()
			continue
		}
		if !s.rateLimiter.Allow(ip) {
			s.connLimiter.Release(ip)
			conn.Close()
			continue
		}

		go s.handleConnection(ctx, conn, ip)
	}
}

// Shutdown closes the listener, causing Serve to return.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handleConnection(ctx context.Context, conn *network.TCPConnection, ip string) {
	start := time.Now()
	s.metrics.RecordConnection()
	defer func() {
		s.connLimiter.Release(ip)
		s.metrics.RecordDisconnection(time.Since(start))
		conn.Close()
	}()

	sess, err := session.New(session.Server, s.cfg.ServerKeys)
	if err != nil {
		log.Printf("gameserver: session.New: %v", err)
		return
	}
	defer sess.Close()

	proc := protocol.NewProcessor(sess)
	s.metrics.RecordHandshakeStart()
	handshakeComplete := false

	for {
		select {
		case <-ctx.Done():
			if handshakeComplete {
				s.sendShutdownNotice(proc, conn)
				s.metrics.RecordSessionClosed()
			} else {
				s.metrics.RecordHandshakeAbandoned()
			}
			return
		default:
		}

		if s.cfg.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}

		if handshakeComplete {
			opcode, plaintext, err := proc.ReadEncrypted(conn)
			if err != nil {
				if errors.Is(err, session.ErrAuthFailure) {
					s.metrics.RecordAuthFailure()
				}
				s.metrics.RecordSessionClosed()
				return
			}
			s.metrics.RecordDecrypted(len(plaintext))
			if err := s.handleGameplayFrame(opcode, plaintext); err != nil {
				log.Printf("gameserver: opcode %d: %v", opcode, err)
			}
			continue
		}

		f, err := protocol.ReadFrame(conn)
		if err != nil {
			s.metrics.RecordHandshakeAbandoned()
			return
		}

		_, err = proc.HandleFrame(f)
		if err != nil {
			if errors.Is(err, session.ErrAuthFailure) {
				s.metrics.RecordAuthFailure()
			}
			s.metrics.RecordHandshakeAbandoned()
			return
		}

		if sess.State() == session.SecondKey {
			handshakeComplete = true
			s.metrics.RecordHandshakeComplete(time.Since(start))
		}
	}
}

// handleGameplayFrame dispatches one decrypted SECOND_KEY payload by opcode.
// SpeedUpHeroUpgrade is the only gameplay message the server expects to
// receive; ShutdownInfo is server-to-client only and reaching here would
// mean a client sent the server's own notice back, which is decoded but
// otherwise ignored.
func (s *Server) handleGameplayFrame(opcode uint16, plaintext []byte) error {
	switch opcode {
	case protocol.OpSpeedUpHeroUpgrade:
		msg, err := protocol.DecodeSpeedUpHeroUpgradeMessage(plaintext)
		if err != nil {
			return err
		}
		log.Printf("gameserver: hero %d upgrade sped up for %d gems", msg.HeroID, msg.GemsSpent)
		return nil
	case protocol.OpShutdownInfo:
		_, err := protocol.DecodeShutdownInfoMessage(plaintext)
		return err
	default:
		return fmt.Errorf("gameserver: unexpected gameplay opcode %d", opcode)
	}
}

// reasonServerStopping is the ShutdownInfoMessage.ReasonCode sent when the
// server is shutting down with a session still established.
const reasonServerStopping uint8 = 1

// sendShutdownNotice seals and sends a ShutdownInfoMessage to a SECOND_KEY
// peer whose connection is about to be closed for server shutdown.
func (s *Server) sendShutdownNotice(proc *protocol.Processor, conn *network.TCPConnection) {
	if s.cfg.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}

	msg := &protocol.ShutdownInfoMessage{ReasonCode: reasonServerStopping}
	payload := msg.Encode()
	if err := proc.SendEncrypted(conn, protocol.OpShutdownInfo, payload); err != nil {
		log.Printf("gameserver: sending shutdown notice: %v", err)
		return
	}
	s.metrics.RecordEncrypted(len(payload))
}
