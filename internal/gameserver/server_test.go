package gameserver

import (
	"context"
	"crypto/rand"
	"net"
	"testing"
	"time"

	"github.com/clashforge/v8session/internal/cryptocore"
	"github.com/clashforge/v8session/internal/metrics"
	"github.com/clashforge/v8session/internal/protocol"
	"github.com/clashforge/v8session/internal/session"
)

func TestServeAcceptsHandshake(t *testing.T) {
	serverKeys, err := cryptocore.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	clientKeys, err := cryptocore.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	m := metrics.NewMetrics("v8session_gameserver_test")
	srv, err := New(Config{
		ListenAddr:     "127.0.0.1:0",
		ConnRatePerIP:  1000,
		ConnBurstPerIP: 100,
		MaxConnsPerIP:  10,
		ReadTimeout:    5 * time.Second,
		ServerKeys:     serverKeys,
	}, m)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	serveErrCh := make(chan error, 1)
	go func() {
		close(ready)
		serveErrCh <- srv.Serve(ctx)
	}()
	<-ready
	time.Sleep(20 * time.Millisecond) // let the listener bind

	addr := srv.listener.Addr().String()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	hello := &protocol.ClientHelloMessage{ProtocolVersion: 8, PublicKey: clientKeys.Public}
	if err := protocol.WriteFrame(conn, &protocol.Frame{Opcode: protocol.OpClientHello, Payload: hello.Encode()}); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	var serverNonce [24]byte
	rand.Read(serverNonce[:])
	serverHello := &protocol.ServerHelloMessage{ServerNonce: serverNonce}
	if err := protocol.WriteFrame(conn, &protocol.Frame{Opcode: protocol.OpServerHello, Payload: serverHello.Encode()}); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	// The connection should remain open (no immediate close) after two
	// legal handshake frames; a short read with a deadline times out
	// rather than returning EOF, which is what we want to observe.
	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	if err == nil {
		t.Fatal("expected no data to be sent by the server yet")
	}
	if netErr, ok := err.(net.Error); !ok || !netErr.Timeout() {
		t.Fatalf("expected a read timeout (connection still open), got: %v", err)
	}

	cancel()
	select {
	case <-serveErrCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func TestNewRequiresServerKeys(t *testing.T) {
	m := metrics.NewMetrics("v8session_gameserver_test_keys")
	_, err := New(Config{ListenAddr: "127.0.0.1:0"}, m)
	if err == nil {
		t.Fatal("expected error when ServerKeys is nil")
	}
}

func TestConnectionLimitRejectsExcessConnections(t *testing.T) {
	serverKeys, err := cryptocore.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	m := metrics.NewMetrics("v8session_gameserver_test_connlimit")
	srv, err := New(Config{
		ListenAddr:     "127.0.0.1:0",
		ConnRatePerIP:  1000,
		ConnBurstPerIP: 100,
		MaxConnsPerIP:  1,
		ServerKeys:     serverKeys,
	}, m)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	go func() {
		close(ready)
		srv.Serve(ctx)
	}()
	<-ready
	time.Sleep(20 * time.Millisecond)

	addr := srv.listener.Addr().String()

	conn1, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial 1 failed: %v", err)
	}
	defer conn1.Close()

	conn2, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial 2 failed: %v", err)
	}
	defer conn2.Close()

	// The second connection from the same IP should be closed by the
	// server almost immediately since MaxConnsPerIP is 1.
	conn2.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err = conn2.Read(buf)
	if err == nil {
		t.Fatal("expected the over-limit connection to be closed")
	}
}

// TestServeRoutesEncryptedGameplayAfterHandshake drives a connection all the
// way to SECOND_KEY and then sends one encrypted SpeedUpHeroUpgrade frame,
// verifying the server decrypts and decodes it (rather than feeding
// ciphertext straight into the plaintext opcode decoders) by observing that
// the connection is kept open instead of being dropped.
func TestServeRoutesEncryptedGameplayAfterHandshake(t *testing.T) {
	serverKeys, err := cryptocore.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	clientKeys, err := cryptocore.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	m := metrics.NewMetrics("v8session_gameserver_test_gameplay")
	srv, err := New(Config{
		ListenAddr:     "127.0.0.1:0",
		ConnRatePerIP:  1000,
		ConnBurstPerIP: 100,
		MaxConnsPerIP:  10,
		ReadTimeout:    5 * time.Second,
		ServerKeys:     serverKeys,
	}, m)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	go func() {
		close(ready)
		srv.Serve(ctx)
	}()
	<-ready
	time.Sleep(20 * time.Millisecond)

	conn, err := net.Dial("tcp", srv.listener.Addr().String())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Drive the server to InitialKey.
	hello := &protocol.ClientHelloMessage{ProtocolVersion: 8, PublicKey: clientKeys.Public}
	if err := protocol.WriteFrame(conn, &protocol.Frame{Opcode: protocol.OpClientHello, Payload: hello.Encode()}); err != nil {
		t.Fatalf("WriteFrame(ClientHello) failed: %v", err)
	}

	// Drive the server to BlakeNonce with a nonce a locally-built client
	// session also installs, so both sides derive the same three-key nonce.
	var serverNonce [24]byte
	rand.Read(serverNonce[:])
	serverHello := &protocol.ServerHelloMessage{ServerNonce: serverNonce}
	if err := protocol.WriteFrame(conn, &protocol.Frame{Opcode: protocol.OpServerHello, Payload: serverHello.Encode()}); err != nil {
		t.Fatalf("WriteFrame(ServerHello) failed: %v", err)
	}

	// Drive the server to SECOND_KEY.
	var encNonce, decNonce [24]byte
	rand.Read(encNonce[:])
	rand.Read(decNonce[:])
	var derivedKey [32]byte
	rand.Read(derivedKey[:])

	loginSuccess := &protocol.LoginSuccessMessage{
		EncryptNonce: encNonce,
		DecryptNonce: decNonce,
		DerivedKey:   derivedKey,
	}
	if err := protocol.WriteFrame(conn, &protocol.Frame{Opcode: protocol.OpLoginSuccess, Payload: loginSuccess.Encode()}); err != nil {
		t.Fatalf("WriteFrame(LoginSuccess) failed: %v", err)
	}

	// Build a matching client-direction session locally: its encrypt
	// counter must start from the value the server installed as its
	// decrypt counter (msg.DecryptNonce), so the two sides' incremented
	// nonces line up on the same secretbox key.
	clientSession, err := session.New(session.Client, clientKeys)
	if err != nil {
		t.Fatalf("session.New(Client) failed: %v", err)
	}
	serverPub := serverKeys.Public
	if err := clientSession.UpdateSharedKey(serverPub[:]); err != nil {
		t.Fatalf("client UpdateSharedKey(server public) failed: %v", err)
	}
	if err := clientSession.UpdateNonce(serverNonce[:], session.Blake); err != nil {
		t.Fatalf("client UpdateNonce(Blake) failed: %v", err)
	}
	if err := clientSession.UpdateNonce(decNonce[:], session.Encrypt); err != nil {
		t.Fatalf("client UpdateNonce(Encrypt) failed: %v", err)
	}
	if err := clientSession.UpdateNonce(encNonce[:], session.Decrypt); err != nil {
		t.Fatalf("client UpdateNonce(Decrypt) failed: %v", err)
	}
	if err := clientSession.UpdateSharedKey(derivedKey[:]); err != nil {
		t.Fatalf("client UpdateSharedKey(derived key) failed: %v", err)
	}

	cmd := &protocol.SpeedUpHeroUpgradeMessage{HeroID: 7, GemsSpent: 250}
	ciphertext, err := clientSession.Encrypt(cmd.Encode())
	if err != nil {
		t.Fatalf("client Encrypt failed: %v", err)
	}
	if err := protocol.WriteFrame(conn, &protocol.Frame{Opcode: protocol.OpSpeedUpHeroUpgrade, Payload: ciphertext}); err != nil {
		t.Fatalf("WriteFrame(SpeedUpHeroUpgrade) failed: %v", err)
	}

	// If the server fed the ciphertext straight to
	// DecodeSpeedUpHeroUpgradeMessage (wrong length) or failed to open it,
	// it would drop the connection; a read timeout instead confirms the
	// frame decrypted and decoded cleanly and the session stayed up.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	if err == nil {
		t.Fatal("expected no data to be sent by the server")
	}
	if netErr, ok := err.(net.Error); !ok || !netErr.Timeout() {
		t.Fatalf("expected a read timeout (connection still open), got: %v", err)
	}
}
