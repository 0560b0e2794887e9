// Package sioclient is a socket.io request node: each inbound message is
// emitted to a socket.io server and the server's reply event comes back out
// as a new message. Connection setup, the reply wait, and the timeout all
// live inside one delivery, so the done callback always settles.
package sioclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rzaytsev/flowbind/node"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const defaultTimeout = 10 * time.Second

// Node talks to a socket.io server.
type Node struct {
	node.Base

	mu     sync.Mutex
	active *socket.Socket
}

// opResult passes the reply or the failure out of the event listeners.
type opResult struct {
	value any
	err   error
}

// Type returns the node type identifier.
func (n *Node) Type() string { return "sio-client" }

// Settings declares the host-visible configuration of the socket.io node.
func (n *Node) Settings() map[string]node.Setting {
	return map[string]node.Setting{
		"url":                  {Value: "", Exportable: true},
		"namespace":            {Value: "/", Exportable: true},
		"emit_event":           {Value: "message", Exportable: true},
		"on_event":             {Value: "response", Exportable: true},
		"timeout":              {Value: "10s", Exportable: true},
		"insecure_skip_verify": {Value: false, Exportable: false},
	}
}

// OnInput emits the payload and waits for the configured reply event.
func (n *Node) OnInput(ctx context.Context, msg *node.Message, send node.SendFunc, done node.DoneFunc) {
	cfg := n.config()
	if cfg.url == "" {
		err := fmt.Errorf("the url setting is empty")
		n.Error(err, msg)
		done(err)
		return
	}

	logger := n.Log().With("url", cfg.url, "emit_event", cfg.emitEvent, "on_event", cfg.onEvent)
	logger.Debug("Socket.io request started.")

	parsedURL, err := url.Parse(cfg.url)
	if err != nil {
		n.Error(fmt.Errorf("failed to parse url: %w", err), msg)
		done(err)
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.insecure {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	conn := manager.Socket(cfg.namespace, opts)
	n.setActive(conn)
	defer func() {
		n.setActive(nil)
		conn.Disconnect()
	}()

	var isConnected atomic.Bool
	result := make(chan opResult, 1)

	conn.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected.", "namespace", cfg.namespace, "sid", conn.Id())
		conn.Emit(cfg.emitEvent, msg.Payload)
	})
	conn.On(types.EventName("connect_error"), func(errs ...any) {
		if e, ok := errs[0].(error); ok {
			result <- opResult{err: e}
			return
		}
		result <- opResult{err: fmt.Errorf("connect error: %v", errs[0])}
	})
	conn.On(types.EventName(cfg.onEvent), func(data ...any) {
		var reply any
		if len(data) > 0 {
			reply = data[0]
		}
		result <- opResult{value: reply}
	})

	conn.Connect()

	select {
	case <-opCtx.Done():
		var failure error
		if isConnected.Load() {
			failure = fmt.Errorf("timed out after connecting while waiting for event %q", cfg.onEvent)
		} else {
			failure = fmt.Errorf("timed out while waiting for initial connection")
		}
		n.SetStatus(node.Status{Fill: node.FillRed, Shape: node.ShapeRing, Text: failure.Error()})
		n.Error(failure, msg)
		done(failure)
	case res := <-result:
		if res.err != nil {
			n.SetStatus(node.Status{Fill: node.FillRed, Shape: node.ShapeRing, Text: res.err.Error()})
			n.Error(res.err, msg)
			done(res.err)
			return
		}
		n.SetStatusFor(node.Status{Fill: node.FillGreen, Shape: node.ShapeDot, Text: "replied"}, 2*time.Second)
		out := &node.Message{Topic: cfg.onEvent, Payload: res.value}
		send(out)
		done(nil)
	}
}

// OnClose disconnects any in-flight socket, so an undeploy does not leave a
// request hanging until its timeout.
func (n *Node) OnClose(_ context.Context, _ bool, done node.DoneFunc) {
	n.mu.Lock()
	conn := n.active
	n.active = nil
	n.mu.Unlock()

	if conn != nil {
		n.Log().Debug("Disconnecting socket client.")
		conn.Disconnect()
	}
	done(nil)
}

func (n *Node) setActive(conn *socket.Socket) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = conn
}

// nodeConfig is the decoded settings of one instance.
type nodeConfig struct {
	url       string
	namespace string
	emitEvent string
	onEvent   string
	timeout   time.Duration
	insecure  bool
}

// config reads the instance settings, falling back to the declared
// defaults for anything absent or malformed.
func (n *Node) config() nodeConfig {
	cfg := nodeConfig{
		namespace: "/",
		emitEvent: "message",
		onEvent:   "response",
		timeout:   defaultTimeout,
	}

	cfg.url, _ = n.Prop("url").(string)
	if v, ok := n.Prop("namespace").(string); ok && v != "" {
		cfg.namespace = v
	}
	if v, ok := n.Prop("emit_event").(string); ok && v != "" {
		cfg.emitEvent = v
	}
	if v, ok := n.Prop("on_event").(string); ok && v != "" {
		cfg.onEvent = v
	}
	if raw, ok := n.Prop("timeout").(string); ok && raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			n.Log().Warn("Invalid timeout setting, using default.", "timeout", raw, "error", err)
		} else {
			cfg.timeout = parsed
		}
	}
	cfg.insecure, _ = n.Prop("insecure_skip_verify").(bool)
	return cfg
}
