// Package httpfetch is an HTTP client node: every inbound message triggers
// a GET and the response comes back out as a new message. It demonstrates
// the larger contract surface: credentials, settings, one-time Init with an
// admin route, and teardown in OnClose.
package httpfetch

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rzaytsev/flowbind/node"
	"resty.dev/v3"
)

const defaultTimeout = 10 * time.Second

// Node fetches URLs over HTTP.
type Node struct {
	node.Base

	once   sync.Once
	client *resty.Client
}

// Type returns the node type identifier.
func (n *Node) Type() string { return "http-fetch" }

// Credentials declares the authentication fields the host should collect.
func (n *Node) Credentials() map[string]node.CredentialField {
	return map[string]node.CredentialField{
		"username": {Type: "text", Required: false},
		"token":    {Type: "password", Required: false},
	}
}

// Settings declares the host-visible configuration of the fetch node.
func (n *Node) Settings() map[string]node.Setting {
	return map[string]node.Setting{
		"url":     {Value: "", Exportable: true},
		"timeout": {Value: "10s", Exportable: true},
		"retries": {Value: 0, Exportable: true},
	}
}

// Init registers the type's diagnostic route on the host's admin surface.
func (n *Node) Init(_ context.Context, rt node.Runtime) error {
	rt.Routes().HandleFunc("/nodes/http-fetch", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "http-fetch ready")
	})
	rt.Logger().Debug("Admin route registered.", "path", "/nodes/http-fetch")
	return nil
}

// OnInput fetches the target URL and emits the response body. A string
// payload overrides the configured url setting, so upstream nodes can feed
// addresses in.
func (n *Node) OnInput(ctx context.Context, msg *node.Message, send node.SendFunc, done node.DoneFunc) {
	url, _ := msg.Payload.(string)
	if url == "" {
		url, _ = n.Prop("url").(string)
	}
	if url == "" {
		err := fmt.Errorf("no url: payload is not a string and the url setting is empty")
		n.Error(err, msg)
		done(err)
		return
	}

	n.once.Do(n.setupClient)
	n.SetStatus(node.Status{Fill: node.FillBlue, Shape: node.ShapeDot, Text: "fetching"})

	resp, err := n.client.R().SetContext(ctx).Get(url)
	if err != nil {
		n.SetStatus(node.Status{Fill: node.FillRed, Shape: node.ShapeRing, Text: err.Error()})
		n.Error(err, msg)
		done(err)
		return
	}

	n.SetStatusFor(node.Status{Fill: node.FillGreen, Shape: node.ShapeDot, Text: resp.Status()}, 2*time.Second)
	n.Log().Debug("Fetch completed.", "url", url, "status", resp.StatusCode())

	out := &node.Message{Topic: msg.Topic, Payload: resp.String()}
	out.SetField("status_code", resp.StatusCode())
	out.SetField("url", url)
	send(out)
	done(nil)
}

// OnClose releases the HTTP client.
func (n *Node) OnClose(_ context.Context, _ bool, done node.DoneFunc) {
	if n.client != nil {
		n.client.Close()
	}
	done(nil)
}

// setupClient builds the resty client from the instance's settings.
func (n *Node) setupClient() {
	timeout := defaultTimeout
	if raw, ok := n.Prop("timeout").(string); ok && raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			n.Log().Warn("Invalid timeout setting, using default.", "timeout", raw, "error", err)
		} else {
			timeout = parsed
		}
	}

	retries := 0
	if raw, ok := n.Prop("retries").(float64); ok {
		retries = int(raw)
	}

	n.client = resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries)

	if token, ok := n.Prop("token").(string); ok && token != "" {
		n.client.SetAuthToken(token)
	}
}
