// Package remote asks a running curriculum server for cascade highlights
// over socket.io.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/coursegrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds the whole exchange when the caller passes zero.
const DefaultTimeout = 10 * time.Second

// Cascade is the answer to a select event.
type Cascade struct {
	ID     int     `json:"id"`
	Levels [][]int `json:"levels"`
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value *Cascade
	err   error
}

// FetchCascade connects to the server at rawURL, selects course id and waits
// for the cascade answer.
func FetchCascade(ctx context.Context, rawURL string, id int, timeout time.Duration) (*Cascade, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL, "id", id)
	logger.Debug("Remote cascade started")
	defer logger.Debug("Remote cascade finished")

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", rawURL)
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)
	defer io.Disconnect()

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	send := func(r opResult) {
		select {
		case done <- r:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected, selecting course", "sid", io.Id())
		io.Emit("select", map[string]any{"id": id})
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				send(opResult{err: fmt.Errorf("connection failed: %w", err)})
				return
			}
		}
		send(opResult{err: fmt.Errorf("connection failed")})
	})
	io.On(types.EventName("error_message"), func(data ...any) {
		send(opResult{err: fmt.Errorf("server rejected request: %v", data)})
	})
	io.On(types.EventName("cascade"), func(data ...any) {
		if len(data) == 0 {
			send(opResult{err: fmt.Errorf("empty cascade answer")})
			return
		}
		c, err := decodeCascade(data[0])
		send(opResult{value: c, err: err})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for the cascade of %d", id)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

// decodeCascade converts the generic socket.io payload into a Cascade.
func decodeCascade(payload any) (*Cascade, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode cascade payload: %w", err)
	}
	var c Cascade
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cascade payload: %w", err)
	}
	return &c, nil
}
