package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/vk/coursegrid/internal/ctxlog"
	"github.com/zishang520/socket.io/v2/socket"
)

// socket.io event names.
const (
	EventSelect     = "select"
	EventCascade    = "cascade"
	EventLoad       = "load"
	EventCurriculum = "curriculum"
	EventError      = "error_message"
)

// bindSocket wires the socket.io events:
//
//	select {id}   -> cascade {id, levels} to the sender
//	load {code}   -> curriculum {code, title, courses} to everyone
func (s *Server) bindSocket() {
	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		logger := s.logger.With("sid", string(client.Id()))
		logger.Debug("socket.io client connected")

		client.On(EventSelect, func(data ...any) {
			id, err := payloadInt(data, "id")
			if err != nil {
				client.Emit(EventError, map[string]any{"error": err.Error()})
				return
			}
			logger.Debug("Cascade requested.", "id", id)
			client.Emit(EventCascade, s.Current().cascade(id))
		})

		client.On(EventLoad, func(data ...any) {
			code, err := payloadString(data, "code")
			if err != nil {
				client.Emit(EventError, map[string]any{"error": err.Error()})
				return
			}
			ctx := ctxlog.WithLogger(context.Background(), logger)
			snap, err := s.Load(ctx, code)
			if err != nil {
				client.Emit(EventError, map[string]any{"error": err.Error()})
				return
			}
			s.broadcastCurriculum(snap)
		})

		client.On("disconnect", func(reason ...any) {
			logger.Debug("socket.io client disconnected", "reason", reason)
		})
	})
}

// broadcastCurriculum tells every connected client which curriculum is
// current.
func (s *Server) broadcastCurriculum(snap *Snapshot) {
	if err := s.io.Emit(EventCurriculum, snap.view()); err != nil {
		s.logger.Warn("Failed to broadcast curriculum.", "error", err)
	}
}

// payloadField returns field from the first event argument, which may be a
// decoded JSON object or the bare value itself.
func payloadField(data []any, field string) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("missing %s", field)
	}
	if m, ok := data[0].(map[string]any); ok {
		v, ok := m[field]
		if !ok {
			return nil, fmt.Errorf("missing %s", field)
		}
		return v, nil
	}
	return data[0], nil
}

func payloadInt(data []any, field string) (int, error) {
	v, err := payloadField(data, field)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("invalid %s: %v is not an integer", field, n)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("invalid %s: %v", field, v)
	}
}

func payloadString(data []any, field string) (string, error) {
	v, err := payloadField(data, field)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case float64:
		if s != math.Trunc(s) {
			return "", fmt.Errorf("invalid %s: %v is not an integer", field, s)
		}
		return fmt.Sprintf("%04d", int(s)), nil
	default:
		return "", fmt.Errorf("invalid %s: %v", field, v)
	}
}
