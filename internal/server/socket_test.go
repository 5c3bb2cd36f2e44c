package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	sioclient "github.com/zishang520/socket.io-client-go/socket"
)

const eventWait = 5 * time.Second

// testClient is a connected socket.io client that forwards the first
// argument of every watched event to a channel.
type testClient struct {
	io     *sioclient.Socket
	events map[string]chan any
}

func dialSocket(t *testing.T, url string, watch ...string) *testClient {
	t.Helper()

	opts := sioclient.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))
	manager := sioclient.NewManager(url, opts)
	io := manager.Socket("/", opts)

	c := &testClient{io: io, events: make(map[string]chan any)}
	for _, name := range watch {
		ch := make(chan any, 4)
		c.events[name] = ch
		io.On(types.EventName(name), func(data ...any) {
			var first any
			if len(data) > 0 {
				first = data[0]
			}
			select {
			case ch <- first:
			default:
			}
		})
	}

	connected := make(chan struct{}, 1)
	io.On(types.EventName("connect"), func(...any) {
		select {
		case connected <- struct{}{}:
		default:
		}
	})
	io.Connect()
	t.Cleanup(func() { io.Disconnect() })

	select {
	case <-connected:
	case <-time.After(eventWait):
		t.Fatal("socket.io client did not connect")
	}
	return c
}

// next waits for the named event and returns its payload.
func (c *testClient) next(t *testing.T, name string) any {
	t.Helper()
	select {
	case v := <-c.events[name]:
		return v
	case <-time.After(eventWait):
		t.Fatalf("no %q event received", name)
		return nil
	}
}

func errorText(t *testing.T, payload any) string {
	t.Helper()
	m, ok := payload.(map[string]any)
	require.True(t, ok, "error payload should be an object, got %T", payload)
	text, _ := m["error"].(string)
	return text
}

func TestSocket_LoadBroadcastsToEveryClient(t *testing.T) {
	s, ts := newTestServer(t)

	a := dialSocket(t, ts.URL, EventCurriculum, EventError)
	b := dialSocket(t, ts.URL, EventCurriculum, EventError)

	a.io.Emit(EventLoad, map[string]any{"code": "0002"})

	for _, c := range []*testClient{a, b} {
		payload, ok := c.next(t, EventCurriculum).(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "0002", payload["code"])
		courses, ok := payload["courses"].([]any)
		require.True(t, ok)
		assert.Len(t, courses, 4)
	}
	assert.Equal(t, "0002", s.Current().Code)
	assert.Equal(t, []int{11, 12, 13}, s.Current().Graph.NextCourses(10, true))
}

func TestSocket_SelectAnswersOnlyTheSender(t *testing.T) {
	s, ts := newTestServer(t)
	_, err := s.Load(t.Context(), "0002")
	require.NoError(t, err)

	a := dialSocket(t, ts.URL, EventCascade)
	b := dialSocket(t, ts.URL, EventCascade)

	a.io.Emit(EventSelect, map[string]any{"id": 10})

	payload, ok := a.next(t, EventCascade).(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 10, payload["id"])
	assert.Equal(t, []any{[]any{float64(11), float64(12)}, []any{float64(13)}}, payload["levels"])

	select {
	case v := <-b.events[EventCascade]:
		t.Fatalf("cascade leaked to another client: %v", v)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSocket_ErrorReplies(t *testing.T) {
	testCases := []struct {
		name    string
		event   string
		payload any
		wantErr string
	}{
		{name: "unknown curriculum", event: EventLoad, payload: map[string]any{"code": "0404"}, wantErr: "unknown curriculum"},
		{name: "broken curriculum", event: EventLoad, payload: map[string]any{"code": "0003"}, wantErr: "failed to load curriculum 0003"},
		{name: "load without code", event: EventLoad, payload: map[string]any{"id": 1}, wantErr: "missing code"},
		{name: "select without id", event: EventSelect, payload: map[string]any{"code": "0001"}, wantErr: "missing id"},
		{name: "select with fractional id", event: EventSelect, payload: map[string]any{"id": 1.5}, wantErr: "is not an integer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, ts := newTestServer(t)
			_, err := s.Load(t.Context(), "0001")
			require.NoError(t, err)

			sender := dialSocket(t, ts.URL, EventError, EventCurriculum)
			other := dialSocket(t, ts.URL, EventError)

			sender.io.Emit(tc.event, tc.payload)
			assert.Contains(t, errorText(t, sender.next(t, EventError)), tc.wantErr)
			assert.Equal(t, "0001", s.Current().Code, "a failed request must not replace the current curriculum")

			select {
			case v := <-other.events[EventError]:
				t.Fatalf("error reply leaked to another client: %v", v)
			case v := <-sender.events[EventCurriculum]:
				t.Fatalf("unexpected curriculum broadcast: %v", v)
			case <-time.After(200 * time.Millisecond):
			}
		})
	}
}
