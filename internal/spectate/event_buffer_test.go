package spectate

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEventBufferOrderAndReplay(t *testing.T) {
	buf := NewEventBuffer(10)
	ev1 := buf.Append("a", "ROOM01", map[string]any{"n": 1})
	ev2 := buf.Append("b", "ROOM01", map[string]any{"n": 2})
	ev3 := buf.Append("c", "ROOM01", map[string]any{"n": 3})

	if ev1.EventID != "1" || ev2.EventID != "2" || ev3.EventID != "3" {
		t.Fatalf("unexpected event ids: %s %s %s", ev1.EventID, ev2.EventID, ev3.EventID)
	}

	replay := buf.ReplayAfter("1")
	if len(replay) != 2 {
		t.Fatalf("expected 2 replay events, got %d", len(replay))
	}
	if replay[0].EventID != "2" || replay[1].EventID != "3" {
		t.Fatalf("unexpected replay order: %+v", replay)
	}
	if all := buf.ReplayAfter("bogus"); len(all) != 3 {
		t.Fatalf("bad id should replay everything, got %d", len(all))
	}
}

func TestEventBufferTrimsToMax(t *testing.T) {
	buf := NewEventBuffer(2)
	for i := 0; i < 5; i++ {
		buf.Append("e", "R", i)
	}
	replay := buf.ReplayAfter("")
	if len(replay) != 2 || replay[0].EventID != "4" || replay[1].EventID != "5" {
		t.Fatalf("unexpected trimmed buffer: %+v", replay)
	}
}

func TestEventBufferSubscribeAndClose(t *testing.T) {
	buf := NewEventBuffer(4)
	ch := buf.Subscribe()
	buf.Append("blackjackUpdate", "R", nil)
	ev := <-ch
	if ev.Event != "blackjackUpdate" || ev.Room != "R" {
		t.Fatalf("unexpected event %+v", ev)
	}

	buf.Close()
	if _, ok := <-ch; ok {
		t.Fatal("subscription should be closed")
	}
	if ev := buf.Append("late", "R", nil); ev.EventID != "" {
		t.Fatal("append after close must be dropped")
	}
	late := buf.Subscribe()
	if _, ok := <-late; ok {
		t.Fatal("subscribe after close must return a closed channel")
	}
	buf.Unsubscribe(ch)
}

func TestWriteSSEFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSSEHeaders(rec)
	if err := WriteSSE(rec, StreamEvent{EventID: "7", Event: "ping", Data: map[string]int{"ts": 1}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "id: 7\nevent: ping\ndata: {") || !strings.HasSuffix(body, "}\n\n") {
		t.Fatalf("unexpected frame %q", body)
	}
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}

func TestNewer(t *testing.T) {
	if !Newer("3", "2") || Newer("2", "2") || Newer("1", "2") {
		t.Fatal("numeric ordering broken")
	}
	if !Newer("1", "") || Newer("", "1") {
		t.Fatal("empty ids must sort first")
	}
}
