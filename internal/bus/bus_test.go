package bus

import (
	"testing"
	"time"

	"github.com/sweeney/beacon-scanner/internal/event"
)

// recorder appends its name to a shared log on every event.
type recorder struct {
	name string
	log  *[]string
	got  []event.Event
	on   func(e event.Event)
}

func (r *recorder) Setup(*Bus) {}
func (r *recorder) Update()    {}
func (r *recorder) OnEvent(e event.Event) {
	*r.log = append(*r.log, r.name)
	r.got = append(r.got, e)
	if r.on != nil {
		r.on(e)
	}
}

func TestPublishDeliversInRegistrationOrder(t *testing.T) {
	b := New()
	var order []string
	first := &recorder{name: "first", log: &order}
	second := &recorder{name: "second", log: &order}
	third := &recorder{name: "third", log: &order}

	b.Subscribe(event.KindDataReady, first)
	b.Subscribe(event.KindDataReady, second)
	b.Subscribe(event.KindDataReady, third)

	b.Publish(event.DataReady{JSON: []byte(`{}`)})

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, order[i], want[i])
		}
	}
}

func TestPublishOnlyToMatchingKind(t *testing.T) {
	b := New()
	var order []string
	http := &recorder{name: "http", log: &order}
	sync := &recorder{name: "sync", log: &order}
	b.Subscribe(event.KindHTTPResponse, http)
	b.Subscribe(event.KindSyncTimer, sync)

	b.Publish(event.SyncTimer{Wait: 1500 * time.Millisecond})

	if len(http.got) != 0 {
		t.Errorf("http subscriber received %d events", len(http.got))
	}
	if len(sync.got) != 1 {
		t.Fatalf("sync subscriber received %d events, want 1", len(sync.got))
	}
	if st, ok := sync.got[0].(event.SyncTimer); !ok || st.Wait != 1500*time.Millisecond {
		t.Errorf("unexpected payload: %#v", sync.got[0])
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	b := New()
	b.Publish(event.WifiConnected{})
	b.Publish(nil)
}

func TestSubscribeNilIgnored(t *testing.T) {
	b := New()
	b.Subscribe(event.KindWifiConnected, nil)
	if n := b.Subscribers(event.KindWifiConnected); n != 0 {
		t.Errorf("Subscribers: got %d, want 0", n)
	}
}

func TestReentrantPublishSameKindDropped(t *testing.T) {
	b := New()
	var order []string
	r := &recorder{name: "loop", log: &order}
	r.on = func(e event.Event) { b.Publish(e) }
	b.Subscribe(event.KindWifiConnected, r)

	b.Publish(event.WifiConnected{})

	if len(r.got) != 1 {
		t.Errorf("expected exactly one delivery, got %d", len(r.got))
	}

	// Guard is released after dispatch.
	b.Publish(event.WifiConnected{})
	if len(r.got) != 2 {
		t.Errorf("expected second top-level publish to deliver, got %d", len(r.got))
	}
}

func TestChainedPublishOfOtherKind(t *testing.T) {
	b := New()
	var order []string
	down := &recorder{name: "down", log: &order}
	up := &recorder{name: "up", log: &order}
	up.on = func(event.Event) { b.Publish(event.ServerDisconnected{Reason: "x"}) }

	b.Subscribe(event.KindDataReady, up)
	b.Subscribe(event.KindServerDisconnected, down)

	b.Publish(event.DataReady{})

	if len(order) != 2 || order[0] != "up" || order[1] != "down" {
		t.Errorf("got %v, want [up down]", order)
	}
}

func TestKindString(t *testing.T) {
	if got := event.KindHTTPResponse.String(); got != "HttpResponse" {
		t.Errorf("got %q", got)
	}
	if got := event.Kind(99).String(); got != "Unknown" {
		t.Errorf("got %q", got)
	}
}
