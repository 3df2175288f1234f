package pipeline

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/transport"
)

// Uplink posts each DataReady payload off the scheduler goroutine and
// publishes the outcome back on it: HTTPResponse on 200, otherwise
// ServerDisconnected. One upload runs at a time; a payload arriving while
// one is in flight is dropped and the next scan retries naturally.
type Uplink struct {
	ctx     context.Context
	poster  transport.Poster
	url     string
	mailbox Mailbox
	bus     *bus.Bus

	inFlight   bool
	lastStatus int
	lastErr    error
	lastAt     time.Time
	sent       uint64
	failed     uint64
	now        func() time.Time
}

func NewUplink(ctx context.Context, poster transport.Poster, url string, mb Mailbox) *Uplink {
	return &Uplink{ctx: ctx, poster: poster, url: url, mailbox: mb, now: time.Now}
}

// LastStatus returns the status code of the last completed upload, 0 when
// it never reached the server.
func (u *Uplink) LastStatus() int { return u.lastStatus }

// LastError returns the error of the last failed upload.
func (u *Uplink) LastError() error { return u.lastErr }

// LastAt returns when the last upload finished.
func (u *Uplink) LastAt() time.Time { return u.lastAt }

// Counts returns successful and failed uploads.
func (u *Uplink) Counts() (sent, failed uint64) { return u.sent, u.failed }

// InFlight reports whether an upload is running.
func (u *Uplink) InFlight() bool { return u.inFlight }

func (u *Uplink) Setup(b *bus.Bus) {
	u.bus = b
	b.Subscribe(event.KindDataReady, u)
}

func (u *Uplink) Update() {}

func (u *Uplink) OnEvent(e event.Event) {
	dr, ok := e.(event.DataReady)
	if !ok {
		return
	}
	if u.inFlight {
		log.Printf("uplink: previous upload still running, dropping report")
		return
	}
	u.inFlight = true
	body := dr.JSON
	go func() {
		status, resp, err := u.poster.Post(u.ctx, u.url, "application/json", body)
		if serr := run(u.ctx, u.mailbox, func() { u.finish(status, resp, err) }); serr != nil {
			log.Printf("uplink: dropped response: %v", serr)
		}
	}()
}

func (u *Uplink) finish(status int, body []byte, err error) {
	u.inFlight = false
	u.lastStatus = status
	u.lastAt = u.now()

	switch {
	case err != nil:
		u.lastErr = err
	case status != http.StatusOK:
		u.lastErr = fmt.Errorf("server returned %d", status)
	default:
		u.lastErr = nil
		u.sent++
		log.Printf("uplink: posted, %d byte response", len(body))
		u.bus.Publish(event.HTTPResponse{Body: body})
		return
	}

	u.failed++
	log.Printf("uplink: post %s: %v", u.url, u.lastErr)
	u.bus.Publish(event.ServerDisconnected{Reason: u.lastErr.Error()})
}
