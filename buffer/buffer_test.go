package buffer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidlink-cli/vidlink/blob"
)

const base = "http://127.0.0.1:7878"

var payload = strings.Repeat("x", 1000)

// eventually polls cond until it holds or a second passes.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func settle(m *Machine) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.Wait(ctx)
}

// halfway serves half of payload, then waits for release before sending the rest.
func halfway(release <-chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write([]byte(payload[:len(payload)/2]))
		w.(http.Flusher).Flush()

		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(payload[len(payload)/2:]))
	}
}

func newMachine(options Options) *Machine {
	options.BaseURL = base
	options.Store = blob.NewStore()
	return New(options)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a source that downloads completely", t, func() {
		var referer, bust string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			referer, bust = r.Header.Get("Referer"), r.URL.Query().Get("t")
			w.Header().Set("Content-Type", "video/mp4")
			_, _ = w.Write([]byte(payload))
		}))
		defer server.Close()

		m := newMachine(Options{Client: server.Client()})
		source := server.URL + "/clip.mp4"

		Convey("It becomes ready behind a blob handle", func() {
			m.Load(ctx, source)
			settle(m)

			state := m.State()
			So(state.Phase, ShouldEqual, Ready)
			So(state.Progress, ShouldEqual, 100)
			So(state.Fallback, ShouldBeFalse)

			handle := state.Handle.MustGet()
			So(m.PlaybackURL(), ShouldEqual, handle.URL(base))

			data, err := m.Store().Bytes(handle)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, payload)

			So(referer, ShouldBeEmpty)
			So(bust, ShouldNotBeEmpty)

			Convey("Close revokes the handle", func() {
				m.Close()
				So(m.State().Phase, ShouldEqual, Idle)
				So(m.Store().Len(), ShouldEqual, 0)
				_, err := m.Store().Open(handle)
				So(err, ShouldEqual, blob.ErrRevoked)
			})
		})
	})

	Convey("Given a source with a known length", t, func() {
		release := make(chan struct{})
		server := httptest.NewServer(halfway(release))
		defer server.Close()
		defer close(release)

		m := newMachine(Options{Client: server.Client()})

		Convey("Progress stays below 100 until the read completes", func() {
			m.Load(ctx, server.URL+"/clip.mp4")

			So(eventually(func() bool { return m.State().Progress == 50 }), ShouldBeTrue)
			So(m.State().Phase, ShouldEqual, Downloading)
			So(m.PlaybackURL(), ShouldEqual, server.URL+"/clip.mp4")

			release <- struct{}{}
			settle(m)
			So(m.State().Progress, ShouldEqual, 100)
			So(m.State().Phase, ShouldEqual, Ready)
		})
	})

	Convey("Given a failing source", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer server.Close()

		m := newMachine(Options{Client: server.Client()})

		Convey("It falls back to streaming the original URL", func() {
			m.Load(ctx, server.URL+"/clip.mp4")
			settle(m)

			So(m.State().Phase, ShouldEqual, StreamingFallback)
			So(m.State().Fallback, ShouldBeTrue)
			So(m.State().Handle.IsPresent(), ShouldBeFalse)
			So(m.PlaybackURL(), ShouldEqual, server.URL+"/clip.mp4")
		})
	})

	Convey("Given a source larger than the limit", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(payload))
		}))
		defer server.Close()

		m := newMachine(Options{Client: server.Client(), MaxSize: 100})

		Convey("It falls back", func() {
			m.Load(ctx, server.URL+"/clip.mp4")
			settle(m)
			So(m.State().Phase, ShouldEqual, StreamingFallback)
		})
	})

	Convey("Given a source that stalls", t, func() {
		release := make(chan struct{})
		server := httptest.NewServer(halfway(release))
		defer server.Close()
		defer close(release)

		m := newMachine(Options{Client: server.Client(), StallTimeout: 50 * time.Millisecond})

		Convey("The stall timeout turns it into a fallback", func() {
			m.Load(ctx, server.URL+"/clip.mp4")
			settle(m)
			So(m.State().Phase, ShouldEqual, StreamingFallback)
		})
	})
}

func TestSkipAndCancel(t *testing.T) {
	ctx := context.Background()

	Convey("Given a transfer in progress", t, func() {
		release := make(chan struct{})
		server := httptest.NewServer(halfway(release))
		defer server.Close()
		defer close(release)

		m := newMachine(Options{Client: server.Client()})
		slow := server.URL + "/slow.mp4"
		m.Load(ctx, slow)
		So(eventually(func() bool { return m.State().Progress > 0 }), ShouldBeTrue)

		Convey("Skip switches to streaming at once", func() {
			m.Skip()
			So(m.State().Phase, ShouldEqual, StreamingFallback)

			settle(m)
			So(m.State().Phase, ShouldEqual, StreamingFallback)
			So(m.PlaybackURL(), ShouldEqual, slow)
			So(m.Store().Len(), ShouldEqual, 0)

			Convey("And a second Skip does nothing", func() {
				generation := m.State().Generation
				m.Skip()
				So(m.State().Generation, ShouldEqual, generation)
			})
		})

		Convey("Loading another source hides the abandoned transfer", func() {
			fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("fast"))
			}))
			defer fast.Close()

			m.Load(ctx, fast.URL+"/fast.mp4")
			settle(m)

			state := m.State()
			So(state.Source, ShouldEqual, fast.URL+"/fast.mp4")
			So(state.Phase, ShouldEqual, Ready)
			So(state.Fallback, ShouldBeFalse)
			So(m.Store().Len(), ShouldEqual, 1)
		})

		Convey("Close returns to idle without a fallback", func() {
			m.Close()
			settle(m)

			So(m.State().Phase, ShouldEqual, Idle)
			So(m.State().Fallback, ShouldBeFalse)
		})
	})
}

func TestPhase(t *testing.T) {
	Convey("Phases have readable names", t, func() {
		So(StreamingFallback.String(), ShouldEqual, "streaming-fallback")
		So(State{Phase: Downloading, Progress: 42}.String(), ShouldEqual, "downloading 42%")
	})
}
