package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers IPC requests on a unix socket the way mpv does,
// interleaving an unrelated event before every reply.
type fakeMPV struct {
	listener net.Listener
	mu       sync.Mutex
	commands [][]interface{}
	reply    func(command []interface{}) map[string]interface{}
}

func newFakeMPV(t *testing.T, reply func([]interface{}) map[string]interface{}) (*fakeMPV, string) {
	dir, err := os.MkdirTemp("", "mpv")
	if err != nil {
		t.Fatal(err)
	}
	socket := filepath.Join(dir, "s.sock")

	listener, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatal(err)
	}

	fake := &fakeMPV{listener: listener, reply: reply}
	go fake.serve()

	t.Cleanup(func() {
		listener.Close()
		os.RemoveAll(dir)
	})
	return fake, socket
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}

		go func(conn net.Conn) {
			defer conn.Close()
			scanner := bufio.NewScanner(conn)
			for scanner.Scan() {
				var request ipcCommand
				if err := json.Unmarshal(scanner.Bytes(), &request); err != nil {
					return
				}

				f.mu.Lock()
				f.commands = append(f.commands, request.Command)
				f.mu.Unlock()

				answer := map[string]interface{}{"error": "success", "data": nil}
				if f.reply != nil {
					for k, v := range f.reply(request.Command) {
						answer[k] = v
					}
				}
				answer["request_id"] = request.RequestID

				event, _ := json.Marshal(map[string]interface{}{"event": "playback-restart"})
				reply, _ := json.Marshal(answer)
				_, _ = conn.Write(append(append(event, '\n'), append(reply, '\n')...))
			}
		}(conn)
	}
}

func (f *fakeMPV) last() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commands[len(f.commands)-1]
}

func connected(socket string) *MPV {
	m := NewMPV()
	m.socketPath = socket
	return m
}

func TestIPC(t *testing.T) {
	Convey("Given a running mpv", t, func() {
		fake, socket := newFakeMPV(t, func(command []interface{}) map[string]interface{} {
			if len(command) == 2 && command[0] == "get_property" {
				switch command[1] {
				case "time-pos":
					return map[string]interface{}{"data": 30.0}
				case "duration":
					return map[string]interface{}{"data": 120.0}
				case "pause":
					return map[string]interface{}{"data": true}
				case "chapter":
					return map[string]interface{}{"error": "property unavailable"}
				}
			}
			return nil
		})
		m := connected(socket)

		Convey("Replies are matched past interleaved events", func() {
			pos, err := m.GetTimePos()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 30.0)

			paused, err := m.GetPausedStatus()
			So(err, ShouldBeNil)
			So(paused, ShouldBeTrue)
		})

		Convey("The watched percentage is derived from position and duration", func() {
			percent, err := m.GetPercentWatched()
			So(err, ShouldBeNil)
			So(percent, ShouldEqual, 25.0)
		})

		Convey("Errors reported by mpv are returned without retrying", func() {
			_, err := property[float64](m, "chapter")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "property unavailable")
		})

		Convey("Screenshot captures the video layer only", func() {
			So(m.Screenshot("/tmp/frame.png"), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"screenshot-to-file", "/tmp/frame.png", "video"})
		})

		Convey("Relative seeks are sent as such", func() {
			So(m.SeekRelative(-5), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"seek", -5.0, "relative"})
		})

		Convey("A running instance loads a replacement at the given position", func() {
			So(m.IsRunning(), ShouldBeTrue)
			So(m.Play("http://127.0.0.1:7878/blob/abc", "标题", 42.5), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"loadfile", "http://127.0.0.1:7878/blob/abc", "replace"})
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given an event stream", t, func() {
		_, socket := newFakeMPV(t, nil)

		events := make(chan string, 16)
		listener := NewEventListener(socket, func(name string, _ interface{}) {
			events <- name
		})

		Convey("Non-property events are forwarded by name", func() {
			So(listener.Start(), ShouldBeNil)
			defer listener.Stop()

			select {
			case name := <-events:
				So(name, ShouldEqual, "playback-restart")
			case <-time.After(2 * time.Second):
				So("no event received", ShouldBeEmpty)
			}
		})
	})
}

func TestArgs(t *testing.T) {
	Convey("mpvArgs", t, func() {
		args := mpvArgs("/tmp/s.sock", "https://a/b.mp4", "t", 12)
		So(args, ShouldContain, "--input-ipc-server=/tmp/s.sock")
		So(args, ShouldContain, "--keep-open=yes")
		So(args, ShouldContain, "--start=12")
		So(args[len(args)-2:], ShouldResemble, []string{"--", "https://a/b.mp4"})

		So(mpvArgs("/s", "x", "t", 0), ShouldNotContain, "--start=0")
	})

	Convey("sanitizeMediaTarget", t, func() {
		_, err := sanitizeMediaTarget("-o evil")
		So(err, ShouldNotBeNil)
		_, err = sanitizeMediaTarget("file:///etc/passwd")
		So(err, ShouldNotBeNil)
		target, err := sanitizeMediaTarget(" https://a/b.mp4 ")
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "https://a/b.mp4")
	})

	Convey("sanitizeTitle", t, func() {
		So(sanitizeTitle(" a\nb\tc\x00 "), ShouldEqual, "a b c")
	})
}
