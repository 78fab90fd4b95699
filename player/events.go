package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/vidlink-cli/vidlink/log"
)

// Observed properties.
const (
	PropertyPause      = "pause"
	PropertyEOFReached = "eof-reached"
	PropertyDuration   = "duration"
)

// EventCallback receives property changes and other mpv events.
// For property changes name is the property, otherwise it is the event name.
type EventCallback func(name string, data interface{})

// EventListener streams mpv events over a dedicated connection.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

// Start observes the pause, end-of-file and duration properties and begins dispatching events.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	// Observers are bound to the connection that registers them.
	for id, name := range []string{PropertyPause, PropertyEOFReached, PropertyDuration} {
		payload, _ := json.Marshal(ipcCommand{Command: []interface{}{"observe_property", id + 1, name}})
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop(conn)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection, which ends the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	_ = el.conn.Close()
	el.listening = false
}

func (el *EventListener) readLoop(conn net.Conn) {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	for scanner.Scan() {
		el.dispatch(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil {
		log.Warnf("event listener read error: %v", err)
	}
}

func (el *EventListener) dispatch(line []byte) {
	var event map[string]interface{}
	if err := json.Unmarshal(line, &event); err != nil {
		return
	}

	name, _ := event["event"].(string)
	if name == "" || el.callback == nil {
		return
	}

	if name == "property-change" {
		if property, _ := event["name"].(string); property != "" {
			el.callback(property, event["data"])
		}
		return
	}

	el.callback(name, event)
}
