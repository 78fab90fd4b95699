// Package buffer downloads a native source completely into memory before playback and falls
// back to direct streaming when that fails or the user skips it.
//
// Every transfer belongs to a generation. Load, Skip and Close start a new one, and a transfer
// only writes state while its generation is current, so an abandoned transfer is never visible.
package buffer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/blob"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/network"
	"github.com/vidlink-cli/vidlink/util"
)

const (
	chunkSize = 32 * 1024
	// preallocLimit bounds the capacity reserved up front from a declared Content-Length.
	preallocLimit = 64 * 1024 * 1024
)

var (
	errStalled  = errors.New("buffer: transfer stalled")
	errTooLarge = errors.New("buffer: source exceeds the size limit")
)

// Options configures a Machine.
type Options struct {
	// Client performs transfers. It must not send a Referer, not even on redirects.
	Client *http.Client
	Store  *blob.Store
	// BaseURL is where Store is served; PlaybackURL builds blob addresses below it.
	BaseURL string
	// StallTimeout fails a transfer that receives nothing for this long. Zero waits forever.
	StallTimeout time.Duration
	// MaxSize fails transfers larger than this many bytes. Zero is unlimited.
	MaxSize int64
}

// Machine is the buffering state machine. It is safe for concurrent use.
type Machine struct {
	options Options

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}

	changed chan struct{}
}

// New returns an idle Machine.
func New(options Options) *Machine {
	if options.Client == nil {
		options.Client = network.Media
	}
	if options.Store == nil {
		options.Store = blob.NewStore()
	}

	return &Machine{
		options: options,
		state:   State{Phase: Idle, Handle: mo.None[blob.Handle]()},
		changed: make(chan struct{}, 1),
	}
}

// FromConfig returns a Machine bounded by the buffer.* keys.
func FromConfig(store *blob.Store, baseURL string) *Machine {
	return New(Options{
		Client:       network.Media,
		Store:        store,
		BaseURL:      baseURL,
		StallTimeout: time.Duration(viper.GetInt(key.BufferStallTimeout)) * time.Second,
		MaxSize:      int64(viper.GetInt(key.BufferMaxSize)) * 1024 * 1024,
	})
}

// Changed delivers a signal after state changes. Signals coalesce; read State for the value.
func (m *Machine) Changed() <-chan struct{} {
	return m.changed
}

// State returns the current snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Store returns the blob store handles are minted in.
func (m *Machine) Store() *blob.Store {
	return m.options.Store
}

// PlaybackURL is the blob address once Ready and the source URL otherwise.
func (m *Machine) PlaybackURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if handle, ok := m.state.Handle.Get(); ok && m.state.Phase == Ready {
		return handle.URL(m.options.BaseURL)
	}
	return m.state.Source
}

// Load abandons whatever the machine holds and starts buffering source.
func (m *Machine) Load(ctx context.Context, source string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	generation := m.reset(source)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel, m.done = cancel, done

	m.set(State{Phase: Downloading, Source: source, Handle: mo.None[blob.Handle]()})

	go func() {
		defer close(done)
		m.transfer(ctx, generation, source)
	}()
}

// Skip stops a running transfer and switches to direct streaming.
// It does nothing in any other phase.
func (m *Machine) Skip() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != Downloading {
		return
	}

	m.abort()
	log.For("buffer").WithField("source", m.state.Source).Info("skipped by user")
	m.set(State{Phase: StreamingFallback, Fallback: true, Source: m.state.Source, Handle: mo.None[blob.Handle]()})
}

// Close abandons any transfer and releases the held handle.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset("")
}

// Wait blocks until the current transfer goroutine has exited.
func (m *Machine) Wait(ctx context.Context) error {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reset cancels the transfer, revokes the handle and returns to Idle. It returns the new generation.
// The caller holds mu.
func (m *Machine) reset(source string) uint64 {
	m.abort()

	if handle, ok := m.state.Handle.Get(); ok {
		m.options.Store.Revoke(handle)
	}

	m.set(State{Phase: Idle, Source: source, Handle: mo.None[blob.Handle]()})
	return m.generation
}

// abort starts a new generation and cancels the transfer of the old one. The caller holds mu.
func (m *Machine) abort() {
	m.generation++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// set replaces the state and signals the change. The caller holds mu.
func (m *Machine) set(state State) {
	state.Generation = m.generation
	m.state = state

	select {
	case m.changed <- struct{}{}:
	default:
	}
}

// update applies fn to the state if generation is still current.
func (m *Machine) update(generation uint64, fn func(*State)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		return false
	}

	state := m.state
	fn(&state)
	m.set(state)
	return true
}

func (m *Machine) transfer(ctx context.Context, generation uint64, source string) {
	logger := log.For("buffer").WithField("source", source)

	data, contentType, err := m.download(ctx, generation, source)
	if err != nil {
		// The generation's own context is done only when Load, Skip or Close abandoned it.
		if ctx.Err() != nil {
			logger.Debugf("transfer cancelled: %v", err)
			return
		}

		logger.Warnf("buffering failed, streaming directly: %v", err)
		m.update(generation, func(s *State) {
			s.Phase = StreamingFallback
			s.Fallback = true
		})
		return
	}

	handle := m.options.Store.Mint(data, contentType)
	ready := m.update(generation, func(s *State) {
		s.Phase = Ready
		s.Progress = 100
		s.Handle = mo.Some(handle)
	})

	if !ready {
		m.options.Store.Revoke(handle)
		return
	}

	logger.Infof("buffered %s", util.FormatBytes(int64(len(data))))
}

func (m *Machine) download(ctx context.Context, generation uint64, source string) ([]byte, string, error) {
	ctx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	var watchdog *time.Timer
	if m.options.StallTimeout > 0 {
		watchdog = time.AfterFunc(m.options.StallTimeout, func() { stop(errStalled) })
		defer watchdog.Stop()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, network.CacheBust(source), nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := m.options.Client.Do(req)
	if err != nil {
		return nil, "", stalled(ctx, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	total := resp.ContentLength
	if m.options.MaxSize > 0 && total > m.options.MaxSize {
		return nil, "", errTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(req.URL.Path))
	}

	var (
		data     = make([]byte, 0, util.Min(util.Max(total, 0), preallocLimit))
		chunk    = make([]byte, chunkSize)
		progress = 0
	)

	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			data = append(data, chunk[:n]...)

			if watchdog != nil {
				watchdog.Reset(m.options.StallTimeout)
			}

			if m.options.MaxSize > 0 && int64(len(data)) > m.options.MaxSize {
				return nil, "", errTooLarge
			}

			if total > 0 {
				if p := int(util.Min(int64(len(data))*100/total, 99)); p > progress {
					progress = p
					m.update(generation, func(s *State) { s.Progress = p })
				}
			}
		}

		if errors.Is(err, io.EOF) {
			return data, contentType, nil
		}
		if err != nil {
			return nil, "", stalled(ctx, err)
		}
	}
}

// stalled replaces a cancellation caused by the watchdog with errStalled.
func stalled(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); errors.Is(cause, errStalled) {
		return errStalled
	}
	return err
}
