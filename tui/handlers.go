package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/buffer"
	"github.com/vidlink-cli/vidlink/capture"
	"github.com/vidlink-cli/vidlink/download"
	"github.com/vidlink-cli/vidlink/history"
	"github.com/vidlink-cli/vidlink/internal/ui"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/player"
	"github.com/vidlink-cli/vidlink/query"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/util"
)

type (
	resolvedMsg struct {
		request int
		data    *source.Data
	}
	resolveFailedMsg struct {
		request int
		err     error
	}
	bufferChangedMsg struct{}
	playedMsg        struct {
		url string
	}
	tickMsg struct {
		position, duration int
	}
	eventMsg struct {
		name string
		data interface{}
	}
	playerExitMsg struct{}
	frameMsg      struct {
		frame *capture.Frame
	}
	captureFailedMsg struct {
		err error
	}
	frameSavedMsg struct {
		path string
	}
	downloadProgressMsg struct {
		written, total int64
	}
	downloadedMsg struct {
		outcome *download.Outcome
		err     error
	}
)

// resolve parses input as the current request.
func (b *statefulBubble) resolve(input string) tea.Cmd {
	request, ctx := b.request, b.resolveCtx
	if ctx == nil {
		ctx = b.ctx
	}

	return func() tea.Msg {
		log.For("tui").Infof("resolving %s (request %d)", input, request)

		data, err := b.deps.parser.Parse(ctx, input)
		if err != nil {
			return resolveFailedMsg{request: request, err: err}
		}
		return resolvedMsg{request: request, data: data}
	}
}

// abandonResolve cancels the pending parse request, if any.
func (b *statefulBubble) abandonResolve() {
	if b.cancelResolve != nil {
		b.cancelResolve()
		b.cancelResolve = nil
	}
}

// onResolved routes a result: embeds go to the browser, native sources start buffering.
func (b *statefulBubble) onResolved(data *source.Data) tea.Cmd {
	b.data = data
	b.frame = nil
	b.playing = ""
	b.position, b.duration, b.watched = b.start, 0, 0

	if viper.GetBool(key.SearchShowQuerySuggestions) {
		if err := query.Remember(b.input, 1); err != nil {
			log.For("tui").Warnf("remember query: %v", err)
		}
	}

	if data.PlayerType == source.Iframe {
		b.newState(embedState)
		if err := b.deps.open(data.Primary().URL); err != nil {
			return ui.Notify(fmt.Sprintf("Could not open the embed page: %v", err))
		}
		return nil
	}

	b.newState(playingState)
	b.deps.machine.Load(b.ctx, data.Primary().URL)
	return tea.Batch(b.waitForBuffer(), b.spinnerC.Tick)
}

func (b *statefulBubble) waitForBuffer() tea.Cmd {
	changed := b.deps.machine.Changed()
	return func() tea.Msg {
		select {
		case <-changed:
			return bufferChangedMsg{}
		case <-b.ctx.Done():
			return nil
		}
	}
}

// onBufferChanged hands the player whatever the machine now wants played.
func (b *statefulBubble) onBufferChanged() tea.Cmd {
	state := b.deps.machine.State()
	cmds := []tea.Cmd{b.waitForBuffer(), b.progressC.SetPercent(float64(state.Progress) / 100)}

	if b.data == nil || b.state != playingState {
		return tea.Batch(cmds...)
	}

	switch state.Phase {
	case buffer.Ready, buffer.StreamingFallback:
		url := b.deps.machine.PlaybackURL()
		if url != "" && url != b.playing {
			b.playing = url
			cmds = append(cmds, b.play(url, b.data.Title, b.position))
		}
	}

	return tea.Batch(cmds...)
}

func (b *statefulBubble) play(url, title string, start float64) tea.Cmd {
	return func() tea.Msg {
		log.For("tui").Infof("playing %s from %s", url, util.FormatDuration(int(start)))

		if err := b.deps.player.Play(url, title, start); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
		return playedMsg{url: url}
	}
}

// attach starts following the player once it is running.
func (b *statefulBubble) attach() tea.Cmd {
	if b.attached {
		return nil
	}
	b.attached = true

	b.deps.player.StartIPCTicker(func(position, duration int) {
		select {
		case b.tickChannel <- tickMsg{position: position, duration: duration}:
		default:
		}
	})

	if mpv, ok := b.deps.player.(*player.MPV); ok {
		b.listener = player.NewEventListener(mpv.Socket(), func(name string, data interface{}) {
			select {
			case b.eventChannel <- eventMsg{name: name, data: data}:
			default:
			}
		})
		if err := b.listener.Start(); err != nil {
			log.For("tui").Warnf("event listener: %v", err)
		}
	}

	return tea.Batch(b.waitForTick(), b.waitForEvent(), b.waitForExit())
}

// detach stops following the player.
func (b *statefulBubble) detach() {
	if !b.attached {
		return
	}
	b.attached = false

	b.deps.player.StopIPCTicker()
	if b.listener != nil {
		b.listener.Stop()
		b.listener = nil
	}
}

func (b *statefulBubble) waitForTick() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.tickChannel:
			return msg
		case <-b.ctx.Done():
			return nil
		}
	}
}

func (b *statefulBubble) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.eventChannel:
			return msg
		case <-b.ctx.Done():
			return nil
		}
	}
}

func (b *statefulBubble) waitForExit() tea.Cmd {
	exited := b.deps.player.Wait()
	return func() tea.Msg {
		select {
		case <-exited:
			return playerExitMsg{}
		case <-b.ctx.Done():
			return nil
		}
	}
}

// onTick records the playback position and how far the video has been watched.
func (b *statefulBubble) onTick(msg tickMsg) {
	b.position = float64(msg.position)
	if msg.duration > 0 {
		b.duration = float64(msg.duration)
		b.watched = util.Max(b.watched, b.position/b.duration*100)
	}
}

func (b *statefulBubble) onEvent(msg eventMsg) {
	switch msg.name {
	case player.PropertyPause:
		if paused, ok := msg.data.(bool); ok {
			b.paused = paused
		}
	case player.PropertyDuration:
		if duration, ok := msg.data.(float64); ok {
			b.duration = duration
		}
	case player.PropertyEOFReached:
		if eof, ok := msg.data.(bool); ok && eof {
			b.watched = 100
		}
	}
}

// persist saves the watch progress of the current result.
func (b *statefulBubble) persist() {
	if b.data == nil || b.data.PlayerType != source.Native || !viper.GetBool(key.HistorySaveOnPlay) {
		return
	}

	if err := history.Save(b.data, b.watched, b.position); err != nil {
		log.For("tui").Warnf("save history: %v", err)
	}
}

// stop ends playback of the current result and returns to the entry screen.
func (b *statefulBubble) stop() {
	b.persist()
	b.detach()
	b.deps.machine.Close()
	if b.deps.player.IsRunning() {
		_ = b.deps.player.Close()
	}

	b.data = nil
	b.frame = nil
	b.playing = ""
	b.start = 0
	b.previousState()
}

func (b *statefulBubble) captureFrame() tea.Cmd {
	data, state := b.data, b.deps.machine.State()
	return func() tea.Msg {
		access := capture.Resolve(b.ctx, data, state, b.deps.origin, b.deps.prober)

		frame, err := capture.Capture(b.ctx, b.deps.player, access)
		if err != nil {
			return captureFailedMsg{err: err}
		}
		return frameMsg{frame: frame}
	}
}

func (b *statefulBubble) saveFrame() tea.Cmd {
	frame, title := b.frame, b.data.Title
	return func() tea.Msg {
		path, err := frame.Save(title)
		if err != nil {
			return fmt.Sprintf("Could not save the frame: %v", err)
		}
		return frameSavedMsg{path: path}
	}
}

// forceDownload saves the result, reusing buffered bytes when the machine holds them.
func (b *statefulBubble) forceDownload() tea.Cmd {
	data := b.data
	buffered := mo.None[[]byte]()

	state := b.deps.machine.State()
	if handle, ok := state.Handle.Get(); ok && state.Phase == buffer.Ready {
		if bytes, err := b.deps.machine.Store().Bytes(handle); err == nil {
			buffered = mo.Some(bytes)
		}
	}

	b.downloading = true
	b.downloadWritten, b.downloadTotal = 0, 0

	channel := b.downloadChannel
	go func() {
		outcome, err := b.deps.downloader.Force(b.ctx, data, buffered, func(written, total int64) {
			select {
			case channel <- downloadProgressMsg{written: written, total: total}:
			default:
			}
		})
		channel <- downloadedMsg{outcome: outcome, err: err}
	}()

	return b.waitForDownload()
}

func (b *statefulBubble) waitForDownload() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.downloadChannel:
			return msg
		case <-b.ctx.Done():
			return nil
		}
	}
}

func (b *statefulBubble) loadHistory() (tea.Cmd, error) {
	records, err := history.Sorted()
	if err != nil {
		return nil, err
	}

	items := make([]list.Item, len(records))
	for i, record := range records {
		items[i] = &listItem{internal: record}
	}

	return b.historyC.SetItems(items), nil
}
