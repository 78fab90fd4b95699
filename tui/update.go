package tui

import (
	"context"
	"errors"
	"fmt"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/buffer"
	"github.com/vidlink-cli/vidlink/capture"
	"github.com/vidlink-cli/vidlink/history"
	"github.com/vidlink-cli/vidlink/internal/ui"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/query"
	"github.com/vidlink-cli/vidlink/util"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Notifications are plain strings; notices are ui.NoticeMsg.
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if b.state == resolvingState || b.state == playingState {
			var tick tea.Cmd
			b.spinnerC, tick = b.spinnerC.Update(msg)
			return b, tea.Batch(cmd, tick)
		}
		return b, cmd
	case progress.FrameMsg:
		var frame, dl tea.Cmd
		model, frame := b.progressC.Update(msg)
		b.progressC = model.(progress.Model)
		model, dl = b.downloadC.Update(msg)
		b.downloadC = model.(progress.Model)
		return b, tea.Batch(cmd, frame, dl)
	case bufferChangedMsg:
		return b, tea.Batch(cmd, b.onBufferChanged())
	case playedMsg:
		log.For("tui").Debugf("player started %s", msg.url)
		return b, tea.Batch(cmd, b.attach())
	case tickMsg:
		b.onTick(msg)
		return b, tea.Batch(cmd, b.waitForTick())
	case eventMsg:
		b.onEvent(msg)
		return b, tea.Batch(cmd, b.waitForEvent())
	case playerExitMsg:
		if b.state == playingState {
			watched := b.watched
			b.stop()
			return b, tea.Batch(cmd, ui.Notify(fmt.Sprintf("Player closed at %.0f%%", watched)))
		}
		return b, cmd
	case downloadProgressMsg:
		b.downloadWritten, b.downloadTotal = msg.written, msg.total
		var percent tea.Cmd
		if msg.total > 0 {
			percent = b.downloadC.SetPercent(float64(msg.written) / float64(msg.total))
		}
		return b, tea.Batch(cmd, percent, b.waitForDownload())
	case downloadedMsg:
		b.downloading = false
		return b, tea.Batch(cmd, b.onDownloaded(msg))
	case frameMsg:
		b.frame = msg.frame
		b.paused = true
		return b, tea.Batch(cmd, ui.Notify(fmt.Sprintf("Captured frame at %s, w to save", util.FormatDuration(int(msg.frame.Timestamp)))))
	case captureFailedMsg:
		if errors.Is(msg.err, capture.ErrSecurity) {
			return b, tea.Batch(cmd, ui.Block(msg.err.Error()))
		}
		return b, tea.Batch(cmd, ui.Notify(fmt.Sprintf("Capture failed: %v", msg.err)))
	case frameSavedMsg:
		b.frame = nil
		return b, tea.Batch(cmd, ui.Notify("Saved "+msg.path))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		// a notice swallows every key but the one that dismisses it
		if b.notifier.Blocking() {
			if bubblesKey.Matches(msg, b.keymap.back) {
				b.notifier.Dismiss()
			}
			return b, cmd
		}
	}

	var next tea.Cmd
	switch b.state {
	case inputState:
		next = b.updateInput(msg)
	case historyState:
		next = b.updateHistory(msg)
	case resolvingState:
		next = b.updateResolving(msg)
	case playingState:
		next = b.updatePlaying(msg)
	case embedState:
		next = b.updateEmbed(msg)
	case errorState:
		next = b.updateError(msg)
	}

	return b, tea.Batch(cmd, next)
}

func (b *statefulBubble) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion):
			if suggestion, ok := b.searchSuggestion.Get(); ok {
				b.inputC.SetValue(suggestion)
				b.inputC.CursorEnd()
				b.searchSuggestion = mo.None[string]()
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.openHistory):
			cmd, err := b.loadHistory()
			if err != nil {
				b.raiseError(err)
				return nil
			}
			b.newState(historyState)
			return cmd
		case bubblesKey.Matches(msg, b.keymap.confirm):
			input := b.inputC.Value()
			if input == "" {
				return nil
			}
			return b.submit(input, 0)
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if viper.GetBool(key.SearchShowQuerySuggestions) {
		b.searchSuggestion = query.Suggest(b.inputC.Value())
	}

	return cmd
}

// submit resolves input and starts playback at start seconds.
func (b *statefulBubble) submit(input string, start float64) tea.Cmd {
	b.abandonResolve()
	b.request++
	b.resolveCtx, b.cancelResolve = context.WithCancel(b.ctx)

	b.input = input
	b.start = start
	b.newState(resolvingState)
	return tea.Batch(b.resolve(input), b.spinnerC.Tick)
}

func (b *statefulBubble) updateHistory(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.historyC.FilterState() == list.Filtering {
			break
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.historyC.FilterState() != list.Unfiltered {
				break
			}
			b.setState(inputState)
			return nil
		case bubblesKey.Matches(msg, b.keymap.remove):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			if err := history.Remove(item.internal.(*history.SavedVideo)); err != nil {
				b.raiseError(err)
				return nil
			}
			b.historyC.RemoveItem(b.historyC.Index())
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			saved := item.internal.(*history.SavedVideo)
			return b.submit(saved.Input, saved.Position)
		}
	}

	b.historyC, cmd = b.historyC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateResolving(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resolvedMsg:
		if msg.request != b.request {
			log.For("tui").Debugf("dropping answer for abandoned request %d", msg.request)
			return nil
		}
		b.abandonResolve()
		return b.onResolved(msg.data)
	case resolveFailedMsg:
		if msg.request != b.request {
			return nil
		}
		b.abandonResolve()
		b.raiseError(msg.err)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.back) {
			b.abandonResolve()
			b.request++
			b.previousState()
		}
	}
	return nil
}

func (b *statefulBubble) updatePlaying(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	seek := func(delta float64) tea.Cmd {
		if !b.attached {
			return nil
		}
		if err := b.deps.player.SeekRelative(delta); err != nil {
			return ui.Notify(fmt.Sprintf("Seek failed: %v", err))
		}
		return nil
	}

	step := viper.GetFloat64(key.PlayerSeekStep)
	if step <= 0 {
		step = 5
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		if b.frame != nil {
			b.frame = nil
			return ui.Notify("Frame dismissed")
		}
		b.stop()
	case bubblesKey.Matches(keyMsg, b.keymap.playPause):
		if !b.attached {
			return nil
		}
		if err := b.deps.player.TogglePause(); err != nil {
			return ui.Notify(fmt.Sprintf("Pause failed: %v", err))
		}
		b.paused = !b.paused
	case bubblesKey.Matches(keyMsg, b.keymap.seekBackward):
		return seek(-step)
	case bubblesKey.Matches(keyMsg, b.keymap.seekForward):
		return seek(step)
	case bubblesKey.Matches(keyMsg, b.keymap.skip):
		if b.deps.machine.State().Phase == buffer.Downloading {
			b.deps.machine.Skip()
		}
	case bubblesKey.Matches(keyMsg, b.keymap.capture):
		if !b.attached {
			return ui.Notify("Nothing is playing yet")
		}
		return b.captureFrame()
	case bubblesKey.Matches(keyMsg, b.keymap.saveFrame):
		if b.frame == nil {
			return ui.Notify("No captured frame, press c first")
		}
		return b.saveFrame()
	case bubblesKey.Matches(keyMsg, b.keymap.download):
		return b.startDownload()
	case bubblesKey.Matches(keyMsg, b.keymap.openURL):
		return b.openExternally()
	}

	return nil
}

func (b *statefulBubble) updateEmbed(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.data = nil
		b.previousState()
	case bubblesKey.Matches(keyMsg, b.keymap.openURL):
		if err := b.deps.open(b.data.Primary().URL); err != nil {
			return ui.Notify(fmt.Sprintf("Could not open the embed page: %v", err))
		}
	case bubblesKey.Matches(keyMsg, b.keymap.capture):
		return b.captureFrame()
	case bubblesKey.Matches(keyMsg, b.keymap.download):
		return b.startDownload()
	}

	return nil
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.lastError = nil
		b.previousState()
		if b.state == inputState {
			return textinput.Blink
		}
	}

	return nil
}

func (b *statefulBubble) startDownload() tea.Cmd {
	if b.downloading {
		return ui.Notify("A download is already running")
	}
	return b.forceDownload()
}

func (b *statefulBubble) openExternally() tea.Cmd {
	if err := b.deps.open(b.data.External()); err != nil {
		return ui.Notify(fmt.Sprintf("Could not open: %v", err))
	}
	return ui.Notify("Opened in the system handler")
}

func (b *statefulBubble) onDownloaded(msg downloadedMsg) tea.Cmd {
	switch {
	case msg.err != nil:
		return ui.Notify(fmt.Sprintf("Download failed: %v", msg.err))
	case msg.outcome.External != "":
		return ui.Notify("Opened externally, save it from there")
	default:
		return ui.Notify("Downloaded to " + msg.outcome.Path)
	}
}
