// Package tui is the player shell: paste a link, watch it buffer, play it in mpv.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/buffer"
	"github.com/vidlink-cli/vidlink/capture"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/download"
	"github.com/vidlink-cli/vidlink/internal/ui"
	"github.com/vidlink-cli/vidlink/player"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/vidlink-cli/vidlink/util"
)

// Parser resolves pasted text into a playable result.
type Parser interface {
	Parse(ctx context.Context, raw string) (*source.Data, error)
}

// dependencies are the collaborators the shell drives.
type dependencies struct {
	parser     Parser
	player     player.Player
	machine    *buffer.Machine
	downloader *download.Downloader
	prober     capture.Prober
	// origin is the address buffered media is served from.
	origin string
	open   func(string) error
}

// statefulBubble holds the shell state and its component models.
type statefulBubble struct {
	state     state
	previous  mo.Option[state]
	keymap    *statefulKeymap
	ctx       context.Context
	deps      dependencies
	options   *Options
	lastError error

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	historyC  list.Model
	progressC progress.Model
	downloadC progress.Model
	helpC     help.Model

	data     *source.Data
	input    string
	start    float64
	playing  string // URL handed to the player
	attached bool   // ticker and event listener running

	// request numbers parse requests; answers for any other number are dropped.
	request       int
	resolveCtx    context.Context
	cancelResolve context.CancelFunc

	position, duration float64
	paused             bool
	watched            float64

	frame *capture.Frame

	downloading                    bool
	downloadWritten, downloadTotal int64

	tickChannel     chan tickMsg
	eventChannel    chan eventMsg
	downloadChannel chan tea.Msg
	listener        *player.EventListener

	width, height    int
	searchSuggestion mo.Option[string]
	notifier         *ui.Model
}

// setState performs a synchronous transition of both the workflow and its keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering where it came from for back navigation.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state == inputState || b.state == historyState {
		b.previous = mo.Some(b.state)
	}

	b.setState(s)
}

// previousState returns to the screen a link was entered from.
func (b *statefulBubble) previousState() {
	b.setState(b.previous.OrElse(inputState))
	b.previous = mo.None[state]()
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.progressC.Width = width - x
	b.downloadC.Width = width - x
	b.inputC.Width = width - x - lipgloss.Width(b.inputC.Prompt) - 1

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func newBubble(ctx context.Context, options *Options, deps dependencies) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		keymap:   keymap,
		ctx:      ctx,
		deps:     deps,
		options:  options,
		previous: mo.None[state](),

		tickChannel:     make(chan tickMsg, 1),
		eventChannel:    make(chan eventMsg, 8),
		downloadChannel: make(chan tea.Msg, 1),

		searchSuggestion: mo.None[string](),
		notifier:         &ui.Model{},
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Paste a Bilibili, YouTube or direct video link (v%s)", constant.Version)
	bubble.inputC.CharLimit = 2048
	bubble.inputC.Prompt = "> "

	bubble.progressC = progress.New(progress.WithDefaultGradient())
	bubble.downloadC = progress.New(progress.WithSolidFill(string(style.Green)))

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.historyC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.historyC.KeyMap = keymap.forList()
	bubble.historyC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.historyC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.historyC.Title = "History"
	bubble.historyC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Yellow).Padding(0, 1)
	bubble.historyC.Styles.NoItems = paddingStyle
	bubble.historyC.StatusMessageLifetime = time.Hour * 999
	bubble.historyC.SetShowPagination(false)
	bubble.historyC.SetStatusBarItemName("entry", "entries")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(inputState)
	bubble.inputC.Focus()

	return &bubble
}
