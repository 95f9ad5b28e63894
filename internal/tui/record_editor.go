package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/roeyazroel/linear-cli/internal/present"
	"github.com/roeyazroel/linear-cli/internal/record"
)

// EditorState is the mode of a RecordEditor.
type EditorState int

const (
	// EditorLoading waits for the option lists; only cancel is accepted.
	EditorLoading EditorState = iota
	// EditorBrowsing accepts navigation and field edits.
	EditorBrowsing
	// EditorEditingText has handed the terminal to the external editor.
	EditorEditingText
	// EditorSaving has an update in flight.
	EditorSaving
)

func (s EditorState) String() string {
	switch s {
	case EditorLoading:
		return "loading"
	case EditorBrowsing:
		return "browsing"
	case EditorEditingText:
		return "editing"
	case EditorSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// OutcomeKind classifies a save outcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeError
)

// SaveOutcome is the message shown after a save attempt.
type SaveOutcome struct {
	Text string
	Kind OutcomeKind
}

// TextEditor edits text outside the terminal UI.
type TextEditor interface {
	Edit(ctx context.Context, seed, ext string) (string, error)
}

// Editor column widths.
const (
	editorFieldWidth = 14
	editorValueWidth = 52
	editorHelpWidth  = 30
)

const editorHelpText = "Press 's' to save, 'q' or 'Esc' to cancel, ↑↓ to navigate"

// RecordEditor edits the fields of one issue or project and saves them in a
// single update. Keys arrive through HandleKey; the editor ignores them while
// the external editor is open or a save is in flight.
type RecordEditor struct {
	gw       Gateway
	launcher TextEditor
	cache    *record.OptionCache

	mu      sync.Mutex
	rec     editable
	fields  []record.Field
	state   EditorState
	values  record.Values
	cursor  int
	search  string
	outcome *SaveOutcome

	onBack   func()
	onUpdate func(editable)

	// Hooks (overridable in tests)
	queueUpdate func(func())
	suspend     func(func()) bool
	now         func() time.Time
	diag        io.Writer

	layout *tview.Flex
	header *tview.TextView
	table  *tview.Table
	status *tview.TextView
}

// newRecordEditor builds an editor for rec. Call Load to populate the options.
func newRecordEditor(gw Gateway, launcher TextEditor, rec editable, onBack func(), onUpdate func(editable)) *RecordEditor {
	e := &RecordEditor{
		gw:          gw,
		launcher:    launcher,
		cache:       record.NewOptionCache(),
		rec:         rec,
		fields:      rec.fields(),
		state:       EditorLoading,
		values:      rec.seed(),
		onBack:      onBack,
		onUpdate:    onUpdate,
		queueUpdate: func(f func()) { f() },
		now:         time.Now,
		diag:        io.Discard,
	}

	e.header = tview.NewTextView().SetDynamicColors(true)
	e.table = tview.NewTable().
		SetBorders(true).
		SetSelectable(false, false)
	e.status = tview.NewTextView().SetDynamicColors(true)

	e.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(e.header, 2, 0, false).
		AddItem(e.table, 0, 1, true).
		AddItem(e.status, 1, 0, false)
	e.layout.SetBorder(true).SetTitle(fmt.Sprintf(" Editing %s: %s ", titleWord(rec.noun()), rec.label()))

	e.render()
	return e
}

// Primitive returns the editor's root view.
func (e *RecordEditor) Primitive() tview.Primitive {
	return e.layout
}

// Load fetches the option lists in the background and switches to browsing
// once they arrive. A failed load is reported as an error outcome.
func (e *RecordEditor) Load(ctx context.Context) {
	e.mu.Lock()
	rec := e.rec
	e.mu.Unlock()

	go func() {
		err := rec.loadOptions(ctx, e.gw, e.cache)
		if err != nil {
			logger.ErrorWithErr(err, "tui.editor: failed to load options %s=%s", rec.noun(), rec.label())
		} else {
			logger.Debug("tui.editor: options loaded %s=%s", rec.noun(), rec.label())
		}
		e.queueUpdate(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.state != EditorLoading {
				return
			}
			e.state = EditorBrowsing
			if err != nil {
				e.outcome = &SaveOutcome{Text: "Error: " + err.Error(), Kind: OutcomeError}
			}
			e.render()
		})
	}()
}

// State returns the current editor state.
func (e *RecordEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Value returns the displayed value of the field with key.
func (e *RecordEditor) Value(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[key]
}

// Outcome returns the last save outcome, if it is still shown.
func (e *RecordEditor) Outcome() (SaveOutcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.outcome == nil {
		return SaveOutcome{}, false
	}
	return *e.outcome, true
}

// HandleKey applies one key press. Every key is consumed.
func (e *RecordEditor) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	e.mu.Lock()
	back := e.handleKeyLocked(event)
	e.render()
	e.mu.Unlock()

	if back && e.onBack != nil {
		e.onBack()
	}
	return nil
}

// handleKeyLocked reports whether the editor should be left.
func (e *RecordEditor) handleKeyLocked(event *tcell.EventKey) bool {
	switch e.state {
	case EditorEditingText, EditorSaving:
		return false
	case EditorLoading:
		return isCancelKey(event)
	}

	if isCancelKey(event) {
		return true
	}
	if event.Key() == tcell.KeyRune && event.Rune() == 's' {
		e.startSave()
		return false
	}

	switch event.Key() {
	case tcell.KeyUp:
		e.moveCursor(-1)
		return false
	case tcell.KeyDown:
		e.moveCursor(1)
		return false
	}

	field := e.fields[e.cursor]
	switch field.Kind {
	case record.KindSelect, record.KindNumericSelect:
		e.handleSelectKey(field, event)
	default:
		if event.Key() == tcell.KeyEnter && field.Kind.EditsExternally() {
			e.editExternally(field)
		}
	}
	return false
}

func isCancelKey(event *tcell.EventKey) bool {
	if event.Key() == tcell.KeyEscape {
		return true
	}
	return event.Key() == tcell.KeyRune && event.Rune() == 'q'
}

func (e *RecordEditor) moveCursor(delta int) {
	next := e.cursor + delta
	if next < 0 || next >= len(e.fields) {
		return
	}
	e.cursor = next
	e.search = ""
	e.outcome = nil
}

func (e *RecordEditor) handleSelectKey(field record.Field, event *tcell.EventKey) {
	switch event.Key() {
	case tcell.KeyLeft:
		e.values[field.Key] = record.Step(e.selectOptions(field), e.values[field.Key], -1)
		return
	case tcell.KeyRight:
		e.values[field.Key] = record.Step(e.selectOptions(field), e.values[field.Key], 1)
		return
	}
	if !field.Searchable {
		return
	}

	switch event.Key() {
	case tcell.KeyRune:
		r := event.Rune()
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return
		}
		e.search += string(r)
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		if e.search == "" {
			return
		}
		runes := []rune(e.search)
		e.search = string(runes[:len(runes)-1])
		if e.search == "" {
			return
		}
	default:
		return
	}

	if matches := record.FilterOptions(e.cache.Options(field.Category), e.search); len(matches) > 0 {
		e.values[field.Key] = matches[0].Name
	}
}

// selectOptions returns the list left/right cycles through. A searchable
// field with an active search cycles through its matches only.
func (e *RecordEditor) selectOptions(field record.Field) []record.Option {
	opts := e.cache.Options(field.Category)
	if field.Searchable && e.search != "" {
		return record.FilterOptions(opts, e.search)
	}
	return opts
}

// editExternally blocks while the external editor runs. The terminal UI is
// suspended for the duration.
func (e *RecordEditor) editExternally(field record.Field) {
	if e.launcher == nil {
		return
	}
	ext := "txt"
	if field.Markdown() {
		ext = "md"
	}

	e.state = EditorEditingText
	e.render()

	var (
		result string
		err    error
	)
	run := func() {
		result, err = e.launcher.Edit(context.Background(), e.values[field.Key], ext)
		if err != nil {
			_, _ = fmt.Fprintf(e.diag, "Editor error: %v\n", err)
		}
	}
	if e.suspend != nil {
		e.suspend(run)
	} else {
		run()
	}

	e.state = EditorBrowsing
	if err != nil {
		logger.ErrorWithErr(err, "tui.editor: external editor failed field=%s", field.Key)
		return
	}
	e.values[field.Key] = result
}

// startSave snapshots the form and sends the update in the background.
func (e *RecordEditor) startSave() {
	e.state = EditorSaving
	e.outcome = nil

	rec := e.rec
	values := e.values.Clone()
	now := e.now()
	logger.Info("tui.editor: saving %s=%s", rec.noun(), rec.label())

	go func() {
		next, err := rec.save(context.Background(), e.gw, values, e.cache, now)
		e.queueUpdate(func() {
			e.finishSave(rec, next, err)
		})
	}()
}

func (e *RecordEditor) finishSave(prev, next editable, err error) {
	e.mu.Lock()
	e.state = EditorBrowsing
	if err != nil {
		logger.ErrorWithErr(err, "tui.editor: save failed %s=%s", prev.noun(), prev.label())
		text := "Error: " + err.Error()
		if errors.Is(err, linearapi.ErrOperationFailed) {
			text = "Failed to save " + prev.noun()
		}
		e.outcome = &SaveOutcome{Text: text, Kind: OutcomeError}
		e.render()
		e.mu.Unlock()
		return
	}

	e.rec = next
	e.values = next.seed()
	e.search = ""
	e.outcome = &SaveOutcome{
		Text: fmt.Sprintf("%s %s saved at %s", titleWord(next.noun()), next.label(), e.now().Format("15:04:05")),
		Kind: OutcomeSuccess,
	}
	logger.Info("tui.editor: save finished %s=%s", next.noun(), next.label())
	e.render()
	e.mu.Unlock()

	if e.onUpdate != nil {
		e.onUpdate(next)
	}
}

// displayValue decorates a form value for the table.
func (e *RecordEditor) displayValue(field record.Field, active bool) string {
	value := e.values[field.Key]
	switch field.Key {
	case record.KeyStatus:
		value = present.StatusEmoji(value) + " " + value
	case record.KeyPriority:
		value = present.PriorityEmoji(e.values.Priority()) + " " + value
	}
	if field.Searchable && active && e.search != "" {
		value = fmt.Sprintf("%s (search: %s)", value, e.search)
	}
	return value
}

// render redraws the table and status line. Callers hold e.mu.
func (e *RecordEditor) render() {
	e.header.SetText(editorHelpText)

	e.table.Clear()
	for col, title := range []string{">", "Field", "Value", "Help"} {
		e.table.SetCell(0, col, tview.NewTableCell(title).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
	for i, field := range e.fields {
		active := i == e.cursor
		marker := " "
		help := ""
		if active {
			marker = present.CursorMarker
			help = field.Help
		}
		row := i + 1
		e.table.SetCell(row, 0, tview.NewTableCell(marker))
		e.table.SetCell(row, 1, tview.NewTableCell(tview.Escape(present.Truncate(field.Label, editorFieldWidth))))
		e.table.SetCell(row, 2, tview.NewTableCell(tview.Escape(present.Truncate(e.displayValue(field, active), editorValueWidth))).
			SetExpansion(1))
		e.table.SetCell(row, 3, tview.NewTableCell(tview.Escape(present.Truncate(help, editorHelpWidth))))
	}

	e.status.SetText(e.statusText())
}

func (e *RecordEditor) statusText() string {
	switch e.state {
	case EditorLoading:
		return "[yellow]Loading options...[-]"
	case EditorEditingText:
		return "[yellow]Opening editor... (save and quit to continue)[-]"
	case EditorSaving:
		return fmt.Sprintf("[blue]Saving %s %s...[-]", e.rec.noun(), tview.Escape(e.rec.label()))
	}
	if e.outcome == nil {
		return ""
	}
	color := "green"
	if e.outcome.Kind == OutcomeError {
		color = "red"
	}
	return fmt.Sprintf("[%s]%s[-]", color, tview.Escape(e.outcome.Text))
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
