package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/roeyazroel/linear-cli/internal/linearapi"
	"github.com/roeyazroel/linear-cli/internal/logger"
	"github.com/roeyazroel/linear-cli/internal/present"
)

// Page names.
const (
	pageList    = "list"
	pageDetails = "details"
	pageEditor  = "editor"
)

// App is the interactive browser for a collection of issues or projects.
type App struct {
	app      *tview.Application
	gw       Gateway
	launcher TextEditor
	nav      *Navigator
	noun     string
	plural   string
	columns  []present.Column
	commands []Command

	// UI components
	pages           *tview.Pages
	listTable       *tview.Table
	detailsTable    *tview.Table
	descriptionView *tview.TextView
	detailsLayout   *tview.Flex
	statusBar       *tview.TextView
	editor          *RecordEditor

	// Overridable in tests
	queueUpdateDraw func(func())
	suspend         func(func()) bool
	stop            func()
	copyText        func(string) error
	openURL         func(string) error
	diag            io.Writer

	// UI update mutex (for test safety when queueUpdateDraw executes immediately)
	uiUpdateMu sync.Mutex
}

// NewIssuesApp returns an App listing issues.
func NewIssuesApp(gw Gateway, launcher TextEditor, issues []linearapi.Issue) *App {
	return newApp(gw, launcher, newNavigator(issueEntries(issues), sortIssueEntries), "issue", "issues", present.IssueColumns)
}

// NewIssueApp returns an App showing the details of a single issue.
func NewIssueApp(gw Gateway, launcher TextEditor, issue linearapi.Issue) *App {
	return newApp(gw, launcher, newSingleNavigator(issueRecord{issue: issue}), "issue", "issues", present.IssueColumns)
}

// NewProjectsApp returns an App listing projects.
func NewProjectsApp(gw Gateway, launcher TextEditor, projects []linearapi.Project) *App {
	return newApp(gw, launcher, newNavigator(projectEntries(projects), sortProjectEntries), "project", "projects", present.ProjectColumns)
}

// NewProjectApp returns an App showing the details of a single project.
func NewProjectApp(gw Gateway, launcher TextEditor, project linearapi.Project) *App {
	return newApp(gw, launcher, newSingleNavigator(projectRecord{project: project}), "project", "projects", present.ProjectColumns)
}

func newApp(gw Gateway, launcher TextEditor, nav *Navigator, noun, plural string, columns []present.Column) *App {
	a := &App{
		app:      tview.NewApplication(),
		gw:       gw,
		launcher: launcher,
		nav:      nav,
		noun:     noun,
		plural:   plural,
		columns:  columns,
		commands: DefaultCommands(),
		pages:    tview.NewPages(),
		copyText: copyToClipboard,
		openURL:  openURL,
		diag:     os.Stderr,
	}
	a.queueUpdateDraw = func(f func()) {
		a.app.QueueUpdateDraw(f)
	}
	a.suspend = a.app.Suspend
	a.stop = a.app.Stop

	a.buildLayout()
	a.bindGlobalKeys()
	a.render()
	return a
}

// Run starts the application and blocks until it exits.
func (a *App) Run() error {
	a.app.SetRoot(a.pages, true)
	return a.app.Run()
}

func (a *App) buildLayout() {
	a.listTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.listTable.SetBorder(true).SetTitle(fmt.Sprintf(" %s ", titleWord(a.plural)))

	a.detailsTable = tview.NewTable().SetBorders(true)
	a.descriptionView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true).
		SetScrollable(true)
	a.descriptionView.SetBorder(true).SetTitle(" Description ")

	a.detailsLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.detailsTable, 0, 1, false).
		AddItem(a.descriptionView, 0, 2, true)

	a.statusBar = tview.NewTextView().SetDynamicColors(true)

	listPage := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.listTable, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)
	detailsPage := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.detailsLayout, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage(pageList, listPage, true, true)
	a.pages.AddPage(pageDetails, detailsPage, true, false)
}

// bindGlobalKeys routes key events to the editor or the current view.
func (a *App) bindGlobalKeys() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			a.stop()
			return nil
		}
		return a.handleKey(event)
	})
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	// The editor owns all input while it is open
	if a.pages.HasPage(pageEditor) && a.editor != nil {
		return a.editor.HandleKey(event)
	}

	mode := a.nav.Mode()
	switch mode {
	case ModeList:
		return a.handleListKey(event)
	case ModeDetails:
		return a.handleDetailsKey(event)
	}
	return event
}

// handleListKey handles keyboard input in the list view.
func (a *App) handleListKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		a.nav.Move(-1)
		a.renderList()
		return nil
	case tcell.KeyDown:
		a.nav.Move(1)
		a.renderList()
		return nil
	case tcell.KeyEnter:
		a.runCommand(ModeList, "show_details")
		return nil
	case tcell.KeyRune:
		if a.runShortcut(ModeList, event.Rune()) {
			return nil
		}
	}
	return event
}

// handleDetailsKey handles keyboard input in the details view. Unhandled keys
// scroll the description.
func (a *App) handleDetailsKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		a.runCommand(ModeDetails, "back")
		return nil
	case tcell.KeyRune:
		if a.runShortcut(ModeDetails, event.Rune()) {
			return nil
		}
	}
	return event
}

func (a *App) showDetails() {
	if !a.nav.Show(ModeDetails) {
		a.updateStatusBarWithError(fmt.Errorf("no %s selected", a.noun))
		return
	}
	a.render()
}

// showEditor mounts a record editor for the selected record.
func (a *App) showEditor() {
	entry, ok := a.nav.Selected()
	if !ok || !a.nav.Show(ModeEdit) {
		a.updateStatusBarWithError(fmt.Errorf("no %s selected", a.noun))
		return
	}
	logger.Debug("tui.app: opening editor %s=%s", entry.noun(), entry.label())

	editor := newRecordEditor(a.gw, a.launcher, entry, a.closeEditor, a.onRecordSaved)
	editor.queueUpdate = a.QueueUpdateDraw
	editor.suspend = a.suspend
	editor.diag = a.diag
	a.editor = editor

	a.pages.AddAndSwitchToPage(pageEditor, editor.Primitive(), true)
	editor.Load(context.Background())
}

// closeEditor discards the editor and any unsaved edits.
func (a *App) closeEditor() {
	a.pages.RemovePage(pageEditor)
	a.editor = nil
	a.goBack()
}

// onRecordSaved replaces the navigator's copy with the saved record.
func (a *App) onRecordSaved(saved editable) {
	entry, ok := saved.(listEntry)
	if !ok {
		return
	}
	a.nav.Replace(entry)
	a.renderList()
	a.renderDetails()
}

func (a *App) goBack() {
	if a.nav.Back() {
		a.stop()
		return
	}
	a.render()
}

// render shows the page for the navigator's current mode.
func (a *App) render() {
	switch a.nav.Mode() {
	case ModeList:
		a.renderList()
		a.pages.SwitchToPage(pageList)
	case ModeDetails:
		a.renderDetails()
		a.pages.SwitchToPage(pageDetails)
	}
	a.updateStatusBar()
}

func (a *App) renderList() {
	a.listTable.Clear()
	for col, title := range present.Headers(a.columns) {
		a.listTable.SetCell(0, col, tview.NewTableCell(tview.Escape(title)).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}

	selected, _ := a.nav.Selected()
	selectedRow := 0
	for i, entry := range a.nav.Entries() {
		isSelected := selected != nil && entry.key() == selected.key()
		if isSelected {
			selectedRow = i + 1
		}
		for col, cell := range entry.row(isSelected) {
			c := tview.NewTableCell(tview.Escape(cell))
			if isSelected {
				c.SetAttributes(tcell.AttrBold)
			}
			a.listTable.SetCell(i+1, col, c)
		}
	}
	if selectedRow > 0 {
		a.listTable.Select(selectedRow, 0)
	}
}

func (a *App) renderDetails() {
	entry, ok := a.nav.Selected()
	if !ok {
		return
	}
	a.detailsLayout.SetBorder(true).SetTitle(fmt.Sprintf(" %s ", tview.Escape(entry.label())))

	a.detailsTable.Clear()
	a.detailsTable.SetCell(0, 0, tview.NewTableCell("Field").SetAttributes(tcell.AttrBold))
	a.detailsTable.SetCell(0, 1, tview.NewTableCell("Value").SetAttributes(tcell.AttrBold))
	rows := entry.detailRows()
	if link := entry.link(); link != "" {
		rows = append(rows, [2]string{"URL", link})
	}
	for i, row := range rows {
		a.detailsTable.SetCell(i+1, 0, tview.NewTableCell(tview.Escape(row[0])))
		a.detailsTable.SetCell(i+1, 1, tview.NewTableCell(tview.Escape(row[1])).SetExpansion(1))
	}

	_, _, width, _ := a.descriptionView.GetInnerRect()
	a.descriptionView.SetText(renderMarkdown(entry.markdown(), width))
	a.descriptionView.ScrollToBeginning()
}

// updateStatusBar shows the shortcuts of the current view and the record count.
func (a *App) updateStatusBar() {
	count := fmt.Sprintf("%d %s", a.nav.Len(), a.plural)
	if a.nav.Len() == 0 {
		count = fmt.Sprintf("No %s", a.plural)
	}
	a.statusBar.SetText(fmt.Sprintf("[gray]%s[-] | [aqua]%s[-]", a.helpText(a.nav.Mode()), count))
}

// updateStatusBarWithError updates the status bar with an error message.
func (a *App) updateStatusBarWithError(err error) {
	a.statusBar.SetText(fmt.Sprintf("[red]Error: %s[-]", tview.Escape(err.Error())))
}

// updateStatusBarWithMessage shows an informational message.
func (a *App) updateStatusBarWithMessage(msg string) {
	a.statusBar.SetText(fmt.Sprintf("[green]%s[-]", tview.Escape(msg)))
}

// QueueUpdateDraw queues a UI update function to be run in the main thread.
func (a *App) QueueUpdateDraw(f func()) {
	if a.queueUpdateDraw != nil {
		// Serialize UI updates when test overrides queueUpdateDraw to execute immediately
		a.uiUpdateMu.Lock()
		defer a.uiUpdateMu.Unlock()
		a.queueUpdateDraw(f)
		return
	}
	a.app.QueueUpdateDraw(f)
}
