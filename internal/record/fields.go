// Package record describes the editable fields of issues and projects and the
// pure transitions the record editor applies to them.
package record

import "strconv"

// Kind is how a field is edited.
type Kind int

const (
	// KindText is a single line edited in the external editor.
	KindText Kind = iota
	// KindMultilineText is markdown edited in the external editor.
	KindMultilineText
	// KindSelect cycles through named options.
	KindSelect
	// KindNumericSelect cycles through fixed integer levels.
	KindNumericSelect
	// KindDate is a calendar date edited in the external editor.
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMultilineText:
		return "textarea"
	case KindSelect:
		return "select"
	case KindNumericSelect:
		return "number"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// EditsExternally reports whether Enter hands the value to an external editor.
func (k Kind) EditsExternally() bool {
	return k == KindText || k == KindMultilineText || k == KindDate
}

// Category names a list of selectable options.
type Category string

const (
	CategoryUsers         Category = "users"
	CategoryTeams         Category = "teams"
	CategoryProjects      Category = "projects"
	CategoryStates        Category = "states"
	CategoryProjectStates Category = "projectStates"
	CategoryPriorities    Category = "priorities"
)

// Field keys.
const (
	KeyTitle       = "title"
	KeyName        = "name"
	KeyDescription = "description"
	KeyStatus      = "status"
	KeyState       = "state"
	KeyPriority    = "priority"
	KeyAssignee    = "assignee"
	KeyLead        = "lead"
	KeyTeam        = "team"
	KeyProject     = "project"
	KeyStartDate   = "startDate"
	KeyTargetDate  = "targetDate"
)

// Field is one editable row of a record form.
type Field struct {
	Key      string
	Label    string
	Kind     Kind
	Category Category
	// Help is the key hint shown next to the value.
	Help string
	// Searchable fields accept type-to-filter input while selected.
	Searchable bool
}

// Markdown reports whether the external editor should open the value as markdown.
func (f Field) Markdown() bool {
	return f.Kind == KindMultilineText
}

const (
	helpEdit  = "Enter to edit"
	helpCycle = "← → to change"
	helpDate  = "Enter to edit (YYYY-MM-DD)"
)

// IssueFields is the fixed issue form, in display order.
var IssueFields = []Field{
	{Key: KeyTitle, Label: "Title", Kind: KindText, Help: helpEdit},
	{Key: KeyDescription, Label: "Description", Kind: KindMultilineText, Help: helpEdit},
	{Key: KeyStatus, Label: "Status", Kind: KindSelect, Category: CategoryStates, Help: helpCycle},
	{Key: KeyPriority, Label: "Priority", Kind: KindNumericSelect, Category: CategoryPriorities, Help: helpCycle},
	{Key: KeyAssignee, Label: "Assignee", Kind: KindSelect, Category: CategoryUsers, Help: "Type to search, ← → to change", Searchable: true},
	{Key: KeyTeam, Label: "Team", Kind: KindSelect, Category: CategoryTeams, Help: helpCycle},
	{Key: KeyProject, Label: "Project", Kind: KindSelect, Category: CategoryProjects, Help: helpCycle},
}

// ProjectFields is the fixed project form, in display order.
var ProjectFields = []Field{
	{Key: KeyName, Label: "Name", Kind: KindText, Help: helpEdit},
	{Key: KeyDescription, Label: "Description", Kind: KindMultilineText, Help: helpEdit},
	{Key: KeyState, Label: "State", Kind: KindSelect, Category: CategoryProjectStates, Help: helpCycle},
	{Key: KeyLead, Label: "Lead", Kind: KindSelect, Category: CategoryUsers, Help: helpCycle},
	{Key: KeyTeam, Label: "Team", Kind: KindSelect, Category: CategoryTeams, Help: helpCycle},
	{Key: KeyStartDate, Label: "Start Date", Kind: KindDate, Help: helpDate},
	{Key: KeyTargetDate, Label: "Target Date", Kind: KindDate, Help: helpDate},
}

// ProjectStates are the lifecycle states a project can be moved to.
var ProjectStates = []string{"planned", "in_progress", "paused", "completed", "canceled"}

// PriorityLevels are Linear's priority values: 0 none, 1 urgent .. 4 low.
var PriorityLevels = []int{0, 1, 2, 3, 4}

// Option is a selectable choice.
type Option struct {
	ID   string
	Name string
}

// Values holds the in-progress form values keyed by field key.
// Select fields hold the option name; priority holds its decimal level.
type Values map[string]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Priority returns the priority level, or 0 when unset or malformed.
func (v Values) Priority() int {
	n, err := strconv.Atoi(v[KeyPriority])
	if err != nil {
		return 0
	}
	return n
}
