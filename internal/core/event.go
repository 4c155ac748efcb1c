package core

import "strings"

// Color is the display tag attached to a calendar event.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorPurple Color = "purple"
)

// Colors lists every supported color in picker order.
var Colors = []Color{ColorBlue, ColorGreen, ColorRed, ColorOrange, ColorPurple}

// ParseColor maps a free-form value to a Color. Unknown or empty values are blue.
func ParseColor(s string) Color {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Colors {
		if c == known {
			return c
		}
	}
	return ColorBlue
}

// Kind is the type of reminder an event represents.
type Kind string

const (
	KindDeadline  Kind = "DEADLINE"
	KindInterview Kind = "INTERVIEW"
	KindFollowUp  Kind = "FOLLOWUP"
)

// Kinds lists every reminder kind.
var Kinds = []Kind{KindDeadline, KindInterview, KindFollowUp}

// ParseKind maps a free-form value to a Kind. Unknown values are deadlines.
func ParseKind(s string) Kind {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case KindInterview, KindFollowUp:
		return k
	case "FOLLOW-UP", "FOLLOW_UP":
		return KindFollowUp
	default:
		return KindDeadline
	}
}

// Label returns a human-readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindInterview:
		return "Interview"
	case KindFollowUp:
		return "Follow-up"
	default:
		return "Deadline"
	}
}

// CalendarEvent is a dated item shown on the calendar.
// Stored reminders and deadlines synthesized from applications both use it.
type CalendarEvent struct {
	// Reminder ID. Empty for auto-generated events.
	ID    string
	Title string
	// Optional secondary text, usually the start time ("14:00")
	Subtitle string
	// Local wall-clock date in YYYY-MM-DD form. Empty means undated.
	Date  string
	Color Color
	Kind  Kind
	// True for deadline markers derived from an application record
	IsAutoGenerated bool

	ApplicationID string
	Notes         string
	EndDate       string
	StartTime     string
	EndTime       string
	Location      string
	MeetingLink   string
}

// Text returns the single-line label used in grids ("Title Subtitle").
func (e CalendarEvent) Text() string {
	if e.Subtitle != "" {
		return e.Title + " " + e.Subtitle
	}
	return e.Title
}

// Editable reports whether the event opens the reminder editor.
func (e CalendarEvent) Editable() bool {
	return !e.IsAutoGenerated && e.ID != ""
}

// DisplayColor returns the event color, defaulting to blue.
func (e CalendarEvent) DisplayColor() Color {
	if e.Color == "" {
		return ColorBlue
	}
	return e.Color
}
