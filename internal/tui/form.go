package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theakshaypant/jtk/internal/core"
)

type formField int

const (
	fieldTitle formField = iota
	fieldKind
	fieldDate
	fieldEndDate
	fieldStartTime
	fieldEndTime
	fieldLocation
	fieldMeetingLink
	fieldColor
	fieldApplication
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:       "Title",
	fieldKind:        "Type",
	fieldDate:        "Date",
	fieldEndDate:     "End date",
	fieldStartTime:   "Start time",
	fieldEndTime:     "End time",
	fieldLocation:    "Location",
	fieldMeetingLink: "Meeting link",
	fieldColor:       "Color",
	fieldApplication: "Application",
	fieldNotes:       "Notes",
}

var fieldPlaceholders = [fieldCount]string{
	fieldTitle:       "Reminder title",
	fieldKind:        "deadline | interview | followup",
	fieldDate:        "YYYY-MM-DD",
	fieldEndDate:     "YYYY-MM-DD (defaults to date)",
	fieldStartTime:   "HH:MM",
	fieldEndTime:     "HH:MM",
	fieldLocation:    "optional",
	fieldMeetingLink: "https://...",
	fieldColor:       "blue | green | red | orange | purple",
	fieldApplication: "application ID (optional)",
	fieldNotes:       "optional",
}

// reminderForm edits one reminder. An empty id creates a new one.
type reminderForm struct {
	id     string
	inputs []textinput.Model
	focus  formField
	err    string
}

func newReminderForm(id string, in core.ReminderInput) reminderForm {
	values := [fieldCount]string{
		fieldTitle:       in.Title,
		fieldKind:        strings.ToLower(string(in.Kind)),
		fieldDate:        in.Date,
		fieldEndDate:     in.EndDate,
		fieldStartTime:   in.StartTime,
		fieldEndTime:     in.EndTime,
		fieldLocation:    in.Location,
		fieldMeetingLink: in.MeetingLink,
		fieldColor:       string(in.Color),
		fieldApplication: in.ApplicationID,
		fieldNotes:       in.Notes,
	}

	f := reminderForm{id: id, inputs: make([]textinput.Model, fieldCount)}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 256
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[fieldTitle].CharLimit = 120
	f.inputs[fieldTitle].Focus()
	return f
}

// Input collects the form values. It does not validate.
func (f reminderForm) Input() core.ReminderInput {
	val := func(field formField) string {
		return strings.TrimSpace(f.inputs[field].Value())
	}
	return core.ReminderInput{
		Kind:          core.ParseKind(val(fieldKind)),
		Title:         val(fieldTitle),
		ApplicationID: val(fieldApplication),
		Notes:         val(fieldNotes),
		Color:         core.ParseColor(val(fieldColor)),
		Date:          val(fieldDate),
		EndDate:       val(fieldEndDate),
		StartTime:     val(fieldStartTime),
		EndTime:       val(fieldEndTime),
		Location:      val(fieldLocation),
		MeetingLink:   val(fieldMeetingLink),
	}
}

func (f reminderForm) editing() bool {
	return f.id != ""
}

// visible reports whether a field applies to the kind currently typed.
func (f reminderForm) visible(field formField) bool {
	switch field {
	case fieldEndDate, fieldEndTime, fieldMeetingLink:
		return core.ParseKind(f.inputs[fieldKind].Value()) == core.KindInterview
	}
	return true
}

// move shifts focus by dir, skipping fields hidden for the current kind.
func (f *reminderForm) move(dir int) tea.Cmd {
	f.inputs[f.focus].Blur()
	next := f.focus
	for range fieldCount {
		next = (next + formField(dir) + fieldCount) % fieldCount
		if f.visible(next) {
			break
		}
	}
	f.focus = next
	return f.inputs[f.focus].Focus()
}

// focusField moves focus to the named field, used to point at a validation error.
func (f *reminderForm) focusField(name string) tea.Cmd {
	target := fieldTitle
	switch name {
	case "date":
		target = fieldDate
	case "end_date":
		target = fieldEndDate
	}
	f.inputs[f.focus].Blur()
	f.focus = target
	return f.inputs[f.focus].Focus()
}

func (f reminderForm) update(msg tea.Msg) (reminderForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f reminderForm) view(width int, saving bool) string {
	title := "New reminder"
	if f.editing() {
		title = "Edit reminder"
	}
	inputWidth := max(width-lipgloss.Width(LabelStyle.Render(""))-8, 10)

	lines := []string{TitleStyle.Render(title)}
	for i := range f.inputs {
		field := formField(i)
		if !f.visible(field) {
			continue
		}
		label := LabelStyle.Render(fieldLabels[field])
		if field == f.focus {
			label = FocusedLabelStyle.Render(fieldLabels[field])
		}
		in := f.inputs[i]
		in.Width = inputWidth
		lines = append(lines, label+" "+in.View())
	}

	lines = append(lines, "")
	if f.err != "" {
		lines = append(lines, FormErrorStyle.Render(f.err))
	}
	if saving {
		lines = append(lines, HintStyle.Render("Saving..."))
	} else {
		lines = append(lines, HintStyle.Render("tab/↓ next • shift+tab/↑ prev • enter save • esc cancel"))
	}
	return DetailPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}
