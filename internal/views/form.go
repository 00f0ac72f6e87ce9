package views

import (
	"time"

	"alumni-form/internal/formstate"
	"alumni-form/internal/models"
	"alumni-form/internal/utils"

	"github.com/a-h/templ"
)

// refreshSlack keeps the overlay poll from landing before the reset timer.
const refreshSlack = 250 * time.Millisecond

// FieldView is one input with its metadata and current state.
type FieldView struct {
	models.FieldDef
	formstate.FieldState
	ShowNationalID bool
}

// IsNationalID reports whether this is the maskable national ID input.
func (f FieldView) IsNationalID() bool {
	return f.FieldDef.ID == models.NationalID
}

// InputType is the HTML input type, honouring the national ID mask.
func (f FieldView) InputType() string {
	if f.IsNationalID() {
		if f.ShowNationalID {
			return "text"
		}
		return "password"
	}
	return f.Type
}

// Digits is the number of digits typed so far.
func (f FieldView) Digits() int {
	return len(utils.DigitsOnly(f.Value))
}

// SectionView is a titled group of fields.
type SectionView struct {
	models.Section
	Fields []FieldView
}

// ProgressView drives the progress bar and the export button. OOB marks the
// export button for an out-of-band swap.
type ProgressView struct {
	Completion int
	OOB        bool
}

// FormView is everything the form page and panel need.
type FormView struct {
	Sections       []SectionView
	Progress       ProgressView
	CSRFToken      string
	Submitting     bool
	ShowSuccess    bool
	Reference      string
	Failure        bool
	RefreshAfterMs int64
}

// NewFormView combines the static field set with a controller snapshot.
func NewFormView(set *models.FieldSet, snap formstate.Snapshot, csrfToken string) FormView {
	sections := make([]SectionView, 0, len(set.Sections))
	for _, s := range set.Sections {
		sv := SectionView{Section: s}
		for _, def := range set.InSection(s.ID) {
			sv.Fields = append(sv.Fields, NewFieldView(def, snap.Fields[def.ID], snap.ShowNationalID))
		}
		sections = append(sections, sv)
	}
	return FormView{
		Sections:       sections,
		Progress:       ProgressView{Completion: snap.Completion},
		CSRFToken:      csrfToken,
		Submitting:     snap.Submitting,
		ShowSuccess:    snap.ShowSuccess,
		Reference:      snap.Reference,
		Failure:        snap.Failure != "",
		RefreshAfterMs: (snap.ResetAfter + refreshSlack).Milliseconds(),
	}
}

func NewFieldView(def models.FieldDef, state formstate.FieldState, showNationalID bool) FieldView {
	return FieldView{FieldDef: def, FieldState: state, ShowNationalID: showNationalID}
}

// FormPage is the full form: progress, header, panel and footer.
func FormPage(v FormView) templ.Component {
	return render("form_page", v)
}

// FormPanel is the swappable <form> element.
func FormPanel(v FormView) templ.Component {
	return render("form_panel", v)
}

func Field(v FieldView) templ.Component {
	return render("field", v)
}

// Progress renders the progress bar followed by an out-of-band export button.
func Progress(completion int) templ.Component {
	return render("progress", ProgressView{Completion: completion, OOB: true})
}
