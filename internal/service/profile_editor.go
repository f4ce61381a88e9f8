package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/medibridge/backend/pkg/model"
)

// EditorMode is the profile editor lifecycle state.
type EditorMode string

const (
	ModeViewing EditorMode = "viewing"
	ModeEditing EditorMode = "editing"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// ProfileEditor is the view/edit/save/cancel state machine over one profile.
// It keeps two copies: the last persisted state and the in-progress draft.
// Outside of editing mode every field is read-only, and validation only runs
// on save attempts.
type ProfileEditor struct {
	mode    EditorMode
	saved   model.Profile
	draft   model.Profile
	errs    map[string]string
	message string
}

// NewProfileEditor creates an editor in viewing mode over a saved profile.
func NewProfileEditor(saved model.Profile) *ProfileEditor {
	return &ProfileEditor{
		mode:  ModeViewing,
		saved: saved,
	}
}

// Mode returns the current lifecycle state.
func (e *ProfileEditor) Mode() EditorMode { return e.mode }

// Saved returns the last persisted profile copy.
func (e *ProfileEditor) Saved() model.Profile { return e.saved }

// Draft returns the in-progress copy. Only meaningful while editing.
func (e *ProfileEditor) Draft() model.Profile { return e.draft }

// Errors returns the field→message map of the last failed save.
func (e *ProfileEditor) Errors() map[string]string { return e.errs }

// Message returns the success message of the last save, if any.
func (e *ProfileEditor) Message() string { return e.message }

// Edit enters editing mode, copying saved into the draft and clearing any
// prior messages.
func (e *ProfileEditor) Edit() error {
	if e.mode == ModeEditing {
		return fmt.Errorf("profile is already being edited")
	}
	e.draft = e.saved
	e.errs = nil
	e.message = ""
	e.mode = ModeEditing
	return nil
}

// Change updates one draft field. Legal only while editing; the change is
// not validated until a save attempt.
func (e *ProfileEditor) Change(field, value string) error {
	if e.mode != ModeEditing {
		return fmt.Errorf("cannot change %q outside of editing mode", field)
	}

	var target *string
	switch field {
	case "name":
		target = &e.draft.Name
	case "mobile":
		target = &e.draft.Mobile
	case "age":
		target = &e.draft.Age
	case "gender":
		target = &e.draft.Gender
	case "location":
		target = &e.draft.Location
	case "experience":
		target = &e.draft.Experience
	default:
		return fmt.Errorf("unknown profile field %q", field)
	}

	if !fieldApplies(e.draft.Role, field) {
		return fmt.Errorf("field %q does not apply to role %q", field, e.draft.Role)
	}
	*target = value
	return nil
}

// Cancel discards the draft and returns to viewing mode.
func (e *ProfileEditor) Cancel() error {
	if e.mode != ModeEditing {
		return fmt.Errorf("nothing to cancel: not editing")
	}
	e.draft = model.Profile{}
	e.errs = nil
	e.message = ""
	e.mode = ModeViewing
	return nil
}

// Save validates the draft. On failure the editor stays in editing mode with
// a populated field→message map and the saved copy untouched. On success the
// draft is promoted to saved and the editor returns to viewing mode. The
// returned map is nil exactly when the save succeeded.
func (e *ProfileEditor) Save() map[string]string {
	if e.mode != ModeEditing {
		return map[string]string{"_state": "not in editing mode"}
	}

	if errs := ValidateProfile(e.draft); len(errs) > 0 {
		e.errs = errs
		e.message = ""
		return errs
	}

	e.saved = e.draft
	e.draft = model.Profile{}
	e.errs = nil
	e.message = "Profile updated successfully"
	e.mode = ModeViewing
	return nil
}

// fieldApplies reports whether a field exists on the given role's profile.
func fieldApplies(role model.Role, field string) bool {
	switch field {
	case "name", "mobile":
		return true
	case "age", "location":
		return role == model.RolePatient
	case "gender":
		return role == model.RolePatient || role == model.RoleDoctor
	case "experience":
		return role == model.RoleDoctor
	}
	return false
}

// ValidateProfile checks every rule that must hold for the role's profile
// and returns a field→message map, empty when the profile is valid.
func ValidateProfile(p model.Profile) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "Name is required"
	}
	if !mobilePattern.MatchString(p.Mobile) {
		errs["mobile"] = "Mobile number must be exactly 10 digits"
	}

	switch p.Role {
	case model.RolePatient:
		if age, err := strconv.Atoi(strings.TrimSpace(p.Age)); err != nil || age < 0 {
			errs["age"] = "Age must be a valid non-negative number"
		}
		if p.Gender == "" {
			errs["gender"] = "Gender is required"
		}
		if strings.TrimSpace(p.Location) == "" {
			errs["location"] = "Location is required"
		}
	case model.RoleDoctor:
		if exp, err := strconv.Atoi(strings.TrimSpace(p.Experience)); err != nil || exp < 0 {
			errs["experience"] = "Experience must be a valid non-negative number"
		}
		if p.Gender == "" {
			errs["gender"] = "Gender is required"
		}
	case model.RolePharmacy, model.RoleHospital:
		// Only name and mobile apply
	}

	return errs
}
