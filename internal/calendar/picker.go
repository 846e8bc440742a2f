package calendar

import "time"

// Picker tracks the currently selected date of a View and reports accepted
// selections through a callback, once per selection. Selecting a date the
// view does not allow is silently ignored: no error, no callback, and the
// previous selection stays in place.
type Picker struct {
	view     *View
	selected time.Time
	onSelect func(time.Time)
}

// NewPicker wraps view with selection tracking. onSelect may be nil.
func NewPicker(view *View, onSelect func(time.Time)) *Picker {
	return &Picker{view: view, onSelect: onSelect}
}

// Select attempts to select date. It returns true when the selection was
// accepted; out-of-range dates leave the current selection unchanged and
// return false.
func (p *Picker) Select(date time.Time) bool {
	if !p.view.selectable(date) {
		return false
	}
	p.selected = date
	p.view.setSelected(date)
	if p.onSelect != nil {
		p.onSelect(date)
	}
	return true
}

// Selected returns the currently selected date, zero when nothing has been
// selected yet.
func (p *Picker) Selected() time.Time {
	return p.selected
}
