package models

import "time"

// IsNewDay reports whether curr falls on a different calendar day than
// prev, in the viewer's local clock. A zero prev always starts a new day.
func IsNewDay(curr, prev time.Time) bool {
	if curr.IsZero() {
		return false
	}
	if prev.IsZero() {
		return true
	}
	cy, cm, cd := curr.Local().Date()
	py, pm, pd := prev.Local().Date()
	return cy != py || cm != pm || cd != pd
}

// DayLabel renders the separator shown above the first message of a day.
// Today and Yesterday are relative to the viewer's wall clock.
func DayLabel(ts, now time.Time) string {
	ts, now = ts.Local(), now.Local()
	if sameDay(ts, now) {
		return "Today"
	}
	if sameDay(ts, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	return ts.Format("02 Jan 2006")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
