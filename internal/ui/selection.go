package ui

import "github.com/desertthunder/closet/internal/models"

// Selection tracks which photo group the detail view is showing.
//
// It holds only the group key, never the group data, so a stale
// selection can be checked against each fresh snapshot.
type Selection struct {
	key    string
	active bool
}

// Select points the selection at the given group key.
func (s *Selection) Select(key string) {
	s.key = key
	s.active = true
}

// Dismiss clears the selection. Idempotent.
func (s *Selection) Dismiss() {
	s.key = ""
	s.active = false
}

// Reconcile checks the selection against a fresh grouping and dismisses
// it when the selected group no longer exists.
func (s *Selection) Reconcile(grouping *models.Grouping) {
	if !s.active {
		return
	}
	if grouping == nil || !grouping.Contains(s.key) {
		s.Dismiss()
	}
}

// Active reports whether a group is selected.
func (s Selection) Active() bool { return s.active }

// Key returns the selected group key, or "" when nothing is selected.
func (s Selection) Key() string { return s.key }
