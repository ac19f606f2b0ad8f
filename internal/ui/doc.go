// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow over the closet inventory:
//  1. [GalleryView] : Browse photo groups, one entry per uploaded image
//  2. [DetailView] : Inspect the clothing items detected in one photo
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Refreshes run through the closet engine off the update loop; the resulting
// snapshot and grouping arrive as a single message, so a failed fetch leaves
// the previous gallery on screen with the page's failure message above it.
//
// Selection state survives refreshes by key only. When a refresh drops the
// selected photo, the detail view falls back to the gallery instead of
// rendering stale data.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
