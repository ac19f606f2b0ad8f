package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/closet/internal/models"
)

var _ list.Item = groupItem{}

// groupItem wraps [models.Group] to implement [list.Item].
type groupItem struct {
	group *models.Group
}

func (i groupItem) FilterValue() string { return i.group.Key }
func (i groupItem) Title() string       { return i.group.Key }
func (i groupItem) Description() string {
	if len(i.group.Items) == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", len(i.group.Items))
}
