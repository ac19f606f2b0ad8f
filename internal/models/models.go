// package models defines the data model for the closet client
package models

// ClothingItem represents one detected garment extracted from an uploaded photo.
//
// The classification fields are free text controlled by the backend's
// detection pipeline; the client does not validate their vocabulary.
type ClothingItem struct {
	ID             string `json:"clothing_id"`
	Type           string `json:"clothing_type"`
	Color          string `json:"color"`
	Material       string `json:"material"`
	Style          string `json:"style"`
	ExtraInfo      string `json:"extra_info"`
	SourceImageKey string `json:"new_image_s3_key"`
	ImageURL       string `json:"image_url"`
}

// HasExtraInfo reports whether the optional annotation should be displayed.
// An absent field and an empty string are both suppressed.
func (c ClothingItem) HasExtraInfo() bool {
	return c.ExtraInfo != ""
}

// Closet is the result of one inventory fetch: an ordered sequence of
// items as the backend returned them. The client never re-sorts it, and a
// new fetch replaces the snapshot wholesale.
type Closet struct {
	Items []ClothingItem `json:"items"`
}

// Empty reports whether the closet holds no items.
func (c *Closet) Empty() bool {
	return c == nil || len(c.Items) == 0
}

// User is a read-only identity snapshot from the identity provider.
type User struct {
	Subject string `json:"sub"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}
