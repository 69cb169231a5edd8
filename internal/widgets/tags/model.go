// Package tags implements the tags widget for LifeWiki. Tags are short
// user-created labels attached to wikis for categorization and filtering.
// The widget owns the tags table and the wiki_tags many-to-many join, and
// exposes a replacement-style assignment operation consumed by the wikis
// plugin when a wiki is created or edited.
package tags

// maxTagsPerWiki caps how many tags a single wiki can carry.
const maxTagsPerWiki = 20

// maxTagNameLength caps the length of a single tag name in bytes.
const maxTagNameLength = 50

// Tag is a label that can be attached to wikis. UserID records who first
// created the tag; resolution by name is global, so a tag created by one
// user is reused when another user types the same name.
type Tag struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// TagWithCount pairs a tag with the number of wikis currently carrying it.
// Used on the tag index so users can see which labels are actually in use.
type TagWithCount struct {
	Tag
	WikiCount int `json:"wikiCount"`
}
