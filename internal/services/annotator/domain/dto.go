package domain

// TextInput is the body of analyze and moderate
type TextInput struct {
	Text string `json:"text" validate:"required,max=10000"`
}

// HashtagInput is the body of hashtag suggestion
type HashtagInput struct {
	Text      string   `json:"text" validate:"required,max=10000"`
	ImageTags []string `json:"image_tags,omitempty" validate:"max=50"`
}

// ImageInput is the body of image tagging
type ImageInput struct {
	URL string `json:"url" validate:"required,url"`
}

// ContentTagsInput is the body of combined tag generation
type ContentTagsInput struct {
	Text      string   `json:"text" validate:"required,max=10000"`
	MediaURLs []string `json:"media_urls,omitempty" validate:"max=20,dive,url"`
}

// TagsOutput wraps a tag list
type TagsOutput struct {
	Tags []string `json:"tags"`
}
