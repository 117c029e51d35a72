package blogs

// CreateBlogRequest is the payload for creating a post. A blank slug is
// derived from the title.
type CreateBlogRequest struct {
	Title     string   `json:"title" validate:"required,min=3,max=200"`
	Slug      string   `json:"slug" validate:"omitempty,min=3,max=200"`
	Tags      []string `json:"tags"`
	Thumbnail string   `json:"thumbnail" validate:"omitempty,url"`
	Content   string   `json:"content" validate:"required"`
	Published bool     `json:"published"`
	Featured  bool     `json:"featured"`
	Priority  int      `json:"priority"`
}

// UpdateBlogRequest is the partial-update payload; nil fields are left
// untouched.
type UpdateBlogRequest struct {
	Title     *string   `json:"title" validate:"omitempty,min=3,max=200"`
	Slug      *string   `json:"slug" validate:"omitempty,min=3,max=200"`
	Tags      *[]string `json:"tags"`
	Thumbnail *string   `json:"thumbnail" validate:"omitempty,url"`
	Content   *string   `json:"content" validate:"omitempty"`
	Published *bool     `json:"published"`
	Featured  *bool     `json:"featured"`
	Priority  *int      `json:"priority"`
}
