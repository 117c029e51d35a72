package projects

// CreateProjectRequest is the payload for creating a project. A blank slug is
// derived from the title.
type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Slug        string   `json:"slug" validate:"omitempty,min=3,max=200"`
	Description string   `json:"description" validate:"required"`
	VideoURL    *string  `json:"videoUrl" validate:"omitempty,url"`
	LiveURL     *string  `json:"liveUrl" validate:"omitempty,url"`
	RepoURL     *string  `json:"repoUrl" validate:"omitempty,url"`
	TechStack   []string `json:"techStack"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
	Published   bool     `json:"published"`
	Featured    bool     `json:"featured"`
	Priority    int      `json:"priority"`
}

// UpdateProjectRequest is the partial-update payload; nil fields are left
// untouched.
type UpdateProjectRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=3,max=200"`
	Slug        *string   `json:"slug" validate:"omitempty,min=3,max=200"`
	Description *string   `json:"description"`
	VideoURL    *string   `json:"videoUrl" validate:"omitempty,url"`
	LiveURL     *string   `json:"liveUrl" validate:"omitempty,url"`
	RepoURL     *string   `json:"repoUrl" validate:"omitempty,url"`
	TechStack   *[]string `json:"techStack"`
	Images      *[]string `json:"images" validate:"omitempty,dive,url"`
	Published   *bool     `json:"published"`
	Featured    *bool     `json:"featured"`
	Priority    *int      `json:"priority"`
}
