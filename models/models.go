// Package models defines the persistent entities shared by all feature
// packages, in the shape the ORM maps to the database.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles an identity can hold.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Authentication providers. CREDENTIAL means email+password; the others are
// external OAuth providers whose accounts carry an empty password digest.
const (
	ProviderCredential = "CREDENTIAL"
	ProviderGoogle     = "GOOGLE"
	ProviderGitHub     = "GITHUB"
)

// User is an identity. Password holds the bcrypt digest and is empty for
// OAuth-only accounts, which must never authenticate via password compare.
type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null;default:''" json:"-"`
	Role           string    `gorm:"not null;default:'USER'" json:"role"`
	Provider       string    `gorm:"not null;default:'CREDENTIAL'" json:"provider"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BeforeCreate mints a UUID primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SafeUser is the public view of an identity; it never carries the password
// digest.
type SafeUser struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Provider       string    `json:"provider"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Safe returns the public view of the user.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Provider:       u.Provider,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// Blog is a post. Rows are soft-deleted; DeletedAt is stamped instead of
// removing the row.
type Blog struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Tags        StringList     `gorm:"type:text" json:"tags"`
	Thumbnail   string         `json:"thumbnail"`
	Content     string         `gorm:"type:text" json:"content"`
	Published   bool           `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time     `json:"publishedAt"`
	Featured    bool           `gorm:"not null;default:false;index" json:"featured"`
	Priority    int            `gorm:"not null;default:0" json:"priority"`
	Views       int64          `gorm:"not null;default:0" json:"views"`
	AuthorID    string         `gorm:"size:36;not null;index" json:"authorId"`
	CreatedByID string         `gorm:"size:36" json:"createdById"`
	UpdatedByID string         `gorm:"size:36" json:"updatedById"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// BeforeCreate mints a UUID primary key when none is set.
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BlogView is a per-day view counter row for one blog, upserted with an
// increment so concurrent readers never observe a partial pair with the
// blog's own view total.
type BlogView struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	BlogID string    `gorm:"size:36;not null;uniqueIndex:idx_blog_views_blog_date" json:"blogId"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_blog_views_blog_date" json:"date"`
	Count  int64     `gorm:"not null;default:0" json:"count"`
}

// Project is a portfolio project entry.
type Project struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	VideoURL    *string        `json:"videoUrl"`
	LiveURL     *string        `json:"liveUrl"`
	RepoURL     *string        `json:"repoUrl"`
	TechStack   StringList     `gorm:"type:text" json:"techStack"`
	Images      StringList     `gorm:"type:text" json:"images"`
	Published   bool           `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time     `json:"publishedAt"`
	Featured    bool           `gorm:"not null;default:false;index" json:"featured"`
	Priority    int            `gorm:"not null;default:0" json:"priority"`
	AuthorID    string         `gorm:"size:36;not null;index" json:"authorId"`
	CreatedByID string         `gorm:"size:36" json:"createdById"`
	UpdatedByID string         `gorm:"size:36" json:"updatedById"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// BeforeCreate mints a UUID primary key when none is set.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Resume is a resume document. Unpublished resumes are visible to admins and
// to the owning user.
type Resume struct {
	ID                string         `gorm:"primaryKey;size:36" json:"id"`
	Title             string         `gorm:"not null" json:"title"`
	Summary           *string        `gorm:"type:text" json:"summary"`
	ProfessionalPhoto *string        `json:"professionalPhoto"`
	Experiences       JSONDocument   `gorm:"type:text" json:"experiences"`
	Education         JSONDocument   `gorm:"type:text" json:"education"`
	Projects          JSONDocument   `gorm:"type:text" json:"projects"`
	Certifications    JSONDocument   `gorm:"type:text" json:"certifications"`
	ContactInfo       JSONDocument   `gorm:"type:text" json:"contactInfo"`
	Skills            StringList     `gorm:"type:text" json:"skills"`
	Published         bool           `gorm:"not null;default:false;index" json:"published"`
	PublishedAt       *time.Time     `json:"publishedAt"`
	Featured          bool           `gorm:"not null;default:false;index" json:"featured"`
	Priority          int            `gorm:"not null;default:0" json:"priority"`
	UserID            string         `gorm:"size:36;not null;index" json:"userId"`
	CreatedByID       string         `gorm:"size:36" json:"createdById"`
	UpdatedByID       string         `gorm:"size:36" json:"updatedById"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// BeforeCreate mints a UUID primary key when none is set.
func (r *Resume) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// All lists every entity for schema migration.
func All() []interface{} {
	return []interface{}{&User{}, &Blog{}, &BlogView{}, &Project{}, &Resume{}}
}
