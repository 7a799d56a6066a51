package catalog

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyCategoryName   = errors.New("category name cannot be empty")
	ErrCategoryNameTooLong = errors.New("category name is too long (max 100 characters)")
)

const MaxCategoryNameLength = 100

var slugStripRegex = regexp.MustCompile(`[^a-z0-9]+`)

type Category struct {
	id        uuid.UUID
	name      string
	slug      string
	image     *string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

// NewCategory derives the slug from the name when slug is empty.
func NewCategory(id uuid.UUID, name, slug string, image *string, isActive bool) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	if len(name) > MaxCategoryNameLength {
		return nil, ErrCategoryNameTooLong
	}

	if slug == "" {
		slug = Slugify(name)
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Category{
		id:       id,
		name:     name,
		slug:     slug,
		image:    image,
		isActive: isActive,
	}, nil
}

// Slugify lowercases the name and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStripRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func (c *Category) ID() uuid.UUID        { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) Slug() string         { return c.slug }
func (c *Category) Image() *string       { return c.image }
func (c *Category) IsActive() bool       { return c.isActive }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }
