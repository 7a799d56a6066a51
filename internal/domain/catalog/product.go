package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyProductTitle   = errors.New("product title cannot be empty")
	ErrProductTitleTooLong = errors.New("product title is too long (max 255 characters)")
	ErrNegativePrice       = errors.New("price cannot be negative")
	ErrNegativeStock       = errors.New("stock cannot be negative")
	ErrInvalidDiscount     = errors.New("discount percent must be between 1 and 100")
)

const MaxProductTitleLength = 255

// Discount is a time-limited percentage off a product's list price.
type Discount struct {
	percent   int
	validTill time.Time
}

func NewDiscount(percent int, validTill time.Time) (Discount, error) {
	if percent < 1 || percent > 100 {
		return Discount{}, ErrInvalidDiscount
	}
	return Discount{percent: percent, validTill: validTill}, nil
}

func (d Discount) Percent() int          { return d.percent }
func (d Discount) ValidTill() time.Time  { return d.validTill }
func (d Discount) ActiveAt(t time.Time) bool {
	return t.Before(d.validTill)
}

type Product struct {
	id           uuid.UUID
	title        string
	description  string
	images       []string
	brand        string
	categoryID   uuid.UUID
	priceCents   int64
	discount     *Discount
	sizes        []string
	stock        int
	tags         []string
	rating       float64
	reviewsCount int
	createdAt    time.Time
	updatedAt    time.Time
}

func NewProduct(
	id uuid.UUID,
	title, description string,
	images []string,
	brand string,
	categoryID uuid.UUID,
	priceCents int64,
	discount *Discount,
	sizes []string,
	stock int,
	tags []string,
) (*Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyProductTitle
	}
	if len(title) > MaxProductTitleLength {
		return nil, ErrProductTitleTooLong
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Product{
		id:          id,
		title:       title,
		description: strings.TrimSpace(description),
		images:      images,
		brand:       strings.TrimSpace(brand),
		categoryID:  categoryID,
		priceCents:  priceCents,
		discount:    discount,
		sizes:       sizes,
		stock:       stock,
		tags:        tags,
	}, nil
}

// ReconstructProduct rebuilds a persisted product, including the
// denormalized rating fields the constructor never sets.
func ReconstructProduct(
	id uuid.UUID,
	title, description string,
	images []string,
	brand string,
	categoryID uuid.UUID,
	priceCents int64,
	discount *Discount,
	sizes []string,
	stock int,
	tags []string,
	rating float64,
	reviewsCount int,
	createdAt, updatedAt time.Time,
) *Product {
	return &Product{
		id:           id,
		title:        title,
		description:  description,
		images:       images,
		brand:        brand,
		categoryID:   categoryID,
		priceCents:   priceCents,
		discount:     discount,
		sizes:        sizes,
		stock:        stock,
		tags:         tags,
		rating:       rating,
		reviewsCount: reviewsCount,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// EffectivePriceCents is the unit price a buyer pays at time t: the list
// price reduced by the discount percent while the discount window is open.
// Rounds half-up in cents.
func (p *Product) EffectivePriceCents(t time.Time) int64 {
	if p.discount == nil || !p.discount.ActiveAt(t) {
		return p.priceCents
	}
	off := (p.priceCents*int64(p.discount.percent) + 50) / 100
	return p.priceCents - off
}

func (p *Product) InStock() bool { return p.stock > 0 }

func (p *Product) HasSize(size string) bool {
	if len(p.sizes) == 0 {
		return size == ""
	}
	for _, s := range p.sizes {
		if s == size {
			return true
		}
	}
	return false
}

func (p *Product) ID() uuid.UUID         { return p.id }
func (p *Product) Title() string         { return p.title }
func (p *Product) Description() string   { return p.description }
func (p *Product) Images() []string      { return p.images }
func (p *Product) Brand() string         { return p.brand }
func (p *Product) CategoryID() uuid.UUID { return p.categoryID }
func (p *Product) PriceCents() int64     { return p.priceCents }
func (p *Product) Discount() *Discount   { return p.discount }
func (p *Product) Sizes() []string       { return p.sizes }
func (p *Product) Stock() int            { return p.stock }
func (p *Product) Tags() []string        { return p.tags }
func (p *Product) Rating() float64       { return p.rating }
func (p *Product) ReviewsCount() int     { return p.reviewsCount }
func (p *Product) CreatedAt() time.Time  { return p.createdAt }
func (p *Product) UpdatedAt() time.Time  { return p.updatedAt }
