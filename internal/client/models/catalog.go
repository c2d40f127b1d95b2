package models

import "time"

// Entity is implemented by every record held in a catalog collection.
type Entity interface {
	GetID() string
}

type Product struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	DiscountPrice float64   `json:"discountPrice,omitempty"`
	Stock         int       `json:"stock,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Category      Ref       `json:"category"`
	SubCategory   Ref       `json:"subCategory"`
	Variants      []Variant `json:"variants,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

type Variant struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

func (p Product) GetID() string { return p.ID }

type Category struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

func (c Category) GetID() string { return c.ID }

type SubCategory struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category Ref    `json:"category"`
	Image    string `json:"image,omitempty"`
}

func (s SubCategory) GetID() string { return s.ID }

type HeroImage struct {
	ID    string `json:"_id"`
	Title string `json:"title,omitempty"`
	Image string `json:"image"`
	Link  string `json:"link,omitempty"`
}

func (h HeroImage) GetID() string { return h.ID }

type Testimonial struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Rating  int    `json:"rating,omitempty"`
	Image   string `json:"image,omitempty"`
}

func (t Testimonial) GetID() string { return t.ID }

type VideoProduct struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	VideoURL string `json:"videoUrl"`
	Product  Ref    `json:"product"`
}

func (v VideoProduct) GetID() string { return v.ID }

type Distributor struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	City    string `json:"city,omitempty"`
	Message string `json:"message,omitempty"`
}

func (d Distributor) GetID() string { return d.ID }

type Subscriber struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (s Subscriber) GetID() string { return s.ID }

type Company struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

func (c Company) GetID() string { return c.ID }
