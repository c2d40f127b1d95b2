package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/spicestore/internal/client/api"
	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/common"
	"github.com/dmitrijs2005/spicestore/internal/logging"
)

// Resource describes a catalog endpoint.
type Resource struct {
	Path     string
	Singular string
	Plural   string

	NoCreate bool
	NoUpdate bool
	NoDelete bool
}

var (
	ProductsResource      = Resource{Path: "/products", Singular: "product", Plural: "products"}
	CategoriesResource    = Resource{Path: "/categories", Singular: "category", Plural: "categories"}
	SubCategoriesResource = Resource{Path: "/subcategories", Singular: "subCategory", Plural: "subCategories"}
	HeroImagesResource    = Resource{Path: "/hero", Singular: "hero", Plural: "heroes"}
	TestimonialsResource  = Resource{Path: "/testimonials", Singular: "testimonial", Plural: "testimonials"}
	VideoProductsResource = Resource{Path: "/video-products", Singular: "videoProduct", Plural: "videoProducts"}
	DistributorsResource  = Resource{Path: "/distributors", Singular: "distributor", Plural: "distributors", NoUpdate: true}
	SubscribersResource   = Resource{Path: "/subscribers", Singular: "subscriber", Plural: "subscribers", NoUpdate: true}
	CompanyResource       = Resource{Path: "/company", Singular: "company", Plural: "company", NoCreate: true}
)

// Input is a create or update payload: either a JSON object (Fields) or a
// multipart form when a file is attached.
type Input struct {
	Fields any
	Form   *api.Form
}

func (in Input) request(method, path string) api.Request {
	if in.Form != nil {
		return api.Request{Method: method, Path: path, Form: in.Form}
	}
	return api.Request{Method: method, Path: path, Body: in.Fields}
}

// Collection is a server-backed list of records keyed by id. Items are held
// by pointer: an update swaps exactly one pointer and leaves every other
// element identical.
type Collection[T models.Entity] struct {
	t   Transport
	res Resource
	log logging.Logger

	mu      sync.Mutex
	items   []*T
	loading bool
	err     string
}

func NewCollection[T models.Entity](t Transport, res Resource, log logging.Logger) *Collection[T] {
	return &Collection[T]{t: t, res: res, log: log.With("resource", res.Path), items: []*T{}}
}

func (c *Collection[T]) Resource() Resource { return c.res }

func (c *Collection[T]) Fetch(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	list, err := c.list(ctx)
	if err != nil {
		return c.fail(err)
	}

	items := make([]*T, len(list))
	for i := range list {
		items[i] = &list[i]
	}

	c.mu.Lock()
	c.items = items
	c.err = ""
	c.mu.Unlock()
	return nil
}

// Create sends in and appends the record the server returns.
func (c *Collection[T]) Create(ctx context.Context, in Input) (*T, error) {
	if c.res.NoCreate {
		return nil, c.fail(c.unsupported("create"))
	}

	c.setLoading(true)
	defer c.setLoading(false)

	item, err := c.send(ctx, in.request(http.MethodPost, c.res.Path))
	if err == nil && (*item).GetID() == "" {
		err = errNoEntity
	}
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	c.items = append(c.items, item)
	c.err = ""
	c.mu.Unlock()
	return item, nil
}

// Update sends in for id and swaps in the confirmed record. When the server
// confirms without echoing the record, JSON fields are merged onto a copy of
// the current one; a multipart update is read back from the listing, since
// only the server knows where the file went.
func (c *Collection[T]) Update(ctx context.Context, id string, in Input) (*T, error) {
	if c.res.NoUpdate {
		return nil, c.fail(c.unsupported("update"))
	}
	if id == "" {
		return nil, c.fail(fmt.Errorf("%w: id is required", common.ErrInvalidInput))
	}

	c.setLoading(true)
	defer c.setLoading(false)

	item, err := c.send(ctx, in.request(http.MethodPut, c.itemPath(id)))
	if errors.Is(err, errNoEntity) || (err == nil && (*item).GetID() == "") {
		if in.Form != nil {
			item, err = c.reload(ctx, id)
		} else {
			item, err = c.merged(id, in)
		}
	}
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	for i, cur := range c.items {
		if (*cur).GetID() == id {
			c.items[i] = item
			break
		}
	}
	c.err = ""
	c.mu.Unlock()
	return item, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if c.res.NoDelete {
		return c.fail(c.unsupported("delete"))
	}
	if id == "" {
		return c.fail(fmt.Errorf("%w: id is required", common.ErrInvalidInput))
	}

	c.setLoading(true)
	defer c.setLoading(false)

	if err := c.t.Do(ctx, api.Request{Method: http.MethodDelete, Path: c.itemPath(id)}, nil); err != nil {
		return c.fail(err)
	}

	c.mu.Lock()
	kept := make([]*T, 0, len(c.items))
	for _, cur := range c.items {
		if (*cur).GetID() != id {
			kept = append(kept, cur)
		}
	}
	c.items = kept
	c.err = ""
	c.mu.Unlock()
	return nil
}

// submit is Create for public forms, whose response may not echo the
// record. The record is appended only when it comes back with an id.
func (c *Collection[T]) submit(ctx context.Context, in Input) error {
	c.setLoading(true)
	defer c.setLoading(false)

	item, err := c.send(ctx, in.request(http.MethodPost, c.res.Path))
	if errors.Is(err, errNoEntity) {
		err = nil
	}
	if err != nil {
		return c.fail(err)
	}

	c.mu.Lock()
	if item != nil && (*item).GetID() != "" {
		c.items = append(c.items, item)
	}
	c.err = ""
	c.mu.Unlock()
	return nil
}

func (c *Collection[T]) send(ctx context.Context, req api.Request) (*T, error) {
	var raw json.RawMessage
	if err := c.t.Do(ctx, req, &raw); err != nil {
		return nil, err
	}
	if err := rejected(raw); err != nil {
		return nil, err
	}
	item := new(T)
	if err := decodeOne(raw, item, c.res.Singular, "data"); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Collection[T]) list(ctx context.Context) ([]T, error) {
	var raw json.RawMessage
	if err := c.t.Do(ctx, api.Request{Method: http.MethodGet, Path: c.res.Path}, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw, c.res.Plural, "data", c.res.Singular)
}

func (c *Collection[T]) reload(ctx context.Context, id string) (*T, error) {
	list, err := c.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].GetID() == id {
			return &list[i], nil
		}
	}
	return nil, errNoEntity
}

func (c *Collection[T]) merged(id string, in Input) (*T, error) {
	cur := c.Find(id)
	if cur == nil || in.Fields == nil {
		return nil, errNoEntity
	}
	patch, err := json.Marshal(in.Fields)
	if err != nil {
		return nil, err
	}
	next := *cur
	if err := json.Unmarshal(patch, &next); err != nil {
		return nil, fmt.Errorf("merge update: %w", err)
	}
	return &next, nil
}

func (c *Collection[T]) itemPath(id string) string {
	return c.res.Path + "/" + url.PathEscape(id)
}

func (c *Collection[T]) unsupported(op string) error {
	return fmt.Errorf("%s %s: %w", op, strings.TrimPrefix(c.res.Path, "/"), errors.ErrUnsupported)
}

func (c *Collection[T]) fail(err error) error {
	c.mu.Lock()
	c.err = common.UserMessage(err)
	c.mu.Unlock()
	return err
}

func (c *Collection[T]) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

// Items returns the current records. The slice is a copy; the records are
// shared and must not be modified.
func (c *Collection[T]) Items() []*T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*T(nil), c.items...)
}

// Find returns the record with id, or nil.
func (c *Collection[T]) Find(id string) *T {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if (*it).GetID() == id {
			return it
		}
	}
	return nil
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Collection[T]) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Catalog groups the storefront collections.
type Catalog struct {
	Products      *Collection[models.Product]
	Categories    *Collection[models.Category]
	SubCategories *Collection[models.SubCategory]
	HeroImages    *Collection[models.HeroImage]
	Testimonials  *Collection[models.Testimonial]
	VideoProducts *Collection[models.VideoProduct]
	Distributors  *Collection[models.Distributor]
	Subscribers   *Collection[models.Subscriber]
	Company       *Collection[models.Company]
}

func NewCatalog(t Transport, log logging.Logger) *Catalog {
	return &Catalog{
		Products:      NewCollection[models.Product](t, ProductsResource, log),
		Categories:    NewCollection[models.Category](t, CategoriesResource, log),
		SubCategories: NewCollection[models.SubCategory](t, SubCategoriesResource, log),
		HeroImages:    NewCollection[models.HeroImage](t, HeroImagesResource, log),
		Testimonials:  NewCollection[models.Testimonial](t, TestimonialsResource, log),
		VideoProducts: NewCollection[models.VideoProduct](t, VideoProductsResource, log),
		Distributors:  NewCollection[models.Distributor](t, DistributorsResource, log),
		Subscribers:   NewCollection[models.Subscriber](t, SubscribersResource, log),
		Company:       NewCollection[models.Company](t, CompanyResource, log),
	}
}

type DistributorApplication struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	City    string `json:"city,omitempty"`
	Message string `json:"message,omitempty"`
}

// SubmitDistributor sends the public distributor form and reports success;
// the failure reason is left on Distributors.Error().
func (c *Catalog) SubmitDistributor(ctx context.Context, app DistributorApplication) bool {
	if err := check(app); err != nil {
		c.Distributors.fail(err)
		return false
	}
	return c.Distributors.submit(ctx, Input{Fields: app}) == nil
}

// SubscribeEmail adds email to the newsletter list.
func (c *Catalog) SubscribeEmail(ctx context.Context, email string) error {
	in := emailInput{Email: strings.TrimSpace(email)}
	if err := check(in); err != nil {
		return c.Subscribers.fail(err)
	}
	return c.Subscribers.submit(ctx, Input{Fields: in})
}
