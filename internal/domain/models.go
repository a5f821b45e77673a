package domain

import (
	"strings"
	"time"
)

type Dish struct {
	ID          int     `json:"dishId"`
	Name        string  `json:"dishName"`
	Description string  `json:"dishDescription"`
	Quantity    int     `json:"dishQuantity"`
	Price       float64 `json:"dishPrice"`
	Photo       string  `json:"dishPhoto,omitempty"`
	IsSalad     bool    `json:"isSalad"`
}

// Category reports the derived category of the dish. It is never stored:
// renaming a dish reclassifies it on the next read.
func (d Dish) Category() Category {
	return Classify(d.Name)
}

type MenuDish struct {
	DishID   int    `json:"dishId"`
	Name     string `json:"dishName"`
	Quantity int    `json:"dishQuantity"`
}

type Menu struct {
	ID             int        `json:"menuId"`
	Description    string     `json:"menuDescription"`
	IsMenuOfTheDay bool       `json:"isMenuOfTheDay"`
	Dishes         []MenuDish `json:"dishes"`
}

type OrderDish struct {
	Name     string `json:"dishName"`
	Quantity int    `json:"quantity"`
}

// Order keeps OrderDate as the raw upstream timestamp string; the upstream
// emits it without a timezone offset, so only the date portion is compared.
type Order struct {
	ID             int         `json:"orderId"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	ProfilePicture string      `json:"profilePicture,omitempty"`
	Remark         string      `json:"orderRemark,omitempty"`
	Dishes         []OrderDish `json:"dishes"`
	TotalAmount    float64     `json:"totalAmount"`
	Paid           bool        `json:"paid"`
	Served         bool        `json:"served"`
	OrderDate      string      `json:"orderDate"`
}

// OrderDay returns the date portion of the order timestamp.
func (o Order) OrderDay() string {
	day, _, _ := strings.Cut(o.OrderDate, "T")
	return day
}

// NewDish carries the fields of the "add dish" form. Price stays raw user
// input until validated; a decimal comma is accepted.
type NewDish struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Photo       []byte `json:"-"`
	PhotoName   string `json:"-"`
}

// DishPatch carries only the fields the user actually touched in the edit
// form. Nil pointers are omitted from the outgoing request.
type DishPatch struct {
	Name        *string
	Description *string
	Price       *string
	Photo       []byte
	PhotoName   string
}

func (p DishPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && len(p.Photo) == 0
}

type DishSelection struct {
	DishID   int `json:"dishId"`
	Quantity int `json:"dishQuantity"`
}

type NewMenu struct {
	Description string          `json:"menuDescription"`
	Dishes      []DishSelection `json:"dishes"`
}

type OrderStatusUpdate struct {
	OrderID int   `json:"orderId"`
	Paid    *bool `json:"paid,omitempty"`
	Served  *bool `json:"served,omitempty"`
}

// OrderQuery mirrors the upstream paged order listing. Nil Paid/Served mean
// the flag is not constrained and the parameter is omitted on the wire.
type OrderQuery struct {
	Page     int
	PageSize int
	Paid     *bool
	Served   *bool
}

// Matches reports whether two queries address the same page of the same
// status tab, comparing flag values rather than pointers.
func (q OrderQuery) Matches(other OrderQuery) bool {
	return q.Page == other.Page && q.PageSize == other.PageSize &&
		sameFlag(q.Paid, other.Paid) && sameFlag(q.Served, other.Served)
}

func sameFlag(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type UnpaidQuery struct {
	Page      int
	PageSize  int
	FirstName string
	LastName  string
}

// BatchResult reports the outcome of one item of a bulk operation.
type BatchResult struct {
	ID      int    `json:"dishId"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type AuditEntry struct {
	ID        int       `json:"id"`
	Entity    string    `json:"entity"`
	EntityID  int       `json:"entity_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type MutationEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity"`
	EntityID  int       `json:"entity_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}
