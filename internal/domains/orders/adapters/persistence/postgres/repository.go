package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Seq records insertion order so the newest order lists first.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order store. Caller manages DB lifecycle and schema.
// The DB must be opened with TranslateError so duplicate ids surface as ErrConflict.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate applies the orders schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderRecord{}, &orderItemRecord{}, &idempotencyRecord{})
}

type orderRecord struct {
	ID             string            `gorm:"primaryKey;column:id;size:64"`
	Seq            int64             `gorm:"column:seq;autoIncrement;uniqueIndex"`
	FirstName      string            `gorm:"column:first_name"`
	LastName       string            `gorm:"column:last_name"`
	Email          string            `gorm:"column:email;index"`
	Phone          string            `gorm:"column:phone"`
	Street         string            `gorm:"column:street"`
	City           string            `gorm:"column:city"`
	State          string            `gorm:"column:state"`
	ZipCode        string            `gorm:"column:zip_code"`
	Country        string            `gorm:"column:country"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2)"`
	Shipping       decimal.Decimal   `gorm:"column:shipping;type:numeric(12,2)"`
	TotalAmount    decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2)"`
	Status         string            `gorm:"column:status;type:varchar(16);index"`
	OrderDate      time.Time         `gorm:"column:order_date;index"`
	ShippingDate   *time.Time        `gorm:"column:shipping_date"`
	DeliveryDate   *time.Time        `gorm:"column:delivery_date"`
	TrackingNumber string            `gorm:"column:tracking_number"`
	Notes          string            `gorm:"column:notes"`
	Items          []orderItemRecord `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord keeps the product as it was at placement, so catalog edits never reach placed orders.
type orderItemRecord struct {
	ID        uint   `gorm:"primaryKey;column:id"`
	OrderID   string `gorm:"column:order_id;size:64;index"`
	Position  int    `gorm:"column:position"`
	ProductID string `gorm:"column:product_id;size:64"`
	Quantity  int    `gorm:"column:quantity"`
	Product   string `gorm:"column:product;type:jsonb"`
}

func (orderItemRecord) TableName() string { return "order_items" }

type productSnapshot struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price"`
	Description          string          `json:"description,omitempty"`
	LongDescription      string          `json:"longDescription,omitempty"`
	Image                string          `json:"image,omitempty"`
	Images               []string        `json:"images,omitempty"`
	BestSeller           bool            `json:"bestSeller"`
	InStock              bool            `json:"inStock"`
	Rating               float64         `json:"rating"`
	ReviewCount          int             `json:"reviewCount"`
	Certifications       []string        `json:"certifications,omitempty"`
	Ingredients          []string        `json:"ingredients,omitempty"`
	Benefits             []string        `json:"benefits,omitempty"`
	ServingSize          string          `json:"servingSize,omitempty"`
	ServingsPerContainer int             `json:"servingsPerContainer,omitempty"`
	Tags                 []string        `json:"tags,omitempty"`
}

// Add inserts the order and its lines in one transaction.
func (r *Repository) Add(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("cannot add nil order")
	}
	record, err := toRecord(order)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrConflict
		}
		return nil, err
	}
	return record.toDomain()
}

// GetByID loads an order with its lines.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record, err := r.load(r.db.WithContext(ctx), id, false)
	if err != nil {
		return nil, err
	}
	return record.toDomain()
}

// Update locks the order row, applies mutate and writes the mutable columns back.
func (r *Repository) Update(ctx context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var updated *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := r.load(tx, id, true)
		if err != nil {
			return err
		}
		order, err := record.toDomain()
		if err != nil {
			return err
		}
		if err := mutate(order); err != nil {
			return err
		}
		changes := map[string]any{
			"status":          string(order.Status),
			"shipping_date":   order.ShippingDate,
			"delivery_date":   order.DeliveryDate,
			"tracking_number": order.TrackingNumber,
			"notes":           order.Notes,
			"updated_at":      time.Now().UTC(),
		}
		if err := tx.Model(&orderRecord{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// List returns every order, newest insertion first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("seq DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		o, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Seed inserts orders that are not stored yet. Input is most-recent-first, so it is written oldest first.
func (r *Repository) Seed(ctx context.Context, orders []*domain.Order) (int, error) {
	inserted := 0
	for i := len(orders) - 1; i >= 0; i-- {
		_, err := r.Add(ctx, orders[i])
		if errors.Is(err, ports.ErrConflict) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("seed order %s: %w", orders[i].ID, err)
		}
		inserted++
	}
	return inserted, nil
}

func (r *Repository) load(db *gorm.DB, id string, lock bool) (*orderRecord, error) {
	query := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var record orderRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(o *domain.Order) (orderRecord, error) {
	items := make([]orderItemRecord, 0, len(o.Items))
	for i, item := range o.Items {
		raw, err := json.Marshal(snapshotOf(item.Product))
		if err != nil {
			return orderRecord{}, fmt.Errorf("encode product snapshot: %w", err)
		}
		items = append(items, orderItemRecord{
			OrderID:   o.ID,
			Position:  i,
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Product:   string(raw),
		})
	}
	c := o.Customer
	return orderRecord{
		ID:             o.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Street:         c.Address.Street,
		City:           c.Address.City,
		State:          c.Address.State,
		ZipCode:        c.Address.ZipCode,
		Country:        c.Address.Country,
		Subtotal:       o.Subtotal,
		Shipping:       o.Shipping,
		TotalAmount:    o.TotalAmount,
		Status:         string(o.Status),
		OrderDate:      o.OrderDate.UTC(),
		ShippingDate:   o.ShippingDate,
		DeliveryDate:   o.DeliveryDate,
		TrackingNumber: o.TrackingNumber,
		Notes:          o.Notes,
		Items:          items,
	}, nil
}

func (r orderRecord) toDomain() (*domain.Order, error) {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		var snap productSnapshot
		if err := json.Unmarshal([]byte(item.Product), &snap); err != nil {
			return nil, fmt.Errorf("decode product snapshot for order %s: %w", r.ID, err)
		}
		items = append(items, domain.LineItem{Product: snap.toDomain(), Quantity: item.Quantity})
	}
	return &domain.Order{
		ID: r.ID,
		Customer: domain.Customer{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
			Address: domain.Address{
				Street:  r.Street,
				City:    r.City,
				State:   r.State,
				ZipCode: r.ZipCode,
				Country: r.Country,
			},
		},
		Items:          items,
		Subtotal:       r.Subtotal,
		Shipping:       r.Shipping,
		TotalAmount:    r.TotalAmount,
		Status:         domain.Status(r.Status),
		OrderDate:      r.OrderDate.UTC(),
		ShippingDate:   utc(r.ShippingDate),
		DeliveryDate:   utc(r.DeliveryDate),
		TrackingNumber: r.TrackingNumber,
		Notes:          r.Notes,
	}, nil
}

func snapshotOf(p catalogdomain.Product) productSnapshot {
	return productSnapshot{
		ID:                   p.ID,
		Name:                 p.Name,
		Category:             string(p.Category),
		Price:                p.Price,
		Description:          p.Description,
		LongDescription:      p.LongDescription,
		Image:                p.Image,
		Images:               p.Images,
		BestSeller:           p.BestSeller,
		InStock:              p.InStock,
		Rating:               p.Rating,
		ReviewCount:          p.ReviewCount,
		Certifications:       p.Certifications,
		Ingredients:          p.Ingredients,
		Benefits:             p.Benefits,
		ServingSize:          p.ServingSize,
		ServingsPerContainer: p.ServingsPerContainer,
		Tags:                 p.Tags,
	}
}

func (s productSnapshot) toDomain() catalogdomain.Product {
	return catalogdomain.Product{
		ID:                   s.ID,
		Name:                 s.Name,
		Category:             catalogdomain.Category(s.Category),
		Price:                s.Price,
		Description:          s.Description,
		LongDescription:      s.LongDescription,
		Image:                s.Image,
		Images:               s.Images,
		BestSeller:           s.BestSeller,
		InStock:              s.InStock,
		Rating:               s.Rating,
		ReviewCount:          s.ReviewCount,
		Certifications:       s.Certifications,
		Ingredients:          s.Ingredients,
		Benefits:             s.Benefits,
		ServingSize:          s.ServingSize,
		ServingsPerContainer: s.ServingsPerContainer,
		Tags:                 s.Tags,
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
