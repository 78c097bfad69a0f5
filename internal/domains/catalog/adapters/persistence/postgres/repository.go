package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads the catalog from PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate applies the catalog schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&productRecord{})
}

// productRecord maps a product to the products table. Position preserves load order.
type productRecord struct {
	ID                   string          `gorm:"primaryKey;column:id;size:64"`
	Position             int             `gorm:"column:position;index"`
	Name                 string          `gorm:"column:name"`
	Category             string          `gorm:"column:category;type:varchar(32);index"`
	Price                decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Description          string          `gorm:"column:description"`
	LongDescription      string          `gorm:"column:long_description"`
	Image                string          `gorm:"column:image"`
	Images               pq.StringArray  `gorm:"column:images;type:text[]"`
	BestSeller           bool            `gorm:"column:best_seller;index"`
	InStock              bool            `gorm:"column:in_stock"`
	Rating               float64         `gorm:"column:rating"`
	ReviewCount          int             `gorm:"column:review_count"`
	Certifications       pq.StringArray  `gorm:"column:certifications;type:text[]"`
	Ingredients          pq.StringArray  `gorm:"column:ingredients;type:text[]"`
	Benefits             pq.StringArray  `gorm:"column:benefits;type:text[]"`
	ServingSize          string          `gorm:"column:serving_size"`
	ServingsPerContainer int             `gorm:"column:servings_per_container"`
	Tags                 pq.StringArray  `gorm:"column:tags;type:text[]"`
	CreatedAt            time.Time       `gorm:"column:created_at"`
	UpdatedAt            time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns the catalog in load order.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// Seed upserts the given products, keeping their slice order as catalog order.
func (r *Repository) Seed(ctx context.Context, products []*domain.Product) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	records := make([]productRecord, 0, len(products))
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return 0, err
		}
		records = append(records, toRecord(p, i))
	}
	if len(records) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(&records).Error
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

var upsertColumns = []string{
	"position", "name", "category", "price", "description", "long_description", "image", "images",
	"best_seller", "in_stock", "rating", "review_count", "certifications", "ingredients", "benefits",
	"serving_size", "servings_per_container", "tags", "updated_at",
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(p *domain.Product, position int) productRecord {
	return productRecord{
		ID:                   p.ID,
		Position:             position,
		Name:                 p.Name,
		Category:             string(p.Category),
		Price:                p.Price,
		Description:          p.Description,
		LongDescription:      p.LongDescription,
		Image:                p.Image,
		Images:               pq.StringArray(p.Images),
		BestSeller:           p.BestSeller,
		InStock:              p.InStock,
		Rating:               p.Rating,
		ReviewCount:          p.ReviewCount,
		Certifications:       pq.StringArray(p.Certifications),
		Ingredients:          pq.StringArray(p.Ingredients),
		Benefits:             pq.StringArray(p.Benefits),
		ServingSize:          p.ServingSize,
		ServingsPerContainer: p.ServingsPerContainer,
		Tags:                 pq.StringArray(p.Tags),
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:                   r.ID,
		Name:                 r.Name,
		Category:             domain.Category(r.Category),
		Price:                r.Price,
		Description:          r.Description,
		LongDescription:      r.LongDescription,
		Image:                r.Image,
		Images:               []string(r.Images),
		BestSeller:           r.BestSeller,
		InStock:              r.InStock,
		Rating:               r.Rating,
		ReviewCount:          r.ReviewCount,
		Certifications:       []string(r.Certifications),
		Ingredients:          []string(r.Ingredients),
		Benefits:             []string(r.Benefits),
		ServingSize:          r.ServingSize,
		ServingsPerContainer: r.ServingsPerContainer,
		Tags:                 []string(r.Tags),
	}
}
