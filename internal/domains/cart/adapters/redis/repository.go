package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	"github.com/Apurer/storefront-api/internal/domains/cart/ports"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/shared/projection"
)

const keyPrefix = "storefront:cart:"

var _ ports.Repository = (*Repository)(nil)

// Repository stores session carts in Redis as JSON documents that expire after a period of inactivity.
// Lines hold product ids only; products are resolved from the catalog on read.
type Repository struct {
	rdb      goredis.UniversalClient
	products ports.ProductLookup
	ttl      time.Duration
	now      func() time.Time
}

// NewRepository wires a Redis-backed cart store. A zero ttl keeps carts forever.
func NewRepository(rdb goredis.UniversalClient, products ports.ProductLookup, ttl time.Duration) *Repository {
	return &Repository{rdb: rdb, products: products, ttl: ttl, now: time.Now}
}

type cartDocument struct {
	Items     []lineDocument `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (d cartDocument) metadata() projection.Metadata {
	return projection.Metadata{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type lineDocument struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Get loads and resolves the session cart. Lines whose product left the catalog are dropped.
func (r *Repository) Get(ctx context.Context, sessionID string) (*projection.Projection[*domain.Cart], error) {
	doc, err := r.read(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.LineItem, 0, len(doc.Items))
	for _, line := range doc.Items {
		product, err := r.products.GetProduct(ctx, line.ProductID)
		if errors.Is(err, catalogports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.LineItem{Product: product, Quantity: line.Quantity})
	}
	return projection.Of(domain.Restore(lines), doc.metadata()), nil
}

// Save writes the cart and refreshes its expiry.
func (r *Repository) Save(ctx context.Context, sessionID string, cart *domain.Cart) (*projection.Projection[*domain.Cart], error) {
	if cart == nil {
		return nil, errors.New("cannot save nil cart")
	}
	now := r.now()
	doc := cartDocument{CreatedAt: now, UpdatedAt: now}
	if existing, err := r.read(ctx, sessionID); err == nil {
		doc.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	items := cart.Items()
	doc.Items = make([]lineDocument, 0, len(items))
	for _, item := range items {
		doc.Items = append(doc.Items, lineDocument{ProductID: item.Product.ID, Quantity: item.Quantity})
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+sessionID, payload, r.ttl).Err(); err != nil {
		return nil, err
	}
	return projection.Of(domain.Restore(cart.Snapshot()), doc.metadata()), nil
}

// Delete drops the session cart.
func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	removed, err := r.rdb.Del(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) read(ctx context.Context, sessionID string) (*cartDocument, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc cartDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &doc, nil
}
