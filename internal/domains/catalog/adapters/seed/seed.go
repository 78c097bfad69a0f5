// Package seed loads the catalog and FAQ content bundled into the binary.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

//go:embed products.json
var productsJSON []byte

//go:embed faqs.yaml
var faqsYAML []byte

// FAQ is a static question and answer pair.
type FAQ struct {
	ID       string `yaml:"id" json:"id"`
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type productRecord struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price"`
	Description          string          `json:"description"`
	LongDescription      string          `json:"longDescription"`
	Image                string          `json:"image"`
	Images               []string        `json:"images"`
	BestSeller           bool            `json:"bestSeller"`
	InStock              bool            `json:"inStock"`
	Rating               float64         `json:"rating"`
	ReviewCount          int             `json:"reviewCount"`
	Certifications       []string        `json:"certifications"`
	Ingredients          []string        `json:"ingredients"`
	Benefits             []string        `json:"benefits"`
	ServingSize          string          `json:"servingSize"`
	ServingsPerContainer int             `json:"servingsPerContainer"`
	Tags                 []string        `json:"tags"`
}

// Products decodes the bundled catalog.
func Products() ([]*domain.Product, error) {
	return DecodeProducts(productsJSON)
}

// DecodeProducts parses a catalog document in the bundled JSON format.
func DecodeProducts(raw []byte) ([]*domain.Product, error) {
	var records []productRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	products := make([]*domain.Product, 0, len(records))
	for _, rec := range records {
		category, err := domain.ParseCategory(rec.Category)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", rec.ID, err)
		}
		products = append(products, &domain.Product{
			ID:                   rec.ID,
			Name:                 rec.Name,
			Category:             category,
			Price:                rec.Price,
			Description:          rec.Description,
			LongDescription:      rec.LongDescription,
			Image:                rec.Image,
			Images:               rec.Images,
			BestSeller:           rec.BestSeller,
			InStock:              rec.InStock,
			Rating:               rec.Rating,
			ReviewCount:          rec.ReviewCount,
			Certifications:       rec.Certifications,
			Ingredients:          rec.Ingredients,
			Benefits:             rec.Benefits,
			ServingSize:          rec.ServingSize,
			ServingsPerContainer: rec.ServingsPerContainer,
			Tags:                 rec.Tags,
		})
	}
	return products, nil
}

// FAQs decodes the bundled FAQ list.
func FAQs() ([]FAQ, error) {
	var faqs []FAQ
	if err := yaml.Unmarshal(faqsYAML, &faqs); err != nil {
		return nil, fmt.Errorf("decode faqs: %w", err)
	}
	return faqs, nil
}
