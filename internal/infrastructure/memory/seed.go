package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Location   string          `json:"location"`
	CategoryID string          `json:"category_id"`
	Active     *bool           `json:"active"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// DecodeProducts lee un arreglo JSON de productos del catálogo.
// active se asume true si no viene.
func DecodeProducts(r io.Reader) ([]entity.CatalogProduct, error) {
	var raw []seedProduct
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}
	out := make([]entity.CatalogProduct, 0, len(raw))
	for i, p := range raw {
		if p.ID == "" || p.SKU == "" {
			return nil, fmt.Errorf("producto %d: id y sku son requeridos", i)
		}
		active := true
		if p.Active != nil {
			active = *p.Active
		}
		out = append(out, entity.CatalogProduct{
			ID:         p.ID,
			SKU:        p.SKU,
			Name:       p.Name,
			Location:   p.Location,
			CategoryID: p.CategoryID,
			Active:     active,
			Quantity:   p.Quantity,
		})
	}
	return out, nil
}

// LoadProductsFile abre path y decodifica el catálogo.
func LoadProductsFile(path string) ([]entity.CatalogProduct, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeProducts(f)
}
