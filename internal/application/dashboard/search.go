package dashboard

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

// FilterProducts filtra la página ya cargada por descripción, sin distinguir mayúsculas
// (case folding Unicode). Un término vacío o solo espacios devuelve la página tal cual.
func FilterProducts(products []entity.Product, term string) []entity.Product {
	if strings.TrimSpace(term) == "" {
		return products
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold.String(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}
