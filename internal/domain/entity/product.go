package entity

// Product producto con fecha de validade. Status lo deriva el backend y nunca se escribe.
type Product struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	ExpirationDate Date   `json:"expiration_date"`
	Stock          int    `json:"stock"`
	Status         Status `json:"status,omitempty"`
}

// ProductInput campos modificables de un producto (insert y update).
type ProductInput struct {
	Description    string `json:"description"`
	ExpirationDate Date   `json:"expiration_date"`
	Stock          int    `json:"stock"`
}

// ProductStats total de productos por status (una fila por status presente).
type ProductStats struct {
	Status     Status `json:"status"`
	TotalCount int    `json:"total_produtos"`
}

// CountFor devuelve el total para status, 0 si el backend no devolvió la fila.
func CountFor(stats []ProductStats, status Status) int {
	for _, s := range stats {
		if s.Status == status {
			return s.TotalCount
		}
	}
	return 0
}
