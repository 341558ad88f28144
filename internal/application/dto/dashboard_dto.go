package dto

// DashboardView respuesta de GET /api/dashboard y /api/dashboard/snapshot.
// Es el modelo de vista completo: la página del navegador solo lo pinta.
type DashboardView struct {
	UserEmail string        `json:"user_email"`
	Stats     StatsPanel    `json:"stats"`
	Products  ProductsPanel `json:"products"`
	Controls  Controls      `json:"controls"`
	Modal     *Modal        `json:"modal,omitempty"`
	Alert     string        `json:"alert,omitempty"`
}

// StatsPanel tarjetas de estadísticas, una por status.
type StatsPanel struct {
	Loading bool       `json:"loading"`
	Stale   bool       `json:"stale,omitempty"`
	Error   string     `json:"error,omitempty"` // "Erro ao carregar dados: <msg>"
	Cards   []StatCard `json:"cards"`
}

// StatCard tarjeta clicable que activa el filtro de su status.
type StatCard struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
	Active bool   `json:"active"`
}

// ProductsPanel tabla de productos de la página actual.
type ProductsPanel struct {
	Title        string       `json:"title"` // "Produtos" o "Produtos - <status>"
	Loading      bool         `json:"loading"`
	Stale        bool         `json:"stale,omitempty"`
	Error        string       `json:"error,omitempty"` // "Erro ao carregar produtos: <msg>"
	Rows         []ProductRow `json:"rows"`
	Summary      string       `json:"summary"` // "Mostrando X de Y produto(s)"
	AllSelected  bool         `json:"all_selected"`
	EmptyMessage string       `json:"empty_message,omitempty"`
}

// ProductRow fila de la tabla.
type ProductRow struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	ExpirationDate string `json:"expiration_date"` // dd/mm/aaaa
	Stock          int    `json:"stock"`
	Status         string `json:"status"`
	BadgeColor     string `json:"badge_color"`
	Selected       bool   `json:"selected"`
}

// Controls barra de búsqueda, selector de límite y botón de borrado de la selección.
type Controls struct {
	SearchTerm     string        `json:"search_term"`
	SearchFocused  bool          `json:"search_focused"`
	StatusFilter   string        `json:"status_filter,omitempty"`
	Limit          LimitOption   `json:"limit"`
	LimitOptions   []LimitOption `json:"limit_options"`
	SelectedCount  int           `json:"selected_count"`
	DeleteLabel    string        `json:"delete_label,omitempty"` // "Remover (N)" / "Removendo..."
	DeleteDisabled bool          `json:"delete_disabled"`
}

// LimitOption opción del selector de filas.
type LimitOption struct {
	Value int    `json:"value"` // -1 = Todos
	Label string `json:"label"`
}

// Modal formulario de alta o edición.
type Modal struct {
	Mode           string    `json:"mode"` // "create" | "edit"
	Title          string    `json:"title"`
	ProductID      string    `json:"product_id,omitempty"`
	Draft          DraftView `json:"draft"`
	StockMin       int       `json:"stock_min"`
	SubmitLabel    string    `json:"submit_label"`
	SubmitDisabled bool      `json:"submit_disabled"`
}

// DraftView campos del formulario.
type DraftView struct {
	Description    string `json:"description"`
	ExpirationDate string `json:"expiration_date"`
	Stock          string `json:"stock"`
}

// StatusFilterRequest cuerpo de PUT /api/dashboard/filter.
type StatusFilterRequest struct {
	Status string `json:"status"`
}

// LimitRequest cuerpo de PUT /api/dashboard/limit. Acepta número o "todos".
type LimitRequest struct {
	Limit any `json:"limit" swaggertype:"string" example:"20"`
}

// SearchRequest cuerpo de PUT /api/dashboard/search.
type SearchRequest struct {
	Term string `json:"term"`
}

// KeyRequest cuerpo de POST /api/dashboard/keys.
type KeyRequest struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
}

// KeyResponse resultado del atajo de teclado.
type KeyResponse struct {
	Handled        bool `json:"handled"`
	PreventDefault bool `json:"prevent_default"`
	FocusSearch    bool `json:"focus_search"`
}

// ToggleSelectionRequest cuerpo de POST /api/dashboard/selection/toggle.
type ToggleSelectionRequest struct {
	ID string `json:"id"`
}

// ConfirmRequest cuerpo de las operaciones que piden confirmación.
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

// CopyResponse texto para el portapapeles.
type CopyResponse struct {
	Text string `json:"text"`
}
