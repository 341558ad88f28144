package dashboard

import "strings"

// KeyEvent tecla pulsada en cualquier elemento de la página.
type KeyEvent struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
}

// KeyResult indica si el evento fue consumido y si el cliente debe cancelar la acción por defecto.
type KeyResult struct {
	Handled        bool `json:"handled"`
	PreventDefault bool `json:"prevent_default"`
	FocusSearch    bool `json:"focus_search"`
}

// isFocusSearch Ctrl+K enfoca la búsqueda sin importar el foco actual.
func isFocusSearch(e KeyEvent) bool {
	return e.Ctrl && strings.EqualFold(e.Key, "k")
}
