package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controle-validade/internal/application/dashboard"
	"github.com/jhoicas/controle-validade/internal/application/dto"
	"github.com/jhoicas/controle-validade/internal/application/query"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

// DashboardHandler expone la sesión del dashboard de cada usuario (protegido).
type DashboardHandler struct {
	sessions *dashboard.Sessions
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(sessions *dashboard.Sessions) *DashboardHandler {
	return &DashboardHandler{sessions: sessions}
}

func (h *DashboardHandler) session(c *fiber.Ctx) *dashboard.Dashboard {
	return h.sessions.Get(dashboard.Identity{UserID: GetUserID(c), Email: GetEmail(c)})
}

// snapshot responde con la vista sin esperar al backend. Es la respuesta de los cambios de estado.
func (h *DashboardHandler) snapshot(c *fiber.Ctx, d *dashboard.Dashboard) error {
	out, err := d.Snapshot(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Vista del dashboard
// @Description  Espera las lecturas de estadísticas y productos (o usa la caché fresca).
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardView
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.session(c).View(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Snapshot godoc
// @Summary      Vista inmediata del dashboard
// @Description  No bloquea: las lecturas que faltan se inician en segundo plano y aparecen como loading.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardView
// @Router       /api/dashboard/snapshot [get]
func (h *DashboardHandler) Snapshot(c *fiber.Ctx) error {
	return h.snapshot(c, h.session(c))
}

// Close godoc
// @Summary      Cerrar la sesión del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Success      204
// @Router       /api/dashboard [delete]
func (h *DashboardHandler) Close(c *fiber.Ctx) error {
	h.sessions.Close(GetUserID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// Refresh godoc
// @Summary      Forzar relectura
// @Description  Invalida estadísticas y productos y vuelve a leerlos.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardView
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/dashboard/refresh [post]
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	d := h.session(c)
	if err := d.Refresh(c.UserContext()); err != nil {
		return writeError(c, err, "")
	}
	out, err := d.View(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// SetFilter godoc
// @Summary      Filtrar por status
// @Tags         dashboard
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StatusFilterRequest  true  "Status (Válido, Atenção, Crítico, Muito Crítico, Vencido)"
// @Success      200   {object}  dto.DashboardView
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dashboard/filter [put]
func (h *DashboardHandler) SetFilter(c *fiber.Ctx) error {
	var in dto.StatusFilterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	d := h.session(c)
	if err := d.SetStatusFilter(entity.Status(in.Status)); err != nil {
		return writeError(c, err, "")
	}
	return h.snapshot(c, d)
}

// ClearFilter godoc
// @Summary      Quitar el filtro de status
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardView
// @Router       /api/dashboard/filter [delete]
func (h *DashboardHandler) ClearFilter(c *fiber.Ctx) error {
	d := h.session(c)
	d.ClearStatusFilter()
	return h.snapshot(c, d)
}

// SetLimit godoc
// @Summary      Cambiar el número de filas
// @Tags         dashboard
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LimitRequest  true  "10, 20, 50, 100 o \"todos\""
// @Success      200   {object}  dto.DashboardView
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dashboard/limit [put]
func (h *DashboardHandler) SetLimit(c *fiber.Ctx) error {
	var in dto.LimitRequest
	if err := c.BodyParser(&in); err != nil || in.Limit == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "limit es requerido"})
	}
	limit, err := query.ParseRowLimit(fmt.Sprint(in.Limit))
	if err != nil {
		return writeError(c, err, "")
	}
	d := h.session(c)
	if err := d.SetLimit(limit); err != nil {
		return writeError(c, err, "")
	}
	return h.snapshot(c, d)
}

// SetSearch godoc
// @Summary      Buscar en la página actual
// @Tags         dashboard
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SearchRequest  true  "Término (vacío = sin búsqueda)"
// @Success      200   {object}  dto.DashboardView
// @Router       /api/dashboard/search [put]
func (h *DashboardHandler) SetSearch(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	d := h.session(c)
	d.SetSearchTerm(in.Term)
	return h.snapshot(c, d)
}

// Key godoc
// @Summary      Atajo de teclado
// @Description  Ctrl+K enfoca la búsqueda.
// @Tags         dashboard
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.KeyRequest  true  "Tecla"
// @Success      200   {object}  dto.KeyResponse
// @Router       /api/dashboard/keys [post]
func (h *DashboardHandler) Key(c *fiber.Ctx) error {
	var in dto.KeyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r := h.session(c).HandleKey(dashboard.KeyEvent{Key: in.Key, Ctrl: in.Ctrl})
	return c.JSON(dto.KeyResponse{Handled: r.Handled, PreventDefault: r.PreventDefault, FocusSearch: r.FocusSearch})
}

// ToggleSelection godoc
// @Summary      Marcar o desmarcar una fila
// @Tags         dashboard
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ToggleSelectionRequest  true  "ID del producto"
// @Success      200   {object}  dto.DashboardView
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/dashboard/selection/toggle [post]
func (h *DashboardHandler) ToggleSelection(c *fiber.Ctx) error {
	var in dto.ToggleSelectionRequest
	if err := c.BodyParser(&in); err != nil || in.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "id es requerido"})
	}
	d := h.session(c)
	if err := d.ToggleSelection(in.ID); err != nil {
		return writeError(c, err, "")
	}
	return h.snapshot(c, d)
}

// SelectAll godoc
// @Summary      Marcar o desmarcar todas las filas visibles
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardView
// @Router       /api/dashboard/selection/all [post]
func (h *DashboardHandler) SelectAll(c *fiber.Ctx) error {
	d := h.session(c)
	d.SelectAll()
	return h.snapshot(c, d)
}

// DeleteSelected godoc
// @Summary      Eliminar los productos seleccionados
// @Description  Sin confirm=true responde 409 con el texto de confirmación.
// @Tags         dashboard
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmRequest  true  "Confirmación"
// @Success      200   {object}  dto.DashboardView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/dashboard/selection/delete [post]
func (h *DashboardHandler) DeleteSelected(c *fiber.Ctx) error {
	var in dto.ConfirmRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	d := h.session(c)
	n := d.PendingDeleteCount()
	if err := d.DeleteSelected(c.UserContext(), dashboard.Confirmed(in.Confirm)); err != nil {
		return h.mutationError(c, d, err, n)
	}
	return h.view(c, d)
}

// OpenCreate godoc
// @Summary      Abrir el formulario de alta
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardView
// @Router       /api/dashboard/modal [post]
func (h *DashboardHandler) OpenCreate(c *fiber.Ctx) error {
	d := h.session(c)
	d.OpenCreate()
	return h.snapshot(c, d)
}

// CloseModal godoc
// @Summary      Cerrar el formulario
// @Description  El borrador se conserva hasta el próximo alta o edición.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardView
// @Router       /api/dashboard/modal [delete]
func (h *DashboardHandler) CloseModal(c *fiber.Ctx) error {
	d := h.session(c)
	d.CloseModal()
	return h.snapshot(c, d)
}

// OpenEdit godoc
// @Summary      Abrir el formulario de edición de una fila
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.DashboardView
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dashboard/products/{id}/edit [post]
func (h *DashboardHandler) OpenEdit(c *fiber.Ctx) error {
	d := h.session(c)
	if err := d.OpenEdit(c.Params("id")); err != nil {
		return writeError(c, err, "")
	}
	return h.snapshot(c, d)
}

// UpdateDraft godoc
// @Summary      Editar los campos del formulario
// @Tags         dashboard
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DraftView  true  "Campos tal como se escriben"
// @Success      200   {object}  dto.DashboardView
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dashboard/draft [put]
func (h *DashboardHandler) UpdateDraft(c *fiber.Ctx) error {
	var in dto.DraftView
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	d := h.session(c)
	err := d.UpdateDraft(dashboard.DraftFields{Description: in.Description, ExpirationDate: in.ExpirationDate, Stock: in.Stock})
	if err != nil {
		return writeError(c, err, "")
	}
	return h.snapshot(c, d)
}

// Submit godoc
// @Summary      Guardar el formulario
// @Description  Alta o edición según el formulario abierto. Con error del backend el formulario sigue abierto.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardView
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/dashboard/draft/submit [post]
func (h *DashboardHandler) Submit(c *fiber.Ctx) error {
	d := h.session(c)
	if err := d.Submit(c.UserContext()); err != nil {
		return h.mutationError(c, d, err, 0)
	}
	return h.view(c, d)
}

// DeleteProduct godoc
// @Summary      Eliminar una fila
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true   "ID del producto"
// @Param        confirm  query  bool    false  "Confirmación"
// @Success      200  {object}  dto.DashboardView
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/dashboard/products/{id} [delete]
func (h *DashboardHandler) DeleteProduct(c *fiber.Ctx) error {
	d := h.session(c)
	confirm := c.QueryBool("confirm", false)
	if err := d.DeleteProduct(c.UserContext(), c.Params("id"), dashboard.Confirmed(confirm)); err != nil {
		return h.mutationError(c, d, err, 1)
	}
	return h.view(c, d)
}

// Copy godoc
// @Summary      Texto de una fila para el portapapeles
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.CopyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dashboard/products/{id}/copy [get]
func (h *DashboardHandler) Copy(c *fiber.Ctx) error {
	text, err := h.session(c).CopyProduct(c.Params("id"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.CopyResponse{Text: text})
}

// DismissAlert godoc
// @Summary      Descartar la alerta
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardView
// @Router       /api/dashboard/alert [delete]
func (h *DashboardHandler) DismissAlert(c *fiber.Ctx) error {
	d := h.session(c)
	d.DismissAlert()
	return h.snapshot(c, d)
}

// Report godoc
// @Summary      Informe PDF de las filas visibles
// @Tags         dashboard
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/dashboard/report.pdf [get]
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.session(c).Report(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="controle-validade.pdf"`)
	return c.Send(pdf)
}

// view tras una mutación: la invalidación ya ocurrió, se espera la relectura.
func (h *DashboardHandler) view(c *fiber.Ctx, d *dashboard.Dashboard) error {
	out, err := d.View(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// mutationError n es el número de productos afectados (texto de confirmación).
func (h *DashboardHandler) mutationError(c *fiber.Ctx, d *dashboard.Dashboard, err error, n int) error {
	if errors.Is(err, domain.ErrNotConfirmed) {
		return confirmationRequired(c, n)
	}
	return writeError(c, err, d.State().Alert)
}
