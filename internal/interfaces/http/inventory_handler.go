package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-reconciliation/internal/application/dto"
	"github.com/jhoicas/inventory-reconciliation/internal/application/inventory"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	domaininv "github.com/jhoicas/inventory-reconciliation/internal/domain/inventory"
)

// InventoryHandler maneja las sesiones de toma de inventario físico (protegido).
type InventoryHandler struct {
	uc    *inventory.ReconciliationUseCase
	query *inventory.SessionQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.ReconciliationUseCase, query *inventory.SessionQueryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, query: query}
}

// CreateSession godoc
// @Summary      Crear sesión de inventario
// @Description  Toma la foto del stock teórico de cada producto del alcance (Full, Cyclic o Spot).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  true  "type (Full|Cyclic|Spot o 0|1|2), category_ids (Cyclic), product_ids (Spot), notes"
// @Success      201   {object}  dto.InventorySessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions [post]
func (h *InventoryHandler) CreateSession(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if ok, err := validateStruct(c, in); !ok {
		return err
	}
	session, err := h.uc.CreateSession(c.UserContext(), inventory.CreateSessionInput{
		Type:        entity.SessionType(in.Type),
		CategoryIDs: in.CategoryIDs,
		ProductIDs:  in.ProductIDs,
		CreatedBy:   userID,
		Notes:       in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToInventorySessionResponse(session, true))
}

// ListSessions godoc
// @Summary      Listar sesiones de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "InProgress | Validated | Cancelled"
// @Param        limit   query  int     false  "Límite (1-100)"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.InventorySessionResponse]
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions [get]
func (h *InventoryHandler) ListSessions(c *fiber.Ctx) error {
	var q dto.SessionListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if ok, err := validateStruct(c, q); !ok {
		return err
	}
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	var status *entity.SessionStatus
	if q.Status != "" {
		st := entity.SessionStatus(q.Status)
		status = &st
	}
	list, err := h.query.ListAll(c.UserContext(), status, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	total, err := h.query.CountSessions(c.UserContext(), status)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.InventorySessionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.ToInventorySessionResponse(s, false))
	}
	return c.JSON(dto.ListResponse[dto.InventorySessionResponse]{
		Items: items,
		Page:  dto.NewPageResponse(page, total),
	})
}

// GetSession godoc
// @Summary      Obtener sesión con sus líneas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.InventorySessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id} [get]
func (h *InventoryHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.query.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToInventorySessionResponse(session, true))
}

// PendingLines godoc
// @Summary      Líneas pendientes de conteo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {array}   dto.InventoryLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/pending-lines [get]
func (h *InventoryHandler) PendingLines(c *fiber.Ctx) error {
	lines, err := h.query.PendingLines(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToInventoryLineResponses(lines))
}

// Summary godoc
// @Summary      Resumen de la sesión
// @Description  Líneas totales, contadas y pendientes, varianzas positivas y negativas, varianza total.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	session, summary, err := h.query.Summary(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToSessionSummaryResponse(session, summary))
}

// Cursor godoc
// @Summary      Posición para retomar el conteo
// @Description  Primera línea sin contar (o la primera si todas tienen conteo) y el progreso.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountCursorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/cursor [get]
func (h *InventoryHandler) Cursor(c *fiber.Ctx) error {
	session, err := h.query.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cursorResponse(session.ID, inventory.NewCountRecorder(h.uc, session)))
}

// CursorCount godoc
// @Summary      Contar desde el cursor y avanzar
// @Description  Registra el conteo de la línea bajo el cursor (la primera pendiente, o la indicada en
// @Description  position) y devuelve el cursor en la línea siguiente. done=true si era la última línea.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la sesión"
// @Param        body  body  dto.CursorCountRequest  true  "counted_quantity >= 0, position (opcional), notes"
// @Success      200   {object}  dto.CursorCountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/cursor/count [post]
func (h *InventoryHandler) CursorCount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CursorCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if ok, err := validateStruct(c, in); !ok {
		return err
	}
	qty, err := domaininv.ParseQuantity(in.CountedQuantity)
	if err != nil {
		return writeError(c, err)
	}
	session, err := h.query.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	rec := inventory.NewCountRecorder(h.uc, session)
	if in.Position != nil && !rec.MoveTo(*in.Position) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "position fuera de la sesión"})
	}
	line, done, err := rec.Record(c.UserContext(), qty, userID, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CursorCountResponse{
		Line:   dto.ToInventoryLineResponse(line),
		Done:   done,
		Cursor: cursorResponse(session.ID, rec),
	})
}

func cursorResponse(sessionID string, rec *inventory.CountRecorder) dto.CountCursorResponse {
	counted, total := rec.Progress()
	out := dto.CountCursorResponse{
		SessionID:    sessionID,
		Position:     rec.Position(),
		CountedLines: counted,
		TotalLines:   total,
		Complete:     rec.Complete(),
	}
	if cur := rec.Current(); cur != nil {
		line := dto.ToInventoryLineResponse(cur)
		out.Current = &line
	}
	return out
}

// UpdateNotes godoc
// @Summary      Actualizar notas de la sesión
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la sesión"
// @Param        body  body  dto.UpdateNotesRequest  true  "notes"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/notes [patch]
func (h *InventoryHandler) UpdateNotes(c *fiber.Ctx) error {
	var in dto.UpdateNotesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if ok, err := validateStruct(c, in); !ok {
		return err
	}
	if err := h.uc.UpdateNotes(c.UserContext(), c.Params("id"), in.Notes); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordCount godoc
// @Summary      Registrar conteo de una línea
// @Description  Reemplaza el conteo anterior (el último gana) y recalcula la varianza.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la línea"
// @Param        body  body  dto.RecordCountRequest  true  "counted_quantity >= 0, notes"
// @Success      200   {object}  dto.InventoryLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/lines/{id}/count [post]
func (h *InventoryHandler) RecordCount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if ok, err := validateStruct(c, in); !ok {
		return err
	}
	qty, err := domaininv.ParseQuantity(in.CountedQuantity)
	if err != nil {
		return writeError(c, err)
	}
	line, err := h.uc.RecordCount(c.UserContext(), inventory.RecordCountInput{
		LineID:   c.Params("id"),
		Quantity: qty,
		UserID:   userID,
		Notes:    in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToInventoryLineResponse(line))
}

// ValidateSession godoc
// @Summary      Validar sesión (supervisor)
// @Description  Aplica al stock la varianza de cada línea contada y registra los movimientos de ajuste,
// @Description  todo en una transacción. Las líneas sin contar no modifican el stock.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.InventorySessionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/validate [post]
func (h *InventoryHandler) ValidateSession(c *fiber.Ctx) error {
	session, err := h.uc.ValidateSession(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToInventorySessionResponse(session, true))
}

// CancelSession godoc
// @Summary      Cancelar sesión (supervisor)
// @Description  Cierra la sesión sin tocar el stock; los conteos se conservan.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.InventorySessionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/cancel [post]
func (h *InventoryHandler) CancelSession(c *fiber.Ctx) error {
	session, err := h.uc.CancelSession(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToInventorySessionResponse(session, true))
}

// ListMovements godoc
// @Summary      Movimientos de ajuste por inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (1-100)"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.InventoryMovementResponse]
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	return h.listMovements(c, "")
}

// ListProductMovements godoc
// @Summary      Movimientos de ajuste de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        limit      query  int     false  "Límite (1-100)"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.ListResponse[dto.InventoryMovementResponse]
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/product/{productId} [get]
func (h *InventoryHandler) ListProductMovements(c *fiber.Ctx) error {
	return h.listMovements(c, c.Params("productId"))
}

func (h *InventoryHandler) listMovements(c *fiber.Ctx, productID string) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	ctx := c.UserContext()
	var list []*entity.InventoryMovement
	if productID == "" {
		list, err = h.query.ListMovements(ctx, page.Limit, page.Offset)
	} else {
		list, err = h.query.ListProductMovements(ctx, productID, page.Limit, page.Offset)
	}
	if err != nil {
		return writeError(c, err)
	}
	total, err := h.query.CountMovements(ctx, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse[dto.InventoryMovementResponse]{
		Items: dto.ToInventoryMovementResponses(list),
		Page:  dto.NewPageResponse(page, total),
	})
}

// parsePage lee ?limit y ?offset; fuera de rango responde 400 y devuelve false.
func parsePage(c *fiber.Ctx) (dto.PageRequest, bool, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	if ok, err := validateStruct(c, page); !ok {
		return page, false, err
	}
	return page, true, nil
}
