package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rest-user-service/internal/adapter/gin/routes"
	domain "rest-user-service/internal/domain/user"
	pkgerrors "rest-user-service/pkg/errors"
	"rest-user-service/pkg/jsonpatch"
)

// Pagination bounds for the list operation.
const (
	defaultPageNumber = 1
	defaultPageSize   = 10
	maxPageSize       = 20
)

// allowedMethods enumerates the collection-level methods advertised by
// the OPTIONS probe.
const allowedMethods = "GET, POST, OPTIONS"

// UserHandler handles HTTP requests for the user resource. It is
// stateless per request; the only cross-request state lives in the
// injected store.
type UserHandler struct {
	store    domain.Store
	log      *zap.Logger
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(store domain.Store, log *zap.Logger) *UserHandler {
	return &UserHandler{
		store:    store,
		log:      log,
		validate: newValidator(),
	}
}

// GetUserByID handles GET and HEAD /api/users/:userId
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	u, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("GetUserByID failed", zap.String("id", id.String()), zap.Error(err))
		h.storeError(c, err)
		return
	}
	if u == nil {
		c.Status(http.StatusNotFound)
		return
	}

	h.negotiate(c, http.StatusOK, toUserDto(u))
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var dto PostUserDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		h.log.Warn("invalid create user body", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	if errs := fieldErrors(h.validate, &dto); len(errs) > 0 {
		h.log.Warn("create user validation failed", zap.Int("fields", len(errs)))
		c.JSON(http.StatusUnprocessableEntity, errs)
		return
	}

	created, err := h.store.Insert(c.Request.Context(), postDtoToEntity(&dto))
	if err != nil {
		h.log.Error("CreateUser failed", zap.Error(err))
		h.storeError(c, err)
		return
	}

	h.log.Info("user created", zap.String("id", created.ID.String()), zap.String("login", created.Login))
	h.created(c, created.ID)
}

// UpsertUser handles PUT /api/users/:userId
func (h *UserHandler) UpsertUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var dto PutUserDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		h.log.Warn("invalid upsert user body", zap.String("id", id.String()), zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	if errs := fieldErrors(h.validate, &dto); len(errs) > 0 {
		h.log.Warn("upsert user validation failed", zap.String("id", id.String()), zap.Int("fields", len(errs)))
		c.JSON(http.StatusUnprocessableEntity, errs)
		return
	}

	// The route-provided id is authoritative; upsert never reassigns it
	inserted, err := h.store.UpdateOrInsert(c.Request.Context(), putDtoToEntity(&dto, id))
	if err != nil {
		h.log.Error("UpsertUser failed", zap.String("id", id.String()), zap.Error(err))
		h.storeError(c, err)
		return
	}

	if inserted {
		h.log.Info("user inserted via upsert", zap.String("id", id.String()))
		h.created(c, id)
		return
	}

	h.log.Info("user overwritten via upsert", zap.String("id", id.String()))
	c.Status(http.StatusNoContent)
}

// PatchUser handles PATCH /api/users/:userId
func (h *UserHandler) PatchUser(c *gin.Context) {
	var doc jsonpatch.Document
	if err := c.ShouldBindJSON(&doc); err != nil || doc == nil {
		h.log.Warn("invalid patch document", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	id, ok := parseUserID(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	u, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("PatchUser lookup failed", zap.String("id", id.String()), zap.Error(err))
		h.storeError(c, err)
		return
	}
	if u == nil {
		c.Status(http.StatusNotFound)
		return
	}

	patchDto := entityToPatchDto(u)
	errs := jsonpatch.Apply(doc, patchDto)
	for field, messages := range fieldErrors(h.validate, patchDto) {
		errs[field] = append(errs[field], messages...)
	}

	if len(errs) > 0 {
		h.log.Warn("patch user failed", zap.String("id", id.String()), zap.Int("fields", len(errs)))
		c.JSON(http.StatusUnprocessableEntity, errs)
		return
	}

	// The patched projection is validated only; it is not written back.
	c.Status(http.StatusNoContent)
}

// DeleteUser handles DELETE /api/users/:userId
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	u, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("DeleteUser lookup failed", zap.String("id", id.String()), zap.Error(err))
		h.storeError(c, err)
		return
	}
	if u == nil {
		c.Status(http.StatusNotFound)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if pkgerrors.IsNotFound(err) {
			c.Status(http.StatusNotFound)
			return
		}
		h.log.Error("DeleteUser failed", zap.String("id", id.String()), zap.Error(err))
		h.storeError(c, err)
		return
	}

	h.log.Info("user deleted", zap.String("id", id.String()))
	c.Status(http.StatusNoContent)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	pageNumber := intQuery(c, "pageNumber", defaultPageNumber)
	if pageNumber < 1 {
		pageNumber = 1
	}

	pageSize := intQuery(c, "pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	page, err := h.store.GetPage(c.Request.Context(), pageNumber, pageSize)
	if err != nil {
		h.log.Error("ListUsers failed", zap.Int("page", pageNumber), zap.Int("page_size", pageSize), zap.Error(err))
		h.storeError(c, err)
		return
	}

	c.Header("X-Pagination", h.buildPaginationHeader(page))
	h.negotiate(c, http.StatusOK, toUserDtos(page.Items))
}

// UserOptions handles OPTIONS /api/users
func (h *UserHandler) UserOptions(c *gin.Context) {
	c.Header("Allow", allowedMethods)
	c.Status(http.StatusOK)
}

// created emits a 201 with a Location reference to the GetUserById
// route and the identifier as the body.
func (h *UserHandler) created(c *gin.Context, id uuid.UUID) {
	location, err := routes.URL(routes.GetUserByID, map[string]string{"userId": id.String()}, nil)
	if err != nil {
		// Route table mismatch is a programming error; the resource
		// was still created, so answer without the reference.
		h.log.Error("failed to build Location reference", zap.Error(err))
	} else {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, id)
}

// paginationHeader serializes the page position metadata, including
// prev/next links only when the corresponding page exists.
func (h *UserHandler) buildPaginationHeader(page *domain.Page) string {
	meta := paginationHeader{
		TotalCount:  page.TotalCount,
		PageSize:    page.PageSize,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages(),
	}

	if page.HasPrevious() {
		meta.PreviousPageLink = h.pageLink(page.CurrentPage-1, page.PageSize)
	}
	if page.HasNext() {
		meta.NextPageLink = h.pageLink(page.CurrentPage+1, page.PageSize)
	}

	data, err := json.Marshal(meta)
	if err != nil {
		h.log.Error("failed to marshal pagination header", zap.Error(err))
		return "{}"
	}
	return string(data)
}

func (h *UserHandler) pageLink(pageNumber, pageSize int) *string {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(pageNumber))
	q.Set("pageSize", strconv.Itoa(pageSize))

	link, err := routes.URL(routes.GetUsers, nil, q)
	if err != nil {
		h.log.Error("failed to build page link", zap.Error(err))
		return nil
	}
	return &link
}

// negotiate renders the body as JSON or XML per the Accept header.
func (h *UserHandler) negotiate(c *gin.Context, code int, body any) {
	switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEXML) {
	case gin.MIMEXML:
		c.XML(code, body)
	default:
		c.JSON(code, body)
	}
}

// storeError surfaces a store-level fault. Typed errors choose their
// status; anything else is a generic server error.
func (h *UserHandler) storeError(c *gin.Context, err error) {
	status := pkgerrors.StatusOf(err)
	if status == http.StatusNotFound {
		c.Status(status)
		return
	}
	c.JSON(status, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// parseUserID reads the route id; a missing, malformed or nil
// identifier reports false.
func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// intQuery reads an integer query parameter, falling back to the
// default when absent or not a number.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
