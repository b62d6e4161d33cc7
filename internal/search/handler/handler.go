package handler

import (
	"net/http"

	"clientregistry/internal/search/domain"
	"clientregistry/internal/search/service"
	"clientregistry/internal/search/transport"
	"clientregistry/platform/httpkit"
	"clientregistry/platform/validator"

	"github.com/gin-gonic/gin"
)

const codeInvalidRequest = "invalid_request"

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the search endpoint on a protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
}

// RegisterPreflight mounts the unauthenticated OPTIONS route.
func (h *Handler) RegisterPreflight(rg *gin.RouterGroup) {
	rg.OPTIONS("/search", h.Preflight)
}

// Preflight answers OPTIONS with an empty 200.
func (h *Handler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handler) Search(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, codeInvalidRequest, "invalid request")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, codeInvalidRequest, validator.Message(err))
		return
	}

	result, err := h.svc.Search(c.Request.Context(), identity.CallerKey(), domain.RawParams{
		Query:        req.RawQuery(),
		Mode:         req.Type,
		Limit:        req.Limit,
		Offset:       req.Offset,
		Status:       req.Stato,
		BusinessType: req.Tipologia,
		Operator:     req.Operatore,
		ActiveOnly:   req.SoloAttivi,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
