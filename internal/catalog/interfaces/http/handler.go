package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/productcatalog/internal/access"
	authhttp "github.com/wyfcoding/productcatalog/internal/auth/interfaces/http"
	"github.com/wyfcoding/productcatalog/internal/catalog/application"
	"github.com/wyfcoding/productcatalog/internal/catalog/domain"
	"github.com/wyfcoding/productcatalog/internal/currency"
	"github.com/wyfcoding/productcatalog/pkg/logger"
	"github.com/wyfcoding/productcatalog/pkg/response"
)

// Handler JSON API 网关
type Handler struct {
	products  *application.ProductService
	validator *application.ProductValidator
	converter *currency.Converter
	pageSize  int
}

func NewHandler(products *application.ProductService, validator *application.ProductValidator, converter *currency.Converter, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Handler{products: products, validator: validator, converter: converter, pageSize: pageSize}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/products")
	g.GET("", h.List)
	g.GET("/:id", h.Show)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	r.GET("/currency/convert", h.ConvertCurrency)
}

// productJSON 商品的对外表示
type productJSON struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// productBody 创建/更新请求体；price 保持原始形态交给校验策略
type productBody struct {
	Name  string `json:"name"`
	Price any    `json:"price"`
}

// authorize 在处理器入口显式执行访问策略；失败时写出 401/403
func (h *Handler) authorize(c *gin.Context, op access.Operation) bool {
	actor := authhttp.CurrentActor(c)
	if access.Allow(actor, op) {
		return true
	}
	if !actor.Authenticated {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthenticated")
	} else {
		response.ErrorWithStatus(c, http.StatusForbidden, "forbidden")
	}
	return false
}

func (h *Handler) List(c *gin.Context) {
	if !h.authorize(c, access.APIListProducts) {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid page")
		return
	}

	products, total, err := h.products.ListProducts(c.Request.Context(), page, h.pageSize)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list products", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, productJSON{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "total": total})
}

func (h *Handler) Show(c *gin.Context) {
	if !h.authorize(c, access.APIShowProduct) {
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, productJSON{ID: p.ID, Name: p.Name, Price: p.Price})
}

func (h *Handler) Create(c *gin.Context) {
	if !h.authorize(c, access.APICreateProduct) {
		return
	}

	var body productBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	validated, errs := h.validator.Validate(body.Name, body.Price)
	if len(errs) > 0 {
		response.ValidationFailed(c, toResponseErrors(errs))
		return
	}

	p, err := h.products.CreateProduct(c.Request.Context(), validated.Name, validated.Price)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, productJSON{ID: p.ID, Name: p.Name, Price: p.Price})
}

func (h *Handler) Update(c *gin.Context) {
	if !h.authorize(c, access.APIUpdateProduct) {
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var body productBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	validated, errs := h.validator.Validate(body.Name, body.Price)
	if len(errs) > 0 {
		response.ValidationFailed(c, toResponseErrors(errs))
		return
	}

	p, err := h.products.UpdateProduct(c.Request.Context(), id, validated.Name, validated.Price)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, productJSON{ID: p.ID, Name: p.Name, Price: p.Price})
}

func (h *Handler) Delete(c *gin.Context) {
	if !h.authorize(c, access.APIDeleteProduct) {
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) ConvertCurrency(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid amount")
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "from and to are required")
		return
	}

	// result 为 0 表示该货币对无可用汇率
	result := h.converter.Convert(amount, from, to)
	response.Success(c, gin.H{
		"amount": amount,
		"from":   from,
		"to":     to,
		"result": result,
	})
}

// writeError 将领域错误映射为 HTTP 状态
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
	case errors.Is(err, domain.ErrPriceTooLarge):
		// 服务层兜底检查也以校验错误的形态暴露
		response.ValidationFailed(c, []response.FieldError{{Field: "price", Reason: application.ReasonTooLarge}})
	case errors.Is(err, domain.ErrPriceInvalid):
		response.ValidationFailed(c, []response.FieldError{{Field: "price", Reason: application.ReasonNotNumber}})
	default:
		logger.Error(c.Request.Context(), "catalog operation failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
		return 0, false
	}
	return uint(id), true
}

func toResponseErrors(errs []application.FieldError) []response.FieldError {
	out := make([]response.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, response.FieldError{Field: e.Field, Reason: e.Reason})
	}
	return out
}
