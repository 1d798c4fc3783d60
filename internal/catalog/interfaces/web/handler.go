package web

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
)

// Handler 服务端渲染浏览面网关
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

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/products")
	g.GET("", h.Index)
	g.GET("/create", h.CreateForm)
	g.POST("", h.Store)
	g.GET("/:id/edit", h.EditForm)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// productView 列表页行视图；价格可附带欧元换算（无汇率时隐藏）
type productView struct {
	ID       uint
	Name     string
	Price    float64
	PriceEUR float64
	HasEUR   bool
}

// require 在处理器入口显式执行访问策略。
// 匿名重定向到登录页，已登录但权限不足渲染 403 页。
func (h *Handler) require(c *gin.Context, op access.Operation) bool {
	actor := authhttp.CurrentActor(c)
	if access.Allow(actor, op) {
		return true
	}
	if !actor.Authenticated {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return false
	}
	c.HTML(http.StatusForbidden, "error.html", gin.H{
		"Status":  http.StatusForbidden,
		"Message": "Forbidden",
	})
	return false
}

func (h *Handler) Index(c *gin.Context) {
	if !h.require(c, access.WebListProducts) {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	products, total, err := h.products.ListProducts(c.Request.Context(), page, h.pageSize)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list products", "error", err)
		h.renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		v := productView{ID: p.ID, Name: p.Name, Price: p.Price}
		if h.converter.Supports("usd", "eur") {
			v.PriceEUR = h.converter.Convert(p.Price, "usd", "eur")
			v.HasEUR = true
		}
		views = append(views, v)
	}

	totalPages := (total + h.pageSize - 1) / h.pageSize
	actor := authhttp.CurrentActor(c)
	c.HTML(http.StatusOK, "products_index.html", gin.H{
		"Products":   views,
		"Page":       page,
		"TotalPages": totalPages,
		"HasPrev":    page > 1,
		"HasNext":    page < totalPages,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"IsAdmin":    actor.Admin,
	})
}

func (h *Handler) CreateForm(c *gin.Context) {
	if !h.require(c, access.WebCreateForm) {
		return
	}
	c.HTML(http.StatusOK, "products_form.html", gin.H{
		"Title":    "Add new product",
		"Action":   "/products",
		"Method":   "POST",
		"MaxPrice": h.maxPriceLabel(),
	})
}

func (h *Handler) Store(c *gin.Context) {
	if !h.require(c, access.WebCreateProduct) {
		return
	}

	name := c.PostForm("name")
	price := c.PostForm("price")

	validated, errs := h.validator.Validate(name, price)
	if len(errs) > 0 {
		h.renderForm(c, "Add new product", "/products", "POST", name, price, errs)
		return
	}

	if _, err := h.products.CreateProduct(c.Request.Context(), validated.Name, validated.Price); err != nil {
		h.renderServiceError(c, "Add new product", "/products", "POST", name, price, err)
		return
	}
	c.Redirect(http.StatusFound, "/products")
}

func (h *Handler) EditForm(c *gin.Context) {
	if !h.require(c, access.WebEditForm) {
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	p, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.HTML(http.StatusOK, "products_form.html", gin.H{
		"Title":    "Edit product",
		"Action":   "/products/" + strconv.FormatUint(uint64(p.ID), 10),
		"Method":   "PUT",
		"Name":     p.Name,
		"Price":    strconv.FormatFloat(p.Price, 'f', -1, 64),
		"MaxPrice": h.maxPriceLabel(),
	})
}

func (h *Handler) Update(c *gin.Context) {
	if !h.require(c, access.WebUpdateProduct) {
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}
	action := "/products/" + strconv.FormatUint(uint64(id), 10)

	name := c.PostForm("name")
	price := c.PostForm("price")

	validated, errs := h.validator.Validate(name, price)
	if len(errs) > 0 {
		h.renderForm(c, "Edit product", action, "PUT", name, price, errs)
		return
	}

	if _, err := h.products.UpdateProduct(c.Request.Context(), id, validated.Name, validated.Price); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			h.renderError(c, http.StatusNotFound, "Product not found")
			return
		}
		h.renderServiceError(c, "Edit product", action, "PUT", name, price, err)
		return
	}
	c.Redirect(http.StatusFound, "/products")
}

func (h *Handler) Delete(c *gin.Context) {
	if !h.require(c, access.WebDeleteProduct) {
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			h.renderError(c, http.StatusNotFound, "Product not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to delete product", "id", id, "error", err)
		h.renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.Redirect(http.StatusFound, "/products")
}

// maxPriceLabel 表单里展示的价格上限
func (h *Handler) maxPriceLabel() string {
	return strconv.FormatFloat(h.products.MaxPrice(), 'f', -1, 64)
}

func (h *Handler) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.renderError(c, http.StatusNotFound, "Product not found")
		return 0, false
	}
	return uint(id), true
}

// renderForm 以 422 重新渲染表单，携带全部字段错误与旧值
func (h *Handler) renderForm(c *gin.Context, title, action, method, name, price string, errs []application.FieldError) {
	errorMap := make(map[string]string, len(errs))
	for _, e := range errs {
		errorMap[e.Field] = e.Reason
	}
	c.HTML(http.StatusUnprocessableEntity, "products_form.html", gin.H{
		"Title":    title,
		"Action":   action,
		"Method":   method,
		"Name":     name,
		"Price":    price,
		"Errors":   errorMap,
		"MaxPrice": h.maxPriceLabel(),
	})
}

// renderServiceError 服务层错误回渲染；价格兜底检查同样表现为字段错误
func (h *Handler) renderServiceError(c *gin.Context, title, action, method, name, price string, err error) {
	if errors.Is(err, domain.ErrPriceTooLarge) {
		h.renderForm(c, title, action, method, name, price, []application.FieldError{
			{Field: "price", Reason: application.ReasonTooLarge},
		})
		return
	}
	if errors.Is(err, domain.ErrPriceInvalid) {
		h.renderForm(c, title, action, method, name, price, []application.FieldError{
			{Field: "price", Reason: application.ReasonNotNumber},
		})
		return
	}
	logger.Error(c.Request.Context(), "catalog operation failed", "error", err)
	h.renderError(c, http.StatusInternalServerError, "Something went wrong")
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Status":  status,
		"Message": message,
	})
}
