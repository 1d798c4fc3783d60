package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authapp "github.com/wyfcoding/productcatalog/internal/auth/application"
	authmem "github.com/wyfcoding/productcatalog/internal/auth/infrastructure/persistence/memory"
	authhttp "github.com/wyfcoding/productcatalog/internal/auth/interfaces/http"
	"github.com/wyfcoding/productcatalog/internal/catalog/application"
	"github.com/wyfcoding/productcatalog/internal/catalog/infrastructure/persistence/memory"
	cataloghttp "github.com/wyfcoding/productcatalog/internal/catalog/interfaces/http"
	"github.com/wyfcoding/productcatalog/internal/currency"
)

type apiFixture struct {
	router *gin.Engine
	auth   *authapp.AuthService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := application.NewProductService(memory.NewProductRepository(), nil, 0)
	auth := authapp.NewAuthService(authmem.NewUserRepository(), authmem.NewSessionRepository(), 0)

	handler := cataloghttp.NewHandler(products, application.NewProductValidator(0), currency.Default(), 10)

	r := gin.New()
	r.Use(authhttp.SessionMiddleware(auth, "catalog_session"))
	handler.RegisterRoutes(r.Group("/api"))

	return &apiFixture{router: r, auth: auth}
}

// loginAs 注册并登录一个用户，返回会话 cookie
func (f *apiFixture) loginAs(t *testing.T, email string, isAdmin bool) *http.Cookie {
	t.Helper()
	ctx := t.Context()

	_, err := f.auth.Register(ctx, authapp.RegisterCommand{
		Name:     "Test User",
		Email:    email,
		Password: "password",
		IsAdmin:  isAdmin,
	})
	require.NoError(t, err)

	session, err := f.auth.Login(ctx, authapp.LoginCommand{Email: email, Password: "password"})
	require.NoError(t, err)

	return &http.Cookie{Name: "catalog_session", Value: session.Token}
}

func (f *apiFixture) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAPICreateAndShow(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/products", `{"name":"Product 123","price":1234}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID    uint    `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.Data.ID)
	assert.Equal(t, "Product 123", created.Data.Name)
	assert.Equal(t, 1234.0, created.Data.Price)

	w = f.do(http.MethodGet, fmt.Sprintf("/api/products/%d", created.Data.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Product 123")
}

func TestAPICreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"missing name", `{"price":100}`, []string{"name"}},
		{"missing price", `{"name":"Product"}`, []string{"price"}},
		{"both missing", `{}`, []string{"name", "price"}},
		{"non-numeric price", `{"name":"Product","price":"abc"}`, []string{"price"}},
		{"NaN price", `{"name":"Product","price":"NaN"}`, []string{"price"}},
		{"price over ceiling", `{"name":"Product","price":1234567}`, []string{"price"}},
		{"blank name", `{"name":"   ","price":100}`, []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			w := f.do(http.MethodPost, "/api/products", tt.body, nil)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var resp struct {
				Errors []struct {
					Field  string `json:"field"`
					Reason string `json:"reason"`
				} `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			got := make([]string, 0, len(resp.Errors))
			for _, e := range resp.Errors {
				got = append(got, e.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestAPIUpdate(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/products", `{"name":"Before","price":100}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(http.MethodPut, "/api/products/1", `{"name":"After","price":200}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "After")

	w = f.do(http.MethodPut, "/api/products/42", `{"name":"Missing","price":200}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIDeleteRequiresAuthentication(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/products", `{"name":"Product","price":100}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// 匿名删除被拒
	w = f.do(http.MethodDelete, "/api/products/1", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodGet, "/api/products/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code, "product must survive rejected delete")

	// 普通登录用户即可删除，无需管理员
	cookie := f.loginAs(t, "user@example.com", false)
	w = f.do(http.MethodDelete, "/api/products/1", "", cookie)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, "/api/products/1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIDeleteNotFound(t *testing.T) {
	f := newAPIFixture(t)
	cookie := f.loginAs(t, "user@example.com", false)

	w := f.do(http.MethodDelete, "/api/products/42", "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIListPagination(t *testing.T) {
	f := newAPIFixture(t)

	for i := 1; i <= 11; i++ {
		body := fmt.Sprintf(`{"name":"Product %d","price":%d}`, i, i)
		w := f.do(http.MethodPost, "/api/products", body, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var page struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
		Total int `json:"total"`
	}

	w := f.do(http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 11, page.Total)
	require.Len(t, page.Data, 10)
	assert.Equal(t, "Product 1", page.Data[0].Name)
	assert.Equal(t, "Product 10", page.Data[9].Name)

	w = f.do(http.MethodGet, "/api/products?page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Product 11", page.Data[0].Name)
}

func TestAPIShowNotFound(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodGet, "/api/products/42", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/products/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIConvertCurrency(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodGet, "/api/currency/convert?amount=100&from=usd&to=eur", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Result float64 `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 98.0, resp.Data.Result)

	// 不支持的货币对返回 0
	w = f.do(http.MethodGet, "/api/currency/convert?amount=100&from=usd&to=gbp", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp.Data.Result)

	w = f.do(http.MethodGet, "/api/currency/convert?amount=abc&from=usd&to=eur", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
