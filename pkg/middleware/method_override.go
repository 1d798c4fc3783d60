package middleware

import (
	"net/http"
	"strings"
)

// MethodOverride 支持 HTML 表单通过 _method 隐藏字段发起 PUT/DELETE。
// 必须包在路由外层：路由按方法匹配，进入 Gin 之后再改写已经太晚。
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ct := r.Header.Get("Content-Type")
			if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
				if err := r.ParseForm(); err == nil {
					switch strings.ToUpper(r.PostFormValue("_method")) {
					case http.MethodPut:
						r.Method = http.MethodPut
					case http.MethodDelete:
						r.Method = http.MethodDelete
					}
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
