package http

import (
	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/productcatalog/internal/access"
	"github.com/wyfcoding/productcatalog/internal/auth/application"
)

// ActorKey gin context key，存放当前请求解析出的 actor
const ActorKey = "actor"

// SessionMiddleware 将会话 cookie 解析为 actor 放入 gin context。
// 只做身份解析，不做任何放行判定；授权由各网关显式调用 access.Allow。
func SessionMiddleware(svc *application.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err == nil && token != "" {
			session, err := svc.SessionByToken(c.Request.Context(), token)
			if err == nil && session != nil {
				c.Set(ActorKey, access.Actor{
					Authenticated: true,
					Admin:         session.IsAdmin,
					UserID:        session.UserID,
					Email:         session.Email,
				})
			}
		}
		c.Next()
	}
}

// CurrentActor 返回当前请求的 actor；未登录时为匿名
func CurrentActor(c *gin.Context) access.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(access.Actor); ok {
			return actor
		}
	}
	return access.Anonymous
}
