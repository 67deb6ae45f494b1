package server

import (
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/auth"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/config"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/user"
)

// CookieName 登录态 Cookie 名称
const CookieName = "if_token"

// cookieTTL 登录态 Cookie 有效期
const cookieTTL = 7 * 24 * time.Hour

// extractToken 依次尝试 Authorization 头（可带 Bearer 前缀）与 Cookie
func extractToken(ctx iris.Context) string {
	if h := ctx.GetHeader("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ctx.GetCookie(CookieName)
}

// newAuthMiddleware 构建鉴权中间件：解析 JWT 并把身份写入请求上下文。
// Redis 缓存命中时跳过验签，缓存故障静默降级为正常解析。
func newAuthMiddleware(cfg *config.Config, redisClient radix.Client) iris.Handler {
	ring := auth.NewHashRing(cfg.Auth.Nodes, cfg.Auth.HashReplicas)
	cache := auth.NewTokenCache(redisClient, ring,
		time.Duration(cfg.Auth.TokenCacheTTLSeconds)*time.Second)

	return func(ctx iris.Context) {
		token := extractToken(ctx)
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"message": "Unauthorized"})
			return
		}

		claims, hit, err := cache.Get(ctx.Request().Context(), token)
		if err != nil {
			zap.L().Warn("token cache get failed", zap.Error(err))
		}
		if !hit {
			claims, err = auth.ParseToken(&cfg.JWT, token)
			if err != nil {
				ctx.StopWithJSON(401, iris.Map{"message": "Unauthorized"})
				return
			}
			if err := cache.Set(ctx.Request().Context(), token, claims); err != nil {
				zap.L().Warn("token cache set failed", zap.Error(err))
			}
		}

		ctx.Values().Set("user_id", claims.UserID)
		ctx.Values().Set("login", claims.Login)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	}
}

// requireAdmin 仅放行 ADMIN 角色
func requireAdmin(ctx iris.Context) {
	if ctx.Values().GetStringDefault("role", "") != user.RoleAdmin {
		ctx.StopWithJSON(403, iris.Map{"message": "Forbidden"})
		return
	}
	ctx.Next()
}
