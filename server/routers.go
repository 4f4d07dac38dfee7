package storefrontserver

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lamunshop/storefront-api/internal/shared/auth"
	apierrors "github.com/lamunshop/storefront-api/internal/shared/errors"
)

// ApiHandleFunctions groups the per-context HTTP APIs the router mounts.
type ApiHandleFunctions struct {
	OrderAPI   OrderAPI
	ProductAPI ProductAPI
}

// RouterConfig carries transport-level settings.
type RouterConfig struct {
	// JWTSecret signs the bearer tokens that authenticate order endpoints.
	JWTSecret string
	// SlipDir, when set, is served read-only under SlipRoute so uploaded
	// payment proofs stay web-reachable.
	SlipDir string
	// SlipRoute is the public path prefix slips are served from.
	SlipRoute string
}

// NewRouter mounts all routes on a fresh gin engine. Unknown methods on known
// paths answer 405 with an Allow header rather than 404.
func NewRouter(handlers ApiHandleFunctions, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		if methods := allowedMethods(router.Routes(), c.Request.URL.Path); len(methods) > 0 {
			c.Header("Allow", strings.Join(methods, ", "))
		}
		apierrors.Respond(c, apierrors.ProblemDetail{
			Type:   "/problems/method-not-allowed",
			Title:  "Method Not Allowed",
			Status: http.StatusMethodNotAllowed,
		})
	})
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail("no such route"))
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SlipDir != "" && cfg.SlipRoute != "" {
		router.Static(cfg.SlipRoute, cfg.SlipDir)
	}

	v1 := router.Group("/v1")
	{
		products := v1.Group("/products")
		products.GET("", handlers.ProductAPI.ListProducts)
		products.GET("/:productId", handlers.ProductAPI.GetProduct)

		orders := v1.Group("/orders")
		orders.Use(auth.Middleware(cfg.JWTSecret))
		orders.POST("", handlers.OrderAPI.PlaceOrder)
		orders.GET("", handlers.OrderAPI.ListOrders)
		orders.GET("/:orderId", handlers.OrderAPI.GetOrder)
		orders.POST("/:orderId/slip", handlers.OrderAPI.UploadSlip)
	}

	return router
}

// allowedMethods lists the methods registered for the path that answered 405.
func allowedMethods(routes gin.RoutesInfo, path string) []string {
	var methods []string
	for _, route := range routes {
		if routePathMatches(route.Path, path) {
			methods = append(methods, route.Method)
		}
	}
	sort.Strings(methods)
	return methods
}

func routePathMatches(template, path string) bool {
	tparts := strings.Split(template, "/")
	pparts := strings.Split(path, "/")
	if len(tparts) != len(pparts) {
		return false
	}
	for i, part := range tparts {
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		if part != pparts[i] {
			return false
		}
	}
	return true
}
