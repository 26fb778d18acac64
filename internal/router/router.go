package router

import (
	"github.com/dplus/internal/handler"
	"github.com/dplus/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 配置 Gin 引擎、中间件和全部页面路由
func SetupRouter(a *handler.API) *gin.Engine {
	r := gin.New()
	r.Use(handler.RequestID(), handler.RequestLogger(), gin.Recovery())

	// 模板随二进制一起嵌入
	r.SetHTMLTemplate(view.MustTemplates())
	r.StaticFS("/static", view.StaticFS())

	// 运维端点不经过语言和路由中间件
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/robots.txt", a.Robots)
	r.GET("/sitemap.xml", a.SitemapIndex)
	r.GET("/sitemaps/:file", a.SitemapSection)

	pages := r.Group("")
	pages.Use(a.LocaleMiddleware(), a.RoutingMiddleware())
	{
		pages.GET("/locale/:lang", a.SwitchLocale)

		pages.GET("/:country", a.ShowCountry)
		pages.GET("/country/:country", a.ShowCountry)

		pages.GET("/today", a.ShowToday)
		pages.GET("/today/:country", a.ShowToday)
		pages.GET("/week", a.ShowWeek)
		pages.GET("/week/:country", a.ShowWeek)
		pages.GET("/date/:date", a.ShowDate)
		pages.GET("/date/:date/:country", a.ShowDate)
		pages.GET("/category/:slug", a.ShowCategory)
		pages.GET("/category/:slug/:country", a.ShowCategory)

		pages.GET("/city/:city", a.ShowCity)
		pages.GET("/city/:city/:lang", a.ShowCity)

		pages.GET("/event/:id", a.ShowEvent)
		pages.GET("/folder/:id", a.ShowFolder)
		pages.GET("/tag/:tag", a.ShowTag)
		pages.GET("/stag/:id", a.ShowStag)
		pages.GET("/search", a.ShowSearch)
		pages.GET("/nearby", a.ShowNearby)
	}

	// 未匹配的路径同样要先经过规范化，再落到 404 页面
	r.NoRoute(a.LocaleMiddleware(), a.RoutingMiddleware(), a.NotFound)

	return r
}
