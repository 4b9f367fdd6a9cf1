package router

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common"
	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/web"
)

// SetWebRouter must run after SetApiRouter so api routes stay uncompressed.
func SetWebRouter(router *gin.Engine, cfg *config.Config) {
	router.SetHTMLTemplate(template.Must(template.ParseFS(web.FS, "index.html")))
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(static.Serve("/static", common.EmbedFolder(web.FS, "static")))
	router.GET("/", func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Version":        config.Version,
			"PromptTemplate": cfg.PromptTemplate,
			"Endpoint":       "/api/describe-image",
		})
	})
}
