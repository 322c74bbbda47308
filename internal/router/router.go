package router

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/blogsite/internal/auth"
	"github.com/blogsite/internal/handler"
	"github.com/blogsite/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionMaxAge = 30 * 24 * 60 * 60

// Options configures the engine around the handler set.
type Options struct {
	SessionSecret string
	CookieSecure  bool
	Logger        *slog.Logger
	// Templates overrides the embedded page set; tests use it to swap in fixtures.
	Templates *template.Template
}

// SetupRouter 配置 Gin 引擎、中间件链与路由表
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.Use(handler.RequestID(), handler.RequestLogger(log), handler.Recovery(log))

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(auth.SessionName, store))
	r.Use(auth.LoadIdentity(api.Users()))

	tmpl := opts.Templates
	if tmpl == nil {
		tmpl = template.Must(web.Templates(handler.TemplateFuncs()))
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", api.Healthz)

	r.GET("/", api.ShowHome)
	r.GET("/about", api.About)

	r.GET("/register", api.ShowRegister)
	r.POST("/register", api.Register)
	r.GET("/login", api.ShowLogin)
	r.POST("/login", api.Login)
	r.GET("/logout", api.Logout)

	r.GET("/post/:id", api.ShowPost)
	r.POST("/post/:id", api.AddComment)

	r.GET("/contact", api.ShowContact)
	r.POST("/contact", api.Contact)

	// 文章管理，仅管理员可访问
	admin := r.Group("")
	admin.Use(auth.AdminOnly(api.Forbidden))
	{
		admin.GET("/new-post", api.ShowNewPost)
		admin.POST("/new-post", api.CreatePost)
		admin.GET("/edit-post/:id", api.ShowEditPost)
		admin.POST("/edit-post/:id", api.UpdatePost)
		admin.GET("/delete/:id", api.DeletePost)
	}

	r.NoRoute(api.NotFound)

	return r
}
