package handler

import (
	"log/slog"
	"time"

	"github.com/blogsite/internal/auth"
	"github.com/blogsite/internal/cache"
	"github.com/blogsite/internal/db"
	"github.com/blogsite/internal/forms"
	"github.com/blogsite/internal/mail"
	"github.com/blogsite/internal/service"
	"github.com/gin-gonic/gin"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	store    *db.Store
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	contact  *service.ContactService
	richText *service.RichTextRenderer
	log      *slog.Logger
}

// Options carries the collaborators that are not derived from the store.
type Options struct {
	Mailer  mail.Sender
	Mailbox string
	// Cache is optional; nil disables the rendered rich text cache.
	Cache  *cache.Client
	Logger *slog.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(store *db.Store, opts Options) *API {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &API{
		store:    store,
		users:    service.NewUserService(store),
		posts:    service.NewPostService(store),
		comments: service.NewCommentService(store),
		contact:  service.NewContactService(opts.Mailer, opts.Mailbox),
		richText: service.NewRichTextRenderer(opts.Cache),
		log:      log,
	}
}

// Users exposes the account service; the router hands it to the identity loader.
func (a *API) Users() *service.UserService {
	return a.users
}

// renderHTML 渲染页面并附加当前用户、闪现消息与表单错误等公共字段。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	user, loggedIn := auth.CurrentUser(c)
	payload["currentUser"] = user
	payload["loggedIn"] = loggedIn
	payload["isAdmin"] = loggedIn && user.IsAdmin()
	payload["flashes"] = a.takeFlashes(c)
	payload["year"] = time.Now().Year()
	if _, exists := payload["errors"]; !exists {
		payload["errors"] = forms.Errors(nil)
	}

	c.HTML(status, template, payload)
}
