package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blogsite/internal/db"
	"github.com/blogsite/internal/handler"
	"github.com/blogsite/internal/mail"
	"github.com/blogsite/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubHTMLRender records the last template rendered instead of executing it.
type stubHTMLRender struct {
	mu   sync.Mutex
	name string
	data gin.H
}

type stubHTMLInstance struct{}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
	r.data, _ = data.(gin.H)
	return stubHTMLInstance{}
}

func (r *stubHTMLRender) last() (string, gin.H) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, r.data
}

func (stubHTMLInstance) Render(http.ResponseWriter) error { return nil }

func (stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []mail.Message
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

type testApp struct {
	t      *testing.T
	engine *gin.Engine
	store  *db.Store
	html   *stubHTMLRender
	mailer *fakeSender
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })

	store := db.NewStore(gdb)
	mailer := &fakeSender{}
	api := handler.NewAPI(store, handler.Options{Mailer: mailer, Mailbox: "owner@example.com"})

	engine := router.SetupRouter(api, router.Options{SessionSecret: "test-secret"})
	html := &stubHTMLRender{}
	engine.HTMLRender = html

	return &testApp{t: t, engine: engine, store: store, html: html, mailer: mailer}
}

func (a *testApp) do(method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	a.engine.ServeHTTP(rr, req)
	return rr
}

// register creates an account and returns its session cookies.
func (a *testApp) register(email, name string) []*http.Cookie {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/register", url.Values{
		"email":    {email},
		"password": {"abcdefgh"},
		"name":     {name},
	}, nil)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		a.t.Fatalf("register %s: expected redirect to /, got %d %q", email, rr.Code, rr.Header().Get("Location"))
	}
	return rr.Result().Cookies()
}

func (a *testApp) createPost(cookies []*http.Cookie, title string) {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/new-post", url.Values{
		"title":    {title},
		"subtitle": {"Subtitle"},
		"img_url":  {"https://example.com/img.jpg"},
		"body":     {"<p>Body</p>"},
	}, cookies)
	if rr.Code != http.StatusFound {
		a.t.Fatalf("create post %q: expected 302, got %d", title, rr.Code)
	}
}

func (a *testApp) countRows(model any) int64 {
	a.t.Helper()
	var total int64
	if err := a.store.DB().Model(model).Count(&total).Error; err != nil {
		a.t.Fatalf("count rows: %v", err)
	}
	return total
}

// followFlashes renders target with cookies and returns the flashed messages.
func (a *testApp) followFlashes(target string, cookies []*http.Cookie) ([]string, gin.H) {
	a.t.Helper()
	rr := a.do(http.MethodGet, target, nil, cookies)
	if rr.Code != http.StatusOK {
		a.t.Fatalf("GET %s: expected 200, got %d", target, rr.Code)
	}
	_, data := a.html.last()
	flashes, _ := data["flashes"].([]string)
	return flashes, data
}
