package handler_test

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/blogsite/internal/db"
	"github.com/blogsite/internal/forms"
	"github.com/blogsite/internal/handler"
	"github.com/blogsite/internal/mail"
	"github.com/gin-gonic/gin"
)

func TestShowPostMissingReturnsNotFound(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/post/42", "/post/abc"} {
		rr := app.do(http.MethodGet, path, nil, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestAnonymousCommentRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	admin := app.register("admin@x.com", "Admin")
	app.createPost(admin, "Hello")

	rr := app.do(http.MethodPost, "/post/1", url.Values{"comment": {"Nice post"}}, nil)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if got := app.countRows(&db.Comment{}); got != 0 {
		t.Fatalf("expected no comment rows, got %d", got)
	}

	flashes, _ := app.followFlashes("/login", rr.Result().Cookies())
	if len(flashes) != 1 || flashes[0] != "Please Login or Register to Submit your Comment!" {
		t.Fatalf("unexpected flashes %v", flashes)
	}
}

func TestAuthenticatedCommentIsStoredAndRendered(t *testing.T) {
	app := newTestApp(t)
	admin := app.register("admin@x.com", "Admin")
	reader := app.register("reader@x.com", "Reader")
	app.createPost(admin, "Hello")

	rr := app.do(http.MethodPost, "/post/1", url.Values{"comment": {"**Nice** post<script>x()</script>"}}, reader)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/post/1" {
		t.Fatalf("expected redirect back to the post, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if got := app.countRows(&db.Comment{}); got != 1 {
		t.Fatalf("expected one comment row, got %d", got)
	}

	rr = app.do(http.MethodGet, "/post/1", nil, reader)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	name, data := app.html.last()
	if name != "post.html" {
		t.Fatalf("expected post template, got %s", name)
	}

	views := commentViews(t, data)
	if len(views) != 1 {
		t.Fatalf("expected one rendered comment, got %d", len(views))
	}
	html := string(views[0].HTML)
	if !strings.Contains(html, "<strong>Nice</strong>") || strings.Contains(html, "<script") {
		t.Fatalf("unexpected comment html %q", html)
	}
	if views[0].AuthorName != "Reader" {
		t.Fatalf("unexpected comment author %q", views[0].AuthorName)
	}
	if views[0].Avatar != handler.GravatarURL("reader@x.com") || !strings.Contains(views[0].Avatar, "d=retro") {
		t.Fatalf("unexpected avatar %q", views[0].Avatar)
	}
}

func TestCommentOnMissingPost(t *testing.T) {
	app := newTestApp(t)
	reader := app.register("reader@x.com", "Reader")

	rr := app.do(http.MethodPost, "/post/9", url.Values{"comment": {"hello?"}}, reader)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if got := app.countRows(&db.Comment{}); got != 0 {
		t.Fatalf("expected no comment rows, got %d", got)
	}
}

func TestEmptyCommentRerendersPost(t *testing.T) {
	app := newTestApp(t)
	admin := app.register("admin@x.com", "Admin")
	app.createPost(admin, "Hello")

	rr := app.do(http.MethodPost, "/post/1", url.Values{"comment": {"  "}}, admin)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	_, data := app.html.last()
	errs, _ := data["errors"].(forms.Errors)
	if !errs.Has("comment") {
		t.Fatalf("expected comment error, got %v", errs)
	}
}

func TestContact(t *testing.T) {
	validForm := url.Values{
		"name":    {"Ann"},
		"email":   {"ann@x.com"},
		"phone":   {"555"},
		"message": {"Hi"},
	}

	tests := []struct {
		name        string
		mailErr     error
		form        url.Values
		wantStatus  int
		wantHeading string
		wantSent    int
	}{
		{"success", nil, validForm, http.StatusOK, "Successfully Send Your Message", 1},
		{"auth failure shown as success", mail.ErrAuthentication, validForm, http.StatusOK, "Successfully Send Your Message", 1},
		{"delivery failure", errors.New("connection refused"), validForm, http.StatusInternalServerError, "", 1},
		{"invalid form", nil, url.Values{"name": {"Ann"}}, http.StatusUnprocessableEntity, "Contact Me", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.mailer.err = tt.mailErr

			rr := app.do(http.MethodPost, "/contact", tt.form, nil)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			if len(app.mailer.sent) != tt.wantSent {
				t.Fatalf("expected %d sent messages, got %d", tt.wantSent, len(app.mailer.sent))
			}
			if tt.wantHeading == "" {
				return
			}
			_, data := app.html.last()
			if data["heading"] != tt.wantHeading {
				t.Fatalf("expected heading %q, got %v", tt.wantHeading, data["heading"])
			}
		})
	}
}

func TestShowContactHeading(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(http.MethodGet, "/contact", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	_, data := app.html.last()
	if data["heading"] != "Contact Me" {
		t.Fatalf("unexpected heading %v", data["heading"])
	}
}

func commentViews(t *testing.T, data gin.H) []handler.CommentView {
	t.Helper()
	views, ok := data["comments"].([]handler.CommentView)
	if !ok {
		t.Fatalf("unexpected comments payload %T", data["comments"])
	}
	return views
}
