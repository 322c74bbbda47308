package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/blogsite/internal/db"
	"github.com/blogsite/internal/forms"
)

func TestRegisterLogsInNewUser(t *testing.T) {
	app := newTestApp(t)

	cookies := app.register("a@x.com", "A")

	if got := app.countRows(&db.User{}); got != 1 {
		t.Fatalf("expected one user row, got %d", got)
	}

	_, data := app.followFlashes("/", cookies)
	if loggedIn, _ := data["loggedIn"].(bool); !loggedIn {
		t.Fatalf("expected session to be authenticated after registering")
	}
	user, _ := data["currentUser"].(*db.User)
	if user == nil || user.Email != "a@x.com" {
		t.Fatalf("unexpected current user %+v", user)
	}
}

func TestRegisterDuplicateEmailFlashes(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "A")

	rr := app.do(http.MethodPost, "/register", url.Values{
		"email":    {"a@x.com"},
		"password": {"zyxwvuts"},
		"name":     {"Again"},
	}, nil)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/register" {
		t.Fatalf("expected redirect to /register, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if got := app.countRows(&db.User{}); got != 1 {
		t.Fatalf("expected a single user row, got %d", got)
	}

	flashes, data := app.followFlashes("/register", rr.Result().Cookies())
	if len(flashes) != 1 || flashes[0] != "The Email you have entered has been taken, try to use a different Email!" {
		t.Fatalf("unexpected flashes %v", flashes)
	}
	if loggedIn, _ := data["loggedIn"].(bool); loggedIn {
		t.Fatalf("expected anonymous session")
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(http.MethodPost, "/register", url.Values{
		"email":    {"not-an-email"},
		"password": {"short"},
		"name":     {"   "},
	}, nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	name, data := app.html.last()
	if name != "register.html" {
		t.Fatalf("expected register template, got %s", name)
	}
	errs, _ := data["errors"].(forms.Errors)
	for _, field := range []string{"email", "password", "name"} {
		if !errs.Has(field) {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
	if form, _ := data["form"].(forms.Register); form.Password != "" {
		t.Fatalf("password must not be echoed back")
	}
	if got := app.countRows(&db.User{}); got != 0 {
		t.Fatalf("expected no user rows, got %d", got)
	}
}

func TestLoginFailuresKeepSessionAnonymous(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "A")

	tests := []struct {
		name     string
		email    string
		password string
		flash    string
	}{
		{"unknown email", "nobody@x.com", "abcdefgh", "Sorry, Wrong Email, Try to use a different Email!"},
		{"wrong password", "a@x.com", "abcdefgX", "Sorry, Wrong Password, Try to use a different Password!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(http.MethodPost, "/login", url.Values{
				"email":    {tt.email},
				"password": {tt.password},
			}, nil)
			if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login" {
				t.Fatalf("expected redirect to /login, got %d %q", rr.Code, rr.Header().Get("Location"))
			}

			flashes, data := app.followFlashes("/login", rr.Result().Cookies())
			if len(flashes) != 1 || flashes[0] != tt.flash {
				t.Fatalf("unexpected flashes %v", flashes)
			}
			if loggedIn, _ := data["loggedIn"].(bool); loggedIn {
				t.Fatalf("expected anonymous session")
			}
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "A")

	rr := app.do(http.MethodPost, "/login", url.Values{
		"email":    {"a@x.com"},
		"password": {"abcdefgh"},
	}, nil)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	cookies := rr.Result().Cookies()

	_, data := app.followFlashes("/", cookies)
	if loggedIn, _ := data["loggedIn"].(bool); !loggedIn {
		t.Fatalf("expected authenticated session")
	}

	rr = app.do(http.MethodGet, "/logout", nil, cookies)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Fatalf("expected logout redirect to /, got %d", rr.Code)
	}

	_, data = app.followFlashes("/", rr.Result().Cookies())
	if loggedIn, _ := data["loggedIn"].(bool); loggedIn {
		t.Fatalf("expected anonymous session after logout")
	}
}
