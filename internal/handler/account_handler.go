package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/blogsite/internal/auth"
	"github.com/blogsite/internal/forms"
	"github.com/blogsite/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	msgEmailTaken    = "The Email you have entered has been taken, try to use a different Email!"
	msgWrongEmail    = "Sorry, Wrong Email, Try to use a different Email!"
	msgWrongPassword = "Sorry, Wrong Password, Try to use a different Password!"
)

// ShowRegister 渲染注册页面
func (a *API) ShowRegister(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "register.html", gin.H{
		"title": "Register",
		"form":  forms.Register{},
	})
}

// Register creates an account and signs it in.
func (a *API) Register(c *gin.Context) {
	var form forms.Register
	if errs := forms.Bind(c, &form); errs != nil {
		form.Password = ""
		a.renderHTML(c, http.StatusUnprocessableEntity, "register.html", gin.H{
			"title":  "Register",
			"form":   form,
			"errors": errs,
		})
		return
	}

	user, err := a.users.Register(c.Request.Context(), service.RegisterInput{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			a.redirectWithFlash(c, "/register", msgEmailTaken)
			return
		}
		a.serverError(c, err)
		return
	}

	if err := auth.LoginUser(c, user); err != nil {
		a.serverError(c, err)
		return
	}
	a.log.InfoContext(c.Request.Context(), "user registered", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", user.Role))
	c.Redirect(http.StatusFound, "/")
}

// ShowLogin 渲染登录页面
func (a *API) ShowLogin(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Log In",
		"form":  forms.Login{},
	})
}

// Login 校验邮箱与密码；失败时写入闪现消息并回到登录页，会话保持匿名。
func (a *API) Login(c *gin.Context) {
	var form forms.Login
	if errs := forms.Bind(c, &form); errs != nil {
		form.Password = ""
		a.renderHTML(c, http.StatusUnprocessableEntity, "login.html", gin.H{
			"title":  "Log In",
			"form":   form,
			"errors": errs,
		})
		return
	}

	user, err := a.users.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		a.redirectWithFlash(c, "/login", msgWrongEmail)
		return
	case errors.Is(err, service.ErrWrongPassword):
		a.redirectWithFlash(c, "/login", msgWrongPassword)
		return
	case err != nil:
		a.serverError(c, err)
		return
	}

	if err := auth.LoginUser(c, user); err != nil {
		a.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout 结束会话
func (a *API) Logout(c *gin.Context) {
	if err := auth.LogoutUser(c); err != nil {
		a.log.WarnContext(c.Request.Context(), "failed to clear session", slog.String("error", err.Error()))
	}
	c.Redirect(http.StatusFound, "/")
}
