package handler

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/blogsite/internal/forms"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	gravatarSize    = 100
	gravatarRating  = "g"
	gravatarDefault = "retro"
)

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func postPath(id uint) string {
	return "/post/" + strconv.FormatUint(uint64(id), 10)
}

// redirectWithFlash 写入一条闪现消息后跳转。
func (a *API) redirectWithFlash(c *gin.Context, location, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		a.log.WarnContext(c.Request.Context(), "failed to store flash message", slog.String("error", err.Error()))
	}
	c.Redirect(http.StatusFound, location)
}

func (a *API) takeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		a.log.WarnContext(c.Request.Context(), "failed to clear flash messages", slog.String("error", err.Error()))
	}

	messages := make([]string, 0, len(raw))
	for _, item := range raw {
		if msg, ok := item.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// GravatarURL builds the avatar shown next to a comment author.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	query := url.Values{}
	query.Set("s", strconv.Itoa(gravatarSize))
	query.Set("d", gravatarDefault)
	query.Set("r", gravatarRating)
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + query.Encode()
}

// TemplateFuncs are the helpers every page template may call.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"gravatar": GravatarURL,
		"postPath": postPath,
		"fieldErrors": func(errs forms.Errors, field string) []string {
			return errs.For(field)
		},
	}
}
