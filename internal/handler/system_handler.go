package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz reports whether the database answers.
func (a *API) Healthz(c *gin.Context) {
	if err := a.store.Ping(c.Request.Context()); err != nil {
		a.log.ErrorContext(c.Request.Context(), "health check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Forbidden renders the 403 page. It never looks at the caller, so anonymous
// and non-admin visitors receive the same bytes.
func (a *API) Forbidden(c *gin.Context) {
	c.HTML(http.StatusForbidden, "error.html", gin.H{
		"status":  http.StatusForbidden,
		"title":   "Forbidden",
		"message": "You don't have the permission to access the requested resource.",
	})
}

// NotFound renders the 404 page.
func (a *API) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"status":  http.StatusNotFound,
		"title":   "Not Found",
		"message": "The requested URL was not found on the server.",
	})
}

func (a *API) serverError(c *gin.Context, err error) {
	c.Error(err)
	a.log.ErrorContext(c.Request.Context(), "request failed",
		slog.String("path", c.FullPath()),
		slog.String("error", err.Error()),
	)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"status":  http.StatusInternalServerError,
		"title":   "Internal Server Error",
		"message": "The server encountered an internal error and was unable to complete your request.",
	})
}
