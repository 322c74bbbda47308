package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/blogsite/internal/auth"
	"github.com/blogsite/internal/db"
	"github.com/blogsite/internal/forms"
	"github.com/blogsite/internal/service"
	"github.com/gin-gonic/gin"
)

const msgTitleTaken = "A post with this title already exists."

// ShowNewPost 渲染新建文章表单（仅管理员）
func (a *API) ShowNewPost(c *gin.Context) {
	a.renderPostForm(c, http.StatusOK, nil, forms.CreatePost{}, nil)
}

// CreatePost 保存新文章，日期取当天，作者为当前管理员。
func (a *API) CreatePost(c *gin.Context) {
	var form forms.CreatePost
	if errs := forms.Bind(c, &form); errs != nil {
		a.renderPostForm(c, http.StatusUnprocessableEntity, nil, form, errs)
		return
	}

	// AdminOnly has already run, so the user is present.
	user, _ := auth.CurrentUser(c)
	post, err := a.posts.Create(c.Request.Context(), user.ID, postInput(form))
	if err != nil {
		if errors.Is(err, service.ErrTitleTaken) {
			a.renderPostForm(c, http.StatusConflict, nil, form, titleTakenErrors())
			return
		}
		a.serverError(c, err)
		return
	}

	a.log.InfoContext(c.Request.Context(), "post created", slog.Uint64("post_id", uint64(post.ID)))
	c.Redirect(http.StatusFound, "/")
}

// ShowEditPost 渲染预填充的编辑表单
func (a *API) ShowEditPost(c *gin.Context) {
	post, ok := a.loadPost(c)
	if !ok {
		return
	}

	a.renderPostForm(c, http.StatusOK, post, forms.CreatePost{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}, nil)
}

// UpdatePost overwrites title, subtitle, image and body of an existing post.
func (a *API) UpdatePost(c *gin.Context) {
	post, ok := a.loadPost(c)
	if !ok {
		return
	}

	var form forms.CreatePost
	if errs := forms.Bind(c, &form); errs != nil {
		a.renderPostForm(c, http.StatusUnprocessableEntity, post, form, errs)
		return
	}

	updated, err := a.posts.Update(c.Request.Context(), post.ID, postInput(form))
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		a.NotFound(c)
		return
	case errors.Is(err, service.ErrTitleTaken):
		a.renderPostForm(c, http.StatusConflict, post, form, titleTakenErrors())
		return
	case err != nil:
		a.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(updated.ID))
}

// DeletePost 删除文章及其评论
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.NotFound(c)
		return
	}

	if err := a.posts.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.NotFound(c)
			return
		}
		a.serverError(c, err)
		return
	}

	a.log.InfoContext(c.Request.Context(), "post deleted", slog.Uint64("post_id", uint64(id)))
	c.Redirect(http.StatusFound, "/")
}

// renderPostForm serves both the new and the edit page; post is nil when creating.
func (a *API) renderPostForm(c *gin.Context, status int, post *db.Post, form forms.CreatePost, errs forms.Errors) {
	title := "New Post"
	if post != nil {
		title = "Edit Post"
	}
	a.renderHTML(c, status, "make-post.html", gin.H{
		"title":   title,
		"editing": post != nil,
		"post":    post,
		"form":    form,
		"errors":  errs,
	})
}

func postInput(form forms.CreatePost) service.PostInput {
	return service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		ImgURL:   form.ImgURL,
		Body:     form.Body,
	}
}

func titleTakenErrors() forms.Errors {
	return forms.Errors{{Field: "title", Message: msgTitleTaken}}
}
