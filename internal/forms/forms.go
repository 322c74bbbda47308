// Package forms declares the submission schemas of every write endpoint and
// binds request bodies against them.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// CreatePost is used both to create and to edit a post.
type CreatePost struct {
	Title    string `form:"title" binding:"required,notblank"`
	Subtitle string `form:"subtitle" binding:"required,notblank"`
	ImgURL   string `form:"img_url" binding:"required,notblank,url"`
	Body     string `form:"body" binding:"required,notblank"`
}

type Register struct {
	Email    string `form:"email" binding:"required,notblank,email"`
	Password string `form:"password" binding:"required,notblank,min=8"`
	Name     string `form:"name" binding:"required,notblank"`
}

type Login struct {
	Email    string `form:"email" binding:"required,notblank,email"`
	Password string `form:"password" binding:"required,notblank,min=8"`
}

type Contact struct {
	Name    string `form:"name" binding:"required,notblank"`
	Email   string `form:"email" binding:"required,notblank,email"`
	Phone   string `form:"phone" binding:"required,notblank"`
	Message string `form:"message" binding:"required,notblank"`
}

type Comment struct {
	Comment string `form:"comment" binding:"required,notblank"`
}

// FieldError is a message scoped to one form field. Field is empty for
// problems with the submission as a whole.
type FieldError struct {
	Field   string
	Message string
}

// Errors lists field errors in the order the fields are declared.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// For returns the messages attached to field.
func (e Errors) For(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

// Has reports whether field has at least one error.
func (e Errors) Has(field string) bool {
	return len(e.For(field)) > 0
}

var registerOnce sync.Once

// Bind decodes the submitted form into dst and validates it. It returns nil
// when dst is valid. dst must be a pointer to one of the form structs.
func Bind(c *gin.Context, dst any) Errors {
	registerOnce.Do(registerRules)

	err := c.ShouldBindWith(dst, binding.Form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Message: "The submitted form could not be read."}}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func registerRules() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "url":
		return "Invalid URL."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	default:
		return "Invalid value."
	}
}
