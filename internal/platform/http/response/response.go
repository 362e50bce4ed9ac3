// Package response はJSONエンベロープの書き出しとエラー種別からHTTPステータスへの変換を提供します。
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"jar_backend/internal/api"
	"jar_backend/internal/shared/apperr"
)

// OK は200と data を返します。
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, api.Envelope{Status: api.StatusSuccess, Data: data})
}

// Created は201と data を返します。
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, api.Envelope{Status: api.StatusSuccess, Data: data})
}

// Message は200と確認メッセージを返します。
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, api.Envelope{Status: api.StatusSuccess, Message: msg})
}

// StatusFor maps an error kind to an HTTP status code.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error はエラーを分類してレスポンスを書き出します。
// 分類されていないエラーは詳細をログに残し、呼び出し元には汎用メッセージだけを返します。
func Error(c *gin.Context, err error) {
	status, body := build(c, err)
	c.JSON(status, body)
}

// Abort は Error と同じレスポンスを返し、後続ハンドラーを止めます。
func Abort(c *gin.Context, err error) {
	status, body := build(c, err)
	c.AbortWithStatusJSON(status, body)
}

func build(c *gin.Context, err error) (int, api.Envelope) {
	ae, ok := apperr.As(err)
	if !ok {
		slog.Error("unhandled error",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"remote_addr", c.ClientIP(),
		)
		return http.StatusInternalServerError, api.Envelope{Status: api.StatusError, Message: "Internal server error"}
	}

	status := StatusFor(ae.Kind)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "kind", ae.Kind.String(), "path", c.FullPath())
	} else {
		slog.Warn("request rejected", "error", err, "kind", ae.Kind.String(), "path", c.FullPath(), "remote_addr", c.ClientIP())
	}
	return status, api.Envelope{Status: api.StatusError, Message: ae.Message, Details: ae.Details}
}

// BindError converts a gin binding failure into a 422 validation response.
func BindError(c *gin.Context, err error) {
	Error(c, ValidationFromBind(err))
}

// ValidationFromBind turns binding errors into an apperr validation error
// with one detail per invalid field.
func ValidationFromBind(err error) *apperr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, apperr.FieldError{Field: fe.Field(), Message: describe(fe)})
		}
		return apperr.Validation("Validation failed", details...)
	}
	if errors.Is(err, openapi_types.ErrValidationEmail) {
		return apperr.Validation("Validation failed", apperr.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	return apperr.Validation("Invalid request body", apperr.FieldError{Field: "body", Message: err.Error()})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid":
		return "must be a UUID"
	}
	return "is invalid"
}

// UseJSONFieldNames makes validation errors report JSON field names
// instead of Go struct field names.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}
