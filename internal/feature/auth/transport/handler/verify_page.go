package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jar_backend/internal/platform/http/response"
	"jar_backend/internal/shared/apperr"
)

// PageConfig holds what the HTML landing page needs.
type PageConfig struct {
	JarName      string
	ClientAppURL string
}

type verifyPage struct {
	Success     bool
	JarName     string
	Heading     string
	Message     string
	ActionURL   string
	ActionLabel string
}

var verifyPageTmpl = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>Email verification | {{.JarName}}</title>
    <style>
      body { margin: 0; min-height: 100vh; display: flex; align-items: center; justify-content: center; padding: 24px;
        font-family: 'Inter', -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; color: #0f172a;
        background: linear-gradient(135deg, #f0f9ff, #ffffff 45%, #f0fdf4); }
      .card { width: 100%; max-width: 420px; background: rgba(255, 255, 255, 0.92); border-radius: 28px;
        padding: 40px 36px; text-align: center; box-shadow: 0 32px 60px -48px rgba(15, 23, 42, 0.45); }
      .badge { display: inline-flex; width: 72px; height: 72px; border-radius: 24px; align-items: center;
        justify-content: center; margin-bottom: 24px; font-size: 28px; font-weight: 700; color: #ffffff;
        background: linear-gradient(135deg, {{if .Success}}#16a34a{{else}}#ef4444{{end}}, #0ea5e9); }
      h1 { margin: 0 0 12px; font-size: 28px; line-height: 1.25; }
      p { margin: 0; font-size: 15px; line-height: 1.6; color: #334155; }
      .action { margin-top: 32px; display: inline-flex; padding: 14px 28px; border-radius: 9999px;
        text-decoration: none; font-weight: 600; font-size: 14px; color: #ffffff; background: #0f172a; }
    </style>
  </head>
  <body>
    <main class="card">
      <div class="badge">{{if .Success}}&#10003;{{else}}!{{end}}</div>
      <h1>{{.Heading}}</h1>
      <p>{{.Message}}</p>
      <a class="action" href="{{.ActionURL}}">{{.ActionLabel}}</a>
    </main>
  </body>
</html>
`))

// VerifyEmailPage handles GET /verify-email?token= and renders HTML instead of JSON.
func (h *AuthHandler) VerifyEmailPage(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("token"))
	if len(raw) < 10 {
		h.renderPage(c, http.StatusBadRequest, verifyPage{
			Heading:     "Verification link is invalid",
			Message:     "The verification link is missing or malformed. Request a new email verification link to continue.",
			ActionLabel: "Return to " + h.page.JarName,
		})
		return
	}

	err := h.auth.VerifyEmail(c.Request.Context(), raw)
	if err == nil {
		h.renderPage(c, http.StatusOK, verifyPage{
			Success:     true,
			Heading:     "Email verified",
			Message:     "Your email address has been confirmed. You can sign in to " + h.page.JarName + " now.",
			ActionLabel: "Go to sign in",
		})
		return
	}

	if ae, ok := apperr.As(err); ok {
		h.renderPage(c, response.StatusFor(ae.Kind), verifyPage{
			Heading:     "Verification failed",
			Message:     ae.Message,
			ActionLabel: "Try again",
		})
		return
	}

	slog.Error("unexpected error while verifying email via link", "error", err)
	h.renderPage(c, http.StatusInternalServerError, verifyPage{
		Heading:     "Something went wrong",
		Message:     "We could not verify your email because of an unexpected error. Please request a new link and try again.",
		ActionLabel: "Return to " + h.page.JarName,
	})
}

func (h *AuthHandler) renderPage(c *gin.Context, status int, p verifyPage) {
	p.JarName = h.page.JarName
	p.ActionURL = h.page.ClientAppURL
	var buf bytes.Buffer
	if err := verifyPageTmpl.Execute(&buf, p); err != nil {
		slog.Error("failed to render verification page", "error", err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
