// Package handler はjarフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"jar_backend/internal/api"
	"jar_backend/internal/feature/jar/domain"
	"jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/feature/jar/usecase"
	"jar_backend/internal/platform/http/response"
	jwtmw "jar_backend/internal/platform/jwt"
)

// JarUsecase はjarエントリのユースケースを定義します。
type JarUsecase interface {
	Create(ctx context.Context, userID string, in usecase.CreateInput) (*entity.JarEntry, error)
	List(ctx context.Context, userID, familyID, filter string) ([]domain.DisplayEntry, error)
	Get(ctx context.Context, userID, id string) (*entity.JarEntry, error)
	Update(ctx context.Context, userID, id string, in usecase.UpdateInput) (*entity.JarEntry, error)
	Delete(ctx context.Context, userID, id string) error
	Respond(ctx context.Context, userID, entryID, content string) (*entity.JarEntry, error)
	Summary(ctx context.Context, userID, familyID, period string) ([]domain.TypeCount, error)
	Timeline(ctx context.Context, userID, familyID string) (*usecase.Timeline, error)
}

// JarHandler はjarエントリAPIのHTTPリクエストを処理します。
type JarHandler struct {
	jar JarUsecase
}

// NewJarHandler は JarHandler を生成します。
func NewJarHandler(jar JarUsecase) *JarHandler {
	return &JarHandler{jar: jar}
}

// Create handles POST /api/jar-entries.
func (h *JarHandler) Create(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	var req api.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	in := usecase.CreateInput{EntryType: entity.EntryType(req.EntryType), Content: req.Content}
	if md := req.Metadata; md != nil {
		in.Author = deref(md.Author)
		in.Target = deref(md.Target)
		in.Context = md.Context
		in.ResponseTo = deref(md.ResponseTo)
	}

	e, err := h.jar.Create(c.Request.Context(), s.UserID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ToEntryResponse(e))
}

// List handles GET /api/jar-entries?family_id=&filter=.
func (h *JarHandler) List(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	display, err := h.jar.List(c.Request.Context(), s.UserID, c.Query("family_id"), c.Query("filter"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toDisplayList(display))
}

// Get handles GET /api/jar-entries/:id.
func (h *JarHandler) Get(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	e, err := h.jar.Get(c.Request.Context(), s.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ToEntryResponse(e))
}

// Update handles PUT /api/jar-entries/:id.
func (h *JarHandler) Update(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	var req api.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	in := usecase.UpdateInput{Content: req.Content}
	if req.Metadata != nil {
		in.Context = req.Metadata.Context
		in.SetContext = true
	}
	e, err := h.jar.Update(c.Request.Context(), s.UserID, c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ToEntryResponse(e))
}

// Delete handles DELETE /api/jar-entries/:id.
func (h *JarHandler) Delete(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	if err := h.jar.Delete(c.Request.Context(), s.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Respond handles POST /api/jar-entries/:id/respond.
func (h *JarHandler) Respond(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	var req api.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	e, err := h.jar.Respond(c.Request.Context(), s.UserID, c.Param("id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ToEntryResponse(e))
}

// Summary handles GET /api/jar-entries/summary/data?family_id=&period=.
func (h *JarHandler) Summary(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	counts, err := h.jar.Summary(c.Request.Context(), s.UserID, c.Query("family_id"), c.DefaultQuery("period", usecase.PeriodWeekly))
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]api.SummaryItem, 0, len(counts))
	for _, tc := range counts {
		items = append(items, api.SummaryItem{EntryType: string(tc.EntryType), Count: tc.Count})
	}
	response.OK(c, items)
}

// Timeline handles GET /api/jar-entries/timeline/data?family_id=.
func (h *JarHandler) Timeline(c *gin.Context) {
	s, ok := jwtmw.MustSession(c)
	if !ok {
		return
	}
	tl, err := h.jar.Timeline(c.Request.Context(), s.UserID, c.Query("family_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, api.TimelineResponse{
		Entries: toDisplayList(tl.Entries),
		Pending: toDisplayList(tl.Pending),
		Stats:   toStats(tl.Stats),
	})
}

// ToEntryResponse converts a stored entry to its API shape.
func ToEntryResponse(e *entity.JarEntry) api.EntryResponse {
	md := e.Meta()
	return api.EntryResponse{
		Id:        e.ID,
		FamilyId:  e.FamilyID,
		UserId:    e.UserID,
		EntryType: string(e.EntryType),
		Content:   e.Content,
		Metadata: api.EntryMetadata{
			Author:     optional(md.Author),
			Target:     optional(md.Target),
			Context:    md.Context,
			ResponseTo: optional(md.ResponseTo),
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toDisplayList(display []domain.DisplayEntry) []api.DisplayEntry {
	out := make([]api.DisplayEntry, 0, len(display))
	for _, d := range display {
		out = append(out, api.DisplayEntry{
			Id:          d.ID,
			Type:        string(d.Type),
			Category:    string(d.Category),
			Label:       d.Info.Label,
			Description: d.Info.Description,
			Icon:        d.Info.Icon,
			Author:      d.Author,
			Target:      d.Target,
			Text:        d.Text,
			Context:     d.Context,
			Response:    d.Response,
			RespondedAt: d.RespondedAt,
			Pending:     d.Pending,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out
}

func toStats(st domain.Stats) api.Stats {
	timeline := make([]api.TimelineBucket, 0, len(st.Timeline))
	for _, b := range st.Timeline {
		timeline = append(timeline, api.TimelineBucket{
			Label:   b.Label(),
			Date:    openapi_types.Date{Time: b.Date},
			Count:   b.Count(),
			Entries: toDisplayList(b.Entries),
		})
	}
	return api.Stats{
		Counts: api.EntryCounts{
			Total:        st.Counts.Total,
			GoodThing:    st.Counts.GoodThing,
			Gratitude:    st.Counts.Gratitude,
			BetterChoice: st.Counts.BetterChoice,
		},
		GratitudeByVoice: api.GratitudeByVoice{
			Parents:    st.Voices.Parents,
			ChildToDad: st.Voices.ChildToDad,
			ChildToMom: st.Voices.ChildToMom,
		},
		WeeklyEntries: toDisplayList(st.WeeklyEntries),
		Timeline:      timeline,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
