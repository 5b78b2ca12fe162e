package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/pharma-pulse/app/feed"
	"github.com/lysyi3m/pharma-pulse/app/news"
	"github.com/lysyi3m/pharma-pulse/app/reader"
	"github.com/lysyi3m/pharma-pulse/app/tasks"
)

type autoRefreshRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type pageRequest struct {
	Page *int `json:"page" binding:"required"`
}

type pageSizeRequest struct {
	PageSize *int `json:"pageSize" binding:"required"`
}

type toggleSaveRequest struct {
	ArticleID string `json:"articleId" binding:"required"`
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, news.ErrSessionNotFound), errors.Is(err, news.ErrArticleNotFound):
		return http.StatusNotFound
	case errors.Is(err, news.ErrPageOutOfRange),
		errors.Is(err, news.ErrPageSizeNotAllowed),
		errors.Is(err, news.ErrInvalidCriteria):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tasks.ErrQueueFull), errors.Is(err, tasks.ErrSchedulerStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) session(c *gin.Context) (*news.Session, bool) {
	session, err := h.registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return session, true
}

func (h *Handler) sessionView(s *news.Session) SessionView {
	return newSessionView(s.ID, s.Snapshot(), h.now())
}

// CreateSession starts a session and kicks off its first fetch in the
// background.
func (h *Handler) CreateSession(c *gin.Context) {
	session := h.registry.Create()

	if err := h.scheduler.EnqueueTask(tasks.NewRefreshFeedTask(session)); err != nil {
		slog.Warn("Failed to enqueue initial refresh, fetching inline", "session", session.ID, "error", err)
		go session.Refresh(context.Background())
	}

	c.JSON(http.StatusCreated, gin.H{"id": session.ID})
}

func (h *Handler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.sessionView(session))
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.registry.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateCriteria(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var update news.CriteriaUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := session.SetCriteria(update); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.sessionView(session))
}

func (h *Handler) RefreshSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	// The fetch outlives the caller; a disconnect must not clear the feed.
	state := session.Refresh(context.WithoutCancel(c.Request.Context()))

	c.JSON(http.StatusOK, newFeedStateView(state))
}

func (h *Handler) SetAutoRefresh(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req autoRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session.SetAutoRefresh(*req.Enabled)

	c.JSON(http.StatusOK, gin.H{"autoRefresh": session.AutoRefresh()})
}

func (h *Handler) SetPage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := session.SetPage(*req.Page); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.sessionView(session))
}

func (h *Handler) SetPageSize(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req pageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := session.SetPageSize(*req.PageSize); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.sessionView(session))
}

func (h *Handler) ListSaved(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	now := h.now()
	saved := session.Saved()
	views := make([]SavedArticleView, 0, len(saved))
	for _, a := range saved {
		views = append(views, newSavedArticleView(a, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": views,
		"total":    len(views),
	})
}

func (h *Handler) ToggleSaved(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req toggleSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	saved, err := session.ToggleSaveByID(req.ArticleID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articleId": req.ArticleID, "saved": saved})
}

func (h *Handler) IsSaved(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	id := c.Param("articleId")
	c.JSON(http.StatusOK, gin.H{"articleId": id, "saved": session.IsSaved(id)})
}

// GetArticleContent serves extracted full text, scheduling the extraction on
// first request.
func (h *Handler) GetArticleContent(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	id := c.Param("articleId")
	article, err := session.Article(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	previous, _ := h.contents.Get(id)
	entry, start := h.contents.Begin(id)
	if start {
		task := tasks.NewExtractContentTask(id, article.URL, h.extractor, h.contents)
		if err := h.scheduler.EnqueueTask(task); err != nil {
			h.contents.Forget(id)
			slog.Warn("Failed to enqueue content extraction", "article", id, "error", err)
			c.JSON(statusFor(err), gin.H{"error": "Content extraction is busy, try again later"})
			return
		}
	}

	if entry.Status == reader.StatusSuccess {
		c.JSON(http.StatusOK, gin.H{"articleId": id, "status": entry.Status, "content": entry.Content})
		return
	}

	response := gin.H{"articleId": id, "status": reader.StatusPending}
	if previous.Status == reader.StatusFailed {
		response["lastError"] = previous.Error
	}
	c.Header("Retry-After", "1")
	c.JSON(http.StatusAccepted, response)
}

func (h *Handler) GetFeedRSS(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	h.writeRSS(c, feed.Channel{
		Title:       "Pharma Pulse",
		Link:        h.publicURL(c, "/"),
		Description: "Pharmaceutical industry news",
		SelfLink:    h.publicURL(c, c.Request.URL.Path),
		Language:    "en",
	}, session.FilteredView())
}

func (h *Handler) GetSavedRSS(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	saved := session.Saved()
	articles := make([]news.Article, 0, len(saved))
	for _, a := range saved {
		articles = append(articles, a.Article)
	}

	h.writeRSS(c, feed.Channel{
		Title:       "Pharma Pulse: saved articles",
		Link:        h.publicURL(c, "/"),
		Description: "Articles saved in this session",
		SelfLink:    h.publicURL(c, c.Request.URL.Path),
		Language:    "en",
	}, articles)
}

func (h *Handler) writeRSS(c *gin.Context, channel feed.Channel, articles []news.Article) {
	rss, err := h.generator.Run(channel, articles)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (h *Handler) publicURL(c *gin.Context, path string) string {
	if h.baseURL != "" {
		return strings.TrimSuffix(h.baseURL, "/") + path
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, path)
}
