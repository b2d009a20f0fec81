package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/issue-stats/internal/errors"
	"github.com/Kamar-Folarin/issue-stats/internal/models"
)

// SyncSecretHeader carries the shared secret on trigger requests.
const SyncSecretHeader = "X-Sync-Secret"

// StatsService is the slice of the stats service the handlers use.
type StatsService interface {
	BackfillHistory(ctx context.Context, owner, repo string, maxPages int, dryRun bool) (map[string]models.DayCounts, error)
	WriteSnapshot(ctx context.Context, owner, repo string) (*models.DayStat, error)
	ListHistory(ctx context.Context, limit int) ([]*models.DayStat, error)
}

// Defaults are the request parameter fallbacks for the trigger endpoints.
type Defaults struct {
	RepoOwner string
	RepoName  string
	MaxPages  int
}

type Handler struct {
	service  StatsService
	defaults Defaults
	logger   *logrus.Logger
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// BackfillResponse is the JSON body returned by the backfill endpoint
type BackfillResponse struct {
	Owner     string                      `json:"owner"`
	Repo      string                      `json:"repo"`
	DryRun    bool                        `json:"dry_run"`
	Days      int                         `json:"days"`
	Stats     map[string]models.DayCounts `json:"stats"`
	Persisted bool                        `json:"persisted"`
}

func NewHandler(service StatsService, defaults Defaults, logger *logrus.Logger) *Handler {
	return &Handler{
		service:  service,
		defaults: defaults,
		logger:   logger,
	}
}

// RequireSyncSecret rejects requests whose shared secret does not match
// the configured value.
func RequireSyncSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(SyncSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			err := errors.NewUnauthorizedError("sync secret mismatch", nil)
			// The mismatch detail stays server-side.
			c.AbortWithStatusJSON(statusForError(err), ErrorResponse{Error: "unauthorized"})
			return
		}
		c.Next()
	}
}

// statusForError maps error taxonomy kinds onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errors.IsDuplicateDate(err):
		return http.StatusConflict
	case errors.IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// BackfillHistory triggers the full history backfill.
// @Summary Backfill issue history
// @Description Fetch the repository's issues and persist one running-total record per day since the first commit
// @Tags stats
// @Produce json
// @Param owner query string false "Repository owner" default(vercel)
// @Param repo query string false "Repository name" default(next.js)
// @Param pages query int false "Page fetch ceiling, 0 for unlimited" default(2)
// @Param dry_run query bool false "Compute but skip persistence" default(false)
// @Success 200 {object} BackfillResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /stats/backfill [post]
func (h *Handler) BackfillHistory(c *gin.Context) {
	owner := c.DefaultQuery("owner", h.defaults.RepoOwner)
	repo := c.DefaultQuery("repo", h.defaults.RepoName)

	// A negative ceiling would read as "unlimited" downstream.
	maxPages, err := getIntQueryParam(c, "pages", h.defaults.MaxPages)
	if err != nil || maxPages < 0 {
		respondWithValidationError(c, "invalid pages parameter", err)
		return
	}

	dryRun, err := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))
	if err != nil {
		respondWithValidationError(c, "invalid dry_run parameter", err)
		return
	}

	counts, err := h.service.BackfillHistory(c.Request.Context(), owner, repo, maxPages, dryRun)
	if err != nil {
		h.respondWithServiceError(c, err, "Failed to backfill issue history")
		return
	}

	c.JSON(http.StatusOK, BackfillResponse{
		Owner:     owner,
		Repo:      repo,
		DryRun:    dryRun,
		Days:      len(counts),
		Stats:     counts,
		Persisted: !dryRun,
	})
}

// WriteSnapshot appends a current-day snapshot record.
// @Summary Write a current-day snapshot
// @Description Record GitHub's live open and closed issue counts as today's day record
// @Tags stats
// @Produce json
// @Param owner query string false "Repository owner" default(vercel)
// @Param repo query string false "Repository name" default(next.js)
// @Success 201 {object} models.DayStat
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /stats/snapshot [post]
func (h *Handler) WriteSnapshot(c *gin.Context) {
	owner := c.DefaultQuery("owner", h.defaults.RepoOwner)
	repo := c.DefaultQuery("repo", h.defaults.RepoName)

	stat, err := h.service.WriteSnapshot(c.Request.Context(), owner, repo)
	if err != nil {
		h.respondWithServiceError(c, err, "Failed to write snapshot")
		return
	}

	c.JSON(http.StatusCreated, stat)
}

// ListHistory returns stored day records.
// @Summary List stored day records
// @Description Read back persisted issue history, most recent first
// @Tags stats
// @Produce json
// @Param limit query int false "Maximum rows to return, 0 for all" default(0)
// @Success 200 {array} models.DayStat
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /stats [get]
func (h *Handler) ListHistory(c *gin.Context) {
	limit, err := getIntQueryParam(c, "limit", 0)
	if err != nil {
		respondWithValidationError(c, "invalid limit parameter", err)
		return
	}

	stats, err := h.service.ListHistory(c.Request.Context(), limit)
	if err != nil {
		h.respondWithServiceError(c, err, "Failed to list day stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// respondWithServiceError maps service errors onto status codes. A
// duplicate date is reported distinctly; anything unclassified is
// logged with full detail and returned opaque.
func (h *Handler) respondWithServiceError(c *gin.Context, err error, logMsg string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).Error(logMsg)
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func respondWithValidationError(c *gin.Context, message string, cause error) {
	appErr := errors.NewValidationError(message, cause)
	c.JSON(statusForError(appErr), ErrorResponse{Error: appErr.Message})
}

func getIntQueryParam(c *gin.Context, param string, defaultValue int) (int, error) {
	value := c.Query(param)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
