package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/http/response"
	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
	"github.com/nomadicTree/frayerstore/internal/services"
)

type CatalogHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:     log.With("handler", "CatalogHandler"),
		catalog: catalog,
	}
}

// GET /api/subjects?include=courses,topics
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	inc := parseInclude(c)
	subjects, err := h.catalog.ListSubjects(c.Request.Context(), inc["courses"] || inc["topics"], inc["topics"])
	if err != nil {
		h.fail(c, "ListSubjects", err)
		return
	}
	response.RespondOK(c, gin.H{"subjects": subjects})
}

// GET /api/subjects/:slug
func (h *CatalogHandler) GetSubject(c *gin.Context) {
	subject, err := h.catalog.GetSubject(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, "GetSubject", err)
		return
	}
	response.RespondOK(c, gin.H{"subject": subject})
}

// GET /api/subjects/:slug/courses?include=topics
func (h *CatalogHandler) ListSubjectCourses(c *gin.Context) {
	courses, err := h.catalog.ListSubjectCourses(c.Request.Context(), c.Param("slug"), parseInclude(c)["topics"])
	if err != nil {
		h.fail(c, "ListSubjectCourses", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/levels
func (h *CatalogHandler) ListLevels(c *gin.Context) {
	levels, err := h.catalog.ListLevels(c.Request.Context())
	if err != nil {
		h.fail(c, "ListLevels", err)
		return
	}
	response.RespondOK(c, gin.H{"levels": levels})
}

// GET /api/courses/:id/topics
func (h *CatalogHandler) ListCourseTopics(c *gin.Context) {
	pk, err := parsePK(c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	topics, err := h.catalog.ListCourseTopics(c.Request.Context(), pk)
	if err != nil {
		h.fail(c, "ListCourseTopics", err)
		return
	}
	response.RespondOK(c, gin.H{"topics": topics})
}

// GET /api/topics/:id/words
func (h *CatalogHandler) ListTopicWords(c *gin.Context) {
	pk, err := parsePK(c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	words, err := h.catalog.ListTopicWords(c.Request.Context(), pk)
	if err != nil {
		h.fail(c, "ListTopicWords", err)
		return
	}
	response.RespondOK(c, gin.H{"words": words})
}

// GET /api/words?q=
func (h *CatalogHandler) SearchWords(c *gin.Context) {
	words, err := h.catalog.SearchWords(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, "SearchWords", err)
		return
	}
	response.RespondOK(c, gin.H{"words": words})
}

// GET /api/words/:id
func (h *CatalogHandler) GetWord(c *gin.Context) {
	pk, err := parsePK(c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	word, err := h.catalog.GetWord(c.Request.Context(), pk)
	if err != nil {
		h.fail(c, "GetWord", err)
		return
	}
	response.RespondOK(c, gin.H{"word": word})
}

func (h *CatalogHandler) fail(c *gin.Context, op string, err error) {
	if ae := response.FromError(err); ae.Status >= 500 {
		h.log.Error(op+" failed", "error", err, "path", c.Request.URL.Path)
	}
	response.RespondServiceError(c, err)
}

func parsePK(raw string) (types.PK, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", raw, apperrors.ErrInvalidArgument)
	}
	return types.PK(n), nil
}

// parseInclude reads ?include=a,b and repeated include params.
func parseInclude(c *gin.Context) map[string]bool {
	out := map[string]bool{}
	for _, raw := range c.QueryArray("include") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				out[part] = true
			}
		}
	}
	return out
}
