package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
	"github.com/varoOP/mangacat/internal/manga"
)

type progressRequest struct {
	MalID        int64  `json:"malId" binding:"required,gt=0"`
	Progress     string `json:"progress"`
	ChaptersRead int    `json:"chaptersRead" binding:"gte=0"`
	VolumesRead  int    `json:"volumesRead" binding:"gte=0"`
	Rating       int    `json:"rating" binding:"gte=0,lte=10"`
}

type collectionRequest struct {
	MalID              int64  `json:"malId" binding:"required,gt=0"`
	DigitalCollection  bool   `json:"digitalCollection"`
	PhysicalCollection bool   `json:"physicalCollection"`
	VolumesAvailable   int    `json:"volumesAvailable" binding:"gte=0"`
	VolumesOwned       int    `json:"volumesOwned" binding:"gte=0"`
	VolumesAcquired    []int  `json:"volumesAcquired" binding:"omitempty,dive,gt=0"`
	VolumesEdition     string `json:"volumesEdition"`
}

type mangaHandler struct {
	log     zerolog.Logger
	service manga.Service
}

func newMangaHandler(log zerolog.Logger, service manga.Service) *mangaHandler {
	return &mangaHandler{
		log:     log,
		service: service,
	}
}

func (h *mangaHandler) Routes(r *gin.RouterGroup) {
	r.GET("/list", h.list)
	r.POST("/list/filter", h.filter)
	r.GET("/search", h.search)
	r.GET("/codes", h.codes)
	r.POST("/add", h.add)
	r.DELETE("/delete", h.delete)
	r.PATCH("/update-info", h.refresh)
	r.PATCH("/update-progress", h.updateProgress)
	r.PATCH("/update-collection", h.updateCollection)
}

func (h *mangaHandler) list(c *gin.Context) {
	all, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(h.log, c, err)
		return
	}

	c.JSON(http.StatusOK, all)
}

// codes lists the genre, status, type and progress names the API accepts
func (h *mangaHandler) codes(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Codes())
}

func (h *mangaHandler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		RespondWithBadRequest(c, "query parameter is required")
		return
	}

	results, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		respondError(h.log, c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *mangaHandler) add(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	added, err := h.service.Add(c.Request.Context(), id)
	if err != nil {
		respondError(h.log, c, err)
		return
	}

	c.JSON(http.StatusCreated, added)
}

func (h *mangaHandler) delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(h.log, c, err)
		return
	}

	c.JSON(http.StatusOK, deleted)
}

func (h *mangaHandler) refresh(c *gin.Context) {
	report, err := h.service.RefreshAll(c.Request.Context())
	if err != nil {
		respondError(h.log, c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *mangaHandler) updateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithBadRequest(c, err.Error())
		return
	}

	progress, err := domain.ParseProgress(req.Progress)
	if err != nil {
		respondError(h.log, c, err)
		return
	}

	updated, err := h.service.UpdateProgress(c.Request.Context(), domain.ProgressUpdate{
		MalID:        req.MalID,
		Progress:     progress,
		ChaptersRead: req.ChaptersRead,
		VolumesRead:  req.VolumesRead,
		Rating:       req.Rating,
	})
	if err != nil {
		respondError(h.log, c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *mangaHandler) updateCollection(c *gin.Context) {
	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithBadRequest(c, err.Error())
		return
	}

	updated, err := h.service.UpdateCollection(c.Request.Context(), domain.CollectionUpdate{
		MalID:              req.MalID,
		DigitalCollection:  req.DigitalCollection,
		PhysicalCollection: req.PhysicalCollection,
		VolumesAvailable:   req.VolumesAvailable,
		VolumesOwned:       req.VolumesOwned,
		VolumesAcquired:    req.VolumesAcquired,
		VolumesEdition:     req.VolumesEdition,
	})
	if err != nil {
		respondError(h.log, c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *mangaHandler) filter(c *gin.Context) {
	var f domain.Filter
	// an empty body is an empty filter
	if err := c.ShouldBindJSON(&f); err != nil && !errors.Is(err, io.EOF) {
		RespondWithBadRequest(c, err.Error())
		return
	}

	found, err := h.service.Filter(c.Request.Context(), f)
	if err != nil {
		respondError(h.log, c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func queryID(c *gin.Context) (int64, bool) {
	raw := c.Query("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondWithBadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
