package videos

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ecobrinca/internal/api/respond"
	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/access"
	"ecobrinca/internal/domain/catalog"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Entitlements is the part of the access engine the watch endpoint uses.
type Entitlements interface {
	Consume(ctx context.Context, userID string) (access.Decision, error)
	Policy(ctx context.Context, userID string) (access.Policy, error)
}

type Handler struct {
	db     *gorm.DB
	access Entitlements
	now    func() time.Time
}

func NewHandler(db *gorm.DB, entitlements Entitlements) *Handler {
	return &Handler{db: db, access: entitlements, now: time.Now}
}

// GET /materials
func (h *Handler) ListMaterials(c *gin.Context) {
	materials, err := catalog.ListMaterials(c.Request.Context(), h.db)
	if err != nil {
		respond.Error(c, apperr.Store("videos.list_materials", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": toMaterialDTOs(materials)})
}

// GET /videos?materials=1,2
func (h *Handler) ListVideos(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		videos []catalog.Video
		err    error
	)
	if raw, ok := c.GetQuery("materials"); ok {
		videos, err = catalog.VideosUsingAnyMaterial(ctx, h.db, strings.Split(raw, ","))
	} else {
		videos, err = catalog.ListVideos(ctx, h.db)
	}
	if err != nil {
		respond.Error(c, apperr.Store("videos.list", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": toVideoDTOs(videos)})
}

// GET /videos/search?q=
func (h *Handler) SearchVideos(c *gin.Context) {
	videos, err := catalog.SearchVideos(c.Request.Context(), h.db, c.Query("q"))
	if err != nil {
		respond.Error(c, apperr.Store("videos.search", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": toVideoDTOs(videos)})
}

// GET /videos/:id
func (h *Handler) GetVideo(c *gin.Context) {
	video, ok := h.loadVideo(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toVideoDTO(video))
}

// POST /videos/:id/watch counts one video start against the caller's
// weekly quota and hands out the playable URL.
func (h *Handler) WatchVideo(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	video, ok := h.loadVideo(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	decision, err := h.access.Consume(ctx, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	// The decision is final from here on. A failed policy read only costs
	// the response its access summary.
	policy, err := h.access.Policy(ctx, userID)
	hasPolicy := err == nil
	if !hasPolicy {
		log.Warn().Err(err).Str("user_id", userID).Str("decision", string(decision)).Msg("entitlement summary unavailable after watch decision")
	}

	if !decision.Allowed() {
		resetsAt := policy.ResetsAt
		if resetsAt == nil {
			end := access.PeriodEnd(h.now())
			resetsAt = &end
		}
		log.Info().Str("user_id", userID).Str("video_id", video.ID).Msg("weekly video limit reached")
		c.JSON(http.StatusPaymentRequired, UpsellResponse{
			Error:     "Weekly free video limit reached",
			Upgrade:   true,
			Remaining: 0,
			ResetsAt:  resetsAt,
		})
		return
	}

	resp := WatchResponse{
		Video:    toVideoDTO(video),
		VideoURL: video.VideoURL,
	}
	if hasPolicy {
		summary := toAccessDTO(policy)
		resp.Access = &summary
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) loadVideo(c *gin.Context) (catalog.Video, bool) {
	video, err := catalog.GetVideo(c.Request.Context(), h.db, c.Param("id"))
	if errors.Is(err, catalog.ErrVideoNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return catalog.Video{}, false
	}
	if err != nil {
		respond.Error(c, apperr.Store("videos.get", err))
		return catalog.Video{}, false
	}
	return video, true
}
