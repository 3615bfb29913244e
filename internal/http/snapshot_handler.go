package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/fundswap/internal/adapters/persistence"
	aggregator "github.com/hxuan190/fundswap/internal/aggregator"
	"github.com/hxuan190/fundswap/internal/http/httputil"
)

type SnapshotHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewSnapshotHandler(aggregatorSvc *aggregator.Service) *SnapshotHandler {
	return &SnapshotHandler{aggregatorSvc: aggregatorSvc}
}

func (h *SnapshotHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)
	pub.GET("/accounts", h.getAccounts)

	admin.POST("", h.pushSnapshot)
	admin.POST("/reload", h.reloadSnapshot)
}

func (h *SnapshotHandler) Root() string {
	return "/snapshot"
}

// @Summary Snapshot stats
// @Description Slot, age and size of the snapshot quotes are priced on.
// @Tags snapshot
// @Produce json
// @Success 200 {object} httputil.Response{data=market.Stats}
// @Router /api/v1/snapshot/stats [get]
func (h *SnapshotHandler) getStats(c *gin.Context) {
	httputil.Success(c, h.aggregatorSvc.GetStats())
}

// @Summary Accounts for update
// @Description Accounts an external fetcher must read to build the next snapshot:
// @Description the curve data account, every oracle price feed in token order, then every fund state.
// @Tags snapshot
// @Produce json
// @Success 200 {object} httputil.Response{data=[]string}
// @Failure 503 {object} httputil.Response "No snapshot loaded yet"
// @Router /api/v1/snapshot/accounts [get]
func (h *SnapshotHandler) getAccounts(c *gin.Context) {
	accounts, err := h.aggregatorSvc.AccountsForUpdate()
	if err != nil {
		httputil.Fail(c, toHttpError(err))
		return
	}
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.String())
	}
	httputil.Success(c, out)
}

// @Summary Push snapshot
// @Description Replace the current snapshot with the JSON seed in the body. The snapshot is validated,
// @Description swapped in atomically and persisted.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Admin-Token header string true "Admin token"
// @Success 200 {object} httputil.Response{data=market.Stats}
// @Failure 400 {object} httputil.Response "Invalid snapshot"
// @Failure 401 {object} httputil.Response "Invalid admin token"
// @Failure 403 {object} httputil.Response "Admin api disabled"
// @Router /api/v1/admin/snapshot [post]
func (h *SnapshotHandler) pushSnapshot(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		httputil.BadRequest(c, "failed to read body")
		return
	}

	snap, err := persistence.ParseSeed(body, persistence.SeedFormatJSON)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	if err := h.aggregatorSvc.UpdateSnapshot(snap, aggregator.SourceAdmin); err != nil {
		httputil.Fail(c, toHttpError(err))
		return
	}
	log.Info().Uint64("slot", snap.Slot).Str("ip", c.ClientIP()).Msg("[snapshotHandler] snapshot pushed")
	httputil.Success(c, h.aggregatorSvc.GetStats())
}

// @Summary Reload snapshot
// @Description Reload the configured seed file now.
// @Tags admin
// @Produce json
// @Param X-Admin-Token header string true "Admin token"
// @Success 200 {object} httputil.Response{data=market.Stats}
// @Failure 401 {object} httputil.Response "Invalid admin token"
// @Failure 403 {object} httputil.Response "Admin api disabled"
// @Failure 503 {object} httputil.Response "No seed file configured"
// @Router /api/v1/admin/snapshot/reload [post]
func (h *SnapshotHandler) reloadSnapshot(c *gin.Context) {
	if err := h.aggregatorSvc.ReloadSnapshot(); err != nil {
		httputil.Fail(c, toHttpError(err))
		return
	}
	httputil.Success(c, h.aggregatorSvc.GetStats())
}
