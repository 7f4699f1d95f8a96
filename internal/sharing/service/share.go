package service

import (
	"github.com/gin-gonic/gin"
	"github.com/gubbigubbi/easy-social-sharing/internal/auth"
	"github.com/gubbigubbi/easy-social-sharing/internal/auth/middleware"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/response"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/validator"
	"github.com/gubbigubbi/easy-social-sharing/internal/sharing/biz"
	statsbiz "github.com/gubbigubbi/easy-social-sharing/internal/statistics/biz"
	statstypes "github.com/gubbigubbi/easy-social-sharing/internal/statistics/types"
	"go.uber.org/zap"
)

// ShareService exposes the count cache and click recording over HTTP
type ShareService struct {
	counts *biz.CountUseCase
	stats  *statsbiz.StatisticsUseCase
	tokens *auth.TokenManager
	logger *logger.Logger
}

// NewShareService creates a new share service
func NewShareService(
	counts *biz.CountUseCase,
	stats *statsbiz.StatisticsUseCase,
	tokens *auth.TokenManager,
	log *logger.Logger,
) *ShareService {
	return &ShareService{
		counts: counts,
		stats:  stats,
		tokens: tokens,
		logger: log,
	}
}

// SharesCountRequest asks for the display count of one network
type SharesCountRequest struct {
	Network  string `json:"network" binding:"required"`
	PostID   int64  `json:"post_id" binding:"required"`
	PageURL  string `json:"page_url" binding:"required"`
	MinCount int    `json:"min_count"`
}

// ClickRequest records a share click and refreshes its count
type ClickRequest struct {
	Network  string `json:"network" binding:"required"`
	PostID   int64  `json:"post_id" binding:"required"`
	PageURL  string `json:"page_url" binding:"required"`
	MinCount int    `json:"min_count"`
	Location string `json:"location"`
}

// TotalCountsRequest asks for the summed count across allowed networks
type TotalCountsRequest struct {
	PostID  int64  `json:"post_id" binding:"required"`
	PageURL string `json:"page_url" binding:"required"`
}

// RegisterRoutes registers the share routes with token verification
func (s *ShareService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/shares/token", s.IssueTokens)

	rg.POST("/shares/count",
		middleware.ShareToken(s.tokens, auth.ActionSharesCount, s.logger), s.GetSharesCount)
	rg.POST("/shares/click",
		middleware.ShareToken(s.tokens, auth.ActionUpdateShare, s.logger), s.UpdateSingleShare)
	rg.POST("/shares/total",
		middleware.ShareToken(s.tokens, auth.ActionTotalCounts, s.logger), s.GetTotalCounts)
}

// IssueTokens hands a widget one token per share action, the way the
// hosting page embeds nonces at render time
func (s *ShareService) IssueTokens(c *gin.Context) {
	tokens := make(map[string]string, 3)
	for _, action := range []string{auth.ActionSharesCount, auth.ActionUpdateShare, auth.ActionTotalCounts} {
		token, err := s.tokens.Issue(action)
		if err != nil {
			s.logger.Error("failed to issue share token", zap.Error(err))
			response.InternalError(c, "failed to issue share token")
			return
		}
		tokens[action] = token
	}

	response.Success(c, gin.H{"tokens": tokens})
}

// GetSharesCount serves the display count for one (post, network) pair
func (s *ShareService) GetSharesCount(c *gin.Context) {
	var req SharesCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := s.counts.GetDisplayCount(c.Request.Context(), &biz.CountRequest{
		NetworkName: validator.CleanLower(req.Network),
		PostID:      req.PostID,
		PageURL:     validator.CleanText(req.PageURL),
		MinCount:    req.MinCount,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"counts": res.Output})
}

// UpdateSingleShare handles a share click: it refreshes the cached count
// under the click policy, then appends the share event for analytics. A
// failed insert is reported to the caller; the event is not retried.
func (s *ShareService) UpdateSingleShare(c *gin.Context) {
	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	networkName := validator.CleanLower(req.Network)
	pageURL := validator.CleanText(req.PageURL)
	originIP := validator.IPOrDefault(c.ClientIP(), "0.0.0.0")

	res, err := s.counts.GetDisplayCount(c.Request.Context(), &biz.CountRequest{
		NetworkName: networkName,
		PostID:      req.PostID,
		PageURL:     pageURL,
		MinCount:    req.MinCount,
		IsClick:     true,
		OriginIP:    originIP,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if _, err := s.stats.RecordEvent(c.Request.Context(), &statstypes.ShareEvent{
		NetworkName: networkName,
		PostID:      req.PostID,
		IPInfo:      validator.CleanText(c.Request.UserAgent()),
		IPAddress:   originIP,
		Location:    req.Location,
		ShareURL:    pageURL,
		LatestCount: res.Counts,
	}); err != nil {
		s.logger.Error("failed to record share event",
			zap.String("network", networkName),
			zap.Int64("post_id", req.PostID),
			zap.Error(err),
		)
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"counts": res.Output})
}

// GetTotalCounts serves the summed count over all allowed networks
func (s *ShareService) GetTotalCounts(c *gin.Context) {
	var req TotalCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := s.counts.GetTotalCount(c.Request.Context(), req.PostID, validator.CleanText(req.PageURL))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"totals": res.Output})
}
