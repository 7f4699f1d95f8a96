package service

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/response"
	"github.com/gubbigubbi/easy-social-sharing/internal/statistics/biz"
	"github.com/gubbigubbi/easy-social-sharing/internal/statistics/types"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// StatisticsService exposes share analytics over HTTP
type StatisticsService struct {
	uc     *biz.StatisticsUseCase
	logger *logger.Logger
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(uc *biz.StatisticsUseCase, logger *logger.Logger) *StatisticsService {
	return &StatisticsService{uc: uc, logger: logger}
}

// RegisterRoutes registers the analytics routes
func (s *StatisticsService) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/analytics", s.Aggregate)
}

// Aggregate serves rolled-up share counts for a date range
func (s *StatisticsService) Aggregate(c *gin.Context) {
	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		response.BadRequest(c, "start must be a date in YYYY-MM-DD form")
		return
	}

	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		response.BadRequest(c, "end must be a date in YYYY-MM-DD form")
		return
	}

	granularity := types.Granularity(c.DefaultQuery("granularity", string(types.GranularityDaily)))

	buckets, err := s.uc.Aggregate(c.Request.Context(), &biz.AggregateRequest{
		Start:       start,
		End:         end,
		Granularity: granularity,
		Location:    c.DefaultQuery("location", "all"),
	})
	if err != nil {
		s.logger.Error("failed to aggregate share events", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"buckets": buckets})
}
