package service

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gubbigubbi/easy-social-sharing/internal/network/biz"
	"github.com/gubbigubbi/easy-social-sharing/internal/network/types"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/response"
	"go.uber.org/zap"
)

// NetworkService exposes the network registry over HTTP
type NetworkService struct {
	uc     *biz.NetworkUseCase
	logger *logger.Logger
}

// NewNetworkService creates a new network service
func NewNetworkService(uc *biz.NetworkUseCase, logger *logger.Logger) *NetworkService {
	return &NetworkService{uc: uc, logger: logger}
}

// NetworkRequest is the admin payload for creating or updating a network
type NetworkRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Count       int    `json:"count"`
	Order       int    `json:"order"`
}

// RegisterRoutes registers public and admin network routes
func (s *NetworkService) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/networks", s.ListNetworks)

	admin.POST("/networks", s.CreateNetwork)
	admin.PUT("/networks/:id", s.UpdateNetwork)
	admin.DELETE("/networks/:id", s.DeleteNetwork)
}

// ListNetworks returns the ordered network catalog
func (s *NetworkService) ListNetworks(c *gin.Context) {
	networks, err := s.uc.ListNetworks(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to list networks", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"networks": networks})
}

// CreateNetwork registers a new network
func (s *NetworkService) CreateNetwork(c *gin.Context) {
	var req NetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	network, err := s.uc.CreateNetwork(c.Request.Context(), &types.Network{
		Name:        req.Name,
		Description: req.Description,
		Count:       req.Count,
		Order:       req.Order,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, network)
}

// UpdateNetwork updates an existing network
func (s *NetworkService) UpdateNetwork(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid network id")
		return
	}

	var req NetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	network, err := s.uc.UpdateNetwork(c.Request.Context(), id, &types.Network{
		Name:        req.Name,
		Description: req.Description,
		Count:       req.Count,
		Order:       req.Order,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, network)
}

// DeleteNetwork removes a network from the registry
func (s *NetworkService) DeleteNetwork(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid network id")
		return
	}

	if err := s.uc.DeleteNetwork(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, nil)
}
