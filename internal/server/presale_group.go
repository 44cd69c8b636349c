package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	presaledomain "github.com/smallbiznis/crmlite/internal/presale/domain"
)

func (s *Server) ListPreSaleGroups(c *gin.Context) {
	resp, err := s.presaleSvc.ListGroups(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreatePreSaleGroup(c *gin.Context) {
	var req presaledomain.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.presaleSvc.CreateGroup(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetPreSaleGroupByID(c *gin.Context) {
	resp, err := s.presaleSvc.GetGroup(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePreSaleGroup(c *gin.Context) {
	var req presaledomain.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.presaleSvc.UpdateGroup(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePreSaleGroup(c *gin.Context) {
	resp, err := s.presaleSvc.DeleteGroup(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PreSaleGroupExists(c *gin.Context) {
	exists, err := s.presaleSvc.GroupExists(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": exists})
}

func (s *Server) ListPreSalesByGroup(c *gin.Context) {
	resp, err := s.presaleSvc.ListByGroup(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPreSaleGroupStatuses(c *gin.Context) {
	resp, err := s.presaleSvc.ListGroupStatuses(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
