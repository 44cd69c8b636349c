package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListDepartments(c *gin.Context) {
	resp, err := s.departmentSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMainDepartments(c *gin.Context) {
	resp, err := s.departmentSvc.ListMain(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
