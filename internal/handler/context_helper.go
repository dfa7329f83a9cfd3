package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bimaplus/bima-api/internal/middleware"
	"github.com/bimaplus/bima-api/internal/models"
	"github.com/bimaplus/bima-api/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

func currentUser(c *gin.Context) *models.UserInfo {
	if user := middleware.CurrentUser(c); user != nil {
		return user
	}
	// Routes behind Authenticate but not the role gate fall back to claims.
	if claims := middleware.Claims(c); claims != nil {
		return &models.UserInfo{
			ID:       claims.UserID,
			Email:    claims.Email,
			FullName: claims.FullName,
			Role:     claims.Role,
			Active:   claims.Active,
		}
	}
	return nil
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func pageQuery(c *gin.Context) (page, limit int) {
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		limit = v
	}
	return page, limit
}

func boolQuery(c *gin.Context, name string) *bool {
	switch c.Query(name) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}
