package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/helper"
	"github.com/kingfer30/image-describe/common/logger"
	"github.com/kingfer30/image-describe/relay/controller"
	"github.com/kingfer30/image-describe/relay/model"
)

// DescribeImage handles POST /api/describe-image.
func DescribeImage(c *gin.Context) {
	ctx := c.Request.Context()
	describeResponse, bizErr := controller.RelayDescribeHelper(c)
	if bizErr == nil {
		c.JSON(http.StatusOK, describeResponse)
		return
	}
	if bizErr.IsPassThrough() {
		logger.Warnf(ctx, "relaying provider error, status code %d", bizErr.StatusCode)
		c.Data(bizErr.StatusCode, helper.AssignOrDefault(bizErr.ContentType, "text/plain; charset=utf-8"), bizErr.RawBody)
		return
	}
	c.String(bizErr.StatusCode, bizErr.Message)
}

func RelayNotFound(c *gin.Context) {
	err := model.Error{
		Message: fmt.Sprintf("Invalid URL (%s %s)", c.Request.Method, c.Request.URL.Path),
		Type:    "invalid_request_error",
		Param:   "",
		Code:    "",
	}
	c.JSON(http.StatusNotFound, gin.H{
		"error": err,
	})
}
