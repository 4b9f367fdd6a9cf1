package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common"
	"github.com/kingfer30/image-describe/relay/meta"
	relaymodel "github.com/kingfer30/image-describe/relay/model"
)

func getDescribeRequest(c *gin.Context, meta *meta.Meta) (*relaymodel.DescribeFormRequest, error) {
	describeRequest := &relaymodel.DescribeFormRequest{}
	if err := common.BindMultipartForm(c.Request, describeRequest, meta.MultipartMemory); err != nil {
		return nil, err
	}
	return describeRequest, nil
}
