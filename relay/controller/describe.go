package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/common/helper"
	"github.com/kingfer30/image-describe/common/logger"
	"github.com/kingfer30/image-describe/relay/adaptor/describer"
	"github.com/kingfer30/image-describe/relay/meta"
	relaymodel "github.com/kingfer30/image-describe/relay/model"
	"github.com/pkg/errors"
)

// MisconfigurationMessage is returned when no provider key is configured.
var MisconfigurationMessage = fmt.Sprintf("Server misconfiguration: %s not set", config.ProviderKeyEnv)

// RelayDescribeHelper relays one uploaded image to the provider and returns its description.
// On failure the returned error says how it must be rendered.
func RelayDescribeHelper(c *gin.Context) (*relaymodel.DescribeResponse, *relaymodel.ErrorWithStatusCode) {
	ctx := c.Request.Context()
	meta := meta.GetByContext(c)

	if meta.APIKey == "" {
		logger.Error(ctx, MisconfigurationMessage)
		return nil, describer.ErrorWrapper(errors.New(MisconfigurationMessage), "provider_key_missing", http.StatusInternalServerError)
	}

	describeRequest, err := getDescribeRequest(c, meta)
	if err != nil {
		logger.Errorf(ctx, "getDescribeRequest failed: %s", err.Error())
		return nil, describer.ErrorWrapper(err, "bind_form_failed", http.StatusInternalServerError)
	}
	meta.PromptTemplate = describeRequest.PromptTemplate

	adaptor := &describer.Adaptor{}
	adaptor.Init(meta)

	providerRequest, err := adaptor.ConvertRequest(c, describeRequest)
	if err != nil {
		logger.Errorf(ctx, "ConvertRequest failed: %s", err.Error())
		return nil, describer.ErrorWrapper(err, "read_image_failed", http.StatusInternalServerError)
	}
	logger.Infof(ctx, "relaying %s (%s) with a %d char prompt", meta.ImageName, helper.HumanSize(meta.ImageSize), len(meta.PromptTemplate))

	// do request
	resp, err := adaptor.DoRequest(c, meta, providerRequest)
	if err != nil {
		logger.Errorf(ctx, "DoRequest failed: %s", err.Error())
		return nil, describer.ErrorWrapper(err, "do_request_failed", http.StatusInternalServerError)
	}

	// do response
	describeResponse, respErr := adaptor.DoResponse(c, resp, meta)
	if respErr != nil {
		logger.Errorf(ctx, "respErr is not nil: status %d, %s", respErr.StatusCode, respErr.Message)
		return nil, respErr
	}
	logger.Infof(ctx, "described %s in %s", meta.ImageName, time.Since(meta.StartTime).Round(time.Millisecond))
	return describeResponse, nil
}
