package describer

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/logger"
	"github.com/kingfer30/image-describe/relay/meta"
	"github.com/kingfer30/image-describe/relay/model"
	"github.com/kingfer30/image-describe/service"
)

func ResponseHandler(c *gin.Context, resp *http.Response, meta *meta.Meta) (*model.DescribeResponse, *model.ErrorWithStatusCode) {
	defer resp.Body.Close()
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrorWrapper(err, "read_response_body_failed", http.StatusInternalServerError)
	}
	description, fallback, err := service.ExtractDescription(responseBody)
	if err != nil {
		return nil, ErrorWrapper(err, "unmarshal_response_body_failed", http.StatusInternalServerError)
	}
	if fallback {
		logger.Warnf(c.Request.Context(), "provider response has no description, relaying the whole body (%d bytes)", len(responseBody))
	}
	return &model.DescribeResponse{
		Description: description,
		PromptUsed:  meta.PromptTemplate,
	}, nil
}

// RelayErrorHandler keeps the provider's status and body so they can be relayed unchanged.
func RelayErrorHandler(resp *http.Response) *model.ErrorWithStatusCode {
	defer resp.Body.Close()
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrorWrapper(err, "read_response_body_failed", http.StatusInternalServerError)
	}
	return &model.ErrorWithStatusCode{
		Error: model.Error{
			Message: string(responseBody),
			Type:    "upstream_error",
			Code:    resp.StatusCode,
		},
		StatusCode:  resp.StatusCode,
		RawBody:     responseBody,
		ContentType: resp.Header.Get("Content-Type"),
	}
}
