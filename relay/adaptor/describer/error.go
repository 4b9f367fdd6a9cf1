package describer

import (
	"github.com/kingfer30/image-describe/relay/model"
)

// ErrorWrapper builds a local relay error. Callers log it with the request context.
func ErrorWrapper(err error, code string, statusCode int) *model.ErrorWithStatusCode {
	Error := model.Error{
		Message: err.Error(),
		Type:    "describe_api_error",
		Code:    code,
	}
	return &model.ErrorWithStatusCode{
		Error:      Error,
		StatusCode: statusCode,
	}
}
