package describer

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/client"
	"github.com/kingfer30/image-describe/common/image"
	"github.com/kingfer30/image-describe/common/logger"
	"github.com/kingfer30/image-describe/relay/meta"
	"github.com/kingfer30/image-describe/relay/model"
	"github.com/pkg/errors"
)

type Adaptor struct {
	meta *meta.Meta
}

func (a *Adaptor) Init(meta *meta.Meta) {
	a.meta = meta
}

func (a *Adaptor) GetRequestURL(meta *meta.Meta) (string, error) {
	if meta.BaseURL == "" {
		return "", errors.New("provider url is empty")
	}
	return meta.BaseURL, nil
}

func (a *Adaptor) SetupRequestHeader(c *gin.Context, req *http.Request, meta *meta.Meta) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+meta.APIKey)
	return nil
}

// ConvertRequest reads the uploaded file and builds the provider payload.
func (a *Adaptor) ConvertRequest(c *gin.Context, request *model.DescribeFormRequest) (*model.ProviderRequest, error) {
	if request == nil {
		return nil, errors.New("request is nil")
	}
	if request.Image == nil {
		return nil, errors.Wrap(http.ErrMissingFile, "image")
	}
	file, err := request.Image.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	encoded, size, err := image.EncodeBase64(file, a.meta.MaxImageSize)
	if err != nil {
		if errors.Is(err, image.ErrTooLarge) {
			logger.Warnf(c.Request.Context(), "image is too large: %s, limit %d bytes", request.Image.Filename, a.meta.MaxImageSize)
		}
		return nil, errors.Wrap(err, request.Image.Filename)
	}
	a.meta.ImageName = request.Image.Filename
	a.meta.ImageSize = size

	if _, err := file.Seek(0, io.SeekStart); err == nil {
		if info, err := image.DecodeConfig(file); err == nil {
			logger.Infof(c.Request.Context(), "image %s: %s %dx%d", request.Image.Filename, info.Format, info.Width, info.Height)
		} else {
			logger.Debugf(c.Request.Context(), "image %s is not decodable: %s", request.Image.Filename, err.Error())
		}
	}

	return &model.ProviderRequest{
		Prompt:      request.PromptTemplate,
		ImageBase64: encoded,
	}, nil
}

func (a *Adaptor) DoRequest(c *gin.Context, meta *meta.Meta, request *model.ProviderRequest) (*http.Response, error) {
	fullRequestURL, err := a.GetRequestURL(meta)
	if err != nil {
		return nil, errors.Wrap(err, "get request url failed")
	}
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "marshal provider request failed")
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, fullRequestURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "new request failed")
	}
	if err := a.SetupRequestHeader(c, req, meta); err != nil {
		return nil, errors.Wrap(err, "setup request header failed")
	}
	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("resp is nil")
	}
	return resp, nil
}

func (a *Adaptor) DoResponse(c *gin.Context, resp *http.Response, meta *meta.Meta) (*model.DescribeResponse, *model.ErrorWithStatusCode) {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, RelayErrorHandler(resp)
	}
	return ResponseHandler(c, resp, meta)
}
