package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/kingfer30/image-describe/common/image"
	"github.com/kingfer30/image-describe/relay/model"
	"github.com/pkg/errors"
)

const (
	StatusDescribing = "Describing image..."
	NoDescription    = "No description returned."
)

// File is a selected image.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *File) mimeType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return image.DetectContentType(f.Data)
}

type Result struct {
	Description string
	PromptUsed  string
}

// ServerError is a non-2xx answer from the endpoint.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server error: %d %s", e.StatusCode, e.Body)
}

type Options struct {
	Endpoint       string
	PromptTemplate string
	HTTPClient     *http.Client // if nil uses http.DefaultClient
	// WrapBody, when set, wraps the multipart body before it is sent, e.g. for progress output.
	WrapBody func(body io.Reader, size int64) io.Reader
}

type Uploader struct {
	opts      Options
	presenter Presenter
}

func New(opts Options, presenter Presenter) *Uploader {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &Uploader{opts: opts, presenter: presenter}
}

// Select runs the whole flow for one file selection. A nil file resets the display.
// Every outcome is shown on the presenter; the error is also returned.
func (u *Uploader) Select(ctx context.Context, file *File) (*Result, error) {
	if file == nil {
		u.presenter.ShowPreview("")
		u.presenter.ShowStatus("")
		return nil, nil
	}

	u.presenter.ShowPreview("")
	u.presenter.ShowPreview(image.DataURL(file.mimeType(), file.Data))

	u.presenter.ShowStatus(StatusDescribing)
	result, err := u.describe(ctx, file)
	if err != nil {
		var serverErr *ServerError
		if errors.As(err, &serverErr) {
			u.presenter.ShowError(serverErr.Error())
		} else {
			u.presenter.ShowError(fmt.Sprintf("Request failed: %s", err))
		}
		return nil, err
	}

	if result.Description == "" {
		u.presenter.ShowStatus(NoDescription)
	} else {
		u.presenter.ShowStatus(result.Description)
	}
	if pp, ok := u.presenter.(PromptPresenter); ok && result.PromptUsed != "" {
		pp.ShowPrompt(result.PromptUsed)
	}
	return result, nil
}

func (u *Uploader) describe(ctx context.Context, file *File) (*Result, error) {
	body, contentType, err := u.buildForm(file)
	if err != nil {
		return nil, err
	}
	size := int64(body.Len())
	var reader io.Reader = body
	if u.opts.WrapBody != nil {
		reader = u.opts.WrapBody(body, size)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.opts.Endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := u.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		text, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return nil, &ServerError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	var describeResponse model.DescribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&describeResponse); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &Result{
		Description: describeResponse.Description,
		PromptUsed:  describeResponse.PromptUsed,
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (u *Uploader) buildForm(file *File) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", file.mimeType())
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create image part")
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", errors.Wrap(err, "failed to write image part")
	}
	if err := writer.WriteField("promptTemplate", u.opts.PromptTemplate); err != nil {
		return nil, "", errors.Wrap(err, "failed to write promptTemplate")
	}
	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to close writer")
	}
	return body, writer.FormDataContentType(), nil
}
