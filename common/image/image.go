package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"regexp"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrTooLarge is returned by EncodeBase64 when the input exceeds the limit.
var ErrTooLarge = errors.New("image exceeds maximum allowed size")

var reg = regexp.MustCompile(`^data:([^;,]+)?;base64,`)

// EncodeBase64 streams r through a standard base64 encoder. A maxSize of 0 means no limit.
// It returns the encoded text and the number of raw bytes read.
func EncodeBase64(r io.Reader, maxSize int64) (string, int64, error) {
	var encodedBuilder strings.Builder
	encoder := base64.NewEncoder(base64.StdEncoding, &encodedBuilder)

	src := r
	if maxSize > 0 {
		// one extra byte tells an exact fit from an overflow
		src = io.LimitReader(r, maxSize+1)
	}
	bytesCopied, err := io.Copy(encoder, src)
	if err != nil {
		return "", bytesCopied, fmt.Errorf("image reading error: %w", err)
	}
	if maxSize > 0 && bytesCopied > maxSize {
		return "", bytesCopied, ErrTooLarge
	}
	if err := encoder.Close(); err != nil {
		return "", bytesCopied, fmt.Errorf("base64 close error: %w", err)
	}
	return encodedBuilder.String(), bytesCopied, nil
}

// DetectContentType sniffs the MIME type of data, falling back to application/octet-stream.
func DetectContentType(data []byte) string {
	dataToCheck := data
	if len(data) > 512 {
		dataToCheck = data[:512]
	}
	contentType := http.DetectContentType(dataToCheck)
	parts := strings.SplitN(contentType, ";", 2)
	return strings.TrimSpace(parts[0])
}

// DataURL renders data as a data URL. An empty contentType is sniffed from data.
func DataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a base64 data URL into its content type and raw bytes.
func ParseDataURL(dataURL string) (contentType string, data []byte, err error) {
	m := reg.FindStringSubmatch(dataURL)
	if m == nil {
		return "", nil, fmt.Errorf("not a base64 data url")
	}
	data, err = base64.StdEncoding.DecodeString(dataURL[len(m[0]):])
	if err != nil {
		return "", nil, err
	}
	return m[1], data, nil
}

// Info describes a decodable image without decoding its pixels.
type Info struct {
	Format string
	Width  int
	Height int
}

func DecodeConfig(r io.Reader) (*Info, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, err
	}
	return &Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
