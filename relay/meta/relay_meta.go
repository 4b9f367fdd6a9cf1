package meta

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/ctxkey"
	"github.com/kingfer30/image-describe/common/helper"
)

// Meta holds everything one relayed request needs. It is built per request and never shared.
type Meta struct {
	RequestId string
	// BaseURL is the provider endpoint the image is posted to
	BaseURL         string
	APIKey          string
	MaxImageSize    int64
	MultipartMemory int64
	// PromptTemplate is the prompt submitted by the caller, empty when absent
	PromptTemplate string
	ImageName      string
	ImageSize      int64
	StartTime      time.Time
}

func GetByContext(c *gin.Context) *Meta {
	meta := Meta{
		RequestId:       c.GetString(helper.RequestIdKey),
		BaseURL:         c.GetString(ctxkey.BaseURL),
		APIKey:          c.GetString(ctxkey.APIKey),
		MaxImageSize:    c.GetInt64(ctxkey.MaxImageSize),
		MultipartMemory: c.GetInt64(ctxkey.MultipartMemory),
		StartTime:       c.GetTime(ctxkey.RequestStartTime),
	}
	if meta.StartTime.IsZero() {
		meta.StartTime = time.Now()
	}
	if meta.MultipartMemory <= 0 {
		meta.MultipartMemory = 32 << 20
	}
	return &meta
}
