package ctxkey

const (
	RequestStartTime = "request_start_time"
	BaseURL          = "base_url"
	APIKey           = "api_key"
	MaxImageSize     = "max_image_size"
	MultipartMemory  = "multipart_memory"
)
