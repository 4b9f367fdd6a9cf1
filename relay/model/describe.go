package model

import "mime/multipart"

// DescribeFormRequest is the multipart upload accepted by POST /api/describe-image.
type DescribeFormRequest struct {
	Image          *multipart.FileHeader `form:"image"`
	PromptTemplate string                `form:"promptTemplate"`
}

// ProviderRequest is the JSON body sent to the description provider.
type ProviderRequest struct {
	Prompt      string `json:"prompt"`
	ImageBase64 string `json:"image_base64"`
}

type DescribeResponse struct {
	Description string `json:"description"`
	PromptUsed  string `json:"promptUsed"`
}
