package uploader

// Presenter is the display the upload flow renders into.
// An empty preview means the "no image" placeholder.
type Presenter interface {
	ShowPreview(dataURL string)
	ShowStatus(text string)
	ShowError(text string)
}

// PromptPresenter is implemented by displays that show the prompt template.
type PromptPresenter interface {
	ShowPrompt(text string)
}
