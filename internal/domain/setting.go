package domain

// Known application settings.
const (
	SettingChatEnabled            = "chat-enabled"
	SettingVivaQuestionAddEnabled = "viva-question-add-enabled"
)

// Setting is a named boolean application switch.
type Setting struct {
	Name  string
	Value bool
}
