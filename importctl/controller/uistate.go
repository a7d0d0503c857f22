package controller

import "github.com/guardian/gamesync/common/models"

const (
	LABEL_PENDING = "Importing..."
	LABEL_SUCCESS = "Success"
	LABEL_FAILED  = "Retry"
	LABEL_IDLE    = "Sync Steam"

	MESSAGE_PENDING = "Import in progress..."
	MESSAGE_SUCCESS = "Import completed."
	MESSAGE_FAILED  = "Import Error."

	MESSAGE_NETWORK_ERROR = "Network error."
	MESSAGE_NO_TASK_ID    = "Error: server did not return task id."
)

//what the button and status text should show for a given import status
type UIState struct {
	ButtonLabel string
	Disabled    bool
	Message     string
}

func RenderState(status models.ImportStatus) UIState {
	switch status {
	case models.IMPORT_PENDING:
		return UIState{ButtonLabel: LABEL_PENDING, Disabled: true, Message: MESSAGE_PENDING}
	case models.IMPORT_SUCCESS:
		return UIState{ButtonLabel: LABEL_SUCCESS, Disabled: true, Message: MESSAGE_SUCCESS}
	case models.IMPORT_FAILED:
		return UIState{ButtonLabel: LABEL_FAILED, Disabled: false, Message: MESSAGE_FAILED}
	default:
		return UIState{ButtonLabel: LABEL_IDLE, Disabled: false, Message: ""}
	}
}

func (s UIState) Apply(button Button, statusText StatusText) {
	button.SetDisabled(s.Disabled)
	button.SetLabel(s.ButtonLabel)
	statusText.SetText(s.Message)
}
