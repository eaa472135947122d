package types

import "fmt"

// Inline-button callback payloads. Cancel payloads carry the owning user id
// so a button pressed by (or forwarded to) someone else can be rejected.
const (
	CallbackStartRename = "start_rename"

	CallbackUploadPrefix   = "upload_"        // upload_document|video|audio
	CallbackCancelConfirm  = "cancel_confirm_" // + userID
	CallbackCancelYes      = "cancel_yes_"     // + userID
	CallbackCancelNo       = "cancel_no_"      // + userID
	CallbackCopyLinkPrefix = "copy_link_"      // + token
)

func CancelConfirmPayload(userID int64) string {
	return fmt.Sprintf("%s%d", CallbackCancelConfirm, userID)
}

func CancelYesPayload(userID int64) string {
	return fmt.Sprintf("%s%d", CallbackCancelYes, userID)
}

func CancelNoPayload(userID int64) string {
	return fmt.Sprintf("%s%d", CallbackCancelNo, userID)
}

func CopyLinkPayload(token string) string {
	return CallbackCopyLinkPrefix + token
}

func UploadPayload(kind ContainerKind) string {
	return CallbackUploadPrefix + kind.String()
}
