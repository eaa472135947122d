package types

import "testing"

func TestContainerKindRoundTrip(t *testing.T) {
	for _, k := range []ContainerKind{ContainerDocument, ContainerVideo, ContainerAudio} {
		got, ok := ParseContainerKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseContainerKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseContainerKind("sticker"); ok {
		t.Error("unknown kind parsed")
	}
}

func TestContainerKindTitles(t *testing.T) {
	if ContainerVideo.Title() != "Video" || ContainerDocument.Title() != "Document" {
		t.Errorf("Title = %q / %q", ContainerVideo.Title(), ContainerDocument.Title())
	}
}

func TestIsForcedDocumentExt(t *testing.T) {
	for _, ext := range []string{".pdf", ".PDF", ".txt", ".docx", ".html"} {
		if !IsForcedDocumentExt(ext) {
			t.Errorf("%s should force document upload", ext)
		}
	}
	for _, ext := range []string{".mp4", ".mkv", "", ".mp3"} {
		if IsForcedDocumentExt(ext) {
			t.Errorf("%s should not force document upload", ext)
		}
	}
}

func TestIncomingFileExtension(t *testing.T) {
	if got := (IncomingFile{FileName: "a.tar.gz"}).Extension(); got != ".gz" {
		t.Errorf("Extension = %q", got)
	}
	if got := (IncomingFile{FileName: "noext"}).Extension(); got != "" {
		t.Errorf("Extension = %q, want empty", got)
	}
}

func TestCallbackPayloads(t *testing.T) {
	if got := CancelConfirmPayload(42); got != "cancel_confirm_42" {
		t.Errorf("CancelConfirmPayload = %q", got)
	}
	if got := UploadPayload(ContainerVideo); got != "upload_video" {
		t.Errorf("UploadPayload = %q", got)
	}
	if got := CopyLinkPayload("abc"); got != "copy_link_abc" {
		t.Errorf("CopyLinkPayload = %q", got)
	}
}
