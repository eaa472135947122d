package tgbot

import (
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestParseIDSuffix(t *testing.T) {
	if id, ok := parseIDSuffix("42"); !ok || id != 42 {
		t.Errorf("parseIDSuffix(42) = %d, %v", id, ok)
	}
	for _, s := range []string{"", "abc", "42x"} {
		if _, ok := parseIDSuffix(s); ok {
			t.Errorf("parseIDSuffix(%q) accepted", s)
		}
	}
}

func TestIsPublicUpdate(t *testing.T) {
	msg := func(text string) *models.Update {
		return &models.Update{Message: &models.Message{Text: text}}
	}
	cases := []struct {
		update *models.Update
		want   bool
	}{
		{msg("/start"), true},
		{msg("/start abc123"), true},
		{msg("  /start  "), true},
		{msg("/cancel"), false},
		{msg("/started"), false},
		{msg("hello"), false},
		{&models.Update{}, false},
	}
	for _, c := range cases {
		if got := isPublicUpdate(c.update); got != c.want {
			t.Errorf("isPublicUpdate(%+v) = %v, want %v", c.update.Message, got, c.want)
		}
	}
}

func TestRenderUserList(t *testing.T) {
	if got := renderUserList(nil); !strings.Contains(got, "No users") {
		t.Errorf("empty list = %q", got)
	}
	got := renderUserList([]int64{11, 22})
	for _, want := range []string{"(2)", "`11`", "`22`"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderUserList missing %q in %q", want, got)
		}
	}
}

func TestIncomingFileFromMessage(t *testing.T) {
	doc := &models.Message{Document: &models.Document{FileID: "d1", FileName: "a.pdf", FileSize: 10}}
	if f := incomingFileFromMessage(doc); f == nil || f.FileID != "d1" || f.FileName != "a.pdf" {
		t.Errorf("document extraction = %+v", f)
	}
	vid := &models.Message{Video: &models.Video{FileID: "v1", Duration: 9, FileSize: 20}}
	f := incomingFileFromMessage(vid)
	if f == nil || f.Duration != 9 || f.Kind.String() != "video" {
		t.Errorf("video extraction = %+v", f)
	}
	if f := incomingFileFromMessage(&models.Message{Text: "hi"}); f != nil {
		t.Errorf("text message produced a file: %+v", f)
	}
}
