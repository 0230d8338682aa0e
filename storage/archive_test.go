package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"testing"

	"github.com/Dosada05/tournament-engine/models"
)

type recordingUploader struct {
	key         string
	contentType string
	body        []byte
}

func (u *recordingUploader) Upload(_ context.Context, key, contentType string, reader io.Reader) (*UploadResult, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.key, u.contentType, u.body = key, contentType, body
	return &UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *recordingUploader) GetPublicURL(key string) string {
	return "https://cdn.example/" + key
}

func TestArchiveDrawUploadsProposalJSON(t *testing.T) {
	up := &recordingUploader{}
	archive := NewDrawArchive(up)
	proposal := &models.DrawProposal{ID: "abc", Format: models.FormatGroups, Seed: 9, TeamIDs: []int{1, 2, 3, 4}}

	res, err := archive.ArchiveDraw(context.Background(), 12, proposal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.key != "tournaments/12/draw-abc.json" || res.Key != up.key {
		t.Errorf("key = %q", up.key)
	}
	if up.contentType != "application/json" {
		t.Errorf("content type = %q", up.contentType)
	}
	var decoded models.DrawProposal
	if err := json.Unmarshal(up.body, &decoded); err != nil {
		t.Fatalf("archived body is not JSON: %v", err)
	}
	if decoded.ID != "abc" || decoded.Seed != 9 || len(decoded.TeamIDs) != 4 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestArchiveKnockoutKey(t *testing.T) {
	up := &recordingUploader{}
	if _, err := NewDrawArchive(up).ArchiveKnockout(context.Background(), 3, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.key != "tournaments/3/knockout.json" {
		t.Errorf("key = %q", up.key)
	}
}

func TestPublicURL(t *testing.T) {
	base, _ := url.Parse("https://cdn.example/archive/")
	tests := map[string]string{
		"tournaments/1/knockout.json":  "https://cdn.example/archive/tournaments/1/knockout.json",
		"/tournaments/1/knockout.json": "https://cdn.example/archive/tournaments/1/knockout.json",
		"":                             "",
	}
	for key, want := range tests {
		if got := publicURL(base, key); got != want {
			t.Errorf("publicURL(%q) = %q, want %q", key, got, want)
		}
	}
}
