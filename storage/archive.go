package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

const jsonContentType = "application/json"

// DrawArchive keeps an immutable JSON copy of every committed draw and promotion.
type DrawArchive struct {
	uploader FileUploader
}

func NewDrawArchive(uploader FileUploader) *DrawArchive {
	return &DrawArchive{uploader: uploader}
}

func DrawKey(tournamentID int, proposalID string) string {
	return fmt.Sprintf("tournaments/%d/draw-%s.json", tournamentID, proposalID)
}

func KnockoutKey(tournamentID int) string {
	return fmt.Sprintf("tournaments/%d/knockout.json", tournamentID)
}

func (a *DrawArchive) ArchiveDraw(ctx context.Context, tournamentID int, proposal *models.DrawProposal) (*UploadResult, error) {
	return a.put(ctx, DrawKey(tournamentID, proposal.ID), proposal)
}

func (a *DrawArchive) ArchiveKnockout(ctx context.Context, tournamentID int, matches []*models.Match) (*UploadResult, error) {
	return a.put(ctx, KnockoutKey(tournamentID), map[string]interface{}{
		"tournament_id": tournamentID,
		"matches":       matches,
	})
}

func (a *DrawArchive) put(ctx context.Context, key string, payload interface{}) (*UploadResult, error) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive %s: %w", key, err)
	}
	return a.uploader.Upload(ctx, key, jsonContentType, bytes.NewReader(body))
}
