package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leaguedesk/leaguedesk/engine"
	"github.com/leaguedesk/leaguedesk/models"
	"github.com/leaguedesk/leaguedesk/storage"
)

// ImageExport holds the public URLs of an uploaded export: the rendered
// image and its plain-text sidecar.
type ImageExport struct {
	ImageURL string `json:"image_url"`
	TextURL  string `json:"text_url"`
}

// ExportService turns computed standings and schedules into shareable
// artifacts. The core exposes no mutation hooks to it; everything here is
// read-only over the tournament state.
type ExportService interface {
	// TextSummary renders the ranked standings (and, when enabled, the
	// round schedule) as clipboard-ready plain text.
	TextSummary(ctx context.Context, id string) (string, error)

	// UploadImage stores a client-rendered PNG of the result grid
	// alongside the text summary and returns their public URLs.
	UploadImage(ctx context.Context, id string, image io.Reader) (*ImageExport, error)
}

type exportService struct {
	tournaments TournamentService
	uploader    storage.FileUploader // nil when image export is not configured
	logger      *slog.Logger
}

func NewExportService(tournaments TournamentService, uploader storage.FileUploader, logger *slog.Logger) ExportService {
	return &exportService{
		tournaments: tournaments,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *exportService) TextSummary(ctx context.Context, id string) (string, error) {
	t, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	standings := engine.ComputeStandings(t.Players, t.Matches, t.Mode, t.AllowDraw)

	var b strings.Builder
	if t.Title != "" {
		fmt.Fprintf(&b, "%s\n\n", t.Title)
	}

	for _, line := range standings {
		if t.Mode == models.ModeScore {
			fmt.Fprintf(&b, "%d. %s  %dpts (%dW %dD %dL, %s:%s)\n",
				line.Rank, line.Participant.Name, line.Points,
				line.Wins, line.Draws, line.Losses,
				formatGoals(line.GoalsFor), formatGoals(line.GoalsAgainst))
		} else {
			fmt.Fprintf(&b, "%d. %s  %dW %dD %dL\n",
				line.Rank, line.Participant.Name,
				line.Wins, line.Draws, line.Losses)
		}
	}

	if t.ShowOrder {
		rounds := engine.GenerateSchedule(t.Players)
		if len(rounds) > 0 {
			b.WriteString("\n")
		}
		for _, round := range rounds {
			fmt.Fprintf(&b, "Round %d\n", round.RoundNumber)
			for _, m := range round.Matches {
				if m.IsBye {
					fmt.Fprintf(&b, "  %s: bye\n", m.ParticipantA.Name)
					continue
				}
				fmt.Fprintf(&b, "  #%d %s vs %s%s\n",
					*m.SequenceNumber, m.ParticipantA.Name, m.ParticipantB.Name,
					formatResult(t.Snapshot, m.ParticipantA.ID, m.ParticipantB.ID))
			}
		}
	}

	return b.String(), nil
}

func (s *exportService) UploadImage(ctx context.Context, id string, image io.Reader) (*ImageExport, error) {
	if s.uploader == nil {
		return nil, ErrExportUnavailable
	}

	data, err := io.ReadAll(image)
	if err != nil {
		return nil, fmt.Errorf("failed to read image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	summary, err := s.TextSummary(ctx, id)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	imageKey := fmt.Sprintf("exports/%s/%s.png", id, stamp)
	textKey := fmt.Sprintf("exports/%s/%s.txt", id, stamp)

	// The image and its text sidecar upload independently.
	g, gctx := errgroup.WithContext(ctx)
	var imageResult, textResult *storage.UploadResult
	g.Go(func() error {
		var upErr error
		imageResult, upErr = s.uploader.Upload(gctx, imageKey, "image/png", bytes.NewReader(data))
		return upErr
	})
	g.Go(func() error {
		var upErr error
		textResult, upErr = s.uploader.Upload(gctx, textKey, "text/plain; charset=utf-8", strings.NewReader(summary))
		return upErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to upload export for tournament %s: %w", id, err)
	}

	s.logger.Info("export uploaded",
		slog.String("tournament_id", id),
		slog.String("image_key", imageResult.Key),
		slog.String("text_key", textResult.Key))

	return &ImageExport{
		ImageURL: imageResult.Location,
		TextURL:  textResult.Location,
	}, nil
}

// formatResult annotates a schedule line with the recorded score, marking
// results that do not (yet) count toward standings.
func formatResult(snap models.Snapshot, p1, p2 string) string {
	score, ok := engine.Lookup(snap.Matches, p1, p2)
	if !ok || score.A == nil || score.B == nil {
		return ""
	}
	suffix := ""
	if !engine.IsConfirmed(snap.Matches, p1, p2, snap.Mode, snap.AllowDraw) {
		suffix = " (unconfirmed)"
	}
	if snap.Mode == models.ModeWinLoss {
		return fmt.Sprintf("  %s%s", winLossLabel(*score.A, *score.B), suffix)
	}
	return fmt.Sprintf("  %s-%s%s", formatGoals(*score.A), formatGoals(*score.B), suffix)
}

func winLossLabel(a, b float64) string {
	switch engine.OutcomeOf(a, b) {
	case engine.Win:
		return "W-L"
	case engine.Loss:
		return "L-W"
	default:
		return "D-D"
	}
}

// formatGoals prints whole scores without a decimal point.
func formatGoals(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
