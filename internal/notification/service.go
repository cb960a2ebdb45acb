package notification

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
)

// Service fans notifications out to every configured channel. With no
// channel configured every call is a no-op.
type Service struct {
	discord *DiscordService
}

// NewService creates a new notification service
func NewService(log zerolog.Logger, webhookURL string) domain.NotificationService {
	var discord *DiscordService
	if webhookURL != "" {
		discord = NewDiscordService(log, webhookURL)
	}

	return &Service{
		discord: discord,
	}
}

// SendRefreshSummary sends the refresh outcome through all configured channels
func (s *Service) SendRefreshSummary(ctx context.Context, report domain.RefreshReport) error {
	if s.discord != nil {
		if err := s.discord.SendRefreshSummary(ctx, report); err != nil {
			return err
		}
	}
	return nil
}

// SendError sends error notifications through all configured channels
func (s *Service) SendError(ctx context.Context, err error) error {
	if s.discord != nil {
		if err := s.discord.SendError(ctx, err); err != nil {
			return err
		}
	}
	return nil
}
