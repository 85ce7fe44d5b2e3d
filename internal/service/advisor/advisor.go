package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
	"github.com/SameetPathan/cowfarm/internal/service/aggregation"
	"github.com/SameetPathan/cowfarm/pkg/clients/anthropic"
)

// FallbackReply is shown whenever the AI backend cannot be reached. AI
// failures are always recovered locally, never surfaced as a request error.
const FallbackReply = "I'm having trouble connecting right now. Please try again in a moment."

// ErrDisabled indicates no AI client is configured.
var ErrDisabled = errors.New("ai advisor is not configured")

// ErrEmptyMessage indicates a blank chat message; callers should treat it as
// invalid input, not a backend failure.
var ErrEmptyMessage = errors.New("message must not be empty")

// StatsProvider supplies the aggregated statistics the analysis prompt is
// built from.
type StatsProvider interface {
	Summary(ctx context.Context, owner string, window *aggregation.DateRange) (models.Summary, error)
}

// Service fronts the AI assistant: one-shot farm analysis and a bounded
// per-owner chat.
type Service struct {
	ai       anthropic.Client // nil when disabled
	stats    StatsProvider
	sessions *SessionManager
	logger   *zap.Logger
}

// NewService wires a new advisor instance. ai may be nil, which disables
// both operations.
func NewService(ai anthropic.Client, stats StatsProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ai:       ai,
		stats:    stats,
		sessions: NewSessionManager(),
		logger:   logger,
	}
}

// Enabled reports whether an AI client is configured.
func (s *Service) Enabled() bool {
	return s.ai != nil
}

// Analyze aggregates the owner's farm statistics and asks the model for an
// assessment. A fetch/aggregation failure propagates; an AI failure is
// swallowed into the fallback reply.
func (s *Service) Analyze(ctx context.Context, owner string) (string, error) {
	if s.ai == nil {
		return "", ErrDisabled
	}

	summary, err := s.stats.Summary(ctx, owner, nil)
	if err != nil {
		return "", fmt.Errorf("load farm statistics: %w", err)
	}

	reply, err := s.ai.Analyze(ctx, statsText(summary))
	if err != nil {
		s.logger.Warn("ai analysis failed", zap.String("owner", owner), zap.Error(err))
		return FallbackReply, nil
	}
	return reply, nil
}

// Chat sends one user message with the owner's recent history. On AI
// failure the fallback reply is returned and the failed turn is not
// recorded in the session.
func (s *Service) Chat(ctx context.Context, owner, message string) (string, error) {
	if s.ai == nil {
		return "", ErrDisabled
	}
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}

	reply, err := s.ai.Chat(ctx, s.sessions.History(owner), message)
	if err != nil {
		s.logger.Warn("ai chat failed", zap.String("owner", owner), zap.Error(err))
		return FallbackReply, nil
	}

	s.sessions.Append(owner, message, reply)
	return reply, nil
}

// ResetChat clears the owner's conversation history.
func (s *Service) ResetChat(owner string) {
	s.sessions.Clear(owner)
}

// statsText renders the summary as the plain-text block embedded in the
// analysis prompt.
func statsText(summary models.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Herd: %d cows (%d healthy, %d sick, %d under treatment, %d recovering)\n",
		summary.TotalCows, summary.HealthyCows, summary.SickCows, summary.UnderTreatment, summary.Recovering)
	fmt.Fprintf(&b, "Milk production: %.2f L total, %.2f L average per cow (morning %.2f L / evening %.2f L)\n",
		summary.TotalMilkProduction, summary.AverageMilkPerCow, summary.MorningMilkTotal, summary.EveningMilkTotal)
	if summary.BestProducingCow.Name != "" {
		fmt.Fprintf(&b, "Best producer: %s (%.2f L). Lowest: %s (%.2f L)\n",
			summary.BestProducingCow.Name, summary.BestProducingCow.Quantity,
			summary.LowestProducingCow.Name, summary.LowestProducingCow.Quantity)
	}
	fmt.Fprintf(&b, "Expenses: %.2f total (feed %.2f, doctor %.2f, other %.2f), %.2f per day on average\n",
		summary.TotalExpenses, summary.FeedExpenses, summary.DoctorExpenses, summary.OtherExpenses, summary.AverageExpensePerDay)
	fmt.Fprintf(&b, "Veterinarian visits: %d, treatment cost %.2f\n",
		summary.VeterinarianVisits, summary.TotalTreatmentCost)

	if len(summary.CommonIllnesses) > 0 {
		b.WriteString("Common illnesses:")
		for _, ill := range summary.CommonIllnesses {
			fmt.Fprintf(&b, " %s (%d)", ill.Illness, ill.Count)
		}
		b.WriteString("\n")
	}
	if len(summary.CowsNeedingAttention) > 0 {
		b.WriteString("Cows needing attention:")
		for _, entry := range summary.CowsNeedingAttention {
			fmt.Fprintf(&b, " %s (%s)", entry.Name, entry.Status)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Herd health: %.1f%% healthy\n", summary.HealthyPercent)
	return b.String()
}
