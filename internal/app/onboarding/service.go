package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"telefunken/internal/ports"
)

// DefaultWelcomeBonusGold is granted when no amount is configured.
const DefaultWelcomeBonusGold = 1000

// Result captures non-fatal onboarding outcomes.
type Result struct {
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr    error
	WelcomeBonusGranted bool
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	bonuses  ports.WelcomeBonusPort
	amount   int64
	rng      *rand.Rand
}

// NewService constructs an onboarding service. A non-positive amount falls
// back to DefaultWelcomeBonusGold; rng may be nil.
func NewService(accounts ports.AccountPort, bonuses ports.WelcomeBonusPort, amount int64, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if amount <= 0 {
		amount = DefaultWelcomeBonusGold
	}
	return &Service{accounts: accounts, bonuses: bonuses, amount: amount, rng: rng}
}

// OnboardNewUser gives a new account a table name and a one-time welcome
// bonus. Profile failures are reported in Result; bonus failures are errors.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.bonuses == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.tableName()}
	if err := s.accounts.UpdateProfile(ctx, userID, result.DisplayName, result.DisplayName); err != nil {
		result.ProfileUpdateErr = err
	}

	granted, err := s.bonuses.GrantWelcomeBonusOnce(ctx, userID, s.amount, map[string]interface{}{
		"reason": "welcome_bonus",
	})
	if err != nil {
		return result, fmt.Errorf("failed to grant welcome bonus: %w", err)
	}
	result.WelcomeBonusGranted = granted
	return result, nil
}

func (s *Service) tableName() string {
	adjectives := []string{"Lucky", "Sly", "Bold", "Quiet", "Sharp", "Merry", "Steady", "Crafty", "Nimble", "Wild"}
	nouns := []string{"Joker", "Dealer", "Ace", "Queen", "Knave", "Rummy", "Shuffler", "Melder", "Trump", "Deuce"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	return fmt.Sprintf("%s%s%d", adj, noun, s.rng.Intn(9000)+1000)
}
