package bot

import "testing"

func TestFallbackIdentities(t *testing.T) {
	identity := GetBotIdentity(3)
	if identity.UserID == "" || !IsBot(identity.UserID) {
		t.Fatalf("fallback identity %+v is not recognised as a bot", identity)
	}
	if GetBotDisplayName(identity.UserID) == "" {
		t.Error("fallback bot has no display name")
	}
	if IsBot("a-human-user") {
		t.Error("human user treated as bot")
	}
}

func TestSetIdentities(t *testing.T) {
	setIdentities([]BotIdentity{
		{UserID: "u-1", Username: "dealer", DisplayName: "The Dealer", Difficulty: "easy"},
		{Username: "unprovisioned"},
	})
	defer setIdentities(nil)

	if !IsBot("u-1") || GetBotUsername("u-1") != "dealer" || GetBotDisplayName("u-1") != "The Dealer" {
		t.Error("provisioned identity not mapped")
	}
	if got := GetBotIdentity(1); got.UserID != "u-1" {
		t.Errorf("expected the provisioned identity, got %+v", got)
	}
	agent, err := NewAgent("u-1")
	if err != nil {
		t.Fatalf("NewAgent failed: %v", err)
	}
	if _, ok := agent.Strategy.(*BasicBot); !ok {
		t.Errorf("easy identity should get the basic brain, got %T", agent.Strategy)
	}
	if ids := GetAllBotIDs(); len(ids) != 1 {
		t.Errorf("expected one bot id, got %v", ids)
	}
}
