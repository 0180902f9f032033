package app

import "telefunken/internal/domain"

// MinPlayersToStartGame defines the minimum number of seated players required to start a game.
const MinPlayersToStartGame = domain.MinPlayers

// DefaultTicketTTLSeconds bounds how long a seat ticket stays valid.
const DefaultTicketTTLSeconds = 120
