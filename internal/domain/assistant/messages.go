package assistant

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies who wrote a chat message.
type Role string

// Chat roles understood by the model.
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Mode tells whether replies come from a live model.
type Mode string

// Assistant modes.
const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Fixed texts shown by the assistant.
const (
	Greeting = "Bonjour ! Je suis l'assistant expert du projet de prédiction des tensions RH en Normandie. " +
		"Posez-moi des questions sur la méthodologie (SARIMA, LSTM), les sources de données ou les résultats."
	OfflineReply = "Mode hors-ligne : je synthétise les éléments connus (SARIMA, LSTM, données Dares/INSEE) sans appel externe."
	EmptyReply   = "Désolé, je n'ai pas pu générer de réponse."
	ErrorReply   = "Une erreur est survenue lors de la communication avec l'assistant IA. Veuillez vérifier votre clé API."
)

// SystemInstruction frames every online conversation.
const SystemInstruction = `Tu es l'assistant expert d'un projet de data science qui prédit les tensions de recrutement
en Normandie à un horizon de six mois, par métier (code ROME) et par zone d'emploi.
Contexte :
- Indicateur : ratio de tension (offres / demandeurs). Au-dessus de 1,5 la tension est critique.
- Données : offres et demandes France Travail (temps réel), indicateurs Dares (décalage d'environ 90 jours,
  interpolés mensuellement), statistiques INSEE (annuelles).
- Modèles : SARIMA (référence, RMSE 150, MAPE 12 %), LSTM (RMSE 135, MAPE 9,8 %) et un ensemble par vote
  pondéré 40 % SARIMA / 60 % LSTM (RMSE 140, MAPE 10 %).
- Périmètre : les cinq départements normands (Calvados, Eure, Manche, Orne, Seine-Maritime).
Réponds en français, de façon concise et pédagogique, sans inventer de chiffres absents de ce contexte.`

// Message is one turn of a conversation.
type Message struct {
	Role      Role      `json:"role" validate:"required,oneof=user model"`
	Text      string    `json:"text" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
}

// GreetingMessage returns the message that opens every conversation.
func GreetingMessage(now time.Time) Message {
	return Message{Role: RoleModel, Text: Greeting, Timestamp: now}
}

// validateHistory rejects unknown roles and blank turns.
func validateHistory(history []Message) error {
	for i, m := range history {
		if m.Role != RoleUser && m.Role != RoleModel {
			return fmt.Errorf("%w: turn %d has role %q", ErrInvalidHistory, i, m.Role)
		}
		if strings.TrimSpace(m.Text) == "" {
			return fmt.Errorf("%w: turn %d is empty", ErrInvalidHistory, i)
		}
	}
	return nil
}
