package rest

import (
	"time"

	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/stats"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

type characterPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	ExternalID string `json:"external_id,omitempty"`
	WikiURL    string `json:"wiki_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	Version    int64  `json:"version"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type characterRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ExternalID string `json:"external_id,omitempty"`
	WikiURL    string `json:"wiki_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	// Version is required on update; ignored on create.
	Version int64 `json:"version,omitempty"`
}

type characterListPayload struct {
	Characters    []characterPayload `json:"characters"`
	NextPageToken string             `json:"next_page_token,omitempty"`
}

type scriptPayload struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	WikiURL      string   `json:"wiki_url,omitempty"`
	CharacterIDs []string `json:"character_ids"`
	Version      int64    `json:"version"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type scriptRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	WikiURL      string   `json:"wiki_url,omitempty"`
	CharacterIDs []string `json:"character_ids"`
	Version      int64    `json:"version,omitempty"`
}

type scriptListPayload struct {
	Scripts       []scriptPayload `json:"scripts"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

type playerPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OwnerUserID string `json:"owner_user_id,omitempty"`
	OwnerName   string `json:"owner_name,omitempty"`
	DisplayName string `json:"display_name"`
	Version     int64  `json:"version"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type playerRequest struct {
	Name        string `json:"name"`
	OwnerUserID string `json:"owner_user_id,omitempty"`
	OwnerName   string `json:"owner_name,omitempty"`
	Version     int64  `json:"version,omitempty"`
}

type playerListPayload struct {
	Players       []playerPayload `json:"players"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

type participationPayload struct {
	PlayerID           string `json:"player_id"`
	InitialCharacterID string `json:"initial_character_id,omitempty"`
	InitialAlignment   string `json:"initial_alignment,omitempty"`
	EndCharacterID     string `json:"end_character_id,omitempty"`
	EndAlignment       string `json:"end_alignment,omitempty"`
	AliveAtEnd         bool   `json:"alive_at_end"`
}

// winnerPayload carries exactly one of an alignment or an explicit player
// list; when both are sent the alignment wins.
type winnerPayload struct {
	Alignment string   `json:"alignment,omitempty"`
	PlayerIDs []string `json:"player_ids,omitempty"`
}

type gamePayload struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description,omitempty"`
	ScriptID       string                 `json:"script_id,omitempty"`
	Participations []participationPayload `json:"participations"`
	Winner         winnerPayload          `json:"winner"`
	StorytellerIDs []string               `json:"storyteller_ids,omitempty"`
	Version        int64                  `json:"version"`
	CreatedAt      string                 `json:"created_at"`
	UpdatedAt      string                 `json:"updated_at"`
}

type gameRequest struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description,omitempty"`
	ScriptID       string                 `json:"script_id,omitempty"`
	Participations []participationPayload `json:"participations"`
	Winner         winnerPayload          `json:"winner"`
	StorytellerIDs []string               `json:"storyteller_ids,omitempty"`
	Version        int64                  `json:"version,omitempty"`
}

type gameListPayload struct {
	Games         []gamePayload `json:"games"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

type statisticsPayload struct {
	PlayerID            string         `json:"player_id"`
	TotalGamesPlayed    int            `json:"total_games_played"`
	TotalWins           int            `json:"total_wins"`
	TimesStoryteller    int            `json:"times_storyteller"`
	TimesDeadAtEnd      int            `json:"times_dead_at_end"`
	TimesGood           int            `json:"times_good"`
	TimesEvil           int            `json:"times_evil"`
	CharacterTypeCounts map[string]int `json:"character_type_counts"`
	CharacterCounts     map[string]int `json:"character_counts"`
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339)
}

func characterToPayload(record storage.CharacterRecord) characterPayload {
	return characterPayload{
		ID:         record.ID,
		Name:       record.Name,
		Type:       record.Type,
		ExternalID: record.ExternalID,
		WikiURL:    record.WikiURL,
		ImageURL:   record.ImageURL,
		Version:    record.Version,
		CreatedAt:  formatTime(record.CreatedAt),
		UpdatedAt:  formatTime(record.UpdatedAt),
	}
}

func scriptToPayload(record storage.ScriptRecord) scriptPayload {
	characterIDs := record.CharacterIDs
	if characterIDs == nil {
		characterIDs = []string{}
	}
	return scriptPayload{
		ID:           record.ID,
		Name:         record.Name,
		Description:  record.Description,
		WikiURL:      record.WikiURL,
		CharacterIDs: characterIDs,
		Version:      record.Version,
		CreatedAt:    formatTime(record.CreatedAt),
		UpdatedAt:    formatTime(record.UpdatedAt),
	}
}

func playerToPayload(record storage.PlayerRecord) playerPayload {
	displayName := record.Name
	if record.OwnerUserID != "" && record.OwnerName != "" {
		displayName = record.OwnerName
	}
	return playerPayload{
		ID:          record.ID,
		Name:        record.Name,
		OwnerUserID: record.OwnerUserID,
		OwnerName:   record.OwnerName,
		DisplayName: displayName,
		Version:     record.Version,
		CreatedAt:   formatTime(record.CreatedAt),
		UpdatedAt:   formatTime(record.UpdatedAt),
	}
}

func gameToPayload(record storage.GameRecord) gamePayload {
	participations := make([]participationPayload, 0, len(record.Participations))
	for _, p := range record.Participations {
		participations = append(participations, participationPayload{
			PlayerID:           p.PlayerID,
			InitialCharacterID: p.InitialCharacterID,
			InitialAlignment:   p.InitialAlignment,
			EndCharacterID:     p.EndCharacterID,
			EndAlignment:       p.EndAlignment,
			AliveAtEnd:         p.AliveAtEnd,
		})
	}
	return gamePayload{
		ID:             record.ID,
		Name:           record.Name,
		Description:    record.Description,
		ScriptID:       record.ScriptID,
		Participations: participations,
		Winner: winnerPayload{
			Alignment: record.WinnerAlignment,
			PlayerIDs: record.WinnerPlayerIDs,
		},
		StorytellerIDs: record.StorytellerIDs,
		Version:        record.Version,
		CreatedAt:      formatTime(record.CreatedAt),
		UpdatedAt:      formatTime(record.UpdatedAt),
	}
}

func statisticsToPayload(summary stats.PlayerStatistics) statisticsPayload {
	typeCounts := make(map[string]int, len(summary.CharacterTypeCounts))
	for characterType, count := range summary.CharacterTypeCounts {
		typeCounts[characterType.String()] = count
	}
	characterCounts := summary.CharacterCounts
	if characterCounts == nil {
		characterCounts = map[string]int{}
	}
	return statisticsPayload{
		PlayerID:            summary.PlayerID,
		TotalGamesPlayed:    summary.TotalGamesPlayed,
		TotalWins:           summary.TotalWins,
		TimesStoryteller:    summary.TimesStoryteller,
		TimesDeadAtEnd:      summary.TimesDeadAtEnd,
		TimesGood:           summary.TimesGood,
		TimesEvil:           summary.TimesEvil,
		CharacterTypeCounts: typeCounts,
		CharacterCounts:     characterCounts,
	}
}
