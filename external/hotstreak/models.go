package hotstreak

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	sonic "github.com/bytedance/sonic"
)

const (
	gamesQuery  = "query games { games { id opponents { designation team { abbreviation name } } league { name sportId } scheduledAt } }"
	systemQuery = "query system { system { sports { id name categories { id name groupName } } } }"
)

type graphQLRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type gamesEnvelope struct {
	Data *struct {
		Games []gameNode `json:"games"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type systemEnvelope struct {
	Data *struct {
		System *struct {
			Sports []sportNode `json:"sports"`
		} `json:"system"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type gameNode struct {
	ID          flexString      `json:"id"`
	Opponents   []opponentNode  `json:"opponents"`
	League      *leagueNode     `json:"league"`
	ScheduledAt json.RawMessage `json:"scheduledAt"`
}

type opponentNode struct {
	Designation string    `json:"designation"`
	Team        *teamNode `json:"team"`
}

type teamNode struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

type leagueNode struct {
	Name    string     `json:"name"`
	SportID flexString `json:"sportId"`
}

type sportNode struct {
	ID         flexString     `json:"id"`
	Name       string         `json:"name"`
	Categories []categoryNode `json:"categories"`
}

type categoryNode struct {
	ID        flexString `json:"id"`
	Name      string     `json:"name"`
	GroupName string     `json:"groupName"`
}

// flexString accepts ids sent either as strings or as numbers. null stays empty.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}

	if trimmed[0] == '"' {
		var text string
		if err := sonic.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = flexString(text)
		return nil
	}

	text := string(trimmed)
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", abbreviateBody(trimmed))
	}
	*s = flexString(text)
	return nil
}
