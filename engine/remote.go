package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"halma/agent"
	"halma/game"
	"halma/searcher"
)

var ErrRemoteSeat = errors.New("remote players only play A")

// RemotePlayer asks an agent server for moves, the way the match runner does.
type RemotePlayer struct {
	url    string
	runURL string
	action int
	client *http.Client
}

// NewRemotePlayer talks to the agent at url for a game in env. Use one per game.
func NewRemotePlayer(url, env string) *RemotePlayer {
	return &RemotePlayer{
		url:    strings.TrimRight(url, "/"),
		runURL: "/arena/run/" + env + "/local",
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *RemotePlayer) FindMove(s game.State, p game.Player, _ game.Shape) (game.Move, error) {
	if p != game.A {
		return game.Move{}, fmt.Errorf("%w, seated as %s", ErrRemoteSeat, p)
	}

	body, err := json.Marshal(agent.Request{
		Position: s.Position(),
		Info:     agent.Info{RunURL: r.runURL, ActionNumber: r.action},
	})
	if err != nil {
		return game.Move{}, err
	}
	r.action++

	resp, err := r.client.Post(r.url+"/move", "application/json", bytes.NewReader(body))
	if err != nil {
		return game.Move{}, fmt.Errorf("failed to reach agent: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return game.Move{}, searcher.ErrNoLegalMove
	default:
		out, _ := io.ReadAll(resp.Body)
		return game.Move{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var m game.Move
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return game.Move{}, fmt.Errorf("failed to decode move: %w", err)
	}
	return m, nil
}
