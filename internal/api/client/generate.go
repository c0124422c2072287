package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// GenerateParams is the body of a generation request.
type GenerateParams struct {
	ProductName string   `json:"product_name"`
	Features    string   `json:"features,omitempty"`
	Audience    string   `json:"audience,omitempty"`
	Platform    string   `json:"platform,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tone        string   `json:"tone,omitempty"`
	Length      string   `json:"length,omitempty"`
	Language    string   `json:"language,omitempty"`
	UserID      string   `json:"user_id,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// GenerateResult is a generated card as returned by the server.
type GenerateResult struct {
	Card         domain.ProductCard `json:"card"`
	GenerationID int64              `json:"generation_id,omitempty"`
	Platform     string             `json:"platform"`
	Language     string             `json:"language"`
}

// ErrStreamIncomplete is returned when a stream ends without a result event.
var ErrStreamIncomplete = errors.New("stream ended without a result")

const maxEventSize = 1 << 20

// Generate requests a card and waits for the full response.
func (c *Client) Generate(ctx context.Context, params *GenerateParams) (*GenerateResult, error) {
	var resp GenerateResult
	if err := c.post(ctx, "/api/v1/generate", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type streamEvent struct {
	Progress float64 `json:"progress"`
	Error    string  `json:"error"`
}

// GenerateStream requests a card over server-sent events, calling progress
// (if non-nil) with each reported fraction.
func (c *Client) GenerateStream(
	ctx context.Context,
	params *GenerateParams,
	progress func(fraction float64),
) (*GenerateResult, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/v1/generate/stream", params, "text/event-stream")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxEventSize)

	var event string
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			result, done, err := dispatch(event, data.String(), progress)
			if done || err != nil {
				return result, err
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}
	return nil, ErrStreamIncomplete
}

func dispatch(event, data string, progress func(float64)) (*GenerateResult, bool, error) {
	switch event {
	case "progress":
		var ev streamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return nil, false, fmt.Errorf("decoding progress event: %w", err)
		}
		if progress != nil {
			progress(ev.Progress)
		}
	case "error":
		var ev streamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return nil, true, fmt.Errorf("decoding error event: %w", err)
		}
		return nil, true, fmt.Errorf("generation failed: %s", ev.Error)
	case "result":
		var result GenerateResult
		if err := json.Unmarshal([]byte(data), &result); err != nil {
			return nil, true, fmt.Errorf("decoding result event: %w", err)
		}
		return &result, true, nil
	}
	return nil, false, nil
}
