// Package discord posts run notifications to a Discord webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/charleschow/opp-adjust/internal/core/ratings"
	"github.com/charleschow/opp-adjust/internal/telemetry"
)

type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Notifier) Enabled() bool { return n.webhookURL != "" }

type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

func (n *Notifier) SendText(ctx context.Context, msg string) error {
	return n.send(ctx, webhookPayload{Content: msg})
}

func (n *Notifier) SendEmbed(ctx context.Context, embed Embed) error {
	if embed.Timestamp == "" {
		embed.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return n.send(ctx, webhookPayload{Embeds: []Embed{embed}})
}

func (n *Notifier) send(ctx context.Context, payload webhookPayload) error {
	if !n.Enabled() {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		telemetry.Warnf("discord: rate limited")
		return fmt.Errorf("discord rate limited")
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook: status=%d", resp.StatusCode)
	}
	return nil
}

const (
	ColorGreen  = 0x2ECC71
	ColorRed    = 0xE74C3C
	ColorYellow = 0xF1C40F
)

// RunSummary posts one field per category (homefield and penalty, or the
// failure) plus the top adjusted offenses of the first successful category.
func (n *Notifier) RunSummary(ctx context.Context, season int, stat, runID string, t *ratings.Table) error {
	failed := len(t.Failures())
	color := ColorGreen
	switch {
	case failed == len(t.Categories):
		color = ColorRed
	case failed > 0:
		color = ColorYellow
	}

	embed := Embed{
		Title:       fmt.Sprintf("Adjusted ratings %d (%s)", season, stat),
		Description: fmt.Sprintf("%d teams, run %s", len(t.Teams), runID),
		Color:       color,
	}
	for _, label := range t.Categories {
		s := t.Summaries[label]
		value := fmt.Sprintf("hfa %.3f, penalty %g, %d rows", ratings.Round3(s.Homefield), s.Penalty, s.Rows)
		if s.Err != nil {
			value = "failed: " + s.Err.Error()
		}
		embed.Fields = append(embed.Fields, Field{Name: label, Value: value, Inline: true})
	}
	for _, label := range t.Categories {
		if t.Summaries[label].Err != nil {
			continue
		}
		embed.Fields = append(embed.Fields, Field{
			Name:  "Top offense (" + label + ")",
			Value: topOffense(t, label, 5),
		})
		break
	}
	return n.SendEmbed(ctx, embed)
}

func topOffense(t *ratings.Table, label string, k int) string {
	type entry struct {
		team string
		v    float64
	}
	var entries []entry
	for _, tr := range t.Teams {
		if v := tr.Cells[label].AdjOff; v != nil {
			entries = append(entries, entry{tr.Team, *v})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].v > entries[j].v })
	if len(entries) > k {
		entries = entries[:k]
	}

	var b bytes.Buffer
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, e.team, ratings.FormatValue(&e.v))
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
