package cfbd

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/charleschow/opp-adjust/internal/core/plays"
	"github.com/charleschow/opp-adjust/internal/telemetry"
)

func (c *Client) Calendar(ctx context.Context, year int) ([]CalendarWeek, error) {
	var weeks []CalendarWeek
	q := url.Values{"year": {strconv.Itoa(year)}}
	if err := c.getJSON(ctx, "/calendar", q, &weeks); err != nil {
		return nil, fmt.Errorf("calendar %d: %w", year, err)
	}
	return weeks, nil
}

func (c *Client) Plays(ctx context.Context, year, week int, seasonType string) ([]Play, error) {
	var out []Play
	if err := c.getJSON(ctx, "/plays", weekQuery(year, week, seasonType), &out); err != nil {
		return nil, fmt.Errorf("plays %d %s week %d: %w", year, seasonType, week, err)
	}
	return out, nil
}

func (c *Client) Games(ctx context.Context, year, week int, seasonType string) ([]Game, error) {
	var out []Game
	if err := c.getJSON(ctx, "/games", weekQuery(year, week, seasonType), &out); err != nil {
		return nil, fmt.Errorf("games %d %s week %d: %w", year, seasonType, week, err)
	}
	return out, nil
}

// FBSTeams lists the FBS schools for a season.
func (c *Client) FBSTeams(ctx context.Context, year int) ([]Team, error) {
	var out []Team
	q := url.Values{"year": {strconv.Itoa(year)}}
	if err := c.getJSON(ctx, "/teams/fbs", q, &out); err != nil {
		return nil, fmt.Errorf("fbs teams %d: %w", year, err)
	}
	return out, nil
}

func weekQuery(year, week int, seasonType string) url.Values {
	q := url.Values{
		"year": {strconv.Itoa(year)},
		"week": {strconv.Itoa(week)},
	}
	if seasonType != "" {
		q.Set("seasonType", seasonType)
	}
	return q
}

// Season is everything needed to adjust one year.
type Season struct {
	Year  int
	Teams []string
	Plays []plays.PlayRecord
	Games []plays.Game
}

// FetchSeason pulls the FBS team list and every calendar week's plays and
// games. Weeks are fetched concurrently, at most workers at a time; results
// keep calendar order.
func (c *Client) FetchSeason(ctx context.Context, year, workers int) (*Season, error) {
	teams, err := c.FBSTeams(ctx, year)
	if err != nil {
		return nil, err
	}
	weeks, err := c.Calendar(ctx, year)
	if err != nil {
		return nil, err
	}

	type weekData struct {
		plays []Play
		games []Game
	}
	data := make([]weekData, len(weeks))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, w := range weeks {
		i, w := i, w
		g.Go(func() error {
			p, err := c.Plays(gctx, year, w.Week, w.SeasonType)
			if err != nil {
				return err
			}
			gm, err := c.Games(gctx, year, w.Week, w.SeasonType)
			if err != nil {
				return err
			}
			data[i] = weekData{plays: p, games: gm}
			telemetry.Infof("cfbd: %s week %d  plays=%d games=%d", w.SeasonType, w.Week, len(p), len(gm))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Season{Year: year}
	for _, t := range teams {
		s.Teams = append(s.Teams, t.School)
	}
	for _, wd := range data {
		for _, p := range wd.plays {
			s.Plays = append(s.Plays, p.Record())
		}
		for _, gm := range wd.games {
			s.Games = append(s.Games, gm.Domain())
		}
	}
	telemetry.Metrics.PlaysFetched.Add(int64(len(s.Plays)))
	return s, nil
}
