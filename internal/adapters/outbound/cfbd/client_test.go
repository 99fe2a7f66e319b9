package cfbd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/teams/fbs", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"id":333,"school":"Alabama"},{"id":2,"school":"Auburn"}]`))
	})
	mux.HandleFunc("/calendar", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"season":2023,"week":1,"seasonType":"regular"},
			{"season":2023,"week":2,"seasonType":"regular"}
		]`))
	})
	mux.HandleFunc("/plays", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("week") {
		case "1":
			w.Write([]byte(`[
				{"id":"1001","gameId":401,"offense":"Alabama","defense":"Auburn","home":"Alabama","away":"Auburn","playType":"Rush","ppa":0.42},
				{"id":"1002","gameId":401,"offense":"Auburn","defense":"Alabama","home":"Alabama","away":"Auburn","playType":"Timeout","ppa":null}
			]`))
		default:
			w.Write([]byte(`[
				{"id":"2001","gameId":"402","offense":"Auburn","defense":"Alabama","home":"Auburn","away":"Alabama","playType":"Sack","ppa":-1.5}
			]`))
		}
	})
	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("week") {
		case "1":
			w.Write([]byte(`[{"id":401,"season":2023,"week":1,"neutralSite":false,"homeTeam":"Alabama","awayTeam":"Auburn"}]`))
		default:
			w.Write([]byte(`[{"id":402,"season":2023,"week":2,"neutralSite":true,"homeTeam":"Auburn","awayTeam":"Alabama"}]`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSeason(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "secret", 1000, 5*time.Second)

	s, err := c.FetchSeason(context.Background(), 2023, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alabama", "Auburn"}, s.Teams)
	require.Len(t, s.Plays, 3)
	assert.Equal(t, "401", s.Plays[0].GameID)
	assert.Equal(t, 0.42, s.Plays[0].Values[StatPPA])
	_, ok := s.Plays[1].Values[StatPPA]
	assert.False(t, ok, "null ppa is a missing value")
	assert.Equal(t, "402", s.Plays[2].GameID)

	require.Len(t, s.Games, 2)
	assert.Equal(t, "401", s.Games[0].ID)
	assert.True(t, s.Games[1].NeutralSite)
}

func TestStatusError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "wrong", 1000, 5*time.Second)

	_, err := c.FBSTeams(context.Background(), 2023)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Equal(t, "/teams/fbs", se.Path)
	assert.Contains(t, se.Body, "unauthorized")

	_, err = c.FetchSeason(context.Background(), 2023, 2)
	assert.Error(t, err)
}

func TestWeekQuery(t *testing.T) {
	q := weekQuery(2023, 3, "postseason")
	assert.Equal(t, "seasonType=postseason&week=3&year=2023", q.Encode())
	assert.False(t, weekQuery(2023, 3, "").Has("seasonType"))
}

func TestContextCancelled(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "secret", 1000, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Calendar(ctx, 2023)
	assert.Error(t, err)
}
