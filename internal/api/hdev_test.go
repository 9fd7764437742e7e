package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stack-scheduler/internal/config"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestHDevClient(baseURL string, timeout time.Duration) *HDevClient {
	return NewHDevClient(&config.Config{
		HDevAPIKey:      "test-key",
		HDevBaseURL:     baseURL,
		UpstreamTimeout: timeout,
	}, zerolog.Nop())
}

func TestHDevClient_Fetch(t *testing.T) {
	Convey("Given a provider that answers an account lookup", t, func() {
		var gotPath, gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("X-Ratelimit-Remaining", "12")
			w.Header().Set("X-Ratelimit-Limit", "30")
			w.Write([]byte(`{"status":200,"data":{"puuid":"p-1","region":"eu","account_level":87,"card":{"small":"https://cdn/card.png"}}}`))
		}))
		defer srv.Close()

		client := newTestHDevClient(srv.URL, time.Second)

		Convey("When fetching an account with a space in its name", func() {
			resp, ok := client.GetAccount(context.Background(), "Ava Smith", "1#2")

			Convey("Then the payload is decoded", func() {
				So(ok, ShouldBeTrue)
				So(resp.Data, ShouldNotBeNil)
				So(resp.Data.Puuid, ShouldEqual, "p-1")
				So(resp.Data.Region, ShouldEqual, "eu")
				So(resp.Data.AccountLevel, ShouldEqual, 87)
				So(resp.Data.Card.Small, ShouldEqual, "https://cdn/card.png")
			})

			Convey("And both path segments are percent-encoded", func() {
				So(gotPath, ShouldEqual, "/valorant/v1/account/Ava%20Smith/1%232")
			})

			Convey("And the key is sent as the authorization header", func() {
				So(gotAuth, ShouldEqual, "test-key")
			})

			Convey("And rate limit headers are recorded", func() {
				info := client.GetRateLimitInfo()
				So(info.Remaining, ShouldEqual, 12)
				So(info.Limit, ShouldEqual, 30)
			})
		})
	})

	Convey("Given a provider that fails with 404", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":404,"errors":[{"message":"not found"}]}`))
		}))
		defer srv.Close()

		client := newTestHDevClient(srv.URL, time.Second)

		Convey("Then the call yields no data instead of an error", func() {
			resp, ok := client.GetMMR(context.Background(), "na", "Ava", "123")
			So(ok, ShouldBeFalse)
			So(resp, ShouldBeNil)
		})
	})

	Convey("Given a provider that sends malformed JSON", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": [`))
		}))
		defer srv.Close()

		client := newTestHDevClient(srv.URL, time.Second)

		Convey("Then the call yields no data", func() {
			_, ok := client.GetMatchesByName(context.Background(), "na", "Ava", "123")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a provider slower than the timeout", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte(`{"data":[]}`))
		}))
		defer srv.Close()

		client := newTestHDevClient(srv.URL, 50*time.Millisecond)

		Convey("Then the call is abandoned and yields no data", func() {
			start := time.Now()
			_, ok := client.GetMatchesByPuuid(context.Background(), "na", "p-1")
			So(ok, ShouldBeFalse)
			So(time.Since(start), ShouldBeLessThan, 250*time.Millisecond)
		})
	})

	Convey("Given an unreachable provider", t, func() {
		client := newTestHDevClient("http://127.0.0.1:1", time.Second)

		Convey("Then the call yields no data", func() {
			_, ok := client.GetAccount(context.Background(), "Ava", "123")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a cancelled context", t, func() {
		client := newTestHDevClient("http://127.0.0.1:1", time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then no request is made and no data is returned", func() {
			_, ok := client.GetAccount(ctx, "Ava", "123")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestHDevClient_MatchesData(t *testing.T) {
	Convey("Given match history responses", t, func() {
		body := `{"status":200}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		defer srv.Close()

		client := newTestHDevClient(srv.URL, time.Second)

		Convey("A response without data decodes to a nil slice", func() {
			resp, ok := client.GetMatchesByName(context.Background(), "na", "Ava", "123")
			So(ok, ShouldBeTrue)
			So(resp.Data, ShouldBeNil)
		})

		Convey("A response with an empty array decodes to a non-nil slice", func() {
			body = `{"status":200,"data":[]}`
			resp, ok := client.GetMatchesByName(context.Background(), "na", "Ava", "123")
			So(ok, ShouldBeTrue)
			So(resp.Data, ShouldNotBeNil)
			So(resp.Data, ShouldBeEmpty)
		})

		Convey("Roster entries and team outcomes are decoded", func() {
			body = `{"data":[{"metadata":{"matchid":"m1"},"players":{"all_players":[{"name":"Ava","tag":"123","team":"Red","character":"Jett","stats":{"kills":10,"deaths":5,"headshots":4}}]},"teams":{"red":{"has_won":true},"blue":{"has_won":false}}}]}`
			resp, ok := client.GetMatchesByName(context.Background(), "na", "Ava", "123")
			So(ok, ShouldBeTrue)
			So(resp.Data, ShouldHaveLength, 1)
			entry := resp.Data[0].Players.AllPlayers[0]
			So(entry.Character, ShouldEqual, "Jett")
			So(entry.Stats.Kills, ShouldEqual, 10)
			So(entry.Stats.Headshots, ShouldEqual, 4)
			So(entry.Stats.Assists, ShouldEqual, 0)
			So(resp.Data[0].Teams["red"].HasWon, ShouldBeTrue)
		})
	})
}

func TestHDevClient_PartialPayload(t *testing.T) {
	Convey("Given a match list where one roster entry has a mistyped stat", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":200,"data":[
				{"players":{"all_players":[{"name":"Ava","tag":"123","team":"Red","character":"Jett","stats":{"kills":10,"deaths":5}}]},"teams":{"red":{"has_won":true}}},
				{"players":{"all_players":[{"name":"Ava","tag":"123","team":"Blue","character":"Sova","stats":{"kills":"4","deaths":8,"assists":3}}]},"teams":{"blue":{"has_won":false}}}
			]}`))
		}))
		defer srv.Close()

		client := newTestHDevClient(srv.URL, time.Second)

		Convey("Then every match is kept and only the bad field is zeroed", func() {
			resp, ok := client.GetMatchesByName(context.Background(), "eu", "Ava", "123")
			So(ok, ShouldBeTrue)
			So(resp.Data, ShouldHaveLength, 2)
			So(resp.Data[0].Players.AllPlayers[0].Stats.Kills, ShouldEqual, 10)

			second := resp.Data[1].Players.AllPlayers[0]
			So(second.Character, ShouldEqual, "Sova")
			So(second.Stats.Kills, ShouldEqual, 0)
			So(second.Stats.Deaths, ShouldEqual, 8)
			So(second.Stats.Assists, ShouldEqual, 3)
		})
	})

	Convey("Given an account payload with a mistyped level", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":200,"data":{"puuid":"p-1","region":"eu","account_level":"87"}}`))
		}))
		defer srv.Close()

		client := newTestHDevClient(srv.URL, time.Second)

		Convey("Then the valid fields survive", func() {
			resp, ok := client.GetAccount(context.Background(), "Ava", "123")
			So(ok, ShouldBeTrue)
			So(resp.Data.Puuid, ShouldEqual, "p-1")
			So(resp.Data.Region, ShouldEqual, "eu")
			So(resp.Data.AccountLevel, ShouldEqual, 0)
		})
	})

	Convey("Given a truncated body", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":200,"data":{"puuid":`))
		}))
		defer srv.Close()

		client := newTestHDevClient(srv.URL, time.Second)

		Convey("Then there is still no data", func() {
			_, ok := client.GetAccount(context.Background(), "Ava", "123")
			So(ok, ShouldBeFalse)
		})
	})
}
