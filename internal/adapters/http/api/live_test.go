package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	service "github.com/okian/xgmap/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

type liveReply struct {
	ID         string `json:"id"`
	Evaluation *struct {
		Preset string  `json:"preset"`
		XG     float64 `json:"xg"`
	} `json:"evaluation"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestLiveScoring(t *testing.T) {
	Convey("Given the API served over a real listener", t, func() {
		srv := httptest.NewServer(newMux(service.New()))
		defer srv.Close()
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/live"

		Convey("When a client connects and sends positions", func() {
			conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
			So(err, ShouldBeNil)
			defer func() { _ = conn.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusSwitchingProtocols)
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

			send := func(msg string) liveReply {
				So(conn.WriteMessage(websocket.TextMessage, []byte(msg)), ShouldBeNil)
				var reply liveReply
				So(conn.ReadJSON(&reply), ShouldBeNil)
				return reply
			}

			Convey("Then each message is answered in order", func() {
				first := send(`{"id":"1","x":108,"y":40}`)
				So(first.ID, ShouldEqual, "1")
				So(first.Error, ShouldBeNil)
				So(first.Evaluation.Preset, ShouldEqual, "trained")
				So(first.Evaluation.XG, ShouldAlmostEqual, 0.0994668937117369, 1e-12)

				second := send(`{"id":"2","x":100,"y":40,"preset":"illustrative"}`)
				So(second.ID, ShouldEqual, "2")
				So(second.Evaluation.Preset, ShouldEqual, "illustrative")
			})

			Convey("Then bad messages get an error reply and the session stays open", func() {
				So(send(`{"id":"a","x":108}`).Error.Code, ShouldEqual, "bad_request")
				So(send(`{not json`).Error.Code, ShouldEqual, "bad_request")

				unknown := send(`{"id":"c","x":108,"y":40,"preset":"made-up"}`)
				So(unknown.ID, ShouldEqual, "c")
				So(unknown.Error.Code, ShouldEqual, "unknown_preset")

				So(send(`{"id":"d","x":108,"y":40}`).Evaluation, ShouldNotBeNil)
			})
		})

		Convey("When a plain GET arrives without upgrade headers", func() {
			resp, err := http.Get(srv.URL + "/v1/live")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}
