package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestID(t *testing.T) {
	Convey("Given a handler wrapped with RequestID", t, func() {
		var seen string
		h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}))

		Convey("A caller-supplied id is propagated", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			req.Header.Set("X-Request-ID", "abc-123")
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			So(seen, ShouldEqual, "abc-123")
			So(rec.Header().Get("X-Request-ID"), ShouldEqual, "abc-123")
			So(rec.Code, ShouldEqual, http.StatusTeapot)
		})

		Convey("A missing id is generated", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			So(seen, ShouldNotBeEmpty)
			So(rec.Header().Get("X-Request-ID"), ShouldEqual, seen)
		})
	})

	Convey("Outside a request there is no id", t, func() {
		So(GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()), ShouldEqual, "")
	})
}
