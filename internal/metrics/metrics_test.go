package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHandler(t *testing.T) {
	Convey("Recorded collectors are exposed", t, func() {
		before := testutil.ToFloat64(HistoryFallbacks)
		HistoryFallbacks.Inc()
		So(testutil.ToFloat64(HistoryFallbacks), ShouldEqual, before+1)

		UpstreamRequests.WithLabelValues("account", OutcomeOK).Inc()

		rec := httptest.NewRecorder()
		Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body, _ := io.ReadAll(rec.Body)

		So(string(body), ShouldContainSubstring, "stack_match_history_fallbacks_total")
		So(string(body), ShouldContainSubstring, `stack_upstream_requests_total{endpoint="account",outcome="ok"}`)
	})
}
