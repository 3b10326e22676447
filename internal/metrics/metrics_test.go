package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgs-showcase/internal/logger"
	"bgs-showcase/internal/pipeline"
)

func TestCollectorCountsFramesAndRuns(t *testing.T) {
	c := NewCollector()

	c.RunStarted("KNN")
	c.FrameProcessed("KNN", 0, 10*time.Millisecond, 2)
	c.FrameProcessed("KNN", 1, 12*time.Millisecond, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.remaining.WithLabelValues("KNN")))
	c.RunFinished("KNN", pipeline.Outcome{Algorithm: "KNN", Frames: 2, Reason: pipeline.Exhausted})

	c.RunStarted("ViBe")
	c.RunFinished("ViBe", pipeline.Outcome{Algorithm: "ViBe", Reason: pipeline.Cancelled})

	assert.Equal(t, float64(2), testutil.ToFloat64(c.frames.WithLabelValues("KNN")))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.frames.WithLabelValues("ViBe")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.runs.WithLabelValues("KNN", pipeline.Exhausted.String())))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.runs.WithLabelValues("ViBe", pipeline.Cancelled.String())))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration), "only KNN observed frames")
	assert.Equal(t, 0, testutil.CollectAndCount(c.remaining), "gauge cleared after each run")
}

func TestServerHandler(t *testing.T) {
	c := NewCollector()
	c.RunStarted("FrameDifference")
	c.FrameProcessed("FrameDifference", 0, time.Millisecond, -1)

	srv := httptest.NewServer(NewServer("", c, logger.Nop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `bgs_frames_processed_total{algorithm="FrameDifference"} 1`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerStartShutdown(t *testing.T) {
	s := NewServer("127.0.0.1:0", NewCollector(), logger.Nop())
	assert.Empty(t, s.Addr())
	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start rejected")

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.Shutdown()
	s.Shutdown()
}
