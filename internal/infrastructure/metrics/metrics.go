// Package metrics exports scene registry activity to prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/younwookim/scenekit/internal/application/scene"
)

// Collector implements scene.Observer with prometheus metrics
type Collector struct {
	Frames        *prometheus.CounterVec
	FrameDuration prometheus.Histogram
	Transitions   *prometheus.CounterVec
	Messages      *prometheus.CounterVec
	CurrentScene  *prometheus.GaugeVec
	current       scene.Key
}

// NewCollector creates the metrics under namespace and registers them on reg
func NewCollector(namespace string, reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames completed, by current scene",
		}, []string{"scene"}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent in input, update and draw per frame",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10),
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Scene transitions",
		}, []string{"from", "to"}),
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Cross-scene requests and messages, by kind and target",
		}, []string{"kind", "target"}),
		CurrentScene: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_scene",
			Help:      "1 for the scene that is current",
		}, []string{"scene"}),
	}

	for _, col := range []prometheus.Collector{c.Frames, c.FrameDuration, c.Transitions, c.Messages, c.CurrentScene} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) FrameDone(current scene.Key, elapsed time.Duration) {
	c.Frames.WithLabelValues(current).Inc()
	c.FrameDuration.Observe(elapsed.Seconds())
	if current != c.current {
		c.setCurrent(current)
	}
}

func (c *Collector) Transitioned(from, to scene.Key) {
	c.Transitions.WithLabelValues(from, to).Inc()
	c.setCurrent(to)
}

func (c *Collector) Delivered(kind scene.MessageKind, target scene.Key) {
	c.Messages.WithLabelValues(string(kind), target).Inc()
}

func (c *Collector) setCurrent(key scene.Key) {
	if c.current != "" {
		c.CurrentScene.WithLabelValues(c.current).Set(0)
	}
	c.CurrentScene.WithLabelValues(key).Set(1)
	c.current = key
}

// Server serves /metrics over HTTP
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer exposes g on addr under /metrics
func NewServer(addr string, g prometheus.Gatherer, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return &Server{
		srv:    &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		logger: logger,
	}
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start listens in the background. Failures are logged.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
