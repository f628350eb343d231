package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/messenger-dev/messenger-web/pkg/router"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func testTable() *router.Table {
	return router.MustTable(
		router.Route{
			Path: "/",
			Name: "login",
			View: router.Eager(router.View{ID: "LoginPage"}),
			Meta: router.Meta{router.MetaTitle: "Вход | Messenger"},
		},
		router.Route{
			Path: "/dashboard",
			Name: "dashboard",
			View: router.Lazy("DashboardView", func(context.Context) (router.View, error) {
				return router.View{}, nil
			}),
		},
		router.Route{
			Path: "/reset-password",
			View: router.Eager(router.View{ID: "ResetPassword"}),
		},
	)
}

var errDenied = errors.New("denied")

// deny rejects every navigation before it completes.
var deny = router.GuardFunc(func(*router.Navigation, func() error) error {
	return errDenied
})

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}
