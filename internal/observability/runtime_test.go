package observability

import (
	"context"
	"net/http"
	"testing"

	"github.com/riskibarqy/mlbb-analytics/internal/config"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
)

func TestStart_AllDisabled(t *testing.T) {
	rt, err := Start(config.Config{ServiceName: "mlbb-analytics-api", AppEnv: config.EnvDev}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if rt.pprof != nil {
		t.Fatalf("pprof must stay off when disabled")
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestStart_UptraceWithoutDSNStaysOff(t *testing.T) {
	rt, err := Start(config.Config{UptraceEnabled: true}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestStart_PprofServesIndex(t *testing.T) {
	rt, err := Start(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = rt.Shutdown(context.Background()) }()

	resp, err := http.Get("http://" + rt.pprof.Addr + "/debug/pprof/")
	if err != nil {
		t.Fatalf("get pprof index: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pprof index status = %d", resp.StatusCode)
	}
}

func TestStart_PprofAddrInUseFails(t *testing.T) {
	first, err := Start(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = first.Shutdown(context.Background()) }()

	if _, err := Start(config.Config{PprofEnabled: true, PprofAddr: first.pprof.Addr}, logging.NewNop()); err == nil {
		t.Fatalf("expected bind failure on a taken address")
	}
}

func TestRuntime_NilShutdown(t *testing.T) {
	var rt *Runtime
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil runtime shutdown: %v", err)
	}
}
