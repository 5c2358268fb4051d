package health

import (
	"context"
	"sort"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ubora-rdc/ubora-auth/internal/logger"
)

const probeTimeout = 3 * time.Second

// Pinger is a dependency whose reachability decides readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober periodically pings dependencies and publishes the result through a
// gRPC health server. Each dependency is exposed as its own service name and
// the overall status ("") is SERVING only when all of them answer.
type Prober struct {
	health   *health.Server
	checks   map[string]Pinger
	interval time.Duration
	logger   *logger.Logger
}

func NewProber(server *health.Server, interval time.Duration, logger *logger.Logger) *Prober {
	return &Prober{
		health:   server,
		checks:   make(map[string]Pinger),
		interval: interval,
		logger:   logger,
	}
}

// Register adds a named dependency. It must be called before Run.
func (p *Prober) Register(name string, pinger Pinger) {
	p.checks[name] = pinger
}

// Run probes immediately, then every interval until ctx is done. On return
// every service is marked NOT_SERVING.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			p.health.Shutdown()
			return
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}

// Probe pings every dependency once and updates the serving statuses.
func (p *Prober) Probe(ctx context.Context) {
	names := make([]string, 0, len(p.checks))
	for name := range p.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	overall := healthpb.HealthCheckResponse_SERVING
	for _, name := range names {
		status := healthpb.HealthCheckResponse_SERVING

		pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := p.checks[name].Ping(pingCtx)
		cancel()
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
			p.logger.Warn("Health prober: dependency unreachable",
				"dependency", name,
				"error", err.Error())
		}

		p.health.SetServingStatus(name, status)
	}

	p.health.SetServingStatus("", overall)
}
