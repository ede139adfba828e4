package setup

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/go-sod/vrelay/internal/httputil"
	"github.com/go-sod/vrelay/internal/jobs"
	"github.com/go-sod/vrelay/internal/logging"
	"github.com/go-sod/vrelay/internal/metrics"
	"github.com/go-sod/vrelay/internal/notify"
	"github.com/go-sod/vrelay/internal/relay"
	"github.com/go-sod/vrelay/internal/schedule"
	"github.com/go-sod/vrelay/internal/sink"
	"github.com/go-sod/vrelay/internal/source"
	"github.com/go-sod/vrelay/internal/srvenv"
	"github.com/go-sod/vrelay/internal/vehicle"
)

type RelayConfigProvider interface {
	SourceConfig() *source.Config
	SinkConfig() *sink.Config
	RelayConfig() *relay.Config
}

type NotifyConfigProvider interface {
	NotifyConfig() *notify.Config
}

type MetricsConfigProvider interface {
	MetricsConfig() *metrics.Config
}

type JobsConfigProvider interface {
	JobsConfig() *jobs.Config
}

type ScheduleConfigProvider interface {
	ScheduleConfig() *schedule.Config
}

// Setup loads config from the environment and builds the components the
// config asks for.
func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	relayProvider, ok := config.(RelayConfigProvider)
	if !ok {
		return nil, fmt.Errorf("unable read relay config")
	}

	var observers []relay.Observer
	if metricsProvider, ok := config.(MetricsConfigProvider); ok {
		logger.Info("Configuring metrics")
		handler, err := metrics.NewExporter(metricsProvider.MetricsConfig().Namespace)
		if err != nil {
			return nil, fmt.Errorf("unable create metrics exporter: %w", err)
		}
		observers = append(observers, metrics.Recorder{})
		serverEnvOpts = append(serverEnvOpts, srvenv.WithMetricsHandler(handler))
	}

	if notifyProvider, ok := config.(NotifyConfigProvider); ok && notifyProvider.NotifyConfig().Enabled() {
		logger.Info("Configuring notifier")
		cfg := notifyProvider.NotifyConfig()
		publisher, err := notify.New(ctx, cfg.RedisURL, cfg.Queue)
		if err != nil {
			return nil, fmt.Errorf("unable create notifier: %w", err)
		}
		observers = append(observers, publisher)
		serverEnvOpts = append(serverEnvOpts, srvenv.WithCloser(publisher))
	}

	logger.Info("Configuring relay")
	procedure, err := ProvideRelayFor(relayProvider, observers...)
	if err != nil {
		return nil, fmt.Errorf("unable create relay: %w", err)
	}
	serverEnvOpts = append(serverEnvOpts, srvenv.WithRelay(procedure))

	if jobsProvider, ok := config.(JobsConfigProvider); ok {
		logger.Info("Configuring jobs")
		serverEnvOpts = append(serverEnvOpts, srvenv.WithJobs(ProvideJobsFor(jobsProvider, procedure)))
	}

	if scheduleProvider, ok := config.(ScheduleConfigProvider); ok && scheduleProvider.ScheduleConfig().Enabled() {
		logger.Info("Configuring schedule")
		serverEnvOpts = append(serverEnvOpts, srvenv.WithScheduler(ProvideSchedulerFor(scheduleProvider)))
	}

	return srvenv.New(serverEnvOpts...), nil
}

func ProvideRelayFor(provider RelayConfigProvider, observers ...relay.Observer) (*relay.Procedure, error) {
	srcCfg := provider.SourceConfig()
	srcClient, err := httputil.NewClientFromConfig(srcCfg.HTTPClientConfig())
	if err != nil {
		return nil, fmt.Errorf("unable create source http client: %w", err)
	}
	src, err := source.New(srcCfg.URL, source.WithHTTPClient(srcClient))
	if err != nil {
		return nil, fmt.Errorf("unable create source: %w", err)
	}

	sinkCfg := provider.SinkConfig()
	sinkClient, err := httputil.NewClientFromConfig(sinkCfg.HTTPClientConfig())
	if err != nil {
		return nil, fmt.Errorf("unable create sink http client: %w", err)
	}
	dst, err := sink.New(sinkCfg.URL, sink.WithHTTPClient(sinkClient), sink.WithContentType(sinkCfg.ContentType))
	if err != nil {
		return nil, fmt.Errorf("unable create sink: %w", err)
	}

	opts := []relay.Option{relay.WithObservers(observers...)}
	if cfg := provider.RelayConfig(); cfg.Normalize {
		opts = append(opts, relay.WithTransformer(vehicle.Normalizer{DatePrefix: cfg.NormalizeDate}))
	}
	return relay.New(src, dst, opts...)
}

func ProvideJobsFor(provider JobsConfigProvider, runner jobs.Runner) jobs.ProvideFn {
	cfg := provider.JobsConfig()
	return func(ctx context.Context) (*jobs.Manager, error) {
		return jobs.New(ctx, runner, jobs.WithTTL(cfg.TTL))
	}
}

func ProvideSchedulerFor(provider ScheduleConfigProvider) schedule.ProvideFn {
	cfg := provider.ScheduleConfig()
	return func(submitter schedule.Submitter) (*schedule.Scheduler, error) {
		return schedule.New(
			submitter,
			schedule.WithInterval(cfg.Interval),
			schedule.WithImmediate(cfg.Immediate),
		)
	}
}
