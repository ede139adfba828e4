package metrics

type Config struct {
	Namespace string `envconfig:"VRELAY_METRICS_NAMESPACE" default:"vrelay"`
}
