package relay

type Config struct {
	Normalize     bool   `envconfig:"VRELAY_NORMALIZE" default:"false"`
	NormalizeDate string `envconfig:"VRELAY_NORMALIZE_DATE"`
}
