package cli

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/phuslu/log"

	"jobhealth/internal/config"
	"jobhealth/internal/health"
	"jobhealth/internal/logging"
	"jobhealth/internal/snapshot"
)

// Swapped by tests.
var now = time.Now

type commonFlags struct {
	config  *string
	tz      *string
	verbose *bool
}

func bindCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config:  fs.String("config", "", "TOML or YAML config overriding thresholds and registry"),
		tz:      fs.String("tz", "", "IANA timezone for timestamps (default: local)"),
		verbose: fs.Bool("verbose", false, "debug logging on stderr"),
	}
}

type runtimeEnv struct {
	cfg      config.Config
	logger   *log.Logger
	location *time.Location
}

func (c commonFlags) load() (runtimeEnv, error) {
	level := logging.LevelWarn
	if *c.verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(level, stderr)

	cfg, err := config.Load(strings.TrimSpace(*c.config))
	if err != nil {
		return runtimeEnv{}, err
	}
	if path := strings.TrimSpace(*c.config); path != "" {
		logger.Debug().Str("path", path).Int("jobs", len(cfg.Jobs)).Msg("config loaded")
	}

	loc := time.Local
	if zone := strings.TrimSpace(*c.tz); zone != "" {
		loc, err = time.LoadLocation(zone)
		if err != nil {
			return runtimeEnv{}, fmt.Errorf("load timezone %q: %w", zone, err)
		}
	}
	return runtimeEnv{cfg: cfg, logger: logger, location: loc}, nil
}

func (e runtimeEnv) classifier() health.Classifier {
	return health.NewClassifier(e.cfg.Thresholds, health.Formatter{Location: e.location})
}

// evaluate loads the snapshot and runs one classification pass over the
// configured registry.
func (e runtimeEnv) evaluate(file string) (health.Report, error) {
	snap, err := snapshot.Load(file, stdin, e.logger)
	if err != nil {
		return health.Report{}, err
	}
	rep := health.Aggregate(e.cfg.Jobs, snap.Jobs, health.AggregateOptions{
		Title:      e.cfg.Title,
		Now:        now().In(e.location),
		Classifier: e.classifier(),
	})
	for _, res := range rep.Results {
		e.logger.Debug().Str("job_id", res.Job.ID).Str("rule", res.Verdict.Rule).Str("status", string(res.Verdict.Status)).Msg("classified")
	}
	return rep, nil
}
