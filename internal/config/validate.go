package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Ingest.FAANGCompanies = trimList(out.Ingest.FAANGCompanies)
	out.Logging.Level = strings.ToLower(strings.TrimSpace(out.Logging.Level))
	out.Logging.Format = strings.ToLower(strings.TrimSpace(out.Logging.Format))

	// ---- app ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if strings.TrimSpace(out.App.DataDir) == "" {
		res.addErr("app.data_dir is required")
	}

	// ---- query ----

	if out.Query.DefaultPerPage <= 0 {
		res.addErr("query.default_per_page must be > 0")
	}
	if out.Query.MaxPerPage <= 0 {
		res.addErr("query.max_per_page must be > 0")
	} else if out.Query.DefaultPerPage > out.Query.MaxPerPage {
		res.addErr("query.default_per_page (%d) exceeds query.max_per_page (%d)", out.Query.DefaultPerPage, out.Query.MaxPerPage)
	}
	if out.Query.MaxPerPage > 1000 {
		res.addWarn("query.max_per_page is very high (%d); large pages are slow to rank.", out.Query.MaxPerPage)
	}

	// ---- cache / rate limit ----

	if out.Cache.RedisURL != "" && out.Cache.StatsTTLSeconds <= 0 {
		res.addErr("cache.stats_ttl_seconds must be > 0 when cache.redis_url is set")
	}
	if out.RateLimit.RequestsPerSecond < 0 || out.RateLimit.Burst < 0 {
		res.addErr("rate_limit values must be >= 0")
	}
	if out.RateLimit.RequestsPerSecond > 0 && out.RateLimit.Burst == 0 {
		res.addWarn("rate_limit.burst is 0; every request will be rejected.")
	}

	// ---- maintenance ----

	checkSchedule := func(name, spec string) {
		if strings.TrimSpace(spec) == "" {
			return
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			res.addErr("%s is not a valid schedule: %v", name, err)
		}
	}
	checkSchedule("maintenance.checkpoint_schedule", out.Maintenance.CheckpointSchedule)
	checkSchedule("maintenance.cleanup_schedule", out.Maintenance.CleanupSchedule)
	if out.Maintenance.RetentionDays < 0 {
		res.addErr("maintenance.retention_days must be >= 0")
	}
	if out.Maintenance.RetentionDays > 0 && out.Maintenance.RetentionDays < 7 {
		res.addWarn("maintenance.retention_days is %d; Smart View looks back 7 days.", out.Maintenance.RetentionDays)
	}

	// ---- logging ----

	switch out.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		res.addErr("logging.level %q is not one of trace, debug, info, warn, error", out.Logging.Level)
	}
	switch out.Logging.Format {
	case "", "console", "json":
	default:
		res.addErr("logging.format must be console or json")
	}

	// ---- ingest / scoring ----

	if out.Ingest.ParallelFiles < 0 {
		res.addErr("ingest.parallel_files must be >= 0")
	}

	checkRules := func(name string, rules []Rule) {
		for i, r := range rules {
			if r.Tag == "" {
				res.addErr("%s[%d].tag is required", name, i)
			}
			if len(r.Any) == 0 {
				res.addErr("%s[%d].any must have at least 1 term", name, i)
			}
			if r.Weight < 0 || r.Weight > 100 {
				res.addErr("%s[%d].weight must be 0..100", name, i)
			}
			for j, term := range r.Any {
				if strings.TrimSpace(term) == "" {
					res.addErr("%s[%d].any[%d] cannot be empty", name, i, j)
				}
			}
		}
	}
	checkRules("scoring.title_rules", out.Scoring.TitleRules)
	checkRules("scoring.keyword_rules", out.Scoring.KeywordRules)

	for i, p := range out.Scoring.Penalties {
		if p.Reason == "" {
			res.addErr("scoring.penalties[%d].reason is required", i)
		}
		if len(p.Any) == 0 {
			res.addErr("scoring.penalties[%d].any must have at least 1 term", i)
		}
	}
	if len(out.Scoring.TitleRules) == 0 && len(out.Scoring.KeywordRules) == 0 {
		res.addWarn("no scoring rules; imported jobs without a match_score will score 0.")
	}

	return out, res
}
