package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
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

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	return v
}

func trimList(xs []string) []string {
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

// NormalizeAndValidate returns a normalized copy plus every problem found.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Search.Keywords = trimList(out.Search.Keywords)
	out.Search.Location = strings.TrimSpace(out.Search.Location)
	out.Sources.LinkedIn.Recency = strings.ToLower(strings.TrimSpace(out.Sources.LinkedIn.Recency))
	out.Sources.Naukri.Recency = strings.ToLower(strings.TrimSpace(out.Sources.Naukri.Recency))
	out.Store.Driver = strings.ToLower(strings.TrimSpace(out.Store.Driver))
	out.Schedule.CleanupAt = strings.TrimSpace(out.Schedule.CleanupAt)

	if err := validate.Struct(out); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				res.addErr("%s failed %q (value %v)", fieldPath(fe), fe.Tag(), fe.Value())
			}
		} else {
			res.addErr("%v", err)
		}
	}

	if !out.Sources.LinkedIn.Enabled && !out.Sources.Naukri.Enabled {
		res.addErr("no sources enabled: enable sources.linkedin or sources.naukri")
	}
	if out.Store.Driver == "postgres" && strings.TrimSpace(out.Store.DSN) == "" {
		res.addErr("store.dsn is required when store.driver=postgres")
	}

	if out.Schedule.IntervalMinutes > 0 && out.Schedule.IntervalMinutes < 10 {
		res.addWarn("schedule.interval_minutes is very low (%d) and may get the scraper blocked.", out.Schedule.IntervalMinutes)
	}
	if out.Search.KeywordCap > len(out.Search.Keywords) && len(out.Search.Keywords) > 0 {
		res.addWarn("search.keyword_cap (%d) exceeds the keyword list (%d); all keywords are searched.", out.Search.KeywordCap, len(out.Search.Keywords))
	}
	if out.Alerts.MaxPerCycle > 30 {
		res.addWarn("alerts.max_per_cycle is %d; Telegram may rate limit bursts this large.", out.Alerts.MaxPerCycle)
	}
	if out.Schedule.CleanupAt == "" {
		res.addWarn("schedule.cleanup_at is empty; the seen job store is never cleared.")
	}
	if out.Telegram.ChatID == 0 {
		res.addWarn("telegram.chat_id is not set; alerts are only logged.")
	}

	return out, res
}

// fieldPath reports the YAML key path, e.g. search.keyword_cap.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}
