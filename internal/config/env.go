package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// fromEnv returns parse(value) for k, or def when k is unset, empty or
// fails to parse.
func fromEnv[T any](k string, def T, parse func(string) (T, error)) T {
	v, ok := os.LookupEnv(k)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	out, err := parse(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int { return fromEnv(k, def, strconv.Atoi) }

func getdur(k string, def time.Duration) time.Duration {
	return fromEnv(k, def, time.ParseDuration)
}

func getfloat(k string, def float64) float64 {
	return fromEnv(k, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

var boolWords = map[string]bool{
	"1": true, "true": true, "yes": true, "y": true, "on": true,
	"0": false, "false": false, "no": false, "n": false, "off": false,
}

func getbool(k string, def bool) bool {
	return fromEnv(k, def, func(s string) (bool, error) {
		b, ok := boolWords[strings.ToLower(s)]
		if !ok {
			return false, strconv.ErrSyntax
		}
		return b, nil
	})
}

// splitCSV returns the non-blank, trimmed items of a comma list.
func splitCSV(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// normalizeBasePath yields "/" or a path with a leading slash and no
// trailing slash.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
