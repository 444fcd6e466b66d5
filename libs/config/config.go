package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func String(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func RequiredString(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func Port(key, fallback string) (string, error) {
	v := String(key, fallback)
	p, err := strconv.Atoi(v)
	if err != nil || p < 1 || p > 65535 {
		return "", fmt.Errorf("%s must be a valid TCP port (got %q)", key, v)
	}
	return v, nil
}

// Int returns the integer value of key, or fallback when unset.
// Values outside [min, max] are rejected.
func Int(key string, fallback, min, max int) (int, error) {
	raw := String(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("%s must be an integer in [%d, %d] (got %q)", key, min, max, raw)
	}
	return n, nil
}

func Bool(key string, fallback bool) bool {
	switch strings.ToLower(String(key, "")) {
	case "":
		return fallback
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// Seconds reads key as a whole number of seconds.
func Seconds(key string, fallback time.Duration) time.Duration {
	raw := String(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

// List splits a comma separated value, dropping blanks.
func List(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(String(key, fallback), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UTCOffset parses a fixed offset of the form "+HH:MM", "-HH:MM" or "Z"
// into a location. Named zones are not accepted: the offset must not move with DST.
func UTCOffset(key, fallback string) (*time.Location, error) {
	raw := String(key, fallback)
	loc, err := ParseUTCOffset(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return loc, nil
}

func ParseUTCOffset(raw string) (*time.Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "Z" || raw == "UTC" {
		return time.FixedZone("UTC", 0), nil
	}
	if len(raw) != 6 || (raw[0] != '+' && raw[0] != '-') || raw[3] != ':' {
		return nil, fmt.Errorf("invalid utc offset %q (want ±HH:MM)", raw)
	}
	hh, err := strconv.Atoi(raw[1:3])
	if err != nil || hh > 14 {
		return nil, fmt.Errorf("invalid utc offset hours in %q", raw)
	}
	mm, err := strconv.Atoi(raw[4:6])
	if err != nil || mm > 59 {
		return nil, fmt.Errorf("invalid utc offset minutes in %q", raw)
	}
	secs := hh*3600 + mm*60
	if raw[0] == '-' {
		secs = -secs
	}
	return time.FixedZone("UTC"+raw, secs), nil
}
