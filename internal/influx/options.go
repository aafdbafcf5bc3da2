// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package influx

import (
	"crypto/tls"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	ferrors "fluxcell/cli/internal/errors"
)

// Keys accepted in the --connection-arguments JSON object.
const (
	ArgTimeout   = "timeout"
	ArgGzip      = "gzip"
	ArgPrecision = "precision"
	ArgVerifySSL = "verify_ssl"
	ArgLogLevel  = "log_level"
	ArgBatchSize = "batch_size"
	ArgAppName   = "app_name"
)

// debugLogLevel is the influxdb2 client level that logs requests.
const debugLogLevel = 3

var precisions = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
}

// BuildOptions turns decoded connection arguments into client options.
// Values arrive as JSON decodes them, so numbers are float64.
func BuildOptions(args map[string]any, debug bool) (*influxdb2.Options, error) {
	opts := influxdb2.DefaultOptions().SetApplicationName("fluxcell")

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := args[k]
		switch k {
		case ArgTimeout:
			n, err := asUint(k, v)
			if err != nil {
				return nil, err
			}
			opts.SetHTTPRequestTimeout(n)
		case ArgGzip:
			b, err := asBool(k, v)
			if err != nil {
				return nil, err
			}
			opts.SetUseGZip(b)
		case ArgPrecision:
			s, err := asString(k, v)
			if err != nil {
				return nil, err
			}
			p, ok := precisions[strings.ToLower(s)]
			if !ok {
				return nil, ferrors.Newf(ferrors.Configuration,
					"connection argument %q must be one of ns, us, ms, s (got %q)", k, s)
			}
			opts.SetPrecision(p)
		case ArgVerifySSL:
			b, err := asBool(k, v)
			if err != nil {
				return nil, err
			}
			if !b {
				opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // opt-in via verify_ssl=false
			}
		case ArgLogLevel:
			n, err := asUint(k, v)
			if err != nil {
				return nil, err
			}
			opts.SetLogLevel(n)
		case ArgBatchSize:
			n, err := asUint(k, v)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, ferrors.Newf(ferrors.Configuration, "connection argument %q must be positive", k)
			}
			opts.SetBatchSize(n)
		case ArgAppName:
			s, err := asString(k, v)
			if err != nil {
				return nil, err
			}
			opts.SetApplicationName(s)
		default:
			return nil, ferrors.Newf(ferrors.Configuration, "unknown connection argument %q", k)
		}
	}

	if debug {
		opts.SetLogLevel(debugLogLevel)
	}
	return opts, nil
}

func asUint(key string, v any) (uint, error) {
	f, ok := v.(float64)
	if !ok {
		if i, isInt := v.(int); isInt {
			f = float64(i)
		} else {
			return 0, typeError(key, "a number", v)
		}
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, typeError(key, "a non-negative integer", v)
	}
	return uint(f), nil
}

func asBool(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, typeError(key, "true or false", v)
	}
	return b, nil
}

func asString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeError(key, "a string", v)
	}
	return s, nil
}

func typeError(key, want string, got any) error {
	return ferrors.New(ferrors.Configuration,
		fmt.Sprintf("connection argument %q must be %s (got %v)", key, want, got))
}
