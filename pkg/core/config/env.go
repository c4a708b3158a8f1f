// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
)

// RequireEnv returns the value of a required environment variable. Missing
// or empty values are unrecoverable configuration errors: the process
// cannot run without them, so RequireEnv panics instead of returning a
// default. This is the opposite policy from pkg/core/extract, which treats
// untrusted remote payloads as fail-soft.
func RequireEnv(key string) string {
	val, found := os.LookupEnv(key)
	if !found || val == "" {
		panic(fmt.Sprintf("config: required environment variable %s is not set", key))
	}
	return val
}

// EnvOr returns the value of an environment variable, or defaultVal when
// it is unset or empty.
func EnvOr(key, defaultVal string) string {
	val, found := os.LookupEnv(key)
	if !found || val == "" {
		return defaultVal
	}
	return val
}
