// SPDX-License-Identifier: MIT

package config

import "time"

// ServerConfig holds HTTP server operational parameters.
type ServerConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
}

// ParseServerConfig reads server tuning parameters from the environment.
func ParseServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:      ParseString("PATLAS_LISTEN", ":8080"),
		ReadTimeout:     ParseDuration("PATLAS_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    ParseDuration("PATLAS_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     ParseDuration("PATLAS_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: ParseDuration("PATLAS_SHUTDOWN_TIMEOUT", 15*time.Second),
		MaxHeaderBytes:  ParseInt("PATLAS_MAX_HEADER_BYTES", 1<<20),
	}
}
