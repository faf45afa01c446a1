package configuration

import (
	"path/filepath"
)

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"root directory, holds the mock and db directories"`
	MockDir           string `usage:"route sources directory (default <dir>/mock)"`
	DbDir             string `usage:"resource documents directory (default <dir>/db)"`
	MockPattern       string `usage:"route source file name pattern"`
	EnableApi         bool   `usage:"serve the resources admin api under /v1"`
	EnableCompression bool   `usage:"gzip admin api responses"`
	LogLevel          string `usage:"log level: debug, info, warn, error"`
	LogFormat         string `usage:"log format: json or console"`
	FakerSeed         int64  `usage:"seed for generated data, 0 is random"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:          "127.0.0.1:3000",
		Dir:               "mockdb",
		MockPattern:       "*.{yaml,yml,json}",
		EnableApi:         true,
		EnableCompression: true,
		LogLevel:          "info",
		LogFormat:         "console",
		ShowBanner:        true,
	}
}

// Mock is the route sources directory.
func (c *Configuration) Mock() string {
	if c.MockDir != "" {
		return c.MockDir
	}
	return filepath.Join(c.Dir, "mock")
}

// Db is the resource documents directory.
func (c *Configuration) Db() string {
	if c.DbDir != "" {
		return c.DbDir
	}
	return filepath.Join(c.Dir, "db")
}
