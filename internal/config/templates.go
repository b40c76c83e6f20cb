package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "cli":
		return cliTemplate, nil
	case "server":
		return serverTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const cliTemplate = `name = "bitsctl"

[limits]
max_hex_digits = 65536
max_depth = 512

[log]
level = "warn"
timestamp = false
`

const serverTemplate = `name = "bitsctl"

[limits]
max_hex_digits = 65536
max_depth = 512

[server]
addr = ":9400"
cors_origins = ["http://localhost:3000"]
trusted_proxies = ["127.0.0.1", "::1"]
# api_token = "change-me"

[log]
level = "info"
json = true
timestamp = true
`
