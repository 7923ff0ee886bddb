package favorites

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Open returns the Store for backend ("sqlite", "bolt", "file", "memory").
func Open(backend, path string, logger *log.Logger) (Store, error) {
	switch backend {
	case "", "sqlite":
		return OpenSQLite(path, logger)
	case "bolt":
		return OpenBolt(path, logger)
	case "file":
		return OpenFile(path, logger)
	case "memory":
		return NewMemory(logger), nil
	default:
		return nil, fmt.Errorf("unknown favorites backend %q", backend)
	}
}
