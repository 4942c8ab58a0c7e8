package utils

import "os"

var (
	HTTP_PORT = GetEnvOrDefault("HTTP_PORT", "8080")

	// Directory of parquet table snapshots loaded into the table store at boot
	DATA_DIR = os.Getenv("DATA_DIR")

	// Counter registered on every plan operation's tracer. The fallback tracer
	// accepts any name, the runtime/metrics backend validates it against the
	// metric catalog.
	TRACER_EVENT = GetEnvOrDefault("TRACER_EVENT", "/gc/heap/allocs:bytes")
)
