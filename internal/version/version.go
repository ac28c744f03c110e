package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает сведения о сборке, проставляемые через -ldflags.
func Info() (v, c, d string) { return version, commit, date }

// String форматирует сведения о сборке одной строкой для логов и /healthz.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
