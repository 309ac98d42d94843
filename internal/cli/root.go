package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Saffen/thelionsroar/internal/schedule"
)

// ExitError carries a process exit code through cobra's error return. The
// announce pipeline uses distinct codes so cron wrappers can tell "work is
// pending" apart from hard failures.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

func exitf(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// NewRootCmd returns the root command for the publisher CLI
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lionsroar",
		Short:         "The Lion's Roar publisher: publish decisions and Discord announcements",
		Long:          "The Lion's Roar publisher evaluates article frontmatter, decides what is publishable, and announces published articles on Discord exactly once.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newAnnounceCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func initConfig() {
	viper.SetEnvPrefix("LIONSROAR")
	viper.AutomaticEnv()
}

// resolveClock loads the timezone and the evaluation instant. An empty nowRaw
// means the current wall clock in that zone.
func resolveClock(tzName, nowRaw string) (time.Time, *time.Location, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("unknown timezone: %s", tzName)
	}

	if nowRaw == "" {
		return time.Now().In(loc), loc, nil
	}

	now, ok := schedule.Parse(nowRaw, loc)
	if !ok {
		return time.Time{}, nil, fmt.Errorf("could not parse --now value %q", nowRaw)
	}
	return now, loc, nil
}
