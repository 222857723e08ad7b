package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/interact/pkg/config"
	"github.com/devicelab-dev/interact/pkg/core"
	"github.com/devicelab-dev/interact/pkg/driver/appium"
	"github.com/devicelab-dev/interact/pkg/extract"
	"github.com/devicelab-dev/interact/pkg/logger"
	"github.com/devicelab-dev/interact/pkg/session"
	"github.com/devicelab-dev/interact/pkg/target"
	"github.com/devicelab-dev/interact/pkg/weather"
)

var resolveCommand = &cli.Command{
	Name:      "resolve",
	Usage:     "Resolve a logical target through its fallback chain",
	ArgsUsage: "<target-name>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "Print the raw payload instead of a humidity range",
		},
		&cli.IntFlag{
			Name:  "day-offset",
			Usage: "Extract relative humidity for this forecast day from a raw API payload",
			Value: -1,
		},
	},
	Action: runResolve,
}

func runResolve(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one target name, got %d", c.Args().Len())
	}
	name := c.Args().First()

	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}

	sess := session.New(reg, uiHandle(c), httpHandle(c), session.WithLogger(logger.L()))

	switch {
	case c.IsSet("day-offset") && c.Int("day-offset") >= 0:
		return resolveDayOffset(c, sess, name)
	case c.Bool("raw"):
		raw, err := sess.FetchRaw(c.Context, name)
		if err != nil {
			return outcomeError(err)
		}
		fmt.Println(raw)
	default:
		hr, err := sess.Fetch(c.Context, name)
		if err != nil {
			return outcomeError(err)
		}
		fmt.Printf("%d - %d\n", hr.Min, hr.Max)
	}
	return nil
}

// resolveDayOffset fetches the raw forecast payload and extracts the
// validated humidity range for one forecast day.
func resolveDayOffset(c *cli.Context, sess *session.Session, name string) error {
	raw, err := sess.FetchRaw(c.Context, name)
	if err != nil {
		return outcomeError(err)
	}

	text, err := weather.HumidityForDayOffset([]byte(raw), c.Int("day-offset"), time.Now())
	if err != nil {
		return outcomeError(err)
	}

	hr, err := extract.ParseHumidityRange(text)
	if err != nil {
		return outcomeError(err)
	}

	fmt.Printf("%d - %d\n", hr.Min, hr.Max)
	return nil
}

func loadRegistry(c *cli.Context) (*target.Registry, error) {
	if path := c.String("targets"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}

// uiHandle attaches to an existing Appium session when one is named.
// Without a session, UI strategies fail with SESSION_ERROR and the
// resolver falls through to the remaining strategies.
func uiHandle(c *cli.Context) core.UIHandle {
	sessionID := c.String("session-id")
	if sessionID == "" {
		return nil
	}
	return appium.NewHandle(c.String("appium-url"), sessionID)
}

func httpHandle(c *cli.Context) core.HTTPHandle {
	base := c.String("api-url")
	if base == "" {
		return nil
	}
	return weather.NewClient(base, weather.DefaultTimeout)
}

// outcomeError flattens a classified failure into a one-line CLI error.
func outcomeError(err error) error {
	var ie *core.InteractionError
	if errors.As(err, &ie) {
		return fmt.Errorf("%s: %s", ie.Kind, ie.Message)
	}
	return err
}
