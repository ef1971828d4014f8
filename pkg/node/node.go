// Package node wires the radiator valve daemon together: sensor polling,
// mode resolution, the per-minute control loop, actuator, telemetry and
// the watchdog.
package node

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	tsl2591 "github.com/JenswBE/golang-tsl2591"
	"github.com/mikesmitty/max31865"
	"github.com/mikesmitty/sht4x"
	"github.com/mikesmitty/toasty-boy/pkg/actuator"
	"github.com/mikesmitty/toasty-boy/pkg/boiler"
	"github.com/mikesmitty/toasty-boy/pkg/light"
	"github.com/mikesmitty/toasty-boy/pkg/mode"
	"github.com/mikesmitty/toasty-boy/pkg/mqtt"
	"github.com/mikesmitty/toasty-boy/pkg/radvalve"
	"github.com/mikesmitty/toasty-boy/pkg/router"
	"github.com/mikesmitty/toasty-boy/pkg/sensor"
	"github.com/mikesmitty/toasty-boy/pkg/watchdog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func Root() func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		slogOpts := slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		if viper.GetBool("debug") {
			slogOpts.Level = slog.LevelDebug
		}
		log := slog.New(slog.NewTextHandler(os.Stderr, &slogOpts))
		slog.SetDefault(log)

		tickInterval := viper.GetDuration("tick-interval")
		sensorInterval := viper.GetDuration("sensor-interval")
		sensorName := viper.GetString("sensor")

		if sensorName != "fake" {
			hostState, err := host.Init()
			errChk(err)
			for i := range hostState.Loaded {
				slog.Debug("loaded", "module", hostState.Loaded[i])
			}
			for i := range hostState.Failed {
				slog.Error("failed", "module", hostState.Failed[i])
			}
			for i := range hostState.Skipped {
				slog.Debug("skipped", "module", hostState.Skipped[i])
			}
		}

		ctx, cancelFunc := context.WithCancel(context.Background())
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(-1)

		// Room temperature source
		var src sensor.Source
		switch sensorName {
		case "sht4x":
			ib, err := i2creg.Open(viper.GetString("i2cbus"))
			errChk(err)
			dev, err := sht4x.New(ib, nil)
			errChk(err)
			src = sensor.NewSHT4x(dev)
		case "max31865":
			sb, err := spireg.Open(viper.GetString("spibus"))
			errChk(err)
			dev, err := max31865.New(sb, nil)
			errChk(err)
			src = sensor.NewRTD(dev)
		case "fake":
			src = sensor.NewFake(viper.GetFloat64("fake-temp"))
		default:
			slog.Error("unknown sensor backend", "sensor", sensorName)
			os.Exit(1)
		}

		readCh, readFn := sensor.Channel(ctx, src, sensorInterval)
		slog.Debug("starting room sensor")
		g.Go(readFn)
		readFan := router.NewFan[sensor.Reading]("readings", readCh)
		g.Go(readFan.Run)

		// Valve motor
		var drv actuator.Driver
		if sensorName == "fake" || viper.GetString("valve-open-pin") == "" {
			drv = actuator.NewFake()
		} else {
			m, err := actuator.NewMotor(
				viper.GetString("valve-open-pin"),
				viper.GetString("valve-close-pin"),
				viper.GetDuration("valve-travel-time"),
			)
			errChk(err)
			drv = m
		}

		// Mode policy
		cfg := mode.DefaultConfig()
		cfg.TargetTempC = viper.GetInt("target-temp")
		cfg.FrostTempC = viper.GetInt("frost-temp")
		cfg.MinPCOpen = uint8(viper.GetUint16("min-pc-open"))
		cfg.MaxPCOpen = uint8(viper.GetUint16("max-pc-open"))
		cfg.EcoBias = viper.GetBool("eco")
		cfg.Glacial = viper.GetBool("glacial")
		res := mode.NewResolver(cfg)

		// Ambient light, if fitted: darkness widens the deadband.
		var lightFan *router.Fan[uint64]
		if viper.GetBool("light-sensor") {
			opts := &tsl2591.Opts{
				Bus:    viper.GetString("i2cbus"),
				Gain:   tsl2591.GainLow,
				Timing: tsl2591.IntegrationTime100MS,
			}
			tslDev, err := tsl2591.NewTSL2591(opts)
			errChk(err)
			defer func() {
				if disableErr := tslDev.Disable(); disableErr != nil {
					errChk(disableErr)
				}
			}()

			lightCh, lightFn := light.Channel(ctx, light.NewTSL(tslDev), sensorInterval)
			slog.Debug("starting light sensor")
			g.Go(lightFn)
			lightFan = router.NewFan[uint64]("light", lightCh)
			g.Go(lightFan.Run)

			det := light.NewDetector(
				viper.GetUint64("dark-threshold"),
				viper.GetUint64("light-threshold"),
				viper.GetInt("dark-hold-samples"),
			)
			darkCh := lightFan.Subscribe("darkness")
			g.Go(func() error {
				for ir := range darkCh {
					res.SetDark(det.Sample(ir))
				}
				return nil
			})
		}

		// Controller
		state := radvalve.NewControlState(radvalve.DefaultTuning())
		statusCh := make(chan radvalve.Status, 1)
		statusFan := router.NewFan[radvalve.Status]("status", statusCh)
		g.Go(statusFan.Run)

		valveID := viper.GetUint16("valve-id")
		var agg boiler.Aggregator = boiler.Logger{}

		// MQTT
		brokerURL := viper.GetString("mqtt-broker")
		var mc *mqtt.Client
		if brokerURL != "" {
			u, err := url.Parse(brokerURL)
			errChk(err)
			mc = mqtt.NewClient(u, viper.GetInt("mqtt-sample-interval"), sensorInterval)
			errChk(mc.Connect())
			var lightTelemetry <-chan uint64
			if lightFan != nil {
				lightTelemetry = lightFan.Subscribe("mqtt")
			}
			g.Go(mc.GetPublisher(readFan.Subscribe("mqtt"), statusFan.Subscribe("mqtt"), lightTelemetry))
			errChk(mc.HomeAssistant())
			g.Go(mc.SwitchFn("bake", res.StartBake, res.CancelBake, res.BakeActive))
			g.Go(mc.SwitchFn("eco",
				func() { res.SetEco(true) },
				func() { res.SetEco(false) },
				res.Eco,
			))
			if hub := viper.GetString("boiler-hub-topic"); hub != "" {
				agg = mc.NewBoilerForwarder(hub)
			}
		}

		// Control loop: sole writer of the valve position.
		slog.Debug("starting control loop")
		g.Go(controlLoop(ctx, tickInterval, readFan.Subscribe("control"), res, state, drv, agg, valveID, statusCh))

		// Watchdog: a silent sensor drives the valve to failsafe.
		watchdogTimeout := viper.GetDuration("watchdog-timeout")
		failsafePC := uint8(viper.GetUint16("failsafe-percent"))
		g.Go(watchdog.New(watchdogTimeout, func() error {
			slog.Warn("sensor silent, moving valve to failsafe", "percent", failsafePC)
			return drv.SetPercentOpen(failsafePC)
		}, readFan.Subscribe("watchdog")))

		// Signal handling
		chanSignal := make(chan os.Signal, 1)
		signal.Notify(chanSignal, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)

		g.Go(func() error {
			defer cancelFunc()
			select {
			case <-ctx.Done():
			case <-chanSignal:
			}
			slog.Info("shutting down...")
			slog.Info("stopping valve motor...")
			if err := drv.Stop(); err != nil {
				slog.Error("failed to stop valve motor", "error", err)
			}
			os.Exit(0)
			return nil
		})

		slog.Debug("waiting for goroutines to finish")
		err := g.Wait()
		errChk(err)
	}
}

func errChk(err error) {
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// controlLoop runs one controller tick per interval against the latest
// sensor reading. Ticks before the first reading arrives are skipped so
// the history warm-up starts from a real temperature.
func controlLoop(
	ctx context.Context,
	interval time.Duration,
	readings <-chan sensor.Reading,
	res *mode.Resolver,
	state *radvalve.ControlState,
	drv actuator.Driver,
	agg boiler.Aggregator,
	valveID uint16,
	statusCh chan<- radvalve.Status,
) func() error {
	return func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last sensor.Reading
		haveReading := false
		pc := drv.PercentOpen()

		for {
			select {
			case <-ctx.Done():
				return nil
			case r := <-readings:
				last = r
				haveReading = true
			case <-ticker.C:
				if !haveReading {
					slog.Debug("no reading yet, skipping tick")
					continue
				}
				in := res.Snapshot(last.TempC16, state.IsFiltering())
				state.Tick(&pc, in)
				if state.ValveMoved() {
					if err := drv.SetPercentOpen(pc); err != nil {
						return err
					}
				}
				agg.ReceiveSignal(valveID, pc)
				st := state.StatusAfterTick(pc, in)
				select {
				case statusCh <- st:
				case <-ctx.Done():
					return nil
				}
				slog.Info("control tick",
					"temp", last.Celsius,
					"target", in.TargetTempC,
					"percent", pc,
					"moved", st.ValveMoved,
					"callingForHeat", st.CallingForHeat,
					"filtering", st.Filtering,
				)
			}
		}
	}
}
