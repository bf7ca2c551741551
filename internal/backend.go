package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"servo2go/internal/api"
	"servo2go/internal/configuration"
	"servo2go/internal/monitor"
	"servo2go/internal/persistence"
	"servo2go/internal/servos"
	"servo2go/internal/statistics"
	"servo2go/internal/ui"
)

const reportPersistInterval = 1 * time.Minute

func RunDaemon() {
	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	if err := pers.Init(); err != nil {
		ui.FatalWithoutStacktrace("Unable to initialize database %s: %v", configuration.CurrentConfig.DbPath, err)
	}

	servoList, healthMonitor := InitializeObjects()
	if len(servoList) == 0 {
		ui.Fatal("No valid servo configurations, exiting.")
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		enabled := configuration.CurrentConfig.Statistics.Enabled
		if enabled {
			// === Prometheus Exporter
			g.Add(func() error {
				port := configuration.CurrentConfig.Statistics.Port
				if port <= 0 || port >= 65535 {
					port = 9450
				}
				addr := fmt.Sprintf(":%d", port)
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				server := &http.Server{Addr: addr, Handler: mux}

				go func() {
					<-ctx.Done()
					ui.Info("Stopping statistics server...")
					timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer timeoutCancel()
					_ = server.Shutdown(timeoutCtx)
				}()

				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				if err != nil {
					ui.Warning("Error stopping statistics server: " + err.Error())
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		// === telemetry polling
		for _, servo := range servoList {
			if servo.GetConfig().Telemetry == nil {
				continue
			}
			s := servo
			poller := NewTelemetryPoller(s, *s.GetConfig().Telemetry)

			g.Add(func() error {
				err := poller.Run(ctx)
				ui.Info("Telemetry poller for servo %s stopped.", s.GetId())
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Error polling telemetry: %v", err)
				}
			})
		}
	}
	{
		// === health monitor sweep loop
		g.Add(func() error {
			healthMonitor.Start(ctx)
			<-ctx.Done()
			healthMonitor.Stop()
			return nil
		}, func(err error) {
			if err != nil {
				ui.Warning("Error running health monitor: %v", err)
			}
		})
	}
	{
		// === periodic health report persistence
		g.Add(func() error {
			ticker := time.NewTicker(reportPersistInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := pers.SaveReport(healthMonitor.GenerateReport()); err != nil {
						ui.Warning("Error persisting health report: %v", err)
					}
				}
			}
		}, func(err error) {
			if err != nil {
				ui.Warning("Error persisting health reports: %v", err)
			}
		})
	}
	{
		enabled := configuration.CurrentConfig.Api.Enabled
		if enabled {
			// === REST api
			g.Add(func() error {
				restService := api.CreateRestService(healthMonitor)
				host := configuration.CurrentConfig.Api.Host
				port := configuration.CurrentConfig.Api.Port
				addr := fmt.Sprintf("%s:%d", host, port)

				go func() {
					<-ctx.Done()
					ui.Info("Stopping REST api...")
					timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer timeoutCancel()
					_ = restService.Shutdown(timeoutCtx)
				}()

				if err := restService.Start(addr); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start REST api endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				if err != nil {
					ui.Warning("Error stopping REST api: " + err.Error())
				} else {
					ui.Info("REST api stopped.")
				}
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received SIGTERM signal, exiting...")
			return nil
		}, func(err error) {
			defer close(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// InitializeObjects builds all servos from the current configuration,
// puts them under supervision and registers the prometheus collectors.
func InitializeObjects() ([]*servos.Servo, *monitor.Monitor) {
	var servoList []*servos.Servo
	for _, config := range configuration.CurrentConfig.Servos {
		driver, err := servos.NewDriver(config)
		if err != nil {
			ui.Fatal("Unable to process servo configuration: %s (%v)", config.ID, err)
		}
		servo, err := servos.NewServo(config, driver)
		if err != nil {
			ui.Fatal("Unable to process servo configuration: %s (%v)", config.ID, err)
		}
		servos.ServoMap.Set(config.ID, servo)
		servoList = append(servoList, servo)
	}

	servoCollector := statistics.NewServoCollector(servoList)
	statistics.Register(servoCollector)

	healthMonitor := monitor.NewMonitor(configuration.CurrentConfig.Monitor)
	for _, servo := range servoList {
		if err := healthMonitor.Register(servo, nil); err != nil {
			ui.Fatal("Unable to register servo %s with the health monitor: %v", servo.GetId(), err)
		}
	}

	monitorCollector := statistics.NewMonitorCollector(healthMonitor)
	statistics.Register(monitorCollector)

	return servoList, healthMonitor
}
