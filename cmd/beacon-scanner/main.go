// Command beacon-scanner runs the sensor node: it scans for beacons, reports
// them with motion statistics to the server, and plays the LED and vibration
// behaviors the server asks for.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/beacon-scanner/internal/config"
	"github.com/sweeney/beacon-scanner/internal/gpio"
	"github.com/sweeney/beacon-scanner/internal/mqtt"
	"github.com/sweeney/beacon-scanner/internal/netstate"
	"github.com/sweeney/beacon-scanner/internal/pipeline"
	"github.com/sweeney/beacon-scanner/internal/status"
	"github.com/sweeney/beacon-scanner/internal/timer"
	"github.com/sweeney/beacon-scanner/internal/transport"
	"github.com/sweeney/beacon-scanner/internal/web"
)

type options struct {
	tick         time.Duration
	scanDuration time.Duration
	scanInterval time.Duration
	heartbeat    time.Duration
	httpAddr     string
	broker       string
	prefs        string
	iface        string
	netEnv       string
	spiDev       string
	ledCount     int
	brightness   int
	i2cDev       string
	chip         string
	motorPin     int
	buttonPin    int
	serviceUUID  string
	namePrefix   string
	printConfig  bool
	maintenance  bool
	verbose      bool
}

func main() {
	var o options
	flag.DurationVar(&o.tick, "tick", 10*time.Millisecond, "Scheduler tick interval")
	flag.DurationVar(&o.scanDuration, "scan-duration", pipeline.DefaultScanDuration, "Length of one beacon scan")
	flag.DurationVar(&o.scanInterval, "scan-interval", 6*time.Second, "Time between scan starts")
	flag.DurationVar(&o.heartbeat, "heartbeat", 15*time.Minute, "MQTT heartbeat interval (0 to disable)")
	flag.StringVar(&o.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&o.broker, "broker", "", "MQTT broker for the telemetry mirror (empty to disable)")
	flag.StringVar(&o.prefs, "prefs", "/var/lib/beacon-scanner/prefs.db", "Preference store path")
	flag.StringVar(&o.iface, "iface", "wlan0", "Network interface for the device identity and link checks")
	flag.StringVar(&o.netEnv, "net-env", netstate.DefaultEnvFile, "Network helper state file (empty to check -iface directly)")
	flag.StringVar(&o.spiDev, "spi", "/dev/spidev0.0", "SPI device driving the LED strip")
	flag.IntVar(&o.ledCount, "led-count", 8, "Number of LEDs on the strip")
	flag.IntVar(&o.brightness, "brightness", 128, "LED strip brightness 0-255")
	flag.StringVar(&o.i2cDev, "i2c", "/dev/i2c-1", "I2C bus with the accelerometer")
	flag.StringVar(&o.chip, "gpio-chip", gpio.DefaultChip, "GPIO chip for the motor and button")
	flag.IntVar(&o.motorPin, "motor-pin", gpio.DefaultPinMotor, "BCM pin driving the vibration motor")
	flag.IntVar(&o.buttonPin, "button-pin", gpio.DefaultPinButton, "BCM pin of the maintenance button")
	flag.StringVar(&o.serviceUUID, "service-uuid", "", "Report beacons advertising this service UUID")
	flag.StringVar(&o.namePrefix, "name-prefix", "", "Report beacons whose name starts with this prefix")
	flag.BoolVar(&o.printConfig, "print-config", false, "Print the effective configuration and exit")
	flag.BoolVar(&o.maintenance, "maintenance", false, "Start in maintenance mode")
	flag.BoolVar(&o.verbose, "verbose", false, "Log every report payload")

	flag.Parse()

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	store, err := config.OpenStore(o.prefs)
	if err != nil {
		log.Printf("config: %v, using defaults", err)
		store = nil
	} else {
		defer store.Close()
	}

	if o.printConfig {
		cfg, err := config.Load(store)
		if err != nil {
			log.Printf("config: %v", err)
		}
		b, err := cfg.YAML()
		if err != nil {
			return err
		}
		fmt.Print(string(b))
		return nil
	}

	if o.maintenance {
		runMaintenance(store)
	}

	hw, err := openHardware(o)
	if err != nil {
		return fmt.Errorf("init hardware: %w", err)
	}
	defer hw.Close()

	mac, err := netstate.HardwareAddr(o.iface)
	if err != nil {
		log.Printf("netstate: %v, using hostname as device id", err)
		mac, _ = os.Hostname()
	}

	cfg, err := config.Load(store)
	if err != nil {
		log.Printf("config: %v", err)
	}
	name := netstate.ScannerName(cfg.ScannerName, mac)

	var pub mqtt.Publisher
	if o.broker != "" {
		rp := mqtt.NewRealPublisher(o.broker, name)
		defer rp.Close()
		pub = rp
	}

	tracker := status.NewTracker(time.Now(), statusConfig(o, cfg, mac))

	publishSystem(pub, tracker, "STARTUP", "", true)

	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	poster := transport.NewHTTPPoster(transport.DefaultTimeout)
	for {
		deps := nodeDeps{
			opts:    o,
			hw:      hw,
			clock:   timer.SystemClock{},
			link:    newLink(o),
			poster:  poster,
			pub:     pub,
			tracker: tracker,
			mac:     mac,
		}
		deps.cfg, err = config.Load(store)
		if err != nil {
			log.Printf("config: %v", err)
		}
		tracker.SetConfig(statusConfig(o, deps.cfg, mac))

		ticker := time.NewTicker(o.tick)
		ctx, cancel := context.WithCancel(context.Background())
		n := newNode(ctx, deps)
		log.Printf("started %s: server=%s scan=%v/%v tick=%v", n.state.ScannerName(), deps.cfg.ServerURL, o.scanDuration, o.scanInterval, o.tick)

		ex := runLoop(ctx, n, ticker.C, sigCh)
		cancel()
		ticker.Stop()

		if ex.signal != nil {
			shutdown(pub, tracker, ex.signal)
			return nil
		}

		log.Printf("maintenance requested, scheduler stopped")
		publishSystem(pub, tracker, "MAINTENANCE", "button", false)
		runMaintenance(store)
	}
}

// statusConfig summarizes the settings shown on the status page.
func statusConfig(o options, cfg config.Config, mac string) status.Config {
	return status.Config{
		DeviceID:       mac,
		ScannerName:    netstate.ScannerName(cfg.ScannerName, mac),
		ServerURL:      cfg.ServerURL,
		Broker:         o.broker,
		HTTPAddr:       o.httpAddr,
		TickMs:         o.tick.Milliseconds(),
		ScanIntervalMs: o.scanInterval.Milliseconds(),
		ScanDurationMs: o.scanDuration.Milliseconds(),
		HeartbeatMs:    o.heartbeat.Milliseconds(),
	}
}

// exit says why runLoop returned.
type exit struct {
	signal      os.Signal
	maintenance bool
}

// runLoop drives the node's scheduler until a signal arrives or the node
// asks for maintenance mode.
func runLoop(ctx context.Context, n *node, tick <-chan time.Time, sig <-chan os.Signal) exit {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan exit, 1)
	go func() {
		defer cancel()
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			done <- exit{signal: s}
		case <-n.maintenance:
			done <- exit{maintenance: true}
		case <-ctx.Done():
			done <- exit{}
		}
	}()

	n.sched.Run(ctx, tick)
	return <-done
}

func shutdown(pub mqtt.Publisher, tracker *status.Tracker, s os.Signal) {
	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}
	publishSystem(pub, tracker, "SHUTDOWN", signalName, true)
}

// publishSystem sends a lifecycle event carrying a status snapshot.
// A nil publisher means the mirror is disabled.
func publishSystem(pub mqtt.Publisher, tracker *status.Tracker, name, reason string, retained bool) {
	if pub == nil {
		return
	}
	if cs, ok := pub.(mqtt.ConnectionStatus); ok {
		tracker.SetMQTTConnected(cs.IsConnected())
	}
	snap := tracker.Snapshot()
	ev := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      name,
		Reason:     reason,
		Retained:   retained,
		RawPayload: status.FormatStatusEvent(snap, name, reason),
	}
	if err := pub.PublishSystem(ev); err != nil {
		log.Printf("failed to publish %s event: %v", name, err)
		return
	}
	log.Printf("published %s event", name)
}

func runMaintenance(store *config.Store) {
	if store == nil {
		log.Printf("maintenance: no preference store, nothing to edit")
		return
	}
	m := &config.Maintenance{Store: store}
	config.NewShell(m).Run()
	if m.Changed {
		log.Printf("maintenance: preferences changed, reloading")
	}
}

func newLink(o options) netstate.Link {
	if o.netEnv != "" {
		if _, err := os.Stat(o.netEnv); err == nil {
			return &netstate.EnvFileLink{Path: o.netEnv}
		}
	}
	return &netstate.InterfaceLink{Name: o.iface}
}
