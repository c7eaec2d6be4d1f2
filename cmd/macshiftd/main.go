package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kardianos/service"
	"gopkg.in/yaml.v3"

	"github.com/macshift/macshift/internal/adapter/jsonfile"
	"github.com/macshift/macshift/internal/adapter/rotationlog"
	"github.com/macshift/macshift/internal/adapter/shell"
	"github.com/macshift/macshift/internal/adapter/watch"
	"github.com/macshift/macshift/internal/domain"
	"github.com/macshift/macshift/internal/usecase/rotation"
)

// bootstrap is the daemon's own config: where the schedule config, the
// rotation event log, and the daemon log live. Read from macshiftd.yaml
// next to the executable, falling back to the working directory.
type bootstrap struct {
	ScheduleConfig string `yaml:"schedule_config"`
	EventLog       string `yaml:"event_log"`
	DaemonLog      string `yaml:"daemon_log"`
}

func defaultBootstrap() bootstrap {
	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}
	return bootstrap{
		ScheduleConfig: filepath.Join(dir, "schedule.json"),
		EventLog:       filepath.Join(dir, "rotations.log"),
		DaemonLog:      filepath.Join(dir, "macshiftd.log"),
	}
}

func loadBootstrap() bootstrap {
	bs := defaultBootstrap()

	var paths []string
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "macshiftd.yaml"))
	}
	paths = append(paths, "macshiftd.yaml")

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &bs); err != nil {
			log.Fatalf("Parse bootstrap config %s: %v", p, err)
		}
		log.Printf("Bootstrap config loaded from %s", p)
		return bs
	}
	return bs
}

func buildControl(bs bootstrap) *rotation.Control {
	controller := shell.NewController()
	recorder := rotationlog.New(bs.EventLog)
	sched := rotation.NewScheduler(controller, recorder)
	repo := jsonfile.New(bs.ScheduleConfig)
	return rotation.NewControl(sched, repo)
}

// program adapts the rotation stack to the service lifecycle.
type program struct {
	bs      bootstrap
	ctrl    *rotation.Control
	watcher *watch.Watcher
	logFile *os.File
}

func (p *program) Start(s service.Service) error {
	if f, err := os.OpenFile(p.bs.DaemonLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err != nil {
		log.Printf("Warning: cannot open log file %s: %v, logging to stderr", p.bs.DaemonLog, err)
	} else {
		p.logFile = f
		log.SetOutput(f)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	log.Printf("=== macshiftd starting ===")
	log.Printf("Schedule config: %s", p.bs.ScheduleConfig)
	log.Printf("Event log: %s", p.bs.EventLog)

	p.ctrl = buildControl(p.bs)

	p.watcher = watch.New(p.bs.ScheduleConfig, p.ctrl.Reload)
	if err := p.watcher.Start(); err != nil {
		log.Printf("Config watcher unavailable, edits need a restart: %v", err)
		p.watcher = nil
	}

	if p.ctrl.Config().Enabled {
		if err := p.ctrl.Start(); err != nil {
			log.Printf("Scheduler not started: %v", err)
		} else {
			log.Printf("Scheduler started on interface %q", p.ctrl.Config().Interface)
		}
	} else {
		log.Printf("Schedule disabled, waiting for configuration")
	}
	return nil
}

func (p *program) Stop(s service.Service) error {
	log.Printf("=== macshiftd stopping ===")
	if p.watcher != nil {
		p.watcher.Stop()
	}
	if err := p.ctrl.Stop(); err != nil && !errors.Is(err, domain.ErrNotRunning) {
		log.Printf("Stop scheduler: %v", err)
	}
	if p.logFile != nil {
		p.logFile.Close()
	}
	return nil
}

func main() {
	svcConfig := &service.Config{
		Name:        "macshiftd",
		DisplayName: "MAC Address Rotation Daemon",
		Description: "Rotates network interface MAC addresses on a schedule.",
	}
	prg := &program{bs: loadBootstrap()}
	svc, err := service.New(prg, svcConfig)
	if err != nil {
		log.Fatalf("Create service: %v", err)
	}

	if len(os.Args) < 2 {
		if err := svc.Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	switch os.Args[1] {
	case "install", "uninstall", "start", "stop":
		if err := service.Control(svc, os.Args[1]); err != nil {
			log.Fatalf("%s: %v", os.Args[1], err)
		}
		fmt.Printf("%s: done\n", os.Args[1])
	case "run":
		if err := svc.Run(); err != nil {
			log.Fatal(err)
		}
	case "configure":
		configure(prg.bs, os.Args[2:])
	case "restore":
		restore(prg.bs, os.Args[2:])
	case "status":
		fmt.Print(buildControl(prg.bs).StatusText())
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "usage: macshiftd [install|uninstall|start|stop|run|configure|restore|status]")
		os.Exit(2)
	}
}

// configure edits the persisted schedule config from command-line flags.
// Only flags the user actually passed are applied, so a running daemon's
// other settings stay untouched.
func configure(bs bootstrap, args []string) {
	fs := flag.NewFlagSet("configure", flag.ExitOnError)
	iface := fs.String("interface", "", "Network interface to rotate (e.g. eth0, Wi-Fi)")
	mode := fs.String("mode", "", "Rotation mode: fixed_interval or random_range")
	fixed := fs.Int("fixed-interval", 0, "Minutes between rotations in fixed_interval mode")
	randomMin := fs.Int("random-min", 0, "Minimum minutes between rotations in random_range mode")
	randomMax := fs.Int("random-max", 0, "Maximum minutes between rotations in random_range mode")
	source := fs.String("source", "", "Address source: random or custom_list")
	addresses := fs.String("addresses", "", "Comma-separated MAC addresses for custom_list")
	windowStart := fs.String("window-start", "", "Active window start (HH:MM)")
	windowEnd := fs.String("window-end", "", "Active window end (HH:MM)")
	enabled := fs.Bool("enabled", false, "Enable (true) or disable (false) scheduled rotation")
	fs.Parse(args)

	var edits rotation.ConfigEdits
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "interface":
			edits.Interface = iface
		case "mode":
			m := domain.RotationMode(*mode)
			edits.Mode = &m
		case "fixed-interval":
			edits.FixedIntervalMinutes = fixed
		case "random-min":
			edits.RandomMinMinutes = randomMin
		case "random-max":
			edits.RandomMaxMinutes = randomMax
		case "source":
			s := domain.AddressSource(*source)
			edits.AddressSource = &s
		case "addresses":
			for _, a := range strings.Split(*addresses, ",") {
				edits.CustomAddresses = append(edits.CustomAddresses, domain.MacAddress(strings.TrimSpace(a)))
			}
		case "window-start":
			edits.WindowStart = windowStart
		case "window-end":
			edits.WindowEnd = windowEnd
		case "enabled":
			edits.Enabled = enabled
		}
	})

	ctrl := buildControl(bs)
	cfg, err := ctrl.Configure(edits)
	if err != nil {
		log.Fatalf("Configure: %v", err)
	}
	fmt.Printf("Schedule config updated: %s\n", bs.ScheduleConfig)
	fmt.Printf("interface=%s mode=%s enabled=%v\n", cfg.Interface, cfg.Mode, cfg.Enabled)
	if cfg.Enabled {
		fmt.Println("Restart or signal the daemon if it is not watching the config file.")
	}
}

// restore reverts an interface to its burned-in MAC address. Without
// -interface it targets the configured one.
func restore(bs bootstrap, args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	iface := fs.String("interface", "", "Network interface to restore (default: the configured interface)")
	fs.Parse(args)

	name := *iface
	if name == "" {
		name = jsonfile.New(bs.ScheduleConfig).Load().Interface
	}

	controller := shell.NewController()
	if !controller.Elevated() {
		log.Fatalf("Restore %q: %v", name, domain.ErrPrivilegeRequired)
	}
	if err := controller.RestoreAddress(context.Background(), name); err != nil {
		log.Fatalf("Restore %q: %v", name, err)
	}
	fmt.Printf("Interface %q restarted; the driver reports its permanent address after it comes back up\n", name)
}
