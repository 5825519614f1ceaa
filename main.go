package main

import (
	"flag"

	"github.com/driftguard/driftguard/lib/config"
	"github.com/driftguard/driftguard/lib/guard"
	"github.com/driftguard/driftguard/lib/reboot"
	"github.com/driftguard/driftguard/lib/refserver"
	"github.com/driftguard/driftguard/lib/supervisor"
	"github.com/driftguard/driftguard/lib/timesource"
	"github.com/driftguard/driftguard/lib/util"
	"github.com/driftguard/driftguard/lib/util/logger"
	"github.com/driftguard/driftguard/lib/util/signals"
)

var log = logger.GetDriftguardLogger()

func main() {
	cfgFile := flag.String("config", "", "Path to the config file")
	referenceURL := flag.String("reference", "", "Base URL of the reference time endpoint")
	mode := flag.String("mode", "", "Reboot mode: simulated or system")
	serveReference := flag.Bool("serve-reference", false, "Also expose this node's clock as a reference endpoint")
	flag.Parse()

	config.CfgFile = *cfgFile
	config.InitConfig()

	cfg := config.NewWatchdogConfigFromViper()
	if *referenceURL != "" {
		cfg.ReferenceURL = *referenceURL
	}
	if *mode != "" {
		cfg.Mode = *mode
	}

	go signals.Handle()

	log.Debug("starting up driftguard watchdog")
	log.Debug("reference endpoint:", cfg.ReferenceURL)

	source := buildSource(cfg)
	store := guard.NewFileStore(cfg.RecordPath)
	if util.CheckFileExists(store.Path()) {
		log.Debug("using existing guard record in:", store.Path())
	}
	executor := reboot.NewExecutor(cfg.Mode)

	sup := supervisor.New(cfg, source, store, executor)

	refCfg := config.NewReferenceConfigFromViper()
	if *serveReference {
		refCfg.Enabled = true
	}
	ref, err := refserver.NewServer(refCfg, nil)
	if err != nil {
		log.Errorf("failed to create reference time server: %s", err)
		return
	}
	if err := ref.Start(); err != nil {
		log.Errorf("failed to start reference time server: %s", err)
		return
	}

	signals.RegisterReloadHandler(func() {
		// TODO: reload config
	})
	signals.RegisterInterruptHandler(func() {
		sup.Stop()
		ref.Stop()
	})

	sup.Start()
	sup.Wait()
}

// buildSource selects the reference source: the NTP pool when enabled,
// otherwise the HTTP reference endpoint.
func buildSource(cfg *config.WatchdogConfig) timesource.Source {
	ntpCfg := config.NewNTPConfigFromViper()
	if ntpCfg.Enabled {
		log.Debug("using NTP reference source:", ntpCfg.Server)
		return timesource.NewNTPSource(ntpCfg.Server, cfg.SampleTimeout, nil)
	}
	return timesource.NewHTTPSource(cfg.ReferenceURL, cfg.SampleTimeout)
}
