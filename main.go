package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"quill/beep"
	"quill/capture"
	"quill/config"
	"quill/deliver"
	"quill/doctor"
	"quill/engine"
	"quill/hotkey"
	"quill/log"
	"quill/trigger"
)

var version = "dev"

// forceExitAfter bounds a shutdown that is waiting on a slow engine.
const forceExitAfter = 120 * time.Second

func run() {
	engineFlag := flag.String("engine", "", "transcription engine: whisper, whisper-cli, onnx, openai (default whisper)")
	deviceFlag := flag.String("device", "", "capture source name or id (persisted for later runs)")
	modelDirFlag := flag.String("model-dir", "", "directory with ggml model files")
	cacheDirFlag := flag.String("cache-dir", "", "cache directory for fetched model bundles")
	providerFlag := flag.String("provider", "", "onnx execution provider (default cpu)")
	threadsFlag := flag.Int("threads", 0, "decoder threads (0 = engine default)")
	langFlag := flag.String("lang", "en", "language code for transcription (empty = auto-detect)")
	pasteFlag := flag.Bool("paste", false, "paste into the focused window after copying")
	printTextFlag := flag.Bool("print-text", false, "print each transcript to stdout")
	keepAudioFlag := flag.Bool("keep-audio", false, "keep the staging file after each session")
	checkFlag := flag.Bool("check", false, "load the selected engine, report, and exit")
	hotkeyFlag := flag.Bool("hotkey", false, "also toggle capture on Ctrl+Shift+Space")
	beepFlag := flag.Bool("beep", true, "audible feedback on start/stop/error")
	doctorFlag := flag.Bool("doctor", false, "run environment diagnostics and exit")
	recorderFlag := flag.String("recorder", capture.DefaultCommand, "capture command")
	configFlag := flag.String("config", "", "config file path override")
	verboseFlag := flag.Bool("v", false, "debug logging")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("quill %s\n", version)
		os.Exit(0)
	}

	log.Init(*verboseFlag)

	model := "base"
	if flag.NArg() > 0 {
		model = flag.Arg(0)
	}
	sel := engine.Selector{
		Kind:     engine.Kind(*engineFlag),
		Model:    model,
		ModelDir: *modelDirFlag,
		CacheDir: *cacheDirFlag,
		Provider: *providerFlag,
		Threads:  *threadsFlag,
		Language: *langFlag,
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		var err error
		cfgPath, err = config.Path()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	device := cfg.Device
	if *deviceFlag != "" {
		device = *deviceFlag
	}

	if *doctorFlag {
		os.Exit(doctor.Run(doctor.Options{
			Recorder: *recorderFlag,
			Device:   device,
			Engine:   sel,
			Hotkey:   *hotkeyFlag,
			Paste:    *pasteFlag,
		}))
	}

	if !*beepFlag {
		beep.Disable()
	}

	eng, err := engine.New(sel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *checkFlag {
		fmt.Printf("engine %s ready\n", eng.Name())
		eng.Close()
		os.Exit(0)
	}
	defer eng.Close()

	if device == "" {
		fmt.Fprintln(os.Stderr, "Error: no capture device configured (pass -device once; the choice is persisted)")
		printSources()
		os.Exit(1)
	}
	if err := capture.ValidateDevice(device, *recorderFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: device %q: %v\n", device, err)
		printSources()
		os.Exit(1)
	}

	// Persist an explicitly chosen device for the next run. Layout hints
	// in the same file are kept as they are.
	if *deviceFlag != "" && *deviceFlag != cfg.Device {
		cfg.Device = *deviceFlag
		if err := config.Save(cfgPath, cfg); err != nil {
			log.Warnf("could not persist device choice: %v", err)
		}
	}

	mode := deliver.CopyOnly
	if *pasteFlag {
		mode = deliver.CopyAndPaste
	}

	rec := &capture.Recorder{
		Device:    device,
		Command:   *recorderFlag,
		Staging:   capture.StagingPath(),
		KeepAudio: *keepAudioFlag,
	}
	d := newDaemon(rec, eng, deliver.NewChain(mode, cfg.Layout, cfg.Variant))
	d.device = device
	d.printText = *printTextFlag

	toggleSig := make(chan os.Signal, 1)
	trigger.NotifyToggle(toggleSig)
	go func() {
		for range toggleSig {
			select {
			case d.toggle <- struct{}{}:
			default:
				log.Debugf("toggle coalesced")
			}
		}
	}()

	if *hotkeyFlag {
		hk := hotkey.New()
		if err := hk.Register(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: hotkey: %v\n", err)
			os.Exit(1)
		}
		defer hk.Unregister()
		go func() {
			for range hotkey.Taps(hk) {
				select {
				case d.toggle <- struct{}{}:
				default:
					log.Debugf("toggle coalesced")
				}
			}
		}()
	}

	shutdownSig := make(chan os.Signal, 1)
	trigger.NotifyShutdown(shutdownSig)
	go func() {
		sig := <-shutdownSig
		log.Infof("%s received, finishing up", sig)
		// Restore default handling so a second signal terminates at once.
		signal.Stop(shutdownSig)
		time.AfterFunc(forceExitAfter, func() {
			log.Error("shutdown timed out, forcing exit")
			os.Exit(1)
		})
		close(d.quit)
	}()

	go beep.Init()

	log.Infof("quill %s ready [pid %d], engine %s", version, os.Getpid(), eng.Name())
	log.Infof("toggle capture with: kill -USR2 %d", os.Getpid())

	d.run()
	log.Info("bye")
}

func printSources() {
	sources := capture.AvailableSources()
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "Available sources:")
	for _, s := range sources {
		fmt.Fprintf(os.Stderr, "  %s\n", s)
	}
}
