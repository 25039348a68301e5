package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/zephyrtronium/mathlab/internal/config"
)

var (
	app      = kingpin.New("mathlab", "Evaluate, sample, and plot functions of x.")
	cfgPath  = app.Flag("config", "YAML configuration file.").Envar("MATHLAB_CONFIG").String()
	logLevel = app.Flag("log-level", "Log level, overriding the configuration file.").Envar("MATHLAB_LOG_LEVEL").String()

	evalCmd   = app.Command("eval", "Evaluate expressions.")
	evalFlags = evalArgs(evalCmd)

	sampleCmd   = app.Command("sample", "Print a function's samples as a table.")
	sampleFlags = rangeArgs(sampleCmd)
	sampleSteps = sampleCmd.Flag("steps", "Number of sampling intervals (default from config).").Int()

	plotCmd    = app.Command("plot", "Draw a function as an image.")
	plotFlags  = rangeArgs(plotCmd)
	plotOutput = plotArgs(plotCmd)

	serveCmd    = app.Command("serve", "Serve the plotter page over HTTP.")
	serveListen = serveCmd.Flag("listen", "Address to listen on (default from config).").Envar("MATHLAB_LISTEN").String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*cfgPath)
	app.FatalIfError(err, "config")
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	lvl, err := cfg.Level()
	app.FatalIfError(err, "config")
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)

	switch cmd {
	case evalCmd.FullCommand():
		err = runEval(cfg, evalFlags, os.Stdin, os.Stdout)
	case sampleCmd.FullCommand():
		err = runSample(cfg, sampleFlags, *sampleSteps, log, os.Stdout)
	case plotCmd.FullCommand():
		err = runPlot(cfg, plotFlags, plotOutput, log, os.Stdout)
	case serveCmd.FullCommand():
		if *serveListen != "" {
			cfg.Listen = *serveListen
		}
		err = serve(cfg, log)
	}
	app.FatalIfError(err, cmd)
}
