package app

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/bytepowered/goes"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/portgate/portgate"
	"github.com/portgate/portgate/helper"
	"github.com/sirupsen/logrus"
)

func init() {
	goes.SetPanicHandler(func(ctx context.Context, r interface{}) {
		logrus.Errorf("goroutine panic %v: %s", r, debug.Stack())
	})
}

func RunServer(runCtx context.Context, args []string, verifyOnly bool) error {
	confpath := "config.toml"
	if len(args) > 0 {
		confpath = args[0]
	}
	// Configuration
	k := koanf.NewWithConf(koanf.Conf{
		Delim:       ".",
		StrictMerge: true,
	})
	if err := k.Load(file.Provider(confpath), toml.Parser()); err != nil {
		return fmt.Errorf("main: load config: %s. %w", confpath, err)
	}
	setupLogger(k)
	logrus.Infof("main: load: %s", confpath)
	// Instance
	runCtx = portgate.ContextWithConfiger(runCtx, k)
	inst := NewInstance()
	if err := inst.Init(runCtx); err != nil {
		return fmt.Errorf("main: instance init. %w", err)
	}
	if verifyOnly {
		inst.Close()
		return nil
	}
	return helper.ErrIf(inst.Serve(runCtx), "main: instance serve. %w")
}

func setupLogger(k *koanf.Koanf) {
	switch k.String("log.format") {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:    false,
			DisableTimestamp: false,
			FullTimestamp:    true,
		})
	}
	if level, err := logrus.ParseLevel(k.String("log.level")); err == nil {
		logrus.SetLevel(level)
	}
	logrus.SetReportCaller(false)
}
