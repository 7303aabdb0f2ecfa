// Command vojker evaluates a golden case directory and checks the canonical
// audit record against its fixture.
//
// Usage:
//
//	vojker <case_dir>
//	vojker --bless <case_dir>
//	vojker --config vojker.yaml --journal ./wal/runs <case_dir>
//
// Exit codes: 0 on bless or match, 1 on mismatch, 2 on invalid arguments,
// 3 when the case cannot be read or written.
package main

import (
	"fmt"
	"os"

	"github.com/vadiminshakov/vojker/config"
	"github.com/vadiminshakov/vojker/internal/audit"
	"github.com/vadiminshakov/vojker/internal/fingerprint"
	"github.com/vadiminshakov/vojker/internal/pipeline"
	"github.com/vadiminshakov/vojker/internal/storage/runs"
	"go.uber.org/zap"
)

const (
	exitUsage = 2
	exitFault = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	conf, err := config.Get(args)
	if err != nil {
		fmt.Println("ERROR: " + err.Error())
		fmt.Println(config.Usage)
		return exitUsage
	}

	hasher, err := fingerprint.New(conf.Hash)
	if err != nil {
		fmt.Println("ERROR: " + err.Error())
		return exitUsage
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var journal pipeline.Journal
	if conf.JournalDir != "" {
		store, err := runs.NewWALStore(conf.JournalDir)
		if err != nil {
			logger.Error("failed to open run journal", zap.String("dir", conf.JournalDir), zap.Error(err))
			return exitFault
		}
		defer store.Close()
		journal = store
	}

	serializer := audit.NewSerializer(
		audit.Identity{Name: conf.Pack.Name, Version: conf.Pack.Version},
		audit.Identity{Name: conf.Engine.Name, Version: conf.Engine.Version},
	)
	p := pipeline.New(logger, hasher, serializer, journal)

	report, err := p.Run(conf.CaseDir, conf.Bless)
	if err != nil {
		logger.Error("golden run failed", zap.String("case_dir", conf.CaseDir), zap.Error(err))
		return exitFault
	}

	if err := report.Print(os.Stdout); err != nil {
		logger.Error("failed to print report", zap.Error(err))
		return exitFault
	}

	return report.ExitCode()
}
