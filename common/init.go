package common

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/common/logger"
)

var (
	Port         = flag.Int("port", 0, "the listening port, overrides PORT")
	PrintVersion = flag.Bool("version", false, "print version and exit")
	PrintHelp    = flag.Bool("help", false, "print help and exit")
	LogDir       = flag.String("log-dir", "", "specify the log directory, overrides LOG_DIR")
)

func printHelp() {
	fmt.Println("Image Describe " + config.Version)
	fmt.Println("Usage: image-describe [--port <port>] [--log-dir <log directory>] [--version] [--help]")
}

// Init parses command line flags and applies them on top of cfg.
func Init(cfg *config.Config) {
	flag.Parse()

	if *PrintVersion {
		fmt.Println(config.Version)
		os.Exit(0)
	}

	if *PrintHelp {
		printHelp()
		os.Exit(0)
	}

	if *Port != 0 {
		cfg.Port = *Port
	}
	if *LogDir != "" {
		cfg.LogDir = *LogDir
	}
	if cfg.LogDir != "" {
		var err error
		cfg.LogDir, err = filepath.Abs(cfg.LogDir)
		if err != nil {
			log.Fatal(err)
		}
	}
	logger.LogDir = cfg.LogDir
	logger.DebugEnabled = cfg.DebugEnabled
}
