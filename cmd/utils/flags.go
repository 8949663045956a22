package utils

import (
	"time"

	"github.com/anyswap/Stellar-SDK/log"
	"github.com/anyswap/Stellar-SDK/network"
	"github.com/urfave/cli/v2"
)

var (
	// ConfigFileFlag --config
	ConfigFileFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Specify config file",
	}
	// NetworkFlag --network
	NetworkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "network passphrase, or 'testnet' / 'pubnet'",
		Value: "testnet",
	}
	// LogFileFlag --log
	LogFileFlag = &cli.StringFlag{
		Name:  "log",
		Usage: "Specify log file, support rotate",
	}
	// LogRotationFlag --rotate
	LogRotationFlag = &cli.Uint64Flag{
		Name:  "rotate",
		Usage: "log rotation time (unit hour)",
		Value: 24,
	}
	// LogMaxAgeFlag --maxage
	LogMaxAgeFlag = &cli.Uint64Flag{
		Name:  "maxage",
		Usage: "log max age (unit hour)",
		Value: 720,
	}
	// VerbosityFlag --verbosity
	VerbosityFlag = &cli.Uint64Flag{
		Name:    "verbosity",
		Aliases: []string{"v"},
		Usage:   "log verbosity (0:panic, 1:fatal, 2:error, 3:warn, 4:info, 5:debug, 6:trace)",
		Value:   3,
	}
	// JSONFormatFlag --json
	JSONFormatFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "output log in json format",
	}
	// ColorFormatFlag --color
	ColorFormatFlag = &cli.BoolFlag{
		Name:  "color",
		Usage: "output log in color text format",
		Value: true,
	}

	// LogFlags are shared by every command
	LogFlags = []cli.Flag{
		LogFileFlag,
		LogRotationFlag,
		LogMaxAgeFlag,
		VerbosityFlag,
		JSONFormatFlag,
		ColorFormatFlag,
	}
)

// SetLogger set log level, format and file from flags
func SetLogger(ctx *cli.Context) error {
	logLevel := ctx.Uint64(VerbosityFlag.Name)
	jsonFormat := ctx.Bool(JSONFormatFlag.Name)
	colorFormat := ctx.Bool(ColorFormatFlag.Name)
	log.SetLogger(uint32(logLevel), jsonFormat, colorFormat)

	logFile := ctx.String(LogFileFlag.Name)
	if logFile == "" {
		return nil
	}
	rotation := time.Duration(ctx.Uint64(LogRotationFlag.Name)) * time.Hour
	maxAge := time.Duration(ctx.Uint64(LogMaxAgeFlag.Name)) * time.Hour
	return log.SetLogFile(logFile, rotation, maxAge)
}

// GetConfigFilePath specified by `-c|--config`
func GetConfigFilePath(ctx *cli.Context) string {
	return ctx.String(ConfigFileFlag.Name)
}

// GetNetworkPassphrase resolves `--network`, accepting the short names
// testnet and pubnet
func GetNetworkPassphrase(ctx *cli.Context) string {
	return ResolvePassphrase(ctx.String(NetworkFlag.Name))
}

// ResolvePassphrase maps testnet and pubnet to their passphrases and
// returns anything else unchanged
func ResolvePassphrase(name string) string {
	switch name {
	case "testnet", "":
		return network.TestNetworkPassphrase
	case "pubnet", "public", "mainnet":
		return network.PublicNetworkPassphrase
	}
	return name
}
