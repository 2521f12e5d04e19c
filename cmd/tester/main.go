// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviszhen/colkit/pkg/util"
)

func init() {
	cobra.OnInitialize(loadConfig)
	initCommonFlags()
	initMergeCmd()
	initShardCmd()
	initDedupCmd()
}

var testerCfg = util.DefaultConfig()

///root cmd

var info = "tester"
var RootCmd = &cobra.Command{
	Use:          "tester",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("use tester --help or -h")
	},
}

var cfgFile string

func initCommonFlags() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file, default is ./tester.toml or etc/tester.toml")
	flags.Int64("seed", 0, "random seed of the generated data")
	flags.Int("streams", 0, "number of sorted input streams")
	flags.Int("rows_per_batch", 0, "rows of each generated batch")
	flags.Int("key_columns", 0, "sort key columns, 1 to 3")
	flags.Int("key_range", 0, "distinct values of the first key column")
	flags.String("output", "", "blob file the results are written to")
	flags.String("compression", "", "output compression. none, zstd, lz4")
	flags.Bool("print_result", false, "log every result row")
	flags.Bool("asserts", false, "enable debug asserts")
	flags.String("log_level", "", "debug, info, warn, error")

	bindFlags(flags, map[string]string{
		"data.seed":          "seed",
		"data.streams":       "streams",
		"data.rowsPerBatch":  "rows_per_batch",
		"data.keyColumns":    "key_columns",
		"data.keyRange":      "key_range",
		"output.path":        "output",
		"output.compression": "compression",
		"debug.printResult":  "print_result",
		"debug.asserts":      "asserts",
		"debug.logLevel":     "log_level",
	})
}

// bindFlags binds each config key to its flag.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

var defCfgFilePaths = []string{".", "etc"}
var cfgFileName = "tester.toml"

// loadConfig decodes the toml file over the defaults and hands the result to
// viper as defaults, so flags set on the command line win.
func loadConfig() {
	fpath := cfgFile
	if fpath == "" {
		for _, dirPath := range defCfgFilePaths {
			p := filepath.Join(dirPath, cfgFileName)
			if util.FileIsValid(p) {
				fpath = p
				break
			}
		}
	}
	if fpath != "" {
		cfg, err := util.LoadConfig(fpath)
		if err != nil {
			util.Error("load config file failed",
				zap.String("fpath", fpath),
				zap.Error(err))
			os.Exit(1)
		}
		testerCfg = cfg
	} else {
		util.Info("no tester.toml, use default config")
	}
	setViperDefaults(testerCfg)
}

func setViperDefaults(cfg *util.Config) {
	viper.SetDefault("data.seed", cfg.Data.Seed)
	viper.SetDefault("data.streams", cfg.Data.Streams)
	viper.SetDefault("data.rowsPerBatch", cfg.Data.RowsPerBatch)
	viper.SetDefault("data.keyColumns", cfg.Data.KeyColumns)
	viper.SetDefault("data.keyRange", cfg.Data.KeyRange)
	viper.SetDefault("merge.maxBatchRows", cfg.Merge.MaxBatchRows)
	viper.SetDefault("merge.reverse", cfg.Merge.Reverse)
	viper.SetDefault("merge.slice", cfg.Merge.Slice)
	viper.SetDefault("shard.numShards", cfg.Shard.NumShards)
	viper.SetDefault("shard.workers", cfg.Shard.Workers)
	viper.SetDefault("output.path", cfg.Output.Path)
	viper.SetDefault("output.compression", cfg.Output.Compression)
	viper.SetDefault("debug.printResult", cfg.Debug.PrintResult)
	viper.SetDefault("debug.printSummary", cfg.Debug.PrintSummary)
	viper.SetDefault("debug.asserts", cfg.Debug.Asserts)
	viper.SetDefault("debug.logLevel", cfg.Debug.LogLevel)
}

func initCommonOptions() error {
	testerCfg.Data.Seed = viper.GetInt64("data.seed")
	testerCfg.Data.Streams = viper.GetInt("data.streams")
	testerCfg.Data.RowsPerBatch = viper.GetInt("data.rowsPerBatch")
	testerCfg.Data.KeyColumns = viper.GetInt("data.keyColumns")
	testerCfg.Data.KeyRange = viper.GetInt("data.keyRange")
	testerCfg.Output.Path = viper.GetString("output.path")
	testerCfg.Output.Compression = viper.GetString("output.compression")
	testerCfg.Debug.PrintResult = viper.GetBool("debug.printResult")
	testerCfg.Debug.PrintSummary = viper.GetBool("debug.printSummary")
	testerCfg.Debug.Asserts = viper.GetBool("debug.asserts")
	testerCfg.Debug.LogLevel = viper.GetString("debug.logLevel")
	testerCfg.Merge.MaxBatchRows = viper.GetInt("merge.maxBatchRows")
	testerCfg.Merge.Reverse = viper.GetBool("merge.reverse")
	testerCfg.Merge.Slice = viper.GetBool("merge.slice")
	testerCfg.Shard.NumShards = viper.GetInt("shard.numShards")
	testerCfg.Shard.Workers = viper.GetInt("shard.workers")

	if err := testerCfg.Validate(); err != nil {
		return err
	}
	if err := util.SetLogLevel(testerCfg.Debug.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", testerCfg.Debug.LogLevel, err)
	}
	util.DebugAsserts = testerCfg.Debug.Asserts
	return nil
}

//merge cmd

var mergeInfo = "merge sorted streams"
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: mergeInfo,
	Long:  mergeInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCommonOptions(); err != nil {
			return err
		}
		return runMerge(testerCfg)
	},
}

func initMergeCmd() {
	RootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().Int("max_batch_rows", 0, "max rows of a merged batch")
	mergeCmd.Flags().Bool("reverse", false, "merge in descending order")
	mergeCmd.Flags().Bool("slice", false, "keep one row per key")

	bindFlags(mergeCmd.Flags(), map[string]string{
		"merge.maxBatchRows": "max_batch_rows",
		"merge.reverse":      "reverse",
		"merge.slice":        "slice",
	})
}

//shard cmd

var shardInfo = "split by shard, then sort and dedup each shard"
var shardCmd = &cobra.Command{
	Use:   "shard",
	Short: shardInfo,
	Long:  shardInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCommonOptions(); err != nil {
			return err
		}
		return runShard(cmd.Context(), testerCfg)
	},
}

func initShardCmd() {
	RootCmd.AddCommand(shardCmd)
	shardCmd.Flags().Int("num_shards", 0, "shard count")
	shardCmd.Flags().Int("workers", 0, "shards processed at the same time. 0 means no limit")

	bindFlags(shardCmd.Flags(), map[string]string{
		"shard.numShards": "num_shards",
		"shard.workers":   "workers",
	})
}

//dedup cmd

var dedupInfo = "combine sorted streams and split the result into runs of equal keys"
var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: dedupInfo,
	Long:  dedupInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCommonOptions(); err != nil {
			return err
		}
		return runDedup(testerCfg)
	},
}

func initDedupCmd() {
	RootCmd.AddCommand(dedupCmd)
}

func main() {
	defer util.Sync()
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
