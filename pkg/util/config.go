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

package util

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type DataOptions struct {
	Seed         int64 `toml:"seed"`
	Streams      int   `toml:"streams"`
	RowsPerBatch int   `toml:"rowsPerBatch"`
	KeyColumns   int   `toml:"keyColumns"`
	KeyRange     int   `toml:"keyRange"`
}

type MergeOptions struct {
	MaxBatchRows int  `toml:"maxBatchRows"`
	Reverse      bool `toml:"reverse"`
	Slice        bool `toml:"slice"`
}

type ShardOptions struct {
	NumShards int `toml:"numShards"`
	Workers   int `toml:"workers"`
}

type OutputOptions struct {
	Path        string `toml:"path"`
	Compression string `toml:"compression"`
}

type DebugOptions struct {
	PrintResult  bool   `toml:"printResult"`
	PrintSummary bool   `toml:"printSummary"`
	Asserts      bool   `toml:"asserts"`
	LogLevel     string `toml:"logLevel"`
}

type Config struct {
	Data   DataOptions   `toml:"data"`
	Merge  MergeOptions  `toml:"merge"`
	Shard  ShardOptions  `toml:"shard"`
	Output OutputOptions `toml:"output"`
	Debug  DebugOptions  `toml:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		Data: DataOptions{
			Seed:         1,
			Streams:      4,
			RowsPerBatch: 1000,
			KeyColumns:   2,
			KeyRange:     100,
		},
		Merge: MergeOptions{
			MaxBatchRows: DefaultVectorSize,
		},
		Shard: ShardOptions{
			NumShards: 8,
			Workers:   4,
		},
		Debug: DebugOptions{
			PrintSummary: true,
			LogLevel:     "info",
		},
	}
}

// LoadConfig decodes a toml file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Data.Streams < 1 {
		return fmt.Errorf("data.streams must be positive, got %d", cfg.Data.Streams)
	}
	if cfg.Data.KeyColumns < 1 || cfg.Data.KeyColumns > 3 {
		return fmt.Errorf("data.keyColumns must be in [1,3], got %d", cfg.Data.KeyColumns)
	}
	if cfg.Data.KeyRange < 1 {
		return fmt.Errorf("data.keyRange must be positive, got %d", cfg.Data.KeyRange)
	}
	if cfg.Merge.MaxBatchRows < 1 {
		return fmt.Errorf("merge.maxBatchRows must be positive, got %d", cfg.Merge.MaxBatchRows)
	}
	if cfg.Merge.Slice && cfg.Merge.Reverse {
		return fmt.Errorf("merge.slice does not support reverse order")
	}
	if cfg.Shard.NumShards < 1 {
		return fmt.Errorf("shard.numShards must be positive, got %d", cfg.Shard.NumShards)
	}
	switch cfg.Output.Compression {
	case "", "none", "zstd", "lz4":
	default:
		return fmt.Errorf("unknown output.compression %q", cfg.Output.Compression)
	}
	return nil
}

const (
	DefaultVectorSize = 2048
)
