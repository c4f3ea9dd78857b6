// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"io/ioutil"

	tml "github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Log 日志配置
type Log struct {
	Loglevel        string `toml:"loglevel"`
	LogConsoleLevel string `toml:"logConsoleLevel"`
	LogFile         string `toml:"logFile"`
	MaxFileSize     uint32 `toml:"maxFileSize"`
	MaxBackups      uint32 `toml:"maxBackups"`
	MaxAge          uint32 `toml:"maxAge"`
	LocalTime       bool   `toml:"localTime"`
	Compress        bool   `toml:"compress"`
	CallerFile      bool   `toml:"callerFile"`
	CallerFunction  bool   `toml:"callerFunction"`
}

// Store 存储配置
type Store struct {
	Driver  string `toml:"driver"`
	DbPath  string `toml:"dbPath"`
	DbCache int32  `toml:"dbCache"`
}

// Executor xcm 执行器配置
type Executor struct {
	UnitWeightRefTime    uint64 `toml:"unitWeightRefTime"`
	UnitWeightProofSize  uint64 `toml:"unitWeightProofSize"`
	MaxInstructions      uint32 `toml:"maxInstructions"`
	MaxAssetsIntoHolding uint32 `toml:"maxAssetsIntoHolding"`
}

// Metrics 指标上报配置
type Metrics struct {
	EnableMetrics bool   `toml:"enableMetrics"`
	DataEmitMode  string `toml:"dataEmitMode"`
	// Influxdb is read when DataEmitMode is "influxdb".
	Influxdb *Influxdb `toml:"influxdb"`
}

// Influxdb influxdb 上报参数
type Influxdb struct {
	// 以纳秒为单位
	Duration  int64  `toml:"duration"`
	URL       string `toml:"url"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
}

// Balance is one genesis balance. Account is a well-known name, "parent",
// "para:<id>", or a base58/0x account id.
type Balance struct {
	Account string `toml:"account"`
	Amount  int64  `toml:"amount"`
}

// AssetGenesis registers one class in a parachain's multi-asset ledger.
// Reserve is "local", "parent" or "sibling:<id>".
type AssetGenesis struct {
	ID         uint32    `toml:"id"`
	Location   string    `toml:"location"`
	Owner      string    `toml:"owner"`
	Name       string    `toml:"name"`
	Symbol     string    `toml:"symbol"`
	Decimals   uint8     `toml:"decimals"`
	MinBalance int64     `toml:"minBalance"`
	Reserve    string    `toml:"reserve"`
	Balances   []Balance `toml:"balances"`
}

// Relay 中继链配置
type Relay struct {
	Network  string    `toml:"network"`
	Symbol   string    `toml:"symbol"`
	Decimals uint8     `toml:"decimals"`
	Balances []Balance `toml:"balances"`
}

// Parachain 平行链配置
type Parachain struct {
	ParaID             uint32         `toml:"paraID"`
	Name               string         `toml:"name"`
	Network            string         `toml:"network"`
	Symbol             string         `toml:"symbol"`
	Decimals           uint8          `toml:"decimals"`
	Balances           []Balance      `toml:"balances"`
	Assets             []AssetGenesis `toml:"assets"`
	CompressHorizontal bool           `toml:"compressHorizontal"`
	AllowUnpaid        bool           `toml:"allowUnpaid"`
	ParentSuperuser    bool           `toml:"parentSuperuser"`
}

// Config 模拟网络的完整配置
type Config struct {
	Title      string       `toml:"title"`
	Log        *Log         `toml:"log"`
	Store      *Store       `toml:"store"`
	Executor   *Executor    `toml:"executor"`
	Metrics    *Metrics     `toml:"metrics"`
	Relay      *Relay       `toml:"relay"`
	Parachains []*Parachain `toml:"parachain"`
}

// GetParachain returns the parachain config with the given id.
func (c *Config) GetParachain(id uint32) (*Parachain, error) {
	for _, p := range c.Parachains {
		if p.ParaID == id {
			return p, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownChain, "para %d", id)
}

// InitCfg 从文件初始化配置
func InitCfg(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(ErrConfigNotFound, err.Error())
	}
	return InitCfgString(string(data))
}

// InitCfgString 从字符串初始化配置
func InitCfgString(cfgstring string) (*Config, error) {
	var cfg Config
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	fillDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns the genesis of the two chain reference network.
func DefaultConfig() *Config {
	cfg, err := InitCfgString(DefaultCfgString)
	if err != nil {
		panic(err)
	}
	return cfg
}

func fillDefaults(cfg *Config) {
	if cfg.Title == "" {
		cfg.Title = "paraxcm"
	}
	if cfg.Log == nil {
		cfg.Log = &Log{}
	}
	if cfg.Store == nil {
		cfg.Store = &Store{}
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memdb"
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &Metrics{}
	}
	if cfg.Executor == nil {
		cfg.Executor = &Executor{}
	}
	e := cfg.Executor
	if e.UnitWeightRefTime == 0 && e.UnitWeightProofSize == 0 {
		e.UnitWeightRefTime = DefaultUnitWeightRefTime
		e.UnitWeightProofSize = DefaultUnitWeightProofSize
	}
	if e.MaxInstructions == 0 {
		e.MaxInstructions = DefaultMaxInstructions
	}
	if e.MaxAssetsIntoHolding == 0 {
		e.MaxAssetsIntoHolding = DefaultMaxAssetsIntoHolding
	}
	if cfg.Relay == nil {
		cfg.Relay = &Relay{}
	}
	if cfg.Relay.Symbol == "" {
		cfg.Relay.Symbol = "DOT"
	}
	for _, p := range cfg.Parachains {
		if p.Name == "" {
			p.Name = "para"
		}
		for i := range p.Assets {
			if p.Assets[i].Reserve == "" {
				p.Assets[i].Reserve = "local"
			}
			if p.Assets[i].MinBalance == 0 {
				p.Assets[i].MinBalance = 1
			}
		}
	}
}

// DefaultCfgString is the genesis used by the reference network: a relay
// chain and parachain 1 carrying a local asset and the relay derivative.
var DefaultCfgString = `
title = "paraxcm"

[log]
loglevel = "error"
logConsoleLevel = "error"

[store]
driver = "memdb"

[executor]
unitWeightRefTime = 1
unitWeightProofSize = 1
maxInstructions = 100
maxAssetsIntoHolding = 64

[relay]
network = "kusama"
symbol = "DOT"
decimals = 10
balances = [
	{account = "alice", amount = 100000},
	{account = "bob", amount = 100000},
	{account = "para:1", amount = 1000000},
]

[[parachain]]
paraID = 1
name = "vane"
network = "kusama"
symbol = "VANE"
decimals = 12
allowUnpaid = true
balances = [
	{account = "alice", amount = 1000000},
	{account = "parent", amount = 1000000},
]

[[parachain.assets]]
id = 0
location = "1"
owner = "para:1"
name = "Relay DOT"
symbol = "DOT"
decimals = 10
reserve = "parent"

[[parachain.assets]]
id = 1
location = "0/pallet:10/index:1"
owner = "para:1"
name = "vDOT"
symbol = "vDOT"
decimals = 10
reserve = "local"
balances = [
	{account = "para:1", amount = 0},
	{account = "vane", amount = 100000},
]
`
