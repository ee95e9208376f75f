package params

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/meridian-dex/meridian/pkg/exchange/market"
)

type Node struct {
	APIAddr     string
	MetricsAddr string
	DataDir     string // pebble database location
	LogFile     string
	PairsFile   string // optional YAML pair definitions
}

type Config struct {
	Node  Node
	Pairs []PairConfig
}

// PairConfig is the YAML shape of one trading pair definition.
type PairConfig struct {
	Symbol       string `yaml:"symbol"`
	BaseAsset    string `yaml:"baseAsset"`
	QuoteAsset   string `yaml:"quoteAsset"`
	TickSize     int64  `yaml:"tickSize"`
	LotSize      int64  `yaml:"lotSize"`
	MinNotional  int64  `yaml:"minNotional"`
	MinOrderSize int64  `yaml:"minOrderSize"`
	MaxOrderSize int64  `yaml:"maxOrderSize"`
	MakerFeeBps  int64  `yaml:"makerFeeBps"`
	TakerFeeBps  int64  `yaml:"takerFeeBps"`
}

// ToPair builds the runtime pair, falling back to defaults for zero-valued
// precision fields.
func (pc PairConfig) ToPair() (*market.Pair, error) {
	p := market.DefaultParams
	if pc.TickSize != 0 {
		p.TickSize = pc.TickSize
	}
	if pc.LotSize != 0 {
		p.LotSize = pc.LotSize
	}
	if pc.MinNotional != 0 {
		p.MinNotional = pc.MinNotional
	}
	if pc.MinOrderSize != 0 {
		p.MinOrderSize = pc.MinOrderSize
	}
	if pc.MaxOrderSize != 0 {
		p.MaxOrderSize = pc.MaxOrderSize
	}
	if pc.MakerFeeBps != 0 {
		p.MakerFeeBps = pc.MakerFeeBps
	}
	if pc.TakerFeeBps != 0 {
		p.TakerFeeBps = pc.TakerFeeBps
	}
	return market.NewPair(pc.Symbol, pc.BaseAsset, pc.QuoteAsset, p)
}

func Default() Config {
	return Config{
		Node: Node{
			APIAddr:     ":8080",
			MetricsAddr: ":9100",
			DataDir:     "data/exchange.db",
			LogFile:     "data/node.log",
		},
		Pairs: []PairConfig{
			{Symbol: "BTC-USDT", BaseAsset: "BTC", QuoteAsset: "USDT"},
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment
// variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.Node.APIAddr = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Node.MetricsAddr = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Node.DataDir = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Node.LogFile = v
	}
	if v := os.Getenv("PAIRS_FILE"); v != "" {
		cfg.Node.PairsFile = v
	}
	return cfg
}

// LoadPairsFile reads YAML pair definitions, replacing the defaults.
func LoadPairsFile(path string) ([]PairConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pairs file: %w", err)
	}
	var out struct {
		Pairs []PairConfig `yaml:"pairs"`
	}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse pairs file: %w", err)
	}
	if len(out.Pairs) == 0 {
		return nil, fmt.Errorf("pairs file %s defines no pairs", path)
	}
	return out.Pairs, nil
}
