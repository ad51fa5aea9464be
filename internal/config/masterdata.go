package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// GSTRateSlab is one selectable GST percentage.
type GSTRateSlab struct {
	Value float64 `mapstructure:"value" json:"value"`
	Label string  `mapstructure:"label" json:"label"`
}

// HSNEntry is one row of the HSN catalog offered for product lookup.
type HSNEntry struct {
	Code        string `mapstructure:"code" json:"code"`
	Description string `mapstructure:"description" json:"description"`
}

type MasterData struct {
	GSTRates []GSTRateSlab `mapstructure:"gstRates"`
	HSNCodes []HSNEntry    `mapstructure:"hsnCodes"`
}

func DefaultMasterData() MasterData {
	return MasterData{
		GSTRates: []GSTRateSlab{
			{Value: 0, Label: "0%"},
			{Value: 5, Label: "5%"},
			{Value: 12, Label: "12%"},
			{Value: 18, Label: "18%"},
			{Value: 28, Label: "28%"},
		},
		HSNCodes: []HSNEntry{
			{Code: "6101", Description: "Men's or boys' overcoats, anoraks, windcheaters"},
			{Code: "6102", Description: "Women's or girls' overcoats, anoraks, windcheaters"},
			{Code: "6103", Description: "Men's or boys' suits, ensembles, jackets, trousers"},
			{Code: "6104", Description: "Women's or girls' suits, ensembles, jackets, dresses, skirts"},
			{Code: "6105", Description: "Men's or boys' shirts, knitted or crocheted"},
			{Code: "6106", Description: "Women's or girls' blouses, shirts, knitted or crocheted"},
			{Code: "6109", Description: "T-shirts, singlets and other vests, knitted or crocheted"},
			{Code: "6110", Description: "Jerseys, pullovers, cardigans, waistcoats"},
			{Code: "6111", Description: "Babies' garments and clothing accessories"},
			{Code: "6112", Description: "Track suits, ski suits and swimwear, knitted"},
			{Code: "6114", Description: "Other garments, knitted or crocheted"},
			{Code: "6115", Description: "Panty hose, tights, stockings, socks"},
			{Code: "6116", Description: "Gloves, mittens and mitts, knitted or crocheted"},
			{Code: "6117", Description: "Other made up clothing accessories"},
		},
	}
}

// MasterDataHolder serves the current master data and swaps it on file change.
type MasterDataHolder struct {
	current atomic.Value // holds MasterData
}

// NewStaticMasterDataHolder returns a holder that never reloads.
func NewStaticMasterDataHolder(data MasterData) *MasterDataHolder {
	holder := &MasterDataHolder{}
	holder.current.Store(data)
	return holder
}

func NewMasterDataHolder(cfg Config, log *zap.Logger) (*MasterDataHolder, error) {
	log = log.Named("config.masterdata")
	v := viper.New()

	v.SetConfigName("masterdata")
	v.SetConfigType("yml")
	if cfg.MasterDataDir != "" {
		v.AddConfigPath(cfg.MasterDataDir)
	}
	v.AddConfigPath("/etc/gstbilling")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GSTBILLING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read master data: %w", err)
		}
		fileFound = false
		defaults := DefaultMasterData()
		v.SetDefault("masterdata.gstRates", defaults.GSTRates)
		v.SetDefault("masterdata.hsnCodes", defaults.HSNCodes)
	}

	data, err := unmarshalMasterData(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticMasterDataHolder(data)

	if fileFound && cfg.MasterDataWatch {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := unmarshalMasterData(v)
			if err != nil {
				log.Warn("master data reload rejected", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("master data reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

func (h *MasterDataHolder) Get() MasterData {
	return h.current.Load().(MasterData)
}

func unmarshalMasterData(v *viper.Viper) (MasterData, error) {
	var data MasterData
	if err := v.UnmarshalKey("masterdata", &data); err != nil {
		return MasterData{}, fmt.Errorf("decode master data: %w", err)
	}
	if err := validateMasterData(data); err != nil {
		return MasterData{}, err
	}
	return data, nil
}

func validateMasterData(data MasterData) error {
	if len(data.GSTRates) == 0 {
		return errors.New("masterdata.gstRates cannot be empty")
	}
	for _, slab := range data.GSTRates {
		if slab.Value < 0 || slab.Value > 100 {
			return fmt.Errorf("masterdata.gstRates: %v out of range", slab.Value)
		}
	}
	for _, entry := range data.HSNCodes {
		if strings.TrimSpace(entry.Code) == "" {
			return errors.New("masterdata.hsnCodes: empty code")
		}
	}
	return nil
}
