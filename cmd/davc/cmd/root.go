package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/davc/cacheclient"
	"github.com/xxxsen/davc/config"
	"github.com/xxxsen/davc/davclient"
	"github.com/xxxsen/davc/transfer"
)

const (
	defaultConfigFileEnv = "DAVC_CONFIG"
)

var cmds []CreateFunc

type Context struct {
	Config   *config.Config
	Client   davclient.IClient
	Transfer *transfer.Transfer
}

type CreateFunc func(ctx *Context) *cobra.Command

func register(cr CreateFunc) {
	cmds = append(cmds, cr)
}

func loadConfig(cfgs []string) (*config.Config, error) {
	var lastErr error = fmt.Errorf("no config file specified")
	for _, cfg := range cfgs {
		if len(cfg) == 0 {
			continue
		}
		c, err := config.Parse(cfg)
		if err != nil {
			lastErr = fmt.Errorf("parse config failed, file:%s, err:%w", cfg, err)
			continue
		}
		return c, nil
	}
	return nil, fmt.Errorf("no valid config file found, last err:%w", lastErr)
}

func connect(ctx context.Context, c *config.Config) (davclient.IClient, error) {
	cli, err := davclient.New(
		davclient.WithTimeout(time.Duration(c.Timeout)*time.Second),
		davclient.WithStrictListing(c.StrictListing),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Connect(ctx, c.Location, c.Username, c.Password); err != nil {
		return nil, fmt.Errorf("connect to %s failed, err:%w", c.Location, err)
	}
	return cli, nil
}

func wrapCache(cli davclient.IClient, c *config.CacheConfig) (davclient.IClient, error) {
	if !c.EnableListingCache && !c.EnableContentCache {
		return cli, nil
	}
	return cacheclient.New(cli, &cacheclient.CacheConfig{
		DisableListingCache: !c.EnableListingCache,
		ListingCacheSize:    c.ListingCacheSize,
		ListingCacheTTL:     time.Duration(c.ListingCacheTTL) * time.Second,
		DisableContentCache: !c.EnableContentCache,
		ContentCacheSize:    c.ContentCacheSize,
		ContentKeySizeLimit: c.ContentKeySizeLimit,
	})
}

func initContext(ctx *Context, cfgs []string) error {
	c, err := loadConfig(cfgs)
	if err != nil {
		return err
	}
	ctx.Config = c
	logitem := c.LogInfo
	logger.Init(logitem.File, logitem.Level, int(logitem.FileCount), int(logitem.FileSize), int(logitem.KeepDays), logitem.Console)
	cli, err := connect(context.Background(), c)
	if err != nil {
		return err
	}
	cli, err = wrapCache(cli, &c.Cache)
	if err != nil {
		return fmt.Errorf("init cache failed, err:%w", err)
	}
	ctx.Client = cli
	tr, err := transfer.New(
		transfer.WithThread(c.Thread),
		transfer.WithRetry(c.RetryTimes, 2*time.Second),
		transfer.WithClientFactory(func(fctx context.Context) (davclient.IClient, error) {
			return connect(fctx, c)
		}),
	)
	if err != nil {
		return err
	}
	ctx.Transfer = tr
	return nil
}

func NewRoot() *cobra.Command {
	var configFile string
	ctx := &Context{}
	var rootCmd = &cobra.Command{
		Use:           "davc",
		Short:         "WebDAV CLI tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	for _, cr := range cmds {
		rootCmd.AddCommand(cr(ctx))
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		envConfigFile, _ := os.LookupEnv(defaultConfigFileEnv)
		return initContext(ctx, []string{configFile, envConfigFile, "/etc/davc/davc_config.json", "C:/davc/davc_config.json"})
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
	return rootCmd
}
